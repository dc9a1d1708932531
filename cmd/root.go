package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var verbose bool

//nolint:gochecknoglobals // Cobra boilerplate
var configFile string

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "resume-forge",
	Short: "Build per-language resume documents from fragmented JSON profiles",
	Long: `resume-forge assembles JSON-Resume documents from fragmented profile
directories, resolves embedded translations for every detected language,
and renders one PDF per (profile, language) pair via resume-cli.

A profile directory holds a mandatory basics.json, an optional resume.json
for non-fragmented fields, and one directory per array section (work,
education, ...) containing numerically ordered fragment files. Fields may
hold translation maps ({"en": ..., "fr": ...}) at any depth; each detected
language produces its own fully resolved output document.`,
}

// Execute runs the root command.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is $HOME/.resume-forge/config.json)")
}

// getVerbose returns the verbose flag value.
func getVerbose() (result bool) {
	result = verbose
	return result
}

// getConfigFile returns the config file path.
func getConfigFile() (result string) {
	result = configFile
	return result
}
