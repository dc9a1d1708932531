package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/nikogura/resume-forge/pkg/assembler"
	"github.com/nikogura/resume-forge/pkg/config"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var splitCmd = &cobra.Command{
	Use:   "split <profile> [section]",
	Short: "Split resume.json arrays into fragment files",
	Long: `Split a profile's resume.json into fragment files, the inverse of build
assembly. With a section argument, only that array is exploded into
<profile>/<section>/<i>.json files. Without one, every fragmentable array
section is exploded and the basics object is extracted to basics.json.

Example:
  resume-forge split consulting work
  resume-forge split consulting`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSplit,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(splitCmd)
}

func runSplit(cmd *cobra.Command, args []string) (err error) {
	var cfg config.Config
	cfg, err = config.Load(getConfigFile())
	if err != nil {
		err = errors.Wrap(err, "failed to load config")
		return err
	}

	err = cfg.Validate()
	if err != nil {
		err = errors.Wrap(err, "config validation failed")
		return err
	}

	profile := args[0]
	profileDir := filepath.Join(cfg.ProfilesDir, profile)

	if len(args) == 2 {
		section := args[1]
		if !isFragmentable(section, cfg.Sections) {
			err = errors.Errorf("section %q is not fragmentable", section)
			return err
		}

		var count int
		count, err = assembler.SplitSection(profileDir, section)
		if err != nil {
			return err
		}

		fmt.Printf("Split %d items from %q in %s\n", count, section, profile)
		return err
	}

	var results []assembler.SplitResult
	results, err = assembler.SplitAll(profileDir, cfg.Sections)
	if err != nil {
		return err
	}

	for _, result := range results {
		if result.Section == "basics" {
			fmt.Printf("Extracted basics to basics.json in %s\n", profile)
			continue
		}
		fmt.Printf("Split %d items from %q in %s\n", result.Count, result.Section, profile)
	}

	if len(results) == 0 {
		fmt.Printf("Nothing to split in %s\n", profile)
	}

	return err
}

// isFragmentable reports whether section is in the configured list.
func isFragmentable(section string, sections []string) (ok bool) {
	for _, candidate := range sections {
		if candidate == section {
			ok = true
			return ok
		}
	}
	return ok
}
