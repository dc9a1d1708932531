package cmd

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/nikogura/resume-forge/pkg/builder"
	"github.com/nikogura/resume-forge/pkg/config"
	"github.com/nikogura/resume-forge/pkg/renderer"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var buildProfile string

//nolint:gochecknoglobals // Cobra boilerplate
var buildLanguage string

//nolint:gochecknoglobals // Cobra boilerplate
var buildSkipPDF bool

//nolint:gochecknoglobals // Cobra boilerplate
var buildJobs int

//nolint:gochecknoglobals // Cobra boilerplate
var buildCmd = &cobra.Command{
	Use:   "build [base-dir]",
	Short: "Build resolved resume documents and PDFs",
	Long: `Build every profile found under the profiles directory, producing
dist/<profile>/<language>/<LASTNAME-FIRSTNAME>.json and the matching PDF
for each language detected in the profile's translation maps.

A broken profile or an unresolvable (profile, language) pair is reported
and skipped; the rest of the run continues.

Example:
  resume-forge build
  resume-forge build ~/resumes --profile consulting
  resume-forge build --language fr --skip-pdf`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringVar(&buildProfile, "profile", "", "Build only this profile (default all profiles)")
	buildCmd.Flags().StringVar(&buildLanguage, "language", "", "Build only this language (default all detected languages)")
	buildCmd.Flags().BoolVar(&buildSkipPDF, "skip-pdf", false, "Write resolved JSON only, skip PDF rendering")
	buildCmd.Flags().IntVar(&buildJobs, "jobs", 0, "Max concurrent builds (default number of CPUs)")
}

func runBuild(cmd *cobra.Command, args []string) (err error) {
	ctx := context.Background()
	ctx, cancel := context.WithTimeout(ctx, 30*time.Minute)
	defer cancel()

	var cfg config.Config
	cfg, err = config.Load(getConfigFile())
	if err != nil {
		err = errors.Wrap(err, "failed to load config")
		return err
	}

	if len(args) == 1 {
		cfg.BaseDir = args[0]
	}
	if buildJobs > 0 {
		cfg.Concurrency = buildJobs
	}

	err = cfg.Validate()
	if err != nil {
		err = errors.Wrap(err, "config validation failed")
		return err
	}

	if getVerbose() {
		fmt.Printf("Profiles directory: %s\n", cfg.ProfilesDir)
		fmt.Printf("Output directory: %s\n", cfg.DistDir)
	}

	skipPDF := buildSkipPDF
	var themeDir string
	if !skipPDF {
		themeDir, err = ensureTheme(ctx, cfg)
		if err != nil {
			fmt.Printf("Warning: theme installation failed: %v\n", err)
			fmt.Println("Continuing with JSON output only")
			skipPDF = true
			err = nil
		}
	}

	var buildSpinner *spinner
	if !getVerbose() {
		buildSpinner = newSpinner("Building resumes...")
		buildSpinner.start()
	} else {
		fmt.Println("Building resumes...")
	}

	b := builder.New(cfg, themeDir, skipPDF)
	var outputs []string
	var failures []builder.Failure
	outputs, failures, err = b.Run(ctx, buildProfile, buildLanguage)

	if buildSpinner != nil {
		buildSpinner.stopSpinner()
	}

	if err != nil {
		err = errors.Wrap(err, "build failed")
		return err
	}

	for _, output := range outputs {
		fmt.Printf("Built %s\n", output)
	}

	for _, failure := range failures {
		target := failure.Profile
		if failure.Language != "" {
			target = failure.Profile + "/" + failure.Language
		}
		fmt.Printf("Warning: skipped %s: %v\n", target, failure.Err)
	}

	if len(outputs) == 0 && len(failures) > 0 {
		err = errors.Errorf("all builds failed (%d failures)", len(failures))
		return err
	}

	fmt.Printf("\nBuild complete: %d outputs, %d skipped\n", len(outputs), len(failures))

	return err
}

// ensureTheme installs the configured theme if needed.
func ensureTheme(ctx context.Context, cfg config.Config) (themeDir string, err error) {
	if getVerbose() {
		fmt.Printf("Ensuring theme %s is installed...\n", cfg.Theme.Name)
	}

	themeDir, err = renderer.EnsureTheme(ctx, cfg.BaseDir, cfg.Theme.Repo, cfg.Theme.Name)
	if err != nil {
		return themeDir, err
	}

	if getVerbose() {
		fmt.Printf("Theme installed at %s\n", themeDir)
	}

	return themeDir, err
}

// spinner provides a simple text-based progress indicator.
type spinner struct {
	message string
	stop    chan bool
	done    chan bool
	mu      sync.Mutex
	active  bool
}

func newSpinner(message string) (s *spinner) {
	s = &spinner{
		message: message,
		stop:    make(chan bool),
		done:    make(chan bool),
	}
	return s
}

func (s *spinner) start() {
	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		return
	}
	s.active = true
	s.mu.Unlock()

	go func() {
		chars := []string{"|", "/", "-", "\\"}
		i := 0
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()

		fmt.Printf("%s ", s.message)
		for {
			select {
			case <-s.stop:
				// Clear the line and ensure cursor is at start of new line
				fmt.Printf("\r%s\r", strings.Repeat(" ", len(s.message)+2))
				s.done <- true
				return
			case <-ticker.C:
				fmt.Printf("\r%s %s", s.message, chars[i%len(chars)])
				i++
			}
		}
	}()
}

func (s *spinner) stopSpinner() {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	s.stop <- true
	<-s.done

	s.mu.Lock()
	s.active = false
	s.mu.Unlock()
}
