package builder

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/nikogura/resume-forge/pkg/assembler"
	"github.com/nikogura/resume-forge/pkg/config"
	"github.com/nikogura/resume-forge/pkg/renderer"
	"github.com/nikogura/resume-forge/pkg/resume"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Builder orchestrates per-profile, per-language resume builds: assemble
// the fragments, detect languages, resolve translations, derive the
// output name, write the dist JSON, and render the PDF.
type Builder struct {
	cfg      config.Config
	themeDir string
	skipPDF  bool

	mu       sync.Mutex
	outputs  []string
	failures []Failure
}

// Failure records one profile or (profile, language) pair that could not
// be built. Language is empty when assembly of the whole profile failed.
type Failure struct {
	Profile  string
	Language string
	Err      error
}

// pair is one independent unit of work. Pairs of the same profile share
// the merged document read-only; resolution allocates fresh structures.
type pair struct {
	profile  string
	language string
	merged   map[string]interface{}
}

// New creates a Builder. themeDir is ignored when skipPDF is set.
func New(cfg config.Config, themeDir string, skipPDF bool) (b *Builder) {
	b = &Builder{
		cfg:      cfg,
		themeDir: themeDir,
		skipPDF:  skipPDF,
	}
	return b
}

// Run builds every requested (profile, language) pair. A non-empty
// profile narrows the build to that profile; a non-empty language skips
// detection and builds only that language. Failures of individual pairs
// are collected and returned, never aborting the rest of the run; err is
// non-nil only for structural problems such as a missing profiles root.
func (b *Builder) Run(ctx context.Context, profile, language string) (outputs []string, failures []Failure, err error) {
	var profiles []string
	if profile != "" {
		profiles = []string{profile}
	} else {
		profiles, err = assembler.DiscoverProfiles(b.cfg.ProfilesDir)
		if err != nil {
			return outputs, failures, err
		}
		if len(profiles) == 0 {
			err = errors.Errorf("no profiles found in %s", b.cfg.ProfilesDir)
			return outputs, failures, err
		}
	}

	pairs := b.collectPairs(profiles, language)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(b.cfg.Concurrency)

	for _, p := range pairs {
		p := p
		group.Go(func() (groupErr error) {
			buildErr := b.buildPair(groupCtx, p)
			if buildErr != nil {
				b.recordFailure(p.profile, p.language, buildErr)
			}
			// Pair failures never cancel the rest of the run.
			return groupErr
		})
	}
	_ = group.Wait()

	sort.Strings(b.outputs)
	outputs = b.outputs
	failures = b.failures

	return outputs, failures, err
}

// collectPairs assembles each profile once and fans it out into one work
// unit per language. Profiles that fail to assemble are recorded and
// skipped.
func (b *Builder) collectPairs(profiles []string, language string) (pairs []pair) {
	for _, name := range profiles {
		merged, asmErr := assembler.Assemble(filepath.Join(b.cfg.ProfilesDir, name), b.cfg.Sections)
		if asmErr != nil {
			b.recordFailure(name, "", asmErr)
			continue
		}

		var langs []string
		if language != "" {
			langs = []string{strings.ToLower(language)}
		} else {
			langs = resume.DetectLanguages(merged)
		}

		for _, lang := range langs {
			pairs = append(pairs, pair{profile: name, language: lang, merged: merged})
		}
	}

	return pairs
}

// buildPair produces dist/<profile>/<language>/<NAME>.json and, unless
// PDF output is skipped, the matching .pdf.
func (b *Builder) buildPair(ctx context.Context, p pair) (err error) {
	resolved := resume.Resolve(p.merged, p.language)

	var data []byte
	data, err = json.MarshalIndent(resolved, "", "  ")
	if err != nil {
		err = errors.Wrapf(err, "failed to marshal resolved document for %s/%s", p.profile, p.language)
		return err
	}

	var name string
	name, err = resume.OutputName(data)
	if err != nil {
		return err
	}

	outDir := filepath.Join(b.cfg.DistDir, p.profile, p.language)
	jsonPath := filepath.Join(outDir, name+".json")
	err = renderer.WriteDocument(data, jsonPath)
	if err != nil {
		return err
	}
	b.recordOutput(jsonPath)

	if b.skipPDF {
		return err
	}

	pdfPath := filepath.Join(outDir, name+".pdf")
	err = renderer.RenderPDF(ctx, jsonPath, pdfPath, b.themeDir)
	if err != nil {
		return err
	}
	b.recordOutput(pdfPath)

	return err
}

func (b *Builder) recordOutput(path string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.outputs = append(b.outputs, path)
}

func (b *Builder) recordFailure(profile, language string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = append(b.failures, Failure{Profile: profile, Language: language, Err: err})
}
