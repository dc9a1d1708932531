package renderer

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/pkg/errors"
)

// RenderPDF converts a resolved resume JSON document to PDF by invoking
// the external resume-cli exporter with a jsonresume theme directory.
func RenderPDF(ctx context.Context, resumeJSON, outputPath, themeDir string) (err error) {
	err = validateFiles(resumeJSON, themeDir)
	if err != nil {
		return err
	}

	outputDir := filepath.Dir(outputPath)
	err = os.MkdirAll(outputDir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create output directory: %s", outputDir)
		return err
	}

	var argv []string
	argv, err = resumeCommand()
	if err != nil {
		return err
	}

	args := append(argv[1:], outputPath, "--resume", resumeJSON, "--theme", themeDir)
	cmd := exec.CommandContext(ctx, argv[0], args...)

	var output []byte
	output, err = cmd.CombinedOutput()
	if err != nil {
		err = errors.Wrapf(err, "resume export failed: %s", string(output))
		return err
	}

	return err
}

// resumeCommand locates the resume-cli entry point, preferring a global
// resume binary and falling back to npx.
func resumeCommand() (argv []string, err error) {
	candidates := [][]string{
		{"resume", "export"},
		{"npx", "resume-cli", "export"},
	}

	for _, candidate := range candidates {
		_, lookErr := exec.LookPath(candidate[0])
		if lookErr == nil {
			argv = candidate
			return argv, err
		}
	}

	err = errors.New("resume-cli not found in PATH (install resume-cli or npx to generate PDFs)")
	return argv, err
}

// validateFiles checks that required paths exist.
func validateFiles(paths ...string) (err error) {
	for _, path := range paths {
		_, err = os.Stat(path)
		if os.IsNotExist(err) {
			err = errors.Errorf("file not found: %s", path)
			return err
		}
	}
	return err
}

// WriteDocument writes a marshaled resume document to a file, creating
// parent directories as needed.
func WriteDocument(data []byte, outputPath string) (err error) {
	outputDir := filepath.Dir(outputPath)
	err = os.MkdirAll(outputDir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create output directory: %s", outputDir)
		return err
	}

	err = os.WriteFile(outputPath, data, 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write document: %s", outputPath)
		return err
	}

	return err
}
