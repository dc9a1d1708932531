package renderer

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/pkg/errors"
)

// EnsureTheme makes sure the jsonresume theme is installed under
// baseDir/node_modules, cloning and installing it when missing. The
// returned directory is what RenderPDF expects as its themeDir.
func EnsureTheme(ctx context.Context, baseDir, repo, name string) (themeDir string, err error) {
	themeDir = filepath.Join(baseDir, "node_modules", name)

	if _, statErr := os.Stat(themeDir); statErr == nil {
		return themeDir, err
	}

	err = os.MkdirAll(filepath.Dir(themeDir), 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create node_modules directory in %s", baseDir)
		return themeDir, err
	}

	cmd := exec.CommandContext(ctx, "git", "clone", repo, themeDir)
	var output []byte
	output, err = cmd.CombinedOutput()
	if err != nil {
		err = errors.Wrapf(err, "failed to clone theme %s: %s", repo, string(output))
		return themeDir, err
	}

	err = installDependencies(ctx, themeDir)
	return themeDir, err
}

// installDependencies runs pnpm install in the theme directory, falling
// back to npm when pnpm is unavailable.
func installDependencies(ctx context.Context, themeDir string) (err error) {
	for _, tool := range []string{"pnpm", "npm"} {
		if _, lookErr := exec.LookPath(tool); lookErr != nil {
			continue
		}

		cmd := exec.CommandContext(ctx, tool, "install")
		cmd.Dir = themeDir

		var output []byte
		output, err = cmd.CombinedOutput()
		if err == nil {
			return err
		}
		err = errors.Wrapf(err, "%s install failed: %s", tool, string(output))
	}

	if err == nil {
		err = errors.New("no package manager found (install pnpm or npm)")
	}

	return err
}
