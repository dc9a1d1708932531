package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"

	"github.com/joho/godotenv"
	"github.com/nikogura/resume-forge/pkg/resume"
	"github.com/pkg/errors"
)

// Config represents the application configuration.
type Config struct {
	BaseDir     string      `json:"base_dir,omitempty"`
	ProfilesDir string      `json:"profiles_dir,omitempty"`
	DistDir     string      `json:"dist_dir,omitempty"`
	Theme       ThemeConfig `json:"theme,omitempty"`
	Sections    []string    `json:"sections,omitempty"`
	Concurrency int         `json:"concurrency,omitempty"`
}

// ThemeConfig identifies the jsonresume theme handed to the renderer.
type ThemeConfig struct {
	Repo string `json:"repo,omitempty"`
	Name string `json:"name,omitempty"`
}

// ThemeDir returns the directory the theme installs into.
func (c *Config) ThemeDir() (dir string) {
	dir = filepath.Join(c.BaseDir, "node_modules", c.Theme.Name)
	return dir
}

// Load reads configuration from file with environment variable
// overrides. A missing file at the default location is not an error;
// every field has a workable default applied by Validate. An explicitly
// requested config file must exist.
func Load(configPath string) (cfg Config, err error) {
	// A .env alongside the working directory may carry overrides.
	_ = godotenv.Load()

	explicit := configPath != ""
	path := configPath
	if path == "" {
		var homeDir string
		homeDir, err = os.UserHomeDir()
		if err != nil {
			err = errors.Wrap(err, "failed to get user home directory")
			return cfg, err
		}
		path = filepath.Join(homeDir, ".resume-forge", "config.json")
	}

	var data []byte
	data, err = os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			err = nil
			applyEnvOverrides(&cfg)
			return cfg, err
		}
		err = errors.Wrapf(err, "failed to read config file: %s", path)
		return cfg, err
	}

	err = json.Unmarshal(data, &cfg)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse config file: %s", path)
		return cfg, err
	}

	applyEnvOverrides(&cfg)

	return cfg, err
}

// applyEnvOverrides lets the environment win over the config file.
func applyEnvOverrides(cfg *Config) {
	if baseDir := os.Getenv("RESUME_FORGE_BASE_DIR"); baseDir != "" {
		cfg.BaseDir = baseDir
	}
	if profilesDir := os.Getenv("RESUME_FORGE_PROFILES_DIR"); profilesDir != "" {
		cfg.ProfilesDir = profilesDir
	}
	if distDir := os.Getenv("RESUME_FORGE_DIST_DIR"); distDir != "" {
		cfg.DistDir = distDir
	}
	if themeRepo := os.Getenv("RESUME_FORGE_THEME_REPO"); themeRepo != "" {
		cfg.Theme.Repo = themeRepo
	}
	if themeName := os.Getenv("RESUME_FORGE_THEME_NAME"); themeName != "" {
		cfg.Theme.Name = themeName
	}
}

// Validate applies defaults for every unset field. Callers apply their
// flag overrides first, then validate.
func (c *Config) Validate() (err error) {
	if c.BaseDir == "" {
		c.BaseDir = "."
	}

	if c.ProfilesDir == "" {
		c.ProfilesDir = filepath.Join(c.BaseDir, "profiles")
	}

	if c.DistDir == "" {
		c.DistDir = filepath.Join(c.BaseDir, "dist")
	}

	if c.Theme.Repo == "" {
		c.Theme.Repo = "https://github.com/ylanallouche/jsonresume-theme-awesomish.git"
	}

	if c.Theme.Name == "" {
		c.Theme.Name = "jsonresume-theme-awesomish"
	}

	if len(c.Sections) == 0 {
		c.Sections = resume.FragmentableSections
	}

	if c.Concurrency <= 0 {
		c.Concurrency = runtime.NumCPU()
	}

	return err
}

// InitConfig creates a default configuration file.
func InitConfig(configPath string) (err error) {
	path := configPath
	if path == "" {
		var homeDir string
		homeDir, err = os.UserHomeDir()
		if err != nil {
			err = errors.Wrap(err, "failed to get user home directory")
			return err
		}
		path = filepath.Join(homeDir, ".resume-forge", "config.json")
	}

	dir := filepath.Dir(path)
	err = os.MkdirAll(dir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create config directory: %s", dir)
		return err
	}

	_, err = os.Stat(path)
	if err == nil {
		err = errors.Errorf("config file already exists: %s", path)
		return err
	}

	defaultConfig := Config{
		BaseDir:     ".",
		ProfilesDir: "profiles",
		DistDir:     "dist",
		Theme: ThemeConfig{
			Repo: "https://github.com/ylanallouche/jsonresume-theme-awesomish.git",
			Name: "jsonresume-theme-awesomish",
		},
	}

	var data []byte
	data, err = json.MarshalIndent(defaultConfig, "", "  ")
	if err != nil {
		err = errors.Wrap(err, "failed to marshal default config")
		return err
	}

	err = os.WriteFile(path, data, 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write config file: %s", path)
		return err
	}

	return err
}
