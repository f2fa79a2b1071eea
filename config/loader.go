package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	syncerrors "github.com/pitstop/sync/errors"
)

// FileName is the configuration file searched for.
const FileName = "pitstop.yml"

// Load reads a configuration file, layering it over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, syncerrors.ConfigNotFound(path)
		}
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, syncerrors.ConfigInvalid(err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return nil, syncerrors.ConfigValidation(err.Error())
	}
	return cfg, nil
}

// LoadDefault finds and loads the nearest config file, walking up from
// the working directory. Returns the defaults when none exists.
func LoadDefault() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	path, ok := FindConfigFile(cwd)
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// FindConfigFile walks up from dir looking for FileName.
func FindConfigFile(dir string) (string, bool) {
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
