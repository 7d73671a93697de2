package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
)

const (
	// EnvPrefix marks environment overrides; "__" separates nested keys, so
	// GROUPNAMES_MATH__MAX_DEPTH sets math.max_depth.
	EnvPrefix    = "GROUPNAMES_"
	envNestDelim = "__"
)

func configFilenames() []string {
	return []string{"groupnames.toml", ".groupnames.toml"}
}

// Load reads the config at configPath, or the nearest config file above the working
// directory when configPath is empty. Defaults apply first, then the file, then the
// environment.
func Load(configPath string) (*Config, error) {
	resolvedPath, err := resolveConfigPath(configPath)
	if err != nil {
		return nil, err
	}

	absConfigPath, err := filepath.Abs(resolvedPath)
	if err != nil {
		return nil, oops.Wrapf(err, "resolving absolute config path")
	}

	k := koanf.New(".")

	if loadErr := k.Load(structs.Provider(Default(), "koanf"), nil); loadErr != nil {
		return nil, oops.
			Code("CONFIG_INVALID").
			Wrapf(loadErr, "loading config defaults")
	}

	if loadErr := k.Load(file.Provider(absConfigPath), toml.Parser()); loadErr != nil {
		return nil, oops.
			Code("CONFIG_INVALID").
			With("path", absConfigPath).
			Hint("Fix TOML syntax and required fields in your config").
			Wrapf(loadErr, "loading config from %q", absConfigPath)
	}

	return finish(k, filepath.Dir(absConfigPath), absConfigPath)
}

// LoadOrDefault behaves like Load, except that a missing config is not an error when
// no explicit path was given: defaults and the environment are used, rooted at the
// working directory.
func LoadOrDefault(configPath string) (*Config, error) {
	if configPath != "" {
		return Load(configPath)
	}

	if _, err := FindConfigFile(); err == nil {
		return Load("")
	}

	dir, err := os.Getwd()
	if err != nil {
		return nil, oops.Wrapf(err, "getting working directory")
	}

	k := koanf.New(".")
	if loadErr := k.Load(structs.Provider(Default(), "koanf"), nil); loadErr != nil {
		return nil, oops.
			Code("CONFIG_INVALID").
			Wrapf(loadErr, "loading config defaults")
	}

	return finish(k, dir, "")
}

func finish(k *koanf.Koanf, configDir, configPath string) (*Config, error) {
	if loadErr := k.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envKey,
	}), nil); loadErr != nil {
		return nil, oops.
			Code("CONFIG_INVALID").
			Wrapf(loadErr, "loading config from environment")
	}

	cfg := &Config{}
	if unmarshalErr := k.Unmarshal("", cfg); unmarshalErr != nil {
		return nil, oops.
			Code("CONFIG_INVALID").
			With("path", configPath).
			Hint("Fix config structure to match the groupnames schema").
			Wrapf(unmarshalErr, "decoding config")
	}

	cfg.ConfigDir = configDir
	cfg.ApplyDefaults()

	if valErr := cfg.Validate(); valErr != nil {
		return nil, valErr
	}

	if !filepath.IsAbs(cfg.Output) {
		cfg.Output = filepath.Clean(filepath.Join(cfg.ConfigDir, cfg.Output))
	}

	return cfg, nil
}

// envKey maps GROUPNAMES_MATH__MAX_DEPTH to math.max_depth.
func envKey(key, value string) (string, any) {
	key = strings.TrimPrefix(key, EnvPrefix)
	if key == "" {
		return "", nil
	}

	parts := strings.Split(strings.ToLower(key), envNestDelim)
	return strings.Join(parts, "."), value
}

func FindConfigFile() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", oops.Wrapf(err, "getting working directory")
	}

	for {
		foundPath, found, findErr := findConfigInDirectory(dir)
		if findErr != nil {
			return "", findErr
		}

		if found {
			return foundPath, nil
		}

		parentDir := filepath.Dir(dir)
		if parentDir == dir {
			return "", oops.
				Code("CONFIG_NOT_FOUND").
				Hint("Run 'groupnames init' to create a config file").
				Errorf("no groupnames.toml or .groupnames.toml found in any parent directory")
		}

		dir = parentDir
	}
}

func resolveConfigPath(configPath string) (string, error) {
	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return "", oops.
					Code("CONFIG_NOT_FOUND").
					With("path", configPath).
					Hint("Create the file or pass a valid --config path").
					Errorf("config file %q does not exist", configPath)
			}

			return "", oops.Wrapf(err, "checking config file %q", configPath)
		}

		return configPath, nil
	}

	return FindConfigFile()
}

func findConfigInDirectory(dir string) (string, bool, error) {
	for _, name := range configFilenames() {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, oops.Wrapf(err, "checking for config file at %q", path)
		}
	}

	return "", false, nil
}
