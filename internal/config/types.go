package config

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"

	"github.com/g5becks/groupnames/internal/mathnode"
	"github.com/g5becks/groupnames/internal/presentation"
)

const (
	DefaultOutput     = ".groupnames"
	DefaultParallel   = 3
	DefaultMaxRecords = 100000
	DefaultLogLevel   = "info"

	SourceTypeURL  = "url"
	SourceTypeFile = "file"

	validationTagRequiredIf = "required_if"
)

func DefaultPatterns() []string {
	return []string{"**/*.html", "**/*.htm"}
}

type Config struct {
	Output       string             `koanf:"output"       validate:"required"`
	Parallel     int                `koanf:"parallel"     validate:"gte=1,lte=64"`
	MaxRecords   int                `koanf:"max_records"  validate:"gte=1"`
	Math         MathConfig         `koanf:"math"`
	Presentation PresentationConfig `koanf:"presentation"`
	Log          LogConfig          `koanf:"log"`
	Sources      map[string]Source  `koanf:"sources"`
	ConfigDir    string             `koanf:"-"`
}

type MathConfig struct {
	MaxDepth int `koanf:"max_depth" validate:"gte=1"`
}

type PresentationConfig struct {
	SignedExponents        bool `koanf:"signed_exponents"`
	AllowUnknownGenerators bool `koanf:"allow_unknown_generators"`
}

type LogConfig struct {
	Level string `koanf:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `koanf:"json"`
}

type Source struct {
	Type     string   `koanf:"type"     validate:"required,oneof=url file"`
	URL      string   `koanf:"url"      validate:"required_if=Type url,omitempty,url"`
	Path     string   `koanf:"path"     validate:"required_if=Type file"`
	Label    string   `koanf:"label"`
	Patterns []string `koanf:"patterns"`
	Exclude  []string `koanf:"exclude"`
}

// Default is the configuration used when no file overrides a value.
func Default() *Config {
	return &Config{
		Output:     DefaultOutput,
		Parallel:   DefaultParallel,
		MaxRecords: DefaultMaxRecords,
		Math:       MathConfig{MaxDepth: mathnode.DefaultMaxDepth},
		Presentation: PresentationConfig{
			SignedExponents: true,
		},
		Log: LogConfig{Level: DefaultLogLevel},
	}
}

func newValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

func (c *Config) ApplyDefaults() {
	if c.Output == "" {
		c.Output = DefaultOutput
	}

	if c.Sources == nil {
		c.Sources = map[string]Source{}
	}

	for sourceName, sourceCfg := range c.Sources {
		if sourceCfg.Type == SourceTypeFile && len(sourceCfg.Patterns) == 0 {
			sourceCfg.Patterns = DefaultPatterns()
		}

		c.Sources[sourceName] = sourceCfg
	}
}

func (c *Config) Validate() error {
	v := newValidator()

	if valErr := v.Struct(c); valErr != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(valErr, &validationErrors) || len(validationErrors) == 0 {
			return oops.
				Code("CONFIG_INVALID").
				Wrapf(valErr, "validating config")
		}

		return mapSettingError(validationErrors[0])
	}

	for sourceName, sourceCfg := range c.Sources {
		valErr := v.Struct(sourceCfg)
		if valErr == nil {
			continue
		}

		var validationErrors validator.ValidationErrors
		if !errors.As(valErr, &validationErrors) || len(validationErrors) == 0 {
			return oops.
				Code("CONFIG_INVALID").
				With("source", sourceName).
				Wrapf(valErr, "validating source %q", sourceName)
		}

		return mapValidationError(sourceName, sourceCfg, validationErrors[0])
	}

	return nil
}

func mapSettingError(fe validator.FieldError) error {
	field := settingName(fe.Namespace())

	switch fe.Tag() {
	case "oneof":
		return oops.
			Code("CONFIG_INVALID").
			With("field", field).
			With("value", fe.Value()).
			Hint("Allowed values: "+fe.Param()).
			Errorf("invalid value %v for %q", fe.Value(), field)

	case "gte", "lte":
		return oops.
			Code("CONFIG_INVALID").
			With("field", field).
			With("value", fe.Value()).
			Hint("Use a value between 1 and the documented maximum").
			Errorf("%q is out of range: %v", field, fe.Value())

	default:
		return oops.
			Code("CONFIG_INVALID").
			With("field", field).
			With("tag", fe.Tag()).
			Errorf("validation failed for %q", field)
	}
}

func mapValidationError(sourceName string, sourceCfg Source, fe validator.FieldError) error {
	field := strings.ToLower(fe.Field())

	switch {
	case fe.Tag() == "oneof" && field == "type":
		return oops.
			Code("UNKNOWN_SOURCE_TYPE").
			With("source", sourceName).
			With("type", sourceCfg.Type).
			Hint("Supported types: url, file").
			Errorf("unknown source type %q for source %q", sourceCfg.Type, sourceName)

	case fe.Tag() == "required" && field == "type":
		return oops.
			Code("CONFIG_INVALID").
			With("source", sourceName).
			With("field", "type").
			Hint("Set type = \"url\" or type = \"file\"").
			Errorf("missing type for source %q", sourceName)

	case fe.Tag() == validationTagRequiredIf && field == "url":
		return oops.
			Code("CONFIG_INVALID").
			With("source", sourceName).
			With("field", "url").
			Hint("Set url for url sources").
			Errorf("missing url for source %q", sourceName)

	case fe.Tag() == "url":
		return oops.
			Code("CONFIG_INVALID").
			With("source", sourceName).
			With("field", "url").
			With("value", sourceCfg.URL).
			Hint("Use an absolute http(s) URL").
			Errorf("invalid url %q for source %q", sourceCfg.URL, sourceName)

	case fe.Tag() == validationTagRequiredIf && field == "path":
		return oops.
			Code("CONFIG_INVALID").
			With("source", sourceName).
			With("field", "path").
			Hint("Set path to a saved page or a directory of pages").
			Errorf("missing path for source %q", sourceName)

	default:
		return oops.
			Code("CONFIG_INVALID").
			With("source", sourceName).
			With("field", field).
			With("tag", fe.Tag()).
			Errorf("validation failed for field %q in source %q", field, sourceName)
	}
}

// settingName turns "Config.Math.MaxDepth" into "math.max_depth".
func settingName(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}

	for i, part := range parts {
		parts[i] = snakeCase(part)
	}
	return strings.Join(parts, ".")
}

func snakeCase(s string) string {
	var buf strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				buf.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		buf.WriteRune(r)
	}
	return buf.String()
}

// SourcePath resolves a file source path against the config directory.
func (c *Config) SourcePath(sourceCfg Source) string {
	if sourceCfg.Path == "" || filepath.IsAbs(sourceCfg.Path) {
		return sourceCfg.Path
	}
	return filepath.Join(c.ConfigDir, sourceCfg.Path)
}

// OutputDir resolves the output directory against the config directory.
func (c *Config) OutputDir() string {
	if filepath.IsAbs(c.Output) {
		return c.Output
	}
	return filepath.Join(c.ConfigDir, c.Output)
}

func (c *Config) MathOptions() mathnode.Options {
	return mathnode.Options{MaxDepth: c.Math.MaxDepth}
}

func (c *Config) PresentationOptions() presentation.Options {
	return presentation.Options{
		SignedExponents:        c.Presentation.SignedExponents,
		AllowUnknownGenerators: c.Presentation.AllowUnknownGenerators,
	}
}
