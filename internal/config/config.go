// Package config loads typeforge settings with viper: built-in defaults,
// an optional config file, TYPEFORGE_* environment variables and command
// line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"typeforge/descriptor"
	"typeforge/internal/compiler"
	"typeforge/synth"
)

// EnvPrefix prefixes the environment variables, e.g. TYPEFORGE_LOG_LEVEL.
const EnvPrefix = "TYPEFORGE"

// Keys.
const (
	KeyPackage     = "package"
	KeyStrategy    = "strategy"
	KeyLoading     = "loading"
	KeyBackend     = "backend"
	KeyGoVersion   = "go_version"
	KeyLogLevel    = "log_level"
	KeyPretty      = "pretty"
	KeyRejectedDir = "rejected_dir"
	KeyRoot        = "root"
	KeyReferences  = "references"
)

// Compiler backends.
const (
	BackendChecker  = "checker"
	BackendPackages = "packages"
)

var ErrInvalid = errors.New("invalid configuration")

// Reference is a module made available to compiled units.
type Reference struct {
	Module  string `mapstructure:"module"`
	Dir     string `mapstructure:"dir"`
	Version string `mapstructure:"version"`
}

// Config holds the resolved settings.
type Config struct {
	Package     string      `mapstructure:"package"`
	Strategy    string      `mapstructure:"strategy"`
	Loading     string      `mapstructure:"loading"`
	Backend     string      `mapstructure:"backend"`
	GoVersion   string      `mapstructure:"go_version"`
	LogLevel    string      `mapstructure:"log_level"`
	Pretty      bool        `mapstructure:"pretty"`
	RejectedDir string      `mapstructure:"rejected_dir"`
	Root        string      `mapstructure:"root"`
	References  []Reference `mapstructure:"references"`
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault(KeyPackage, descriptor.DefaultPackage)
	v.SetDefault(KeyStrategy, "binary")
	v.SetDefault(KeyLoading, "live")
	v.SetDefault(KeyBackend, BackendChecker)
	v.SetDefault(KeyGoVersion, compiler.DefaultGoVersion)
	v.SetDefault(KeyLogLevel, zerolog.LevelInfoValue)
	v.SetDefault(KeyPretty, false)
	v.SetDefault(KeyRejectedDir, "")
	v.SetDefault(KeyRoot, ".")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return v
}

// flagKeys maps persistent flags to their keys.
var flagKeys = map[string]string{
	"package":   KeyPackage,
	"strategy":  KeyStrategy,
	"loading":   KeyLoading,
	"backend":   KeyBackend,
	"log-level": KeyLogLevel,
	"pretty":    KeyPretty,
	"root":      KeyRoot,
}

// Bind binds the flags of cmd that carry a configuration key. Flags the
// command does not define are ignored.
func Bind(v *viper.Viper, cmd *cobra.Command) error {
	for name, key := range flagKeys {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			f = cmd.PersistentFlags().Lookup(name)
		}

		if f == nil {
			continue
		}

		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding --%s: %w", name, err)
		}
	}

	return nil
}

// Load reads the config file at path, if any, and returns the validated
// configuration.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	var errs []error

	if _, err := synth.ParseStrategy(c.Strategy); err != nil {
		errs = append(errs, err)
	}

	if _, err := synth.ParseLoadingMode(c.Loading); err != nil {
		errs = append(errs, err)
	}

	if c.Backend != BackendChecker && c.Backend != BackendPackages {
		errs = append(errs, fmt.Errorf("unknown backend %q", c.Backend))
	}

	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}

	for i, r := range c.References {
		if r.Module == "" {
			errs = append(errs, fmt.Errorf("references[%d]: module is required", i))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}

	return nil
}

// Logger builds the logger writing to w, as a console writer when Pretty.
func (c *Config) Logger(w io.Writer) zerolog.Logger {
	if c.Pretty {
		w = zerolog.ConsoleWriter{Out: w}
	}

	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// Compiler returns the configured backend.
func (c *Config) Compiler(logger zerolog.Logger) synth.Compiler {
	opts := []compiler.Option{compiler.WithLogger(logger), compiler.WithGoVersion(c.GoVersion)}

	if c.Backend == BackendPackages {
		return compiler.NewPackages(opts...)
	}

	return compiler.NewChecker(opts...)
}

// SynthOptions returns the synthesizer options matching c.
func (c *Config) SynthOptions(logger zerolog.Logger) ([]synth.Option, error) {
	strategy, err := synth.ParseStrategy(c.Strategy)
	if err != nil {
		return nil, err
	}

	mode, err := synth.ParseLoadingMode(c.Loading)
	if err != nil {
		return nil, err
	}

	refs := make([]synth.Reference, 0, len(c.References))
	for _, r := range c.References {
		refs = append(refs, synth.Reference{Module: r.Module, Dir: r.Dir, Version: r.Version})
	}

	opts := []synth.Option{
		synth.WithLogger(logger),
		synth.WithStrategy(strategy),
		synth.WithLoadingMode(mode),
		synth.WithCompiler(c.Compiler(logger)),
		synth.WithDefaultPackage(c.Package),
		synth.WithReferences(refs...),
	}

	if c.RejectedDir != "" {
		opts = append(opts, synth.WithRejectedDir(c.RejectedDir))
	}

	return opts, nil
}
