package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"typeforge/descriptor"
	"typeforge/internal/config"
	"typeforge/internal/mapping"
	"typeforge/synth"
)

// app is the state shared by the commands of one invocation.
type app struct {
	viper      *viper.Viper
	configPath string
	cfg        *config.Config
	logger     zerolog.Logger
	out        io.Writer
	errOut     io.Writer
}

func newRootCommand(out, errOut io.Writer) *cobra.Command {
	a := &app{
		viper:  config.New(),
		logger: zerolog.Nop(),
		out:    out,
		errOut: errOut,
	}

	root := &cobra.Command{
		Use:           "typeforge",
		Short:         "Synthesize Go types from class descriptors",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Root())
		},
	}

	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Config file (yaml, json or toml)")
	flags.String("log-level", zerolog.LevelInfoValue, "Log level (trace, debug, info, warn, error)")
	flags.Bool("pretty", false, "Use pretty console logging instead of structured JSON")
	flags.String("package", descriptor.DefaultPackage, "Package of classes that name none")
	flags.String("strategy", "binary", "Synthesis strategy (binary or text)")
	flags.String("loading", "live", "Loading mode of compiled types (live or reflection-only)")
	flags.String("backend", config.BackendChecker, "Compiler backend (checker or packages)")
	flags.String("root", ".", "Directory descriptor paths and globs are relative to")

	root.AddCommand(
		a.renderCommand(),
		a.checkCommand(),
		a.emitCommand(),
		a.overridesCommand(),
	)

	return root
}

func (a *app) setup(root *cobra.Command) error {
	if err := config.Bind(a.viper, root); err != nil {
		return err
	}

	cfg, err := config.Load(a.viper, a.configPath)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = cfg.Logger(a.errOut)

	return nil
}

func (a *app) synthesizer() (*synth.Synthesizer, error) {
	opts, err := a.cfg.SynthOptions(a.logger)
	if err != nil {
		return nil, err
	}

	return synth.New(opts...)
}

// load reads one descriptor file, relative to the configured root.
func (a *app) load(path string) (*mapping.File, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(a.cfg.Root, path)
	}

	return mapping.LoadFile(path)
}

// emitClasses emits the struct classes of f so that later classes and
// overrides can refer to them.
func (a *app) emitClasses(s *synth.Synthesizer, f *mapping.File) ([]*synth.Type, error) {
	var out []*synth.Type

	for _, c := range f.Classes {
		if c.Interface {
			a.logger.Warn().Str("type", c.Qualified()).Msg("interfaces cannot be emitted, skipping")
			continue
		}

		t, err := s.Emit(c)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Path, err)
		}

		out = append(out, t)
	}

	return out, nil
}
