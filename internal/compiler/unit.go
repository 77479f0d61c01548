package compiler

import (
	"github.com/rs/zerolog"

	"typeforge/internal/common"
)

// Unit is one compilation request.
type Unit struct {
	// Name identifies the unit in diagnostics and names its source file.
	Name string
	// Package is the import path the source is checked as.
	Package string
	// Source is the rendered Go file.
	Source []byte
	// References are the modules the source may import.
	References []Reference
}

// PackageName returns the package clause name of the unit.
func (u Unit) PackageName() string {
	return common.PkgAlias(u.Package)
}

// Filename returns the name of the unit's source file.
func (u Unit) Filename() string {
	return u.Name + ".go"
}

// Reference is a module the unit depends on. A Dir makes it a local
// replacement; otherwise Version is required from the module proxy.
type Reference struct {
	Module  string
	Dir     string
	Version string
}

// DefaultGoVersion is the go directive of temporary modules.
const DefaultGoVersion = "1.22"

type settings struct {
	logger    zerolog.Logger
	goVersion string
	root      string
	env       []string
	keep      bool
}

// Option configures a backend.
type Option func(*settings)

// WithLogger sets the logger of the backend.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

// WithGoVersion sets the go directive of temporary modules.
func WithGoVersion(version string) Option {
	return func(s *settings) { s.goVersion = version }
}

// WithRoot sets the directory temporary modules are created in.
func WithRoot(dir string) Option {
	return func(s *settings) { s.root = dir }
}

// WithEnv appends environment entries for the go command.
func WithEnv(env ...string) Option {
	return func(s *settings) { s.env = append(s.env, env...) }
}

// WithKeep leaves temporary modules on disk after loading.
func WithKeep(keep bool) Option {
	return func(s *settings) { s.keep = keep }
}

func newSettings(opts []Option) settings {
	s := settings{
		logger:    zerolog.Nop(),
		goVersion: DefaultGoVersion,
	}

	for _, opt := range opts {
		opt(&s)
	}

	return s
}
