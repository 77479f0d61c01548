package synth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"go/types"
	"reflect"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"typeforge/descriptor"
	"typeforge/errdefs"
	"typeforge/internal/analyze"
	"typeforge/internal/compiler"
	"typeforge/internal/gen"
)

// Compiler type-checks a rendered unit.
type Compiler interface {
	Compile(ctx context.Context, unit compiler.Unit) (*types.Package, error)
}

type (
	// Unit is one compilation request.
	Unit = compiler.Unit
	// Reference is a module a unit may import.
	Reference = compiler.Reference
)

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithUniverse sets the universe of named types.
func WithUniverse(u *Universe) Option {
	return func(s *Synthesizer) { s.universe = u }
}

// WithStrategy sets the strategy used by Synthesize.
func WithStrategy(strategy Strategy) Option {
	return func(s *Synthesizer) { s.strategy = strategy }
}

// WithLoadingMode sets what the text strategy produces.
func WithLoadingMode(mode LoadingMode) Option {
	return func(s *Synthesizer) { s.mode = mode }
}

// WithCompiler sets the compiler of the text strategy. The default is an
// in-process compiler.Checker.
func WithCompiler(c Compiler) Option {
	return func(s *Synthesizer) { s.compiler = c }
}

// WithReferences sets the modules rendered units may import.
func WithReferences(refs ...Reference) Option {
	return func(s *Synthesizer) { s.references = append(s.references, refs...) }
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Synthesizer) { s.logger = logger }
}

// WithRegisterer registers the synthesis metrics with reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(s *Synthesizer) { s.registerer = reg }
}

// WithDefaultPackage sets the package of classes that do not name one.
func WithDefaultPackage(pkg string) Option {
	return func(s *Synthesizer) { s.defaultPackage = pkg }
}

// WithEmitterConfig configures source rendering.
func WithEmitterConfig(config gen.EmitterConfig) Option {
	return func(s *Synthesizer) { s.emitterConfig = config }
}

// WithRejectedDir makes the text strategy write sources that fail to
// compile into dir.
func WithRejectedDir(dir string) Option {
	return func(s *Synthesizer) { s.rejectedDir = dir }
}

// Synthesizer builds types from class descriptors and caches them.
type Synthesizer struct {
	universe       *Universe
	strategy       Strategy
	mode           LoadingMode
	compiler       Compiler
	references     []Reference
	logger         zerolog.Logger
	registerer     prometheus.Registerer
	defaultPackage string
	emitterConfig  gen.EmitterConfig
	rejectedDir    string

	metrics *Metrics
	binary  *BinaryEmitter
	text    *gen.TextEmitter
	types   *Cache[*Type]
	layers  *Cache[reflect.Type]
	ids     typeIDs
}

// New creates a Synthesizer.
func New(opts ...Option) (*Synthesizer, error) {
	s := &Synthesizer{
		logger:        zerolog.Nop(),
		emitterConfig: gen.DefaultEmitterConfig(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.universe == nil {
		s.universe = NewUniverse()
	}

	if s.compiler == nil {
		s.compiler = compiler.NewChecker(compiler.WithLogger(s.logger))
	}

	s.metrics = NewMetrics()
	if err := s.metrics.Register(s.registerer); err != nil {
		return nil, fmt.Errorf("registering metrics: %w", err)
	}

	s.binary = NewBinaryEmitter(s.universe)
	s.text = gen.NewTextEmitter(s.emitterConfig)
	s.types = NewCache[*Type](s.metrics)
	s.layers = NewCache[reflect.Type](s.metrics)

	return s, nil
}

// Universe returns the universe of named types.
func (s *Synthesizer) Universe() *Universe {
	return s.universe
}

// Cache returns the cache of synthesized types.
func (s *Synthesizer) Cache() *Cache[*Type] {
	return s.types
}

// Normalize returns the canonical copy of c, in the default package when it
// names none.
func (s *Synthesizer) Normalize(c descriptor.Class) (descriptor.Class, error) {
	if c.Package == "" && s.defaultPackage != "" {
		c = c.WithPackage(s.defaultPackage)
	}

	return c.Normalize()
}

// Render returns the Go source of c.
func (s *Synthesizer) Render(c descriptor.Class) ([]byte, error) {
	n, err := s.Normalize(c)
	if err != nil {
		return nil, err
	}

	return s.text.Render(n)
}

// Generate renders c into a file named after the type.
func (s *Synthesizer) Generate(c descriptor.Class) (gen.GeneratedFile, error) {
	n, err := s.Normalize(c)
	if err != nil {
		return gen.GeneratedFile{}, err
	}

	return s.text.Generate(n)
}

// Strategy returns the configured strategy.
func (s *Synthesizer) Strategy() Strategy {
	return s.strategy
}

// Synthesize builds c with the configured strategy.
func (s *Synthesizer) Synthesize(ctx context.Context, c descriptor.Class) (*Type, error) {
	if s.strategy == StrategyText {
		return s.Compile(ctx, c)
	}

	return s.Emit(c)
}

// Emit builds c with reflect.StructOf. The result is cached by the
// structural hash of the normalized descriptor.
func (s *Synthesizer) Emit(c descriptor.Class) (*Type, error) {
	n, err := s.Normalize(c)
	if err != nil {
		return nil, err
	}

	hash, err := n.Key()
	if err != nil {
		return nil, fmt.Errorf("hashing %s: %w", n.Qualified(), err)
	}

	t, hit, err := s.types.Do("binary:"+hash, n.Kind(), StrategyBinary.String(), func() (*Type, error) {
		rt, err := s.binary.Emit(n)
		if err != nil {
			return nil, err
		}

		s.universe.RegisterAs(n.Qualified(), rt)

		s.logger.Debug().
			Str("type", n.Qualified()).
			Int("fields", rt.NumField()).
			Msg("type emitted")

		return &Type{
			Name:     n.Name,
			Package:  n.Package,
			Key:      hash,
			Class:    n,
			Strategy: StrategyBinary,
			Mode:     LoadingLive,
			rtype:    rt,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	if hit {
		s.logger.Trace().Str("type", t.Qualified()).Msg("type cache hit")
	}

	return t, nil
}

// Compile renders c, compiles the source and, in the Live loading mode,
// materializes the checked struct. The result is cached by the hash of the
// rendered source.
func (s *Synthesizer) Compile(ctx context.Context, c descriptor.Class) (*Type, error) {
	n, err := s.Normalize(c)
	if err != nil {
		return nil, err
	}

	if _, err := s.binary.parents(n, false); err != nil {
		return nil, err
	}

	file, err := s.text.Generate(n)
	if err != nil {
		return nil, err
	}

	sum := sha256.Sum256(file.Content)
	hash := hex.EncodeToString(sum[:])

	key := "text:" + s.mode.String() + ":" + hash

	t, _, err := s.types.Do(key, n.Kind(), StrategyText.String(), func() (*Type, error) {
		return s.compile(ctx, n, file, hash)
	})

	return t, err
}

func (s *Synthesizer) compile(ctx context.Context, n descriptor.Class, file gen.GeneratedFile, hash string) (*Type, error) {
	start := time.Now()

	unit := Unit{
		Name:       strings.TrimSuffix(file.Filename, ".go"),
		Package:    n.Package,
		Source:     file.Content,
		References: s.references,
	}

	pkg, err := s.compiler.Compile(ctx, unit)
	if err != nil {
		var ce *errdefs.CompilationError
		if errors.As(err, &ce) {
			if werr := gen.WriteRejected(s.rejectedDir, file.Filename, file.Content); werr != nil {
				s.logger.Warn().Err(werr).Str("unit", unit.Name).Msg("writing rejected source")
			}
		}

		return nil, err
	}

	obj, ok := pkg.Scope().Lookup(n.Name).(*types.TypeName)
	if !ok {
		return nil, errdefs.Unsupported(n.Qualified(), "compiled package does not declare the type")
	}

	named, ok := obj.Type().(*types.Named)
	if !ok {
		return nil, errdefs.Unsupported(n.Qualified(), "compiled declaration is not a named type")
	}

	t := &Type{
		Name:     n.Name,
		Package:  n.Package,
		Key:      hash,
		Class:    n,
		Strategy: StrategyText,
		Mode:     s.mode,
		Source:   file.Content,
		named:    named,
	}

	if s.mode == LoadingLive && !n.Interface {
		analyzer := analyze.NewAnalyzer()
		analyzer.AddPackage(pkg)

		info, err := analyzer.GetStruct(n.Package, n.Name)
		if err != nil {
			return nil, errdefs.Unsupported(n.Qualified(), "%v", err)
		}

		rt, err := analyze.NewMaterializer(s.universe).Struct(info, Header(n))
		if err != nil {
			return nil, err
		}

		s.universe.RegisterAs(n.Qualified(), rt)
		t.rtype = rt
	}

	s.logger.Debug().
		Str("type", n.Qualified()).
		Str("mode", s.mode.String()).
		Dur("elapsed", time.Since(start)).
		Msg("type compiled")

	return t, nil
}

// Metrics returns the collectors of s.
func (s *Synthesizer) Metrics() *Metrics {
	return s.metrics
}
