package core

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	glog "github.com/goliatone/go-logger/glog"
)

type LifecycleState int32

const (
	StateUninitialized LifecycleState = iota
	StateBound
	StateReady
	StateFaulted
)

func (s LifecycleState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateBound:
		return "bound"
	case StateReady:
		return "ready"
	case StateFaulted:
		return "faulted"
	default:
		return "unknown"
	}
}

// Resolver owns the binding table. Resolution runs at most once, on the
// first call that needs bindings; concurrent first callers wait for it.
type Resolver struct {
	config           Config
	logger           Logger
	loggerProvider   LoggerProvider
	metricsRecorder  MetricsRecorder
	errorMapper      ErrorMapper
	lookup           Lookup
	detector         VersionDetector
	containerFactory ContainerFactory
	overrides        []compiledOverride

	once     sync.Once
	state    atomic.Int32
	bindings *Bindings
	fault    error
}

func NewResolver(cfg Config, opts ...Option) (*Resolver, error) {
	builder := defaultResolverBuilder(cfg)
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&builder)
	}

	provider, logger := glog.Resolve("blocktag", builder.loggerProvider, builder.logger)
	logger = glog.Ensure(logger)
	if provider != nil {
		if named := provider.GetLogger("blocktag"); named != nil {
			logger = glog.Ensure(named)
		}
	}

	if builder.metricsRecorder == nil {
		builder.metricsRecorder = NopMetricsRecorder{}
	}
	if builder.errorMapper == nil {
		builder.errorMapper = MapError
	}
	if builder.configProvider == nil {
		builder.configProvider = NewCfgxConfigProvider(nil)
	}
	if builder.optionsResolver == nil {
		builder.optionsResolver = GoOptionsResolver{}
	}
	if builder.lookup == nil {
		return nil, mapBuildError(builder.errorMapper, fmt.Errorf("core: lookup is required"))
	}
	if builder.detector == nil {
		return nil, mapBuildError(builder.errorMapper, fmt.Errorf("core: version detector is required"))
	}
	if builder.containerFactory == nil {
		return nil, mapBuildError(builder.errorMapper, fmt.Errorf("core: container factory is required"))
	}

	defaults := DefaultConfig()
	loaded, err := builder.configProvider.Load(context.Background(), defaults)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}
	finalConfig, err := builder.optionsResolver.Resolve(defaults, loaded, builder.runtimeConfig)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}
	overrides, err := compileOverrides(finalConfig.Overrides)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}

	return &Resolver{
		config:           finalConfig,
		logger:           logger,
		loggerProvider:   provider,
		metricsRecorder:  builder.metricsRecorder,
		errorMapper:      builder.errorMapper,
		lookup:           builder.lookup,
		detector:         builder.detector,
		containerFactory: builder.containerFactory,
		overrides:        overrides,
	}, nil
}

// Setup builds a resolver and resolves its bindings eagerly, returning the
// initialization fault if resolution fails.
func Setup(cfg Config, opts ...Option) (*Resolver, error) {
	resolver, err := NewResolver(cfg, opts...)
	if err != nil {
		return nil, err
	}
	if err := resolver.Ready(context.Background()); err != nil {
		return nil, err
	}
	return resolver, nil
}

func mapBuildError(mapper ErrorMapper, err error) error {
	if err == nil {
		return nil
	}
	if mapper == nil {
		return err
	}
	mapped := mapper(err)
	if mapped == nil {
		return err
	}
	return mapped
}

func (r *Resolver) Config() Config {
	if r == nil {
		return Config{}
	}
	return r.config
}

func (r *Resolver) State() LifecycleState {
	if r == nil {
		return StateUninitialized
	}
	return LifecycleState(r.state.Load())
}

// Ready resolves the binding table on first use and returns the
// initialization fault, if any. Later calls never re-resolve. Detection
// ignores ctx cancellation and deadlines; ctx values still reach the detector.
func (r *Resolver) Ready(ctx context.Context) error {
	if r == nil {
		return fmt.Errorf("core: resolver is nil")
	}
	r.once.Do(func() {
		r.initialize(ctx)
	})
	return r.fault
}

func (r *Resolver) Bindings(ctx context.Context) (*Bindings, error) {
	if err := r.Ready(ctx); err != nil {
		return nil, err
	}
	return r.bindings, nil
}

func (r *Resolver) initialize(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithoutCancel(ctx)
	startedAt := time.Now().UTC()
	fields := map[string]any{"name": r.config.Name}

	bindings, err := r.resolveRecovered(ctx, fields)
	if err != nil {
		r.fault = err
		r.state.Store(int32(StateFaulted))
	} else {
		r.bindings = bindings
		r.state.Store(int32(StateReady))
		fields["generation"] = bindings.Generation()
	}
	r.observeOperation(ctx, startedAt, "resolve_bindings", err, fields)
}

// resolveRecovered reports a panicking detector or lookup as a fault.
func (r *Resolver) resolveRecovered(ctx context.Context, fields map[string]any) (bindings *Bindings, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			bindings = nil
			err = &BindingResolutionError{
				Rule:  fieldString(fields, "rule"),
				Cause: fmt.Errorf("panic during resolution: %v", rec),
			}
		}
	}()
	return r.resolve(ctx, fields)
}

func fieldString(fields map[string]any, key string) string {
	value, _ := fields[key].(string)
	return value
}

func (r *Resolver) resolve(ctx context.Context, fields map[string]any) (*Bindings, error) {
	profile, err := r.detector.Detect(ctx)
	if err == nil {
		err = profile.Validate()
	}
	if err != nil {
		return nil, &BindingResolutionError{Cause: fmt.Errorf("%w: %w", ErrVersionUndetected, err)}
	}
	fields["version"] = profile.Release()
	fields["mapping"] = profile.Mapping.String()

	rule, err := SelectRule(profile, r.config.Thresholds)
	if err != nil {
		return nil, &BindingResolutionError{Cause: err}
	}
	fields["rule"] = rule.Name
	fields["branch"] = rule.Branch.String()

	members := rule.Members()
	if err := applyOverrides(members, r.overrides, profile); err != nil {
		return nil, &BindingResolutionError{Rule: rule.Name, Cause: err}
	}
	r.state.Store(int32(StateBound))

	bindings, err := resolveBindings(r.lookup, profile, rule, members)
	if err != nil {
		if bindingErr, ok := err.(*BindingResolutionError); ok {
			fields["operation"] = bindingErr.Operation.String()
			fields["member"] = bindingErr.Member.String()
		}
		return nil, err
	}
	return bindings, nil
}

// BindingReport is a serialisable description of the resolved table.
type BindingReport struct {
	Generation string         `json:"generation"`
	Release    string         `json:"release"`
	Mapping    string         `json:"mapping"`
	Rule       string         `json:"rule"`
	Branch     string         `json:"branch"`
	Bindings   []BindingEntry `json:"bindings"`
}

type BindingEntry struct {
	Operation string `json:"operation"`
	Member    string `json:"member"`
	Required  bool   `json:"required"`
}

func (r *Resolver) Describe(ctx context.Context) (BindingReport, error) {
	bindings, err := r.Bindings(ctx)
	if err != nil {
		return BindingReport{}, err
	}
	profile := bindings.Profile()
	rule := bindings.Rule()
	report := BindingReport{
		Generation: bindings.Generation(),
		Release:    profile.Release(),
		Mapping:    profile.Mapping.String(),
		Rule:       rule.Name,
		Branch:     rule.Branch.String(),
	}
	for _, entry := range bindings.List() {
		report.Bindings = append(report.Bindings, BindingEntry{
			Operation: entry.Operation.String(),
			Member:    entry.Member.String(),
			Required:  entry.Required,
		})
	}
	return report, nil
}
