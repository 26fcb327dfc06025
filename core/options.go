package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-config/cfgx"
	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"
	opts "github.com/goliatone/go-options"
)

type ErrorMapper func(err error) *goerrors.Error

type ConfigProvider interface {
	Load(ctx context.Context, defaults Config) (Config, error)
}

type RawConfigLoader interface {
	LoadRaw(ctx context.Context) (map[string]any, error)
}

type OptionsResolver interface {
	Resolve(defaults Config, loaded Config, runtime Config) (Config, error)
}

type resolverBuilder struct {
	runtimeConfig    Config
	logger           Logger
	loggerProvider   LoggerProvider
	metricsRecorder  MetricsRecorder
	errorMapper      ErrorMapper
	configProvider   ConfigProvider
	optionsResolver  OptionsResolver
	lookup           Lookup
	detector         VersionDetector
	containerFactory ContainerFactory
}

type Option func(*resolverBuilder)

func WithLogger(logger Logger) Option {
	return func(b *resolverBuilder) {
		b.logger = logger
	}
}

func WithLoggerProvider(provider LoggerProvider) Option {
	return func(b *resolverBuilder) {
		b.loggerProvider = provider
	}
}

func WithMetricsRecorder(recorder MetricsRecorder) Option {
	return func(b *resolverBuilder) {
		b.metricsRecorder = recorder
	}
}

func WithErrorMapper(mapper ErrorMapper) Option {
	return func(b *resolverBuilder) {
		b.errorMapper = mapper
	}
}

func WithConfigProvider(provider ConfigProvider) Option {
	return func(b *resolverBuilder) {
		b.configProvider = provider
	}
}

func WithOptionsResolver(resolver OptionsResolver) Option {
	return func(b *resolverBuilder) {
		b.optionsResolver = resolver
	}
}

func WithLookup(lookup Lookup) Option {
	return func(b *resolverBuilder) {
		b.lookup = lookup
	}
}

func WithVersionDetector(detector VersionDetector) Option {
	return func(b *resolverBuilder) {
		b.detector = detector
	}
}

func WithContainerFactory(factory ContainerFactory) Option {
	return func(b *resolverBuilder) {
		b.containerFactory = factory
	}
}

func defaultResolverBuilder(runtime Config) resolverBuilder {
	loggerProvider, logger := glog.Resolve("blocktag", nil, nil)
	return resolverBuilder{
		runtimeConfig:   runtime,
		loggerProvider:  loggerProvider,
		logger:          logger,
		metricsRecorder: NopMetricsRecorder{},
		errorMapper:     MapError,
		configProvider:  NewCfgxConfigProvider(nil),
		optionsResolver: GoOptionsResolver{},
	}
}

type staticRawConfigLoader struct {
	Values map[string]any
}

func (l staticRawConfigLoader) LoadRaw(context.Context) (map[string]any, error) {
	if len(l.Values) == 0 {
		return map[string]any{}, nil
	}
	out := make(map[string]any, len(l.Values))
	for key, value := range l.Values {
		out[key] = value
	}
	return out, nil
}

// StaticConfigLoader serves a fixed raw config map, e.g. one decoded from a
// host plugin's configuration file.
func StaticConfigLoader(values map[string]any) RawConfigLoader {
	return staticRawConfigLoader{Values: values}
}

type CfgxConfigProvider struct {
	Loader RawConfigLoader
}

func NewCfgxConfigProvider(loader RawConfigLoader) *CfgxConfigProvider {
	return &CfgxConfigProvider{Loader: loader}
}

func (p *CfgxConfigProvider) Load(ctx context.Context, defaults Config) (Config, error) {
	if p == nil {
		return defaults, nil
	}
	loader := p.Loader
	if loader == nil {
		loader = staticRawConfigLoader{}
	}
	raw, err := loader.LoadRaw(ctx)
	if err != nil {
		return Config{}, err
	}
	cfg, err := cfgx.Build[Config](raw,
		cfgx.WithDefaults(defaults),
		cfgx.WithValidator[Config]((*Config).Validate),
	)
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

type GoOptionsResolver struct{}

func (GoOptionsResolver) Resolve(defaults Config, loaded Config, runtime Config) (Config, error) {
	defaultLayer := configToLayerMap(defaults, true)
	loadedLayer := configToLayerMap(loaded, false)
	runtimeLayer := configToLayerMap(runtime, false)

	stack, err := opts.NewStack(
		opts.NewLayer(
			opts.NewScope("defaults", 0),
			defaultLayer,
			opts.WithSnapshotID[map[string]any]("defaults"),
		),
		opts.NewLayer(
			opts.NewScope("config", 10),
			loadedLayer,
			opts.WithSnapshotID[map[string]any]("config"),
		),
		opts.NewLayer(
			opts.NewScope("runtime", 20),
			runtimeLayer,
			opts.WithSnapshotID[map[string]any]("runtime"),
		),
	)
	if err != nil {
		return Config{}, fmt.Errorf("core: options stack build failed: %w", err)
	}
	merged, err := stack.Merge()
	if err != nil {
		return Config{}, fmt.Errorf("core: options merge failed: %w", err)
	}
	resolved, err := cfgx.Build[Config](merged.Value,
		cfgx.WithDefaults(defaults),
		cfgx.WithValidator[Config]((*Config).Validate),
	)
	if err != nil {
		return Config{}, err
	}
	if err := resolved.Validate(); err != nil {
		return Config{}, err
	}
	return resolved, nil
}

func configToLayerMap(cfg Config, includeZero bool) map[string]any {
	layer := map[string]any{}
	if includeZero || strings.TrimSpace(cfg.Name) != "" {
		layer["name"] = cfg.Name
	}

	thresholds := map[string]any{}
	for key, value := range map[string]int{
		"minimum":             cfg.Thresholds.Minimum,
		"save_load_named":     cfg.Thresholds.SaveLoadNamed,
		"load_named":          cfg.Thresholds.LoadNamed,
		"legacy_block_data":   cfg.Thresholds.LegacyBlockData,
		"modern_save":         cfg.Thresholds.ModernSave,
		"modern_save_renamed": cfg.Thresholds.ModernSaveRenamed,
		"registry_save":       cfg.Thresholds.RegistrySave,
	} {
		if includeZero || value != 0 {
			thresholds[key] = value
		}
	}
	if len(thresholds) > 0 {
		layer["thresholds"] = thresholds
	}

	if includeZero || len(cfg.Overrides) > 0 {
		overrides := make([]any, 0, len(cfg.Overrides))
		for _, override := range cfg.Overrides {
			overrides = append(overrides, map[string]any{
				"when":      override.When,
				"operation": override.Operation,
				"name":      override.Name,
			})
		}
		layer["overrides"] = overrides
	}
	return layer
}
