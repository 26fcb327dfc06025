// Package blocktag reads and writes the persistent data of host block
// entities across host releases whose internal member names and call shapes
// differ. Bindings are resolved once per process from the detected host
// version; see the core package for the decision table.
package blocktag

import "github.com/goliatone/go-blocktag/core"

type Config = core.Config
type Thresholds = core.Thresholds
type MemberOverride = core.MemberOverride

type Option = core.Option

type Resolver = core.Resolver
type Bindings = core.Bindings
type BindingReport = core.BindingReport

type VersionProfile = core.VersionProfile
type MappingMode = core.MappingMode
type Operation = core.Operation

type Lookup = core.Lookup
type Handle = core.Handle
type HandleFunc = core.HandleFunc
type TypeDescriptor = core.TypeDescriptor
type VersionDetector = core.VersionDetector
type ContainerFactory = core.ContainerFactory
type BlockRef = core.BlockRef

type BindingResolutionError = core.BindingResolutionError
type InvalidArgumentError = core.InvalidArgumentError
type HostCallError = core.HostCallError

const (
	MappingObfuscated = core.MappingObfuscated
	MappingFriendly   = core.MappingFriendly
)

var (
	WithLogger           = core.WithLogger
	WithLoggerProvider   = core.WithLoggerProvider
	WithMetricsRecorder  = core.WithMetricsRecorder
	WithErrorMapper      = core.WithErrorMapper
	WithConfigProvider   = core.WithConfigProvider
	WithOptionsResolver  = core.WithOptionsResolver
	WithLookup           = core.WithLookup
	WithVersionDetector  = core.WithVersionDetector
	WithContainerFactory = core.WithContainerFactory
)

func DefaultConfig() Config {
	return core.DefaultConfig()
}

func NewResolver(cfg Config, opts ...Option) (*Resolver, error) {
	return core.NewResolver(cfg, opts...)
}

func Setup(cfg Config, opts ...Option) (*Resolver, error) {
	return core.Setup(cfg, opts...)
}

func ParseRelease(release string, mapping MappingMode) (VersionProfile, error) {
	return core.ParseRelease(release, mapping)
}

var _ CommandQueryResolver = (*core.Resolver)(nil)
