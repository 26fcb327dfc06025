package blocktag

import (
	"fmt"

	blockcommand "github.com/goliatone/go-blocktag/command"
	blockquery "github.com/goliatone/go-blocktag/query"
)

type CommandQueryResolver interface {
	blockcommand.MutatingResolver
	blockquery.EntityReader
	blockquery.BindingsReader
}

type Commands struct {
	Deserialize *blockcommand.DeserializeCommand
	Warmup      *blockcommand.WarmupCommand
}

type Queries struct {
	ResolveEntity    *blockquery.ResolveEntityQuery
	SerializeEntity  *blockquery.SerializeEntityQuery
	DescribeBindings *blockquery.DescribeBindingsQuery
}

type Facade struct {
	resolver CommandQueryResolver
	commands Commands
	queries  Queries
}

type FacadeOption func(*facadeOptions)

type facadeOptions struct {
	bindingsReader blockquery.BindingsReader
}

// WithBindingsReader serves DescribeBindings from reader instead of the
// facade resolver.
func WithBindingsReader(reader blockquery.BindingsReader) FacadeOption {
	return func(options *facadeOptions) {
		options.bindingsReader = reader
	}
}

func NewFacade(resolver CommandQueryResolver, opts ...FacadeOption) (*Facade, error) {
	if resolver == nil {
		return nil, fmt.Errorf("blocktag: command/query resolver is required")
	}
	cfg := facadeOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	reader := cfg.bindingsReader
	if reader == nil {
		reader = resolver
	}

	facade := &Facade{resolver: resolver}
	facade.commands = Commands{
		Deserialize: blockcommand.NewDeserializeCommand(resolver),
		Warmup:      blockcommand.NewWarmupCommand(resolver),
	}
	facade.queries = Queries{
		ResolveEntity:    blockquery.NewResolveEntityQuery(resolver),
		SerializeEntity:  blockquery.NewSerializeEntityQuery(resolver),
		DescribeBindings: blockquery.NewDescribeBindingsQuery(reader),
	}
	return facade, nil
}

func (f *Facade) Commands() Commands {
	if f == nil {
		return Commands{}
	}
	return f.commands
}

func (f *Facade) Queries() Queries {
	if f == nil {
		return Queries{}
	}
	return f.queries
}

func (f *Facade) Resolver() CommandQueryResolver {
	if f == nil {
		return nil
	}
	return f.resolver
}
