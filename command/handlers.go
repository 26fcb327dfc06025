package command

import (
	"context"

	"github.com/goliatone/go-blocktag/core"
	gocmd "github.com/goliatone/go-command"
)

type MutatingResolver interface {
	Deserialize(ctx context.Context, entity any, container any) error
	Ready(ctx context.Context) error
	Describe(ctx context.Context) (core.BindingReport, error)
}

type DeserializeCommand struct {
	resolver MutatingResolver
}

func NewDeserializeCommand(resolver MutatingResolver) *DeserializeCommand {
	return &DeserializeCommand{resolver: resolver}
}

func (c *DeserializeCommand) Execute(ctx context.Context, msg DeserializeMessage) error {
	if c == nil || c.resolver == nil {
		return commandDependencyError("command: deserialize resolver is required")
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	return commandError(c.resolver.Deserialize(ctx, msg.Entity, msg.Container))
}

// WarmupCommand resolves bindings eagerly and stores the resulting report.
type WarmupCommand struct {
	resolver MutatingResolver
}

func NewWarmupCommand(resolver MutatingResolver) *WarmupCommand {
	return &WarmupCommand{resolver: resolver}
}

func (c *WarmupCommand) Execute(ctx context.Context, _ WarmupMessage) error {
	if c == nil || c.resolver == nil {
		return commandDependencyError("command: warmup resolver is required")
	}
	if err := c.resolver.Ready(ctx); err != nil {
		return commandError(err)
	}
	report, err := c.resolver.Describe(ctx)
	if err != nil {
		return commandError(err)
	}
	storeResult(ctx, report)
	return nil
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
