package command

const (
	TypeDeserialize = "blocktag.command.entity.deserialize"
	TypeWarmup      = "blocktag.command.bindings.warmup"
)

type DeserializeMessage struct {
	Entity    any
	Container any
}

func (DeserializeMessage) Type() string { return TypeDeserialize }

func (m DeserializeMessage) Validate() error {
	if m.Entity == nil {
		return commandValidationError("entity", "entity is required")
	}
	if m.Container == nil {
		return commandValidationError("container", "container is required")
	}
	return nil
}

// WarmupMessage forces binding resolution ahead of the first facade call.
type WarmupMessage struct{}

func (WarmupMessage) Type() string { return TypeWarmup }

func (WarmupMessage) Validate() error { return nil }
