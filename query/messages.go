package query

import "github.com/goliatone/go-blocktag/core"

const (
	TypeResolveEntity    = "blocktag.query.entity.resolve"
	TypeSerializeEntity  = "blocktag.query.entity.serialize"
	TypeDescribeBindings = "blocktag.query.bindings.describe"
)

type ResolveEntityMessage struct {
	Block core.BlockRef
}

func (ResolveEntityMessage) Type() string { return TypeResolveEntity }

func (m ResolveEntityMessage) Validate() error {
	if m.Block == nil {
		return queryValidationError("block", "block is required")
	}
	return nil
}

type SerializeEntityMessage struct {
	Entity any
}

func (SerializeEntityMessage) Type() string { return TypeSerializeEntity }

func (m SerializeEntityMessage) Validate() error {
	if m.Entity == nil {
		return queryValidationError("entity", "entity is required")
	}
	return nil
}

type DescribeBindingsMessage struct{}

func (DescribeBindingsMessage) Type() string { return TypeDescribeBindings }

func (DescribeBindingsMessage) Validate() error { return nil }
