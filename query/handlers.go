package query

import (
	"context"

	"github.com/goliatone/go-blocktag/core"
)

type EntityReader interface {
	ResolvePersistentEntity(ctx context.Context, block core.BlockRef) (any, error)
	Serialize(ctx context.Context, entity any) (any, error)
}

type BindingsReader interface {
	Describe(ctx context.Context) (core.BindingReport, error)
}

// EntityResult carries the located entity; Found is false when the block
// holds no block entity.
type EntityResult struct {
	Entity any
	Found  bool
}

type ResolveEntityQuery struct {
	reader EntityReader
}

func NewResolveEntityQuery(reader EntityReader) *ResolveEntityQuery {
	return &ResolveEntityQuery{reader: reader}
}

func (q *ResolveEntityQuery) Query(ctx context.Context, msg ResolveEntityMessage) (EntityResult, error) {
	if q == nil || q.reader == nil {
		return EntityResult{}, queryDependencyError("query: entity reader is required")
	}
	if err := msg.Validate(); err != nil {
		return EntityResult{}, err
	}
	entity, err := q.reader.ResolvePersistentEntity(ctx, msg.Block)
	if err != nil {
		return EntityResult{}, queryError(err)
	}
	return EntityResult{Entity: entity, Found: entity != nil}, nil
}

type SerializeEntityQuery struct {
	reader EntityReader
}

func NewSerializeEntityQuery(reader EntityReader) *SerializeEntityQuery {
	return &SerializeEntityQuery{reader: reader}
}

func (q *SerializeEntityQuery) Query(ctx context.Context, msg SerializeEntityMessage) (any, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: entity reader is required")
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	container, err := q.reader.Serialize(ctx, msg.Entity)
	if err != nil {
		return nil, queryError(err)
	}
	return container, nil
}

type DescribeBindingsQuery struct {
	reader BindingsReader
}

func NewDescribeBindingsQuery(reader BindingsReader) *DescribeBindingsQuery {
	return &DescribeBindingsQuery{reader: reader}
}

func (q *DescribeBindingsQuery) Query(ctx context.Context, _ DescribeBindingsMessage) (core.BindingReport, error) {
	if q == nil || q.reader == nil {
		return core.BindingReport{}, queryDependencyError("query: bindings reader is required")
	}
	report, err := q.reader.Describe(ctx)
	if err != nil {
		return core.BindingReport{}, queryError(err)
	}
	return report, nil
}
