package query

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-blocktag/core"
	goerrors "github.com/goliatone/go-errors"
)

type stubBlock struct{ x, y, z int }

func (b stubBlock) World() any { return "overworld" }
func (b stubBlock) X() int     { return b.x }
func (b stubBlock) Y() int     { return b.y }
func (b stubBlock) Z() int     { return b.z }
func (b stubBlock) State() any { return "state" }

type stubEntityReader struct {
	resolveFn   func(ctx context.Context, block core.BlockRef) (any, error)
	serializeFn func(ctx context.Context, entity any) (any, error)
}

func (s stubEntityReader) ResolvePersistentEntity(ctx context.Context, block core.BlockRef) (any, error) {
	return s.resolveFn(ctx, block)
}

func (s stubEntityReader) Serialize(ctx context.Context, entity any) (any, error) {
	return s.serializeFn(ctx, entity)
}

type stubBindingsReader struct {
	describeFn func(ctx context.Context) (core.BindingReport, error)
}

func (s stubBindingsReader) Describe(ctx context.Context) (core.BindingReport, error) {
	return s.describeFn(ctx)
}

func TestResolveEntityQuery_QueryDelegates(t *testing.T) {
	entity := &struct{ Kind string }{Kind: "furnace"}
	called := false
	qry := NewResolveEntityQuery(stubEntityReader{
		resolveFn: func(_ context.Context, block core.BlockRef) (any, error) {
			called = true
			if block.X() != 3 || block.Y() != 60 || block.Z() != -9 {
				t.Fatalf("unexpected block coordinates %d %d %d", block.X(), block.Y(), block.Z())
			}
			return entity, nil
		},
	})

	result, err := qry.Query(context.Background(), ResolveEntityMessage{Block: stubBlock{3, 60, -9}})
	if err != nil {
		t.Fatalf("query entity: %v", err)
	}
	if !called {
		t.Fatalf("expected entity reader invocation")
	}
	if !result.Found || result.Entity != entity {
		t.Fatalf("unexpected entity result %#v", result)
	}
}

func TestResolveEntityQuery_EmptyPositionNotFound(t *testing.T) {
	qry := NewResolveEntityQuery(stubEntityReader{
		resolveFn: func(context.Context, core.BlockRef) (any, error) { return nil, nil },
	})
	result, err := qry.Query(context.Background(), ResolveEntityMessage{Block: stubBlock{}})
	if err != nil {
		t.Fatalf("query entity: %v", err)
	}
	if result.Found || result.Entity != nil {
		t.Fatalf("expected no entity, got %#v", result)
	}
}

func TestSerializeEntityQuery_QueryDelegates(t *testing.T) {
	qry := NewSerializeEntityQuery(stubEntityReader{
		serializeFn: func(_ context.Context, entity any) (any, error) {
			if entity != "chest" {
				t.Fatalf("unexpected entity %#v", entity)
			}
			return map[string]any{"Items": 2}, nil
		},
	})
	container, err := qry.Query(context.Background(), SerializeEntityMessage{Entity: "chest"})
	if err != nil {
		t.Fatalf("query serialize: %v", err)
	}
	if container.(map[string]any)["Items"] != 2 {
		t.Fatalf("unexpected container %#v", container)
	}
}

func TestSerializeEntityQuery_MapsInvalidArgument(t *testing.T) {
	qry := NewSerializeEntityQuery(stubEntityReader{
		serializeFn: func(context.Context, any) (any, error) {
			return nil, &core.InvalidArgumentError{Argument: "entity", Expected: core.TypeTileEntity}
		},
	})
	_, err := qry.Query(context.Background(), SerializeEntityMessage{Entity: 42})

	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected go-errors envelope, got %T", err)
	}
	if rich.TextCode != core.ErrorBadInput || rich.Category != goerrors.CategoryBadInput {
		t.Fatalf("expected bad input envelope, got %q/%q", rich.TextCode, rich.Category)
	}
}

func TestDescribeBindingsQuery_QueryDelegates(t *testing.T) {
	expected := core.BindingReport{Rule: "registry-save", Branch: "registry_save"}
	qry := NewDescribeBindingsQuery(stubBindingsReader{
		describeFn: func(context.Context) (core.BindingReport, error) { return expected, nil },
	})
	report, err := qry.Query(context.Background(), DescribeBindingsMessage{})
	if err != nil {
		t.Fatalf("query describe: %v", err)
	}
	if report.Rule != expected.Rule || report.Branch != expected.Branch {
		t.Fatalf("unexpected report %#v", report)
	}
}

func TestDescribeBindingsQuery_MapsFault(t *testing.T) {
	qry := NewDescribeBindingsQuery(stubBindingsReader{
		describeFn: func(context.Context) (core.BindingReport, error) {
			return core.BindingReport{}, &core.BindingResolutionError{Cause: errors.Join(core.ErrVersionUndetected, errors.New("no server"))}
		},
	})
	_, err := qry.Query(context.Background(), DescribeBindingsMessage{})

	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected go-errors envelope, got %T", err)
	}
	if rich.TextCode != core.ErrorBindingUnresolved {
		t.Fatalf("expected %q text code, got %q", core.ErrorBindingUnresolved, rich.TextCode)
	}
}
