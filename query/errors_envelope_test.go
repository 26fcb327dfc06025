package query

import (
	"context"
	"testing"

	"github.com/goliatone/go-blocktag/core"
	goerrors "github.com/goliatone/go-errors"
)

func TestMessages_ValidateReturnsRichError(t *testing.T) {
	for _, err := range []error{
		(ResolveEntityMessage{}).Validate(),
		(SerializeEntityMessage{}).Validate(),
	} {
		if err == nil {
			t.Fatalf("expected validation error")
		}
		var rich *goerrors.Error
		if !goerrors.As(err, &rich) {
			t.Fatalf("expected go-errors envelope, got %T", err)
		}
		if rich.Category != goerrors.CategoryValidation {
			t.Fatalf("expected validation category, got %q", rich.Category)
		}
		if rich.TextCode != core.ErrorBadInput {
			t.Fatalf("expected %q text code, got %q", core.ErrorBadInput, rich.TextCode)
		}
	}
}

func TestQueries_NilReaderReturnsRichError(t *testing.T) {
	var resolveQuery *ResolveEntityQuery
	_, err := resolveQuery.Query(context.Background(), ResolveEntityMessage{})

	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected go-errors envelope, got %T", err)
	}
	if rich.Category != goerrors.CategoryInternal {
		t.Fatalf("expected internal category, got %q", rich.Category)
	}

	_, err = NewDescribeBindingsQuery(nil).Query(context.Background(), DescribeBindingsMessage{})
	if !goerrors.As(err, &rich) || rich.TextCode != core.ErrorInternal {
		t.Fatalf("expected internal dependency error, got %v", err)
	}
}
