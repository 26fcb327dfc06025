package core

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	ErrorBindingUnresolved = "BLOCKTAG_BINDING_UNRESOLVED"
	ErrorBadInput          = "BLOCKTAG_BAD_INPUT"
	ErrorHostCallFailed    = "BLOCKTAG_HOST_CALL_FAILED"
	ErrorInternal          = "BLOCKTAG_INTERNAL_ERROR"
)

var (
	ErrBindingUnresolved    = errors.New("core: binding could not be resolved")
	ErrInvalidArgument      = errors.New("core: invalid argument")
	ErrHostCall             = errors.New("core: host call failed")
	ErrOperationUnavailable = errors.New("core: operation is not bound for this host version")
	ErrEmptyResult          = errors.New("core: host call returned no value")
)

// BindingResolutionError is the initialization fault. Once raised the
// resolver is Faulted and returns this same value from every facade call.
type BindingResolutionError struct {
	Operation Operation
	Member    MemberRef
	Rule      string
	Cause     error
}

func (e *BindingResolutionError) Error() string {
	if e == nil {
		return ErrBindingUnresolved.Error()
	}
	var b strings.Builder
	b.WriteString(ErrBindingUnresolved.Error())
	if e.Operation.Valid() {
		fmt.Fprintf(&b, ": %s", e.Operation)
	}
	if e.Member.Declaring != "" {
		fmt.Fprintf(&b, " via %s", e.Member)
	}
	if e.Rule != "" {
		fmt.Fprintf(&b, " (rule %s)", e.Rule)
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

func (e *BindingResolutionError) Unwrap() error {
	if e == nil || e.Cause == nil {
		return ErrBindingUnresolved
	}
	return errors.Join(ErrBindingUnresolved, e.Cause)
}

func (e *BindingResolutionError) ToServiceError() *goerrors.Error {
	metadata := map[string]any{}
	if e != nil {
		if e.Operation.Valid() {
			metadata["operation"] = e.Operation.String()
		}
		if e.Member.Declaring != "" {
			metadata["member"] = e.Member.String()
		}
		if e.Rule != "" {
			metadata["rule"] = e.Rule
		}
	}
	err := goerrors.New(e.Error(), goerrors.CategoryInternal).
		WithCode(http.StatusInternalServerError).
		WithTextCode(ErrorBindingUnresolved)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

// InvalidArgumentError reports a caller value that is not of the expected
// host kind.
type InvalidArgumentError struct {
	Argument string
	Expected TypeID
	Message  string
}

func (e *InvalidArgumentError) Error() string {
	if e == nil {
		return ErrInvalidArgument.Error()
	}
	if e.Message != "" {
		return ErrInvalidArgument.Error() + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s is not a %s", ErrInvalidArgument.Error(), e.Argument, e.Expected)
}

func (e *InvalidArgumentError) Unwrap() error {
	return ErrInvalidArgument
}

func (e *InvalidArgumentError) ToServiceError() *goerrors.Error {
	err := goerrors.New(e.Error(), goerrors.CategoryBadInput).
		WithCode(http.StatusBadRequest).
		WithTextCode(ErrorBadInput)
	if e != nil && e.Expected != "" {
		err.WithMetadata(map[string]any{
			"argument": e.Argument,
			"expected": string(e.Expected),
		})
	}
	return err
}

// HostCallError wraps a failure raised by a bound host member when invoked.
type HostCallError struct {
	Operation Operation
	Member    MemberRef
	Cause     error
}

func (e *HostCallError) Error() string {
	if e == nil {
		return ErrHostCall.Error()
	}
	msg := fmt.Sprintf("%s: %s", ErrHostCall.Error(), e.Operation)
	if e.Member.Declaring != "" {
		msg += " via " + e.Member.String()
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *HostCallError) Unwrap() error {
	if e == nil || e.Cause == nil {
		return ErrHostCall
	}
	return errors.Join(ErrHostCall, e.Cause)
}

func (e *HostCallError) ToServiceError() *goerrors.Error {
	err := goerrors.New(e.Error(), goerrors.CategoryExternal).
		WithCode(http.StatusBadGateway).
		WithTextCode(ErrorHostCallFailed)
	if e != nil && e.Operation.Valid() {
		err.WithMetadata(map[string]any{
			"operation": e.Operation.String(),
			"member":    e.Member.String(),
		})
	}
	return err
}

func invalidArgument(argument string, expected TypeID) error {
	return &InvalidArgumentError{Argument: argument, Expected: expected}
}

func missingArgument(argument string) error {
	return &InvalidArgumentError{Argument: argument, Message: argument + " is required"}
}

// MapError converts any error into a go-errors envelope for transport
// boundaries.
func MapError(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		return ensureErrorEnvelope(rich)
	}
	var bindingErr *BindingResolutionError
	if errors.As(err, &bindingErr) {
		return bindingErr.ToServiceError()
	}
	var argErr *InvalidArgumentError
	if errors.As(err, &argErr) {
		return argErr.ToServiceError()
	}
	var hostErr *HostCallError
	if errors.As(err, &hostErr) {
		return hostErr.ToServiceError()
	}
	switch {
	case errors.Is(err, ErrVersionUndetected), errors.Is(err, ErrVersionUnsupported):
		return ensureErrorEnvelope(goerrors.Wrap(err, goerrors.CategoryInternal, err.Error()).
			WithTextCode(ErrorBindingUnresolved))
	case errors.Is(err, ErrMemberNotFound):
		return ensureErrorEnvelope(goerrors.Wrap(err, goerrors.CategoryNotFound, err.Error()))
	}

	mapped := goerrors.MapToError(err, goerrors.DefaultErrorMappers())
	return ensureErrorEnvelope(mapped)
}

func ensureErrorEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if err.Code == 0 {
		err.Code = errorHTTPStatus(err.Category)
	}
	if strings.TrimSpace(err.TextCode) == "" {
		err.TextCode = defaultTextCode(err.Category)
	}
	if err.Category == goerrors.CategoryInternal && strings.TrimSpace(err.Message) == "" {
		err.Message = "An unexpected error occurred"
	}
	return err
}

func defaultTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return ErrorBadInput
	case goerrors.CategoryExternal:
		return ErrorHostCallFailed
	default:
		return ErrorInternal
	}
}

func errorHTTPStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
