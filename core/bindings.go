package core

import (
	"fmt"

	"github.com/google/uuid"
)

// ResolvedBinding is the outcome of resolving one Operation. Operations the
// selected branch does not need are recorded with Required=false and no
// handle.
type ResolvedBinding struct {
	Operation Operation
	Member    MemberRef
	Required  bool
	handle    Handle
}

func (b ResolvedBinding) Bound() bool {
	return b.Required && b.handle != nil
}

// Bindings is the immutable binding table produced once per resolver.
type Bindings struct {
	generation     string
	profile        VersionProfile
	rule           Rule
	entityType     TypeDescriptor
	blockStateType TypeDescriptor
	entries        [operationCount]ResolvedBinding
}

func (b *Bindings) Generation() string {
	if b == nil {
		return ""
	}
	return b.generation
}

func (b *Bindings) Profile() VersionProfile {
	if b == nil {
		return VersionProfile{}
	}
	return b.profile
}

func (b *Bindings) Rule() Rule {
	if b == nil {
		return Rule{}
	}
	return b.rule
}

func (b *Bindings) Binding(op Operation) (ResolvedBinding, bool) {
	if b == nil || !op.Valid() {
		return ResolvedBinding{}, false
	}
	entry := b.entries[op.index()]
	entry.Member = entry.Member.clone()
	return entry, true
}

func (b *Bindings) List() []ResolvedBinding {
	if b == nil {
		return []ResolvedBinding{}
	}
	out := make([]ResolvedBinding, 0, operationCount)
	for _, entry := range b.entries {
		entry.Member = entry.Member.clone()
		out = append(out, entry)
	}
	return out
}

// resolveBindings asks lookup for every member the rule requires. The first
// failure aborts resolution; a partial table is never returned.
func resolveBindings(
	lookup Lookup,
	profile VersionProfile,
	rule Rule,
	members map[Operation]MemberRef,
) (*Bindings, error) {
	if lookup == nil {
		return nil, &BindingResolutionError{Rule: rule.Name, Cause: fmt.Errorf("core: lookup is not configured")}
	}

	entityType, err := resolveType(lookup, TypeTileEntity)
	if err != nil {
		return nil, &BindingResolutionError{Operation: OpLocateEntity, Member: typeRef(TypeTileEntity), Rule: rule.Name, Cause: err}
	}
	blockStateType, err := resolveType(lookup, TypeCraftBlockState)
	if err != nil {
		return nil, &BindingResolutionError{Operation: OpLocateEntity, Member: typeRef(TypeCraftBlockState), Rule: rule.Name, Cause: err}
	}

	table := &Bindings{
		generation:     uuid.NewString(),
		profile:        profile,
		rule:           rule,
		entityType:     entityType,
		blockStateType: blockStateType,
	}
	for _, op := range Operations() {
		member := members[op].clone()
		entry := ResolvedBinding{
			Operation: op,
			Member:    member,
			Required:  rule.Branch.Requires(op),
		}
		if entry.Required {
			handle, err := resolveMember(lookup, member)
			if err != nil {
				return nil, &BindingResolutionError{Operation: op, Member: member, Rule: rule.Name, Cause: err}
			}
			entry.handle = handle
		}
		table.entries[op.index()] = entry
	}
	return table, nil
}

func resolveType(lookup Lookup, id TypeID) (TypeDescriptor, error) {
	desc, err := lookup.ResolveType(id)
	if err != nil {
		return nil, err
	}
	if desc == nil {
		return nil, fmt.Errorf("%w: type %s resolved to nil", ErrMemberNotFound, id)
	}
	return desc, nil
}

func resolveMember(lookup Lookup, member MemberRef) (Handle, error) {
	var (
		handle Handle
		err    error
	)
	switch member.Kind {
	case MemberConstructor:
		handle, err = lookup.ResolveConstructor(member.Declaring, member.Params...)
	case MemberMethod:
		handle, err = lookup.ResolveMethod(member.Declaring, member.Name, member.Returns, member.Params...)
	default:
		return nil, fmt.Errorf("core: member kind %s cannot be invoked", member.Kind)
	}
	if err != nil {
		return nil, err
	}
	if handle == nil {
		return nil, fmt.Errorf("%w: %s resolved to nil", ErrMemberNotFound, member)
	}
	return handle, nil
}

// call invokes the bound handle for op. Host panics are reported as
// HostCallError like any other host failure.
func (b *Bindings) call(op Operation, args ...any) (out any, err error) {
	if b == nil || !op.Valid() {
		return nil, fmt.Errorf("core: %s: %w", op, ErrOperationUnavailable)
	}
	entry := b.entries[op.index()]
	if !entry.Bound() {
		return nil, fmt.Errorf("core: %s under rule %s: %w", op, b.rule.Name, ErrOperationUnavailable)
	}
	defer func() {
		if recovered := recover(); recovered != nil {
			out = nil
			err = &HostCallError{Operation: op, Member: entry.Member.clone(), Cause: fmt.Errorf("panic: %v", recovered)}
		}
	}()
	out, err = entry.handle.Invoke(args...)
	if err != nil {
		return nil, &HostCallError{Operation: op, Member: entry.Member.clone(), Cause: err}
	}
	return out, nil
}

// callValue is call for operations whose member returns a value; a nil result
// is treated as a host failure.
func (b *Bindings) callValue(op Operation, args ...any) (any, error) {
	out, err := b.call(op, args...)
	if err != nil {
		return nil, err
	}
	if out == nil {
		entry := b.entries[op.index()]
		return nil, &HostCallError{Operation: op, Member: entry.Member.clone(), Cause: ErrEmptyResult}
	}
	return out, nil
}
