package core

import (
	"fmt"
	"strings"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

// MemberOverride renames the member bound for Operation whenever When
// evaluates to true. When is an expr-lang expression over major, full and
// friendly; an empty When always matches. Overrides never change call shape.
type MemberOverride struct {
	When      string `koanf:"when" mapstructure:"when" json:"when"`
	Operation string `koanf:"operation" mapstructure:"operation" json:"operation"`
	Name      string `koanf:"name" mapstructure:"name" json:"name"`
}

func (o MemberOverride) Validate() error {
	op, err := ParseOperation(o.Operation)
	if err != nil {
		return err
	}
	if op == OpConstructPosition {
		return fmt.Errorf("core: override for %s is not supported, constructors have no name", op)
	}
	if strings.TrimSpace(o.Name) == "" {
		return fmt.Errorf("core: override for %s requires a member name", op)
	}
	return nil
}

type compiledOverride struct {
	source    MemberOverride
	operation Operation
	program   *exprvm.Program
}

func overrideEnv(profile VersionProfile) map[string]any {
	return map[string]any{
		"major":    profile.Major,
		"full":     profile.Full,
		"friendly": profile.Friendly(),
	}
}

func compileOverrides(overrides []MemberOverride) ([]compiledOverride, error) {
	compiled := make([]compiledOverride, 0, len(overrides))
	for idx, override := range overrides {
		if err := override.Validate(); err != nil {
			return nil, fmt.Errorf("core: overrides[%d]: %w", idx, err)
		}
		op, _ := ParseOperation(override.Operation)
		entry := compiledOverride{source: override, operation: op}
		if when := strings.TrimSpace(override.When); when != "" {
			program, err := exprlang.Compile(when,
				exprlang.Env(overrideEnv(VersionProfile{})),
				exprlang.AsBool(),
			)
			if err != nil {
				return nil, fmt.Errorf("core: overrides[%d]: invalid expression %q: %w", idx, when, err)
			}
			entry.program = program
		}
		compiled = append(compiled, entry)
	}
	return compiled, nil
}

func (o compiledOverride) matches(profile VersionProfile) (bool, error) {
	if o.program == nil {
		return true, nil
	}
	out, err := exprlang.Run(o.program, overrideEnv(profile))
	if err != nil {
		return false, fmt.Errorf("core: override %q: %w", o.source.When, err)
	}
	matched, _ := out.(bool)
	return matched, nil
}

// applyOverrides renames members in place; the first matching override per
// operation wins.
func applyOverrides(members map[Operation]MemberRef, overrides []compiledOverride, profile VersionProfile) error {
	applied := map[Operation]bool{}
	for _, override := range overrides {
		if applied[override.operation] {
			continue
		}
		matched, err := override.matches(profile)
		if err != nil {
			return err
		}
		if !matched {
			continue
		}
		member := members[override.operation]
		member.Name = strings.TrimSpace(override.source.Name)
		members[override.operation] = member
		applied[override.operation] = true
	}
	return nil
}
