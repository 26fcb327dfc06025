package core

import (
	"fmt"
	"strings"
)

// Operation is one of the fixed abstract operations the facade binds. The
// declared shape of each operation is version independent; only the member
// identity (and, for Serialize/Deserialize, the parameter list) varies.
type Operation int

const (
	OpConstructPosition Operation = iota + 1
	OpLocateEntity
	OpGetWorldHandle
	OpSerialize
	OpDeserialize
	OpGetEnclosingWorld
	OpGetRegistryContext
	OpGetBlockTypeAt
	OpGetPositionOf
)

const operationCount = int(OpGetPositionOf)

var operationNames = map[Operation]string{
	OpConstructPosition:  "construct_position",
	OpLocateEntity:       "locate_entity",
	OpGetWorldHandle:     "get_world_handle",
	OpSerialize:          "serialize",
	OpDeserialize:        "deserialize",
	OpGetEnclosingWorld:  "get_enclosing_world",
	OpGetRegistryContext: "get_registry_context",
	OpGetBlockTypeAt:     "get_block_type_at",
	OpGetPositionOf:      "get_position_of",
}

func (o Operation) String() string {
	if name, ok := operationNames[o]; ok {
		return name
	}
	return fmt.Sprintf("operation(%d)", int(o))
}

func (o Operation) Valid() bool {
	return o >= OpConstructPosition && o <= OpGetPositionOf
}

func (o Operation) index() int {
	return int(o) - 1
}

// Operations lists every abstract operation in declaration order.
func Operations() []Operation {
	out := make([]Operation, 0, operationCount)
	for op := OpConstructPosition; op <= OpGetPositionOf; op++ {
		out = append(out, op)
	}
	return out
}

func ParseOperation(raw string) (Operation, error) {
	name := strings.TrimSpace(strings.ToLower(raw))
	name = strings.ReplaceAll(name, "-", "_")
	name = strings.ReplaceAll(name, " ", "_")
	for op, known := range operationNames {
		if known == name {
			return op, nil
		}
	}
	return 0, fmt.Errorf("core: unknown operation %q", raw)
}

type MemberKind int

const (
	MemberMethod MemberKind = iota
	MemberConstructor
	MemberType
)

func (k MemberKind) String() string {
	switch k {
	case MemberConstructor:
		return "constructor"
	case MemberType:
		return "type"
	default:
		return "method"
	}
}

// MemberRef identifies the concrete host member attempted for an operation.
type MemberRef struct {
	Kind      MemberKind
	Declaring TypeID
	Name      string
	Returns   TypeID
	Params    []TypeID
}

func (m MemberRef) String() string {
	params := make([]string, 0, len(m.Params))
	for _, param := range m.Params {
		params = append(params, string(param))
	}
	switch m.Kind {
	case MemberType:
		return "type " + string(m.Declaring)
	case MemberConstructor:
		return fmt.Sprintf("new %s(%s)", m.Declaring, strings.Join(params, ", "))
	default:
		return fmt.Sprintf("%s.%s(%s) %s", m.Declaring, m.Name, strings.Join(params, ", "), m.Returns)
	}
}

func (m MemberRef) clone() MemberRef {
	m.Params = append([]TypeID(nil), m.Params...)
	return m
}

func constructorRef(declaring TypeID, params ...TypeID) MemberRef {
	return MemberRef{Kind: MemberConstructor, Declaring: declaring, Returns: declaring, Params: params}
}

func methodRef(declaring TypeID, name string, returns TypeID, params ...TypeID) MemberRef {
	return MemberRef{Kind: MemberMethod, Declaring: declaring, Name: name, Returns: returns, Params: params}
}

func typeRef(id TypeID) MemberRef {
	return MemberRef{Kind: MemberType, Declaring: id}
}
