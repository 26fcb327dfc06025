package lookup

import "github.com/goliatone/go-blocktag/core"

type typeDescriptor struct {
	id    core.TypeID
	match func(value any) bool
}

func (d typeDescriptor) ID() core.TypeID {
	return d.id
}

func (d typeDescriptor) IsInstance(value any) bool {
	if value == nil || d.match == nil {
		return false
	}
	return d.match(value)
}

// TypeOf describes values whose dynamic type is T.
func TypeOf[T any](id core.TypeID) core.TypeDescriptor {
	return typeDescriptor{id: id, match: func(value any) bool {
		_, ok := value.(T)
		return ok
	}}
}

// Predicate describes values accepted by match.
func Predicate(id core.TypeID, match func(value any) bool) core.TypeDescriptor {
	return typeDescriptor{id: id, match: match}
}
