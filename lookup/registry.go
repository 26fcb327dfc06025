package lookup

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-blocktag/core"
)

type entry struct {
	member core.MemberRef
	handle core.Handle
}

// Registry is a concurrency safe core.Lookup backed by explicit
// registrations. Type ids pass through Alias before any comparison, so a
// member registered against a host type name resolves for every id aliased
// to it. Aliases may be added before or after the registrations they cover.
type Registry struct {
	mu      sync.RWMutex
	aliases map[core.TypeID]string
	types   map[core.TypeID]core.TypeDescriptor
	members []entry
}

func NewRegistry() *Registry {
	return &Registry{
		aliases: map[core.TypeID]string{},
		types:   map[core.TypeID]core.TypeDescriptor{},
	}
}

// Alias maps a core type id onto the host type name it stands for.
func (r *Registry) Alias(id core.TypeID, hostName string) error {
	if r == nil {
		return fmt.Errorf("lookup: registry is nil")
	}
	id = core.TypeID(strings.TrimSpace(string(id)))
	hostName = strings.TrimSpace(hostName)
	if id == "" || hostName == "" {
		return fmt.Errorf("lookup: alias requires a type id and host name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.aliases[id]
	if ok && existing != hostName {
		return fmt.Errorf("lookup: type %q already aliased to %q", id, existing)
	}
	if ok {
		return nil
	}

	r.aliases[id] = hostName
	if err := r.checkCollisionsLocked(); err != nil {
		delete(r.aliases, id)
		return err
	}
	return nil
}

// checkCollisionsLocked rejects alias tables that fold two registered types
// or two registered members onto the same host signature.
func (r *Registry) checkCollisionsLocked() error {
	seen := make(map[string]core.TypeID, len(r.types))
	for id := range r.types {
		name := r.hostNameLocked(id)
		if other, exists := seen[name]; exists {
			return fmt.Errorf("lookup: types %q and %q both resolve to host type %q", other, id, name)
		}
		seen[name] = id
	}
	keys := make(map[string]struct{}, len(r.members))
	for _, existing := range r.members {
		key := r.keyLocked(existing.member)
		if _, exists := keys[key]; exists {
			return fmt.Errorf("lookup: member %s registered twice under aliases", key)
		}
		keys[key] = struct{}{}
	}
	return nil
}

func (r *Registry) RegisterType(desc core.TypeDescriptor) error {
	if r == nil {
		return fmt.Errorf("lookup: registry is nil")
	}
	if desc == nil {
		return fmt.Errorf("lookup: type descriptor is nil")
	}
	if strings.TrimSpace(string(desc.ID())) == "" {
		return fmt.Errorf("lookup: type id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	id := core.TypeID(strings.TrimSpace(string(desc.ID())))
	if _, found := r.typeLocked(id); found {
		return fmt.Errorf("lookup: type %q already registered", r.hostNameLocked(id))
	}
	r.types[id] = desc
	return nil
}

// Register adds a constructor or method handle. Method handles receive the
// receiver as their first argument.
func (r *Registry) Register(member core.MemberRef, handle core.Handle) error {
	if r == nil {
		return fmt.Errorf("lookup: registry is nil")
	}
	if handle == nil {
		return fmt.Errorf("lookup: handle for %s is nil", member)
	}
	if strings.TrimSpace(string(member.Declaring)) == "" {
		return fmt.Errorf("lookup: declaring type is required")
	}
	switch member.Kind {
	case core.MemberConstructor:
	case core.MemberMethod:
		if strings.TrimSpace(member.Name) == "" {
			return fmt.Errorf("lookup: method name is required for %s", member)
		}
	default:
		return fmt.Errorf("lookup: %s members cannot be registered as handles", member.Kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	key := r.keyLocked(member)
	for _, existing := range r.members {
		if r.keyLocked(existing.member) == key {
			return fmt.Errorf("lookup: member %s already registered", key)
		}
	}
	r.members = append(r.members, entry{member: member, handle: handle})
	return nil
}

func (r *Registry) RegisterMethod(
	declaring core.TypeID,
	name string,
	returns core.TypeID,
	params []core.TypeID,
	fn core.HandleFunc,
) error {
	return r.Register(Method(declaring, name, returns, params...), fn)
}

func (r *Registry) RegisterConstructor(declaring core.TypeID, params []core.TypeID, fn core.HandleFunc) error {
	return r.Register(Constructor(declaring, params...), fn)
}

func (r *Registry) ResolveType(id core.TypeID) (core.TypeDescriptor, error) {
	if r == nil {
		return nil, fmt.Errorf("lookup: registry is nil")
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	desc, ok := r.typeLocked(id)
	if !ok {
		return nil, fmt.Errorf("lookup: %w: type %s (host %s)", core.ErrMemberNotFound, id, r.hostNameLocked(id))
	}
	return desc, nil
}

// typeLocked matches registrations by host name, so the alias table is
// applied at lookup time for types the same way it is for members.
func (r *Registry) typeLocked(id core.TypeID) (core.TypeDescriptor, bool) {
	name := r.hostNameLocked(id)
	for registered, desc := range r.types {
		if r.hostNameLocked(registered) == name {
			return desc, true
		}
	}
	return nil, false
}

func (r *Registry) ResolveConstructor(declaring core.TypeID, params ...core.TypeID) (core.Handle, error) {
	return r.resolve(Constructor(declaring, params...))
}

func (r *Registry) ResolveMethod(
	declaring core.TypeID,
	name string,
	returns core.TypeID,
	params ...core.TypeID,
) (core.Handle, error) {
	return r.resolve(Method(declaring, name, returns, params...))
}

func (r *Registry) resolve(member core.MemberRef) (core.Handle, error) {
	if r == nil {
		return nil, fmt.Errorf("lookup: registry is nil")
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	key := r.keyLocked(member)
	for _, existing := range r.members {
		if r.keyLocked(existing.member) == key {
			return existing.handle, nil
		}
	}
	return nil, fmt.Errorf("lookup: %w: %s", core.ErrMemberNotFound, key)
}

// Members lists registered member signatures in host naming, sorted.
func (r *Registry) Members() []string {
	if r == nil {
		return []string{}
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.members))
	for _, existing := range r.members {
		keys = append(keys, r.keyLocked(existing.member))
	}
	sort.Strings(keys)
	return keys
}

// ContainerFactory builds containers through the registered no-argument
// constructor of the container type.
func (r *Registry) ContainerFactory() core.ContainerFactory {
	return core.ContainerFactoryFunc(func() (any, error) {
		handle, err := r.ResolveConstructor(core.TypeNBTTagCompound)
		if err != nil {
			return nil, err
		}
		return handle.Invoke()
	})
}

func (r *Registry) hostNameLocked(id core.TypeID) string {
	trimmed := core.TypeID(strings.TrimSpace(string(id)))
	if name, ok := r.aliases[trimmed]; ok {
		return name
	}
	return string(trimmed)
}

func (r *Registry) keyLocked(member core.MemberRef) string {
	params := make([]string, 0, len(member.Params))
	for _, param := range member.Params {
		params = append(params, r.hostNameLocked(param))
	}
	declaring := r.hostNameLocked(member.Declaring)
	if member.Kind == core.MemberConstructor {
		return fmt.Sprintf("new %s(%s)", declaring, strings.Join(params, ", "))
	}
	return fmt.Sprintf("%s.%s(%s) %s",
		declaring,
		strings.TrimSpace(member.Name),
		strings.Join(params, ", "),
		r.hostNameLocked(member.Returns),
	)
}

func Method(declaring core.TypeID, name string, returns core.TypeID, params ...core.TypeID) core.MemberRef {
	return core.MemberRef{
		Kind:      core.MemberMethod,
		Declaring: declaring,
		Name:      name,
		Returns:   returns,
		Params:    append([]core.TypeID(nil), params...),
	}
}

func Constructor(declaring core.TypeID, params ...core.TypeID) core.MemberRef {
	return core.MemberRef{
		Kind:      core.MemberConstructor,
		Declaring: declaring,
		Returns:   declaring,
		Params:    append([]core.TypeID(nil), params...),
	}
}
