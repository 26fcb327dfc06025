package core

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
)

type fakePosition struct {
	x, y, z int
}

type fakeBlockState struct {
	kind string
}

type foreignBlockState struct{}

type fakeRegistryContext struct {
	name string
}

type fakeServerWorld struct {
	name     string
	registry *fakeRegistryContext
	entities map[fakePosition]*fakeTile
	blocks   map[fakePosition]string
}

type fakeCraftWorld struct {
	handle *fakeServerWorld
}

type fakeTile struct {
	world      *fakeServerWorld
	pos        fakePosition
	data       map[string]any
	loadedWith string
}

type fakeTag struct {
	values map[string]any
}

type fakeBlock struct {
	world   *fakeCraftWorld
	x, y, z int
	state   any
}

func (b fakeBlock) World() any {
	if b.world == nil {
		return nil
	}
	return b.world
}

func (b fakeBlock) X() int     { return b.x }
func (b fakeBlock) Y() int     { return b.y }
func (b fakeBlock) Z() int     { return b.z }
func (b fakeBlock) State() any { return b.state }

type fakeWorldFixture struct {
	craft *fakeCraftWorld
	tile  *fakeTile
}

func newFakeWorld() fakeWorldFixture {
	server := &fakeServerWorld{
		name:     "overworld",
		registry: &fakeRegistryContext{name: "registries"},
		entities: map[fakePosition]*fakeTile{},
		blocks:   map[fakePosition]string{},
	}
	pos := fakePosition{x: 1, y: 64, z: 2}
	tile := &fakeTile{
		world: server,
		pos:   pos,
		data: map[string]any{
			"id":    "minecraft:chest",
			"Items": "diamond*3",
		},
	}
	server.entities[pos] = tile
	server.blocks[pos] = "chest"
	server.blocks[fakePosition{x: 5, y: 64, z: 5}] = "stone"
	return fakeWorldFixture{craft: &fakeCraftWorld{handle: server}, tile: tile}
}

func (f fakeWorldFixture) block(x, y, z int) fakeBlock {
	return fakeBlock{world: f.craft, x: x, y: y, z: z, state: &fakeBlockState{kind: "craft"}}
}

func copyValues(input map[string]any) map[string]any {
	out := make(map[string]any, len(input))
	for key, value := range input {
		out[key] = value
	}
	return out
}

type fakeType struct {
	id    TypeID
	match func(value any) bool
}

func (t fakeType) ID() TypeID { return t.id }

func (t fakeType) IsInstance(value any) bool { return t.match(value) }

// fakeLookup resolves members by shape and records every request and call.
// Members listed in missing (by MemberRef.String()) fail to resolve.
type fakeLookup struct {
	mu         sync.Mutex
	missing    map[string]bool
	failCall   map[string]error
	panicCall  map[string]bool
	saveNames  map[string]bool
	requested  []MemberRef
	calls      []string
	saveArgs   [][]any
	resolveHit atomic.Int64
}

func newFakeLookup() *fakeLookup {
	return &fakeLookup{
		missing:   map[string]bool{},
		failCall:  map[string]error{},
		panicCall: map[string]bool{},
		saveNames: map[string]bool{"b": true},
	}
}

func (l *fakeLookup) record(ref MemberRef) {
	l.resolveHit.Add(1)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.requested = append(l.requested, ref.clone())
}

func (l *fakeLookup) requestedMember(declaring TypeID, returns TypeID, params ...TypeID) (MemberRef, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, ref := range l.requested {
		if ref.Declaring == declaring && ref.Returns == returns && fmt.Sprint(ref.Params) == fmt.Sprint(params) {
			return ref, true
		}
	}
	return MemberRef{}, false
}

func (l *fakeLookup) callLog() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

func (l *fakeLookup) ResolveType(id TypeID) (TypeDescriptor, error) {
	ref := typeRef(id)
	l.record(ref)
	if l.missing[ref.String()] {
		return nil, fmt.Errorf("fake lookup: %w: %s", ErrMemberNotFound, ref)
	}
	switch id {
	case TypeTileEntity:
		return fakeType{id: id, match: func(value any) bool {
			_, ok := value.(*fakeTile)
			return ok
		}}, nil
	case TypeCraftBlockState:
		return fakeType{id: id, match: func(value any) bool {
			_, ok := value.(*fakeBlockState)
			return ok
		}}, nil
	}
	return nil, fmt.Errorf("fake lookup: %w: %s", ErrMemberNotFound, ref)
}

func (l *fakeLookup) ResolveConstructor(declaring TypeID, params ...TypeID) (Handle, error) {
	ref := constructorRef(declaring, params...)
	l.record(ref)
	if l.missing[ref.String()] || declaring != TypeBlockPosition || len(params) != 3 {
		return nil, fmt.Errorf("fake lookup: %w: %s", ErrMemberNotFound, ref)
	}
	return l.wrap(ref, "<init>", func(args ...any) (any, error) {
		if len(args) != 3 {
			return nil, fmt.Errorf("expected 3 coordinates, got %d", len(args))
		}
		x, okX := args[0].(int)
		y, okY := args[1].(int)
		z, okZ := args[2].(int)
		if !okX || !okY || !okZ {
			return nil, fmt.Errorf("coordinates must be ints")
		}
		return fakePosition{x: x, y: y, z: z}, nil
	}), nil
}

func (l *fakeLookup) ResolveMethod(declaring TypeID, name string, returns TypeID, params ...TypeID) (Handle, error) {
	ref := methodRef(declaring, name, returns, params...)
	l.record(ref)
	if l.missing[ref.String()] {
		return nil, fmt.Errorf("fake lookup: %w: %s", ErrMemberNotFound, ref)
	}
	impl := l.method(ref)
	if impl == nil {
		return nil, fmt.Errorf("fake lookup: %w: %s", ErrMemberNotFound, ref)
	}
	return l.wrap(ref, name, impl), nil
}

func (l *fakeLookup) wrap(ref MemberRef, name string, impl HandleFunc) Handle {
	return HandleFunc(func(args ...any) (any, error) {
		l.mu.Lock()
		l.calls = append(l.calls, name)
		failure := l.failCall[name]
		shouldPanic := l.panicCall[name]
		l.mu.Unlock()
		if shouldPanic {
			panic("host exploded in " + ref.String())
		}
		if failure != nil {
			return nil, failure
		}
		return impl(args...)
	})
}

func (l *fakeLookup) method(ref MemberRef) HandleFunc {
	signature := fmt.Sprintf("%s|%s|%v", ref.Declaring, ref.Returns, ref.Params)
	switch signature {
	case "World|TileEntity|[BlockPosition]":
		return func(args ...any) (any, error) {
			world, pos, err := worldAndPosition(args)
			if err != nil {
				return nil, err
			}
			tile, ok := world.entities[pos]
			if !ok {
				return nil, nil
			}
			return tile, nil
		}
	case "CraftWorld|WorldServer|[]":
		return func(args ...any) (any, error) {
			craft, ok := firstArg[*fakeCraftWorld](args)
			if !ok {
				return nil, fmt.Errorf("receiver is not a craft world")
			}
			return craft.handle, nil
		}
	case "TileEntity|World|[]":
		return func(args ...any) (any, error) {
			tile, ok := firstArg[*fakeTile](args)
			if !ok {
				return nil, fmt.Errorf("receiver is not a tile")
			}
			return tile.world, nil
		}
	case "TileEntity|BlockPosition|[]":
		return func(args ...any) (any, error) {
			tile, ok := firstArg[*fakeTile](args)
			if !ok {
				return nil, fmt.Errorf("receiver is not a tile")
			}
			return tile.pos, nil
		}
	case "World|RegistryContext|[]":
		return func(args ...any) (any, error) {
			world, ok := firstArg[*fakeServerWorld](args)
			if !ok {
				return nil, fmt.Errorf("receiver is not a server world")
			}
			if world.registry == nil {
				return nil, nil
			}
			return world.registry, nil
		}
	case "World|IBlockData|[BlockPosition]":
		return func(args ...any) (any, error) {
			world, pos, err := worldAndPosition(args)
			if err != nil {
				return nil, err
			}
			return world.blocks[pos], nil
		}
	case "TileEntity|NBTTagCompound|[]":
		return func(args ...any) (any, error) {
			tile, ok := firstArg[*fakeTile](args)
			if !ok {
				return nil, fmt.Errorf("receiver is not a tile")
			}
			l.recordSave(args)
			return &fakeTag{values: copyValues(tile.data)}, nil
		}
	case "TileEntity|NBTTagCompound|[RegistryContext]":
		return func(args ...any) (any, error) {
			tile, ok := firstArg[*fakeTile](args)
			if !ok || len(args) != 2 {
				return nil, fmt.Errorf("expected tile and registry context")
			}
			if registry, ok := args[1].(*fakeRegistryContext); !ok || registry == nil {
				return nil, fmt.Errorf("registry context is required")
			}
			l.recordSave(args)
			return &fakeTag{values: copyValues(tile.data)}, nil
		}
	case "TileEntity|NBTTagCompound|[NBTTagCompound]":
		return func(args ...any) (any, error) {
			tile, tag, err := tileAndTag(args)
			if err != nil {
				return nil, err
			}
			l.recordSave(args)
			tag.values = copyValues(tile.data)
			return tag, nil
		}
	case "TileEntity|void|[NBTTagCompound]":
		if l.saveNames[ref.Name] {
			return func(args ...any) (any, error) {
				tile, tag, err := tileAndTag(args)
				if err != nil {
					return nil, err
				}
				l.recordSave(args)
				tag.values = copyValues(tile.data)
				return nil, nil
			}
		}
		return func(args ...any) (any, error) {
			tile, tag, err := tileAndTag(args)
			if err != nil {
				return nil, err
			}
			tile.data = copyValues(tag.values)
			return nil, nil
		}
	case "TileEntity|void|[IBlockData NBTTagCompound]":
		return func(args ...any) (any, error) {
			if len(args) != 3 {
				return nil, fmt.Errorf("expected tile, block data and tag")
			}
			tile, tag, err := tileAndTag([]any{args[0], args[2]})
			if err != nil {
				return nil, err
			}
			blockType, ok := args[1].(string)
			if !ok || blockType == "" {
				return nil, fmt.Errorf("block data is required")
			}
			tile.loadedWith = blockType
			tile.data = copyValues(tag.values)
			return nil, nil
		}
	}
	return nil
}

func (l *fakeLookup) recordSave(args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.saveArgs = append(l.saveArgs, append([]any(nil), args...))
}

func firstArg[T any](args []any) (T, bool) {
	var zero T
	if len(args) == 0 {
		return zero, false
	}
	value, ok := args[0].(T)
	return value, ok
}

func worldAndPosition(args []any) (*fakeServerWorld, fakePosition, error) {
	if len(args) != 2 {
		return nil, fakePosition{}, fmt.Errorf("expected world and position")
	}
	world, ok := args[0].(*fakeServerWorld)
	if !ok {
		return nil, fakePosition{}, fmt.Errorf("receiver is not a server world")
	}
	pos, ok := args[1].(fakePosition)
	if !ok {
		return nil, fakePosition{}, fmt.Errorf("argument is not a position")
	}
	return world, pos, nil
}

func tileAndTag(args []any) (*fakeTile, *fakeTag, error) {
	if len(args) != 2 {
		return nil, nil, fmt.Errorf("expected tile and tag")
	}
	tile, ok := args[0].(*fakeTile)
	if !ok {
		return nil, nil, fmt.Errorf("receiver is not a tile")
	}
	tag, ok := args[1].(*fakeTag)
	if !ok || tag == nil {
		return nil, nil, fmt.Errorf("argument is not a tag")
	}
	return tile, tag, nil
}

type fakeContainers struct {
	mu      sync.Mutex
	created []*fakeTag
	err     error
}

func (f *fakeContainers) NewContainer() (any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	tag := &fakeTag{values: map[string]any{}}
	f.created = append(f.created, tag)
	return tag, nil
}

type countingDetector struct {
	profile VersionProfile
	err     error
	calls   atomic.Int64
}

func (d *countingDetector) Detect(context.Context) (VersionProfile, error) {
	d.calls.Add(1)
	if d.err != nil {
		return VersionProfile{}, d.err
	}
	return d.profile, nil
}

// ruleProfiles holds one representative profile per decision table row.
var ruleProfiles = map[string]VersionProfile{
	"friendly-registry":   {Major: 21, Full: 12101, Mapping: MappingFriendly},
	"friendly":            {Major: 20, Full: 12004, Mapping: MappingFriendly},
	"registry-save":       {Major: 20, Full: 12006, Mapping: MappingObfuscated},
	"modern-save-renamed": {Major: 19, Full: 11904, Mapping: MappingObfuscated},
	"modern-save":         {Major: 18, Full: 11802, Mapping: MappingObfuscated},
	"legacy-block-data":   {Major: 16, Full: 11605, Mapping: MappingObfuscated},
	"save-load-named":     {Major: 12, Full: 11202, Mapping: MappingObfuscated},
	"save-named":          {Major: 9, Full: 10904, Mapping: MappingObfuscated},
	"legacy":              {Major: 8, Full: 10808, Mapping: MappingObfuscated},
}

func newTestResolver(
	t *testing.T,
	profile VersionProfile,
	lookup Lookup,
	opts ...Option,
) (*Resolver, *fakeContainers) {
	t.Helper()
	containers := &fakeContainers{}
	base := []Option{
		WithLookup(lookup),
		WithVersionDetector(StaticDetector{Profile: profile}),
		WithContainerFactory(containers),
		WithLogger(stubLogger{}),
	}
	resolver, err := NewResolver(DefaultConfig(), append(base, opts...)...)
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}
	return resolver, containers
}

type stubLogger struct{}

func (stubLogger) Trace(string, ...any) {}
func (stubLogger) Debug(string, ...any) {}
func (stubLogger) Info(string, ...any)  {}
func (stubLogger) Warn(string, ...any)  {}
func (stubLogger) Error(string, ...any) {}
func (stubLogger) Fatal(string, ...any) {}
func (s stubLogger) WithContext(context.Context) Logger {
	return s
}

type stubLoggerProvider struct {
	logger Logger
}

func (s stubLoggerProvider) GetLogger(string) Logger {
	return s.logger
}

type mapRawLoader struct {
	values map[string]any
}

func (l mapRawLoader) LoadRaw(context.Context) (map[string]any, error) {
	if len(l.values) == 0 {
		return map[string]any{}, nil
	}
	out := make(map[string]any, len(l.values))
	for key, value := range l.values {
		out[key] = value
	}
	return out, nil
}

type panickingDetector struct{}

func (panickingDetector) Detect(context.Context) (VersionProfile, error) {
	panic("server handle not attached")
}

// panickingLookup resolves types and constructors but panics on methods.
type panickingLookup struct {
	*fakeLookup
}

func (panickingLookup) ResolveMethod(TypeID, string, TypeID, ...TypeID) (Handle, error) {
	panic("method table corrupted")
}

// contextDetector fails when the detection context is already done.
type contextDetector struct {
	profile VersionProfile
}

func (d contextDetector) Detect(ctx context.Context) (VersionProfile, error) {
	if err := ctx.Err(); err != nil {
		return VersionProfile{}, err
	}
	return d.profile, nil
}
