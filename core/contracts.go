package core

import (
	"context"
	"errors"

	glog "github.com/goliatone/go-logger/glog"
)

// TypeID names a host type independently of the host's own (possibly
// obfuscated) class naming. Lookup implementations map ids to host types.
type TypeID string

const (
	TypeBlockPosition   TypeID = "BlockPosition"
	TypeWorld           TypeID = "World"
	TypeCraftWorld      TypeID = "CraftWorld"
	TypeWorldServer     TypeID = "WorldServer"
	TypeTileEntity      TypeID = "TileEntity"
	TypeNBTTagCompound  TypeID = "NBTTagCompound"
	TypeBlockData       TypeID = "IBlockData"
	TypeCraftBlockState TypeID = "CraftBlockState"
	TypeRegistryContext TypeID = "RegistryContext"
	TypeInt             TypeID = "int"
	TypeVoid            TypeID = "void"
)

// ErrMemberNotFound is returned (wrapped) by Lookup implementations when a
// requested type, constructor or method does not exist on the host.
var ErrMemberNotFound = errors.New("core: member not found")

// Handle is a late-bound host member. Method handles take the receiver as
// their first argument; constructor handles take only the parameters.
type Handle interface {
	Invoke(args ...any) (any, error)
}

type HandleFunc func(args ...any) (any, error)

func (f HandleFunc) Invoke(args ...any) (any, error) {
	return f(args...)
}

type TypeDescriptor interface {
	ID() TypeID
	IsInstance(value any) bool
}

type Lookup interface {
	ResolveType(id TypeID) (TypeDescriptor, error)
	ResolveConstructor(declaring TypeID, params ...TypeID) (Handle, error)
	ResolveMethod(declaring TypeID, name string, returns TypeID, params ...TypeID) (Handle, error)
}

type VersionDetector interface {
	Detect(ctx context.Context) (VersionProfile, error)
}

type ContainerFactory interface {
	NewContainer() (any, error)
}

type ContainerFactoryFunc func() (any, error)

func (f ContainerFactoryFunc) NewContainer() (any, error) {
	return f()
}

// BlockRef is the caller-side view of a block: the world it lives in, its
// integer coordinates and the host block-state object backing it.
type BlockRef interface {
	World() any
	X() int
	Y() int
	Z() int
	State() any
}

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger
