package core

import (
	"context"
	"time"
)

// IsPersistentEntity reports whether value is a host block entity. It returns
// false while the resolver is not Ready.
func (r *Resolver) IsPersistentEntity(value any) bool {
	if r == nil || value == nil || r.State() != StateReady {
		return false
	}
	return r.bindings.entityType.IsInstance(value)
}

// ResolvePersistentEntity locates the block entity behind block. The result
// is nil when the position holds no block entity.
func (r *Resolver) ResolvePersistentEntity(ctx context.Context, block BlockRef) (entity any, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer func() {
		r.observeOperation(ctx, startedAt, "resolve_entity", err, fields)
	}()

	bindings, err := r.Bindings(ctx)
	if err != nil {
		return nil, err
	}
	fields["rule"] = bindings.rule.Name
	if block == nil {
		err = missingArgument("block")
		return nil, err
	}
	x, y, z := block.X(), block.Y(), block.Z()
	fields["x"], fields["y"], fields["z"] = x, y, z

	if !bindings.blockStateType.IsInstance(block.State()) {
		err = invalidArgument("block state", TypeCraftBlockState)
		return nil, err
	}
	if block.World() == nil {
		err = missingArgument("block world")
		return nil, err
	}

	position, err := bindings.newPosition(x, y, z)
	if err != nil {
		return nil, err
	}
	world, err := bindings.worldHandle(block.World())
	if err != nil {
		return nil, err
	}
	return bindings.locate(world, position)
}

// Serialize returns a container holding the entity's persistent data.
func (r *Resolver) Serialize(ctx context.Context, entity any) (container any, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer func() {
		r.observeOperation(ctx, startedAt, "serialize", err, fields)
	}()

	bindings, err := r.Bindings(ctx)
	if err != nil {
		return nil, err
	}
	branch := bindings.rule.Branch
	fields["rule"] = bindings.rule.Name
	fields["branch"] = branch.String()
	if err = bindings.checkEntity(entity); err != nil {
		return nil, err
	}

	switch branch {
	case BranchRegistrySave:
		world, err := bindings.callValue(OpGetEnclosingWorld, entity)
		if err != nil {
			return nil, err
		}
		registry, err := bindings.callValue(OpGetRegistryContext, world)
		if err != nil {
			return nil, err
		}
		return bindings.callValue(OpSerialize, entity, registry)
	case BranchModernSave:
		return bindings.callValue(OpSerialize, entity)
	case BranchNamedSaveLoad, BranchLegacyBlockData:
		empty, err := r.newContainer()
		if err != nil {
			return nil, err
		}
		return bindings.callValue(OpSerialize, entity, empty)
	default:
		empty, err := r.newContainer()
		if err != nil {
			return nil, err
		}
		if _, err := bindings.call(OpSerialize, entity, empty); err != nil {
			return nil, err
		}
		return empty, nil
	}
}

// Deserialize loads container into entity, replacing its persistent state.
func (r *Resolver) Deserialize(ctx context.Context, entity any, container any) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer func() {
		r.observeOperation(ctx, startedAt, "deserialize", err, fields)
	}()

	bindings, err := r.Bindings(ctx)
	if err != nil {
		return err
	}
	fields["rule"] = bindings.rule.Name
	fields["branch"] = bindings.rule.Branch.String()
	if err = bindings.checkEntity(entity); err != nil {
		return err
	}
	if container == nil {
		err = missingArgument("container")
		return err
	}

	if bindings.rule.Branch == BranchLegacyBlockData {
		blockType, typeErr := bindings.blockTypeOf(entity)
		if typeErr != nil {
			err = typeErr
			return err
		}
		_, err = bindings.call(OpDeserialize, entity, blockType, container)
		return err
	}
	_, err = bindings.call(OpDeserialize, entity, container)
	return err
}

func (r *Resolver) newContainer() (any, error) {
	container, err := r.containerFactory.NewContainer()
	if err == nil && container == nil {
		err = ErrEmptyResult
	}
	if err != nil {
		return nil, &HostCallError{Operation: OpSerialize, Member: constructorRef(TypeNBTTagCompound), Cause: err}
	}
	return container, nil
}

func (b *Bindings) checkEntity(entity any) error {
	if entity == nil {
		return missingArgument("entity")
	}
	if !b.entityType.IsInstance(entity) {
		return invalidArgument("entity", TypeTileEntity)
	}
	return nil
}

func (b *Bindings) newPosition(x, y, z int) (any, error) {
	return b.callValue(OpConstructPosition, x, y, z)
}

func (b *Bindings) worldHandle(world any) (any, error) {
	return b.callValue(OpGetWorldHandle, world)
}

func (b *Bindings) locate(world any, position any) (any, error) {
	return b.call(OpLocateEntity, world, position)
}

// blockTypeOf reads the block type at the entity's own position, which the
// legacy block-data load requires alongside the container.
func (b *Bindings) blockTypeOf(entity any) (any, error) {
	world, err := b.callValue(OpGetEnclosingWorld, entity)
	if err != nil {
		return nil, err
	}
	position, err := b.callValue(OpGetPositionOf, entity)
	if err != nil {
		return nil, err
	}
	return b.callValue(OpGetBlockTypeAt, world, position)
}
