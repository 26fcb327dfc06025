package core

import "fmt"

// Thresholds are the version boundaries of the decision table. Major-based
// thresholds compare against VersionProfile.Major; RegistrySave and
// ModernSaveRenamed compare against VersionProfile.Full.
type Thresholds struct {
	Minimum           int `koanf:"minimum" mapstructure:"minimum" json:"minimum"`
	SaveLoadNamed     int `koanf:"save_load_named" mapstructure:"save_load_named" json:"save_load_named"`
	LoadNamed         int `koanf:"load_named" mapstructure:"load_named" json:"load_named"`
	LegacyBlockData   int `koanf:"legacy_block_data" mapstructure:"legacy_block_data" json:"legacy_block_data"`
	ModernSave        int `koanf:"modern_save" mapstructure:"modern_save" json:"modern_save"`
	ModernSaveRenamed int `koanf:"modern_save_renamed" mapstructure:"modern_save_renamed" json:"modern_save_renamed"`
	RegistrySave      int `koanf:"registry_save" mapstructure:"registry_save" json:"registry_save"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		Minimum:           8,
		SaveLoadNamed:     9,
		LoadNamed:         12,
		LegacyBlockData:   16,
		ModernSave:        18,
		ModernSaveRenamed: 11903,
		RegistrySave:      12005,
	}
}

func (t Thresholds) Validate() error {
	if t.Minimum < 1 {
		return fmt.Errorf("core: thresholds.minimum must be positive")
	}
	if t.SaveLoadNamed < t.Minimum {
		return fmt.Errorf("core: thresholds.save_load_named must not be below thresholds.minimum")
	}
	if t.LoadNamed < t.SaveLoadNamed {
		return fmt.Errorf("core: thresholds.load_named must not be below thresholds.save_load_named")
	}
	if t.LegacyBlockData <= t.LoadNamed {
		return fmt.Errorf("core: thresholds.legacy_block_data must be above thresholds.load_named")
	}
	if t.ModernSave <= t.LegacyBlockData {
		return fmt.Errorf("core: thresholds.modern_save must be above thresholds.legacy_block_data")
	}
	if (t.ModernSaveRenamed/100)%100 < t.ModernSave {
		return fmt.Errorf("core: thresholds.modern_save_renamed must be a full version at or after thresholds.modern_save")
	}
	if t.RegistrySave <= t.ModernSaveRenamed {
		return fmt.Errorf("core: thresholds.registry_save must be above thresholds.modern_save_renamed")
	}
	return nil
}

// Branch is the call shape selected for Serialize and Deserialize.
type Branch int

const (
	BranchLegacy Branch = iota
	BranchNamedSaveLoad
	BranchLegacyBlockData
	BranchModernSave
	BranchRegistrySave
)

func (b Branch) String() string {
	switch b {
	case BranchLegacy:
		return "legacy"
	case BranchNamedSaveLoad:
		return "named_save_load"
	case BranchLegacyBlockData:
		return "legacy_block_data"
	case BranchModernSave:
		return "modern_save"
	case BranchRegistrySave:
		return "registry_save"
	default:
		return "unknown"
	}
}

// Requires reports whether op must resolve for this branch.
func (b Branch) Requires(op Operation) bool {
	switch op {
	case OpConstructPosition, OpLocateEntity, OpGetWorldHandle, OpSerialize, OpDeserialize:
		return true
	case OpGetEnclosingWorld:
		return b == BranchRegistrySave || b == BranchLegacyBlockData
	case OpGetRegistryContext:
		return b == BranchRegistrySave
	case OpGetBlockTypeAt, OpGetPositionOf:
		return b == BranchLegacyBlockData
	default:
		return false
	}
}

// MemberNames holds the host member names a rule binds.
type MemberNames struct {
	Locate          string
	WorldHandle     string
	Save            string
	Load            string
	EnclosingWorld  string
	RegistryContext string
	BlockTypeAt     string
	PositionOf      string
}

// Rule is one row of the decision table.
type Rule struct {
	Name   string
	Branch Branch
	Names  MemberNames
	match  func(profile VersionProfile, t Thresholds) bool
}

func (r Rule) Matches(profile VersionProfile, t Thresholds) bool {
	if r.match == nil {
		return true
	}
	return r.match(profile, t)
}

var (
	friendlyNames = MemberNames{
		Locate:          "getBlockEntity",
		WorldHandle:     "getHandle",
		Save:            "saveWithoutMetadata",
		Load:            "load",
		EnclosingWorld:  "getLevel",
		RegistryContext: "registryAccess",
		BlockTypeAt:     "getBlockState",
		PositionOf:      "getBlockPos",
	}
	legacyNames = MemberNames{
		Locate:          "getTileEntity",
		WorldHandle:     "getHandle",
		Save:            "b",
		Load:            "a",
		EnclosingWorld:  "getWorld",
		RegistryContext: "registryAccess",
		BlockTypeAt:     "getType",
		PositionOf:      "getPosition",
	}
)

func withNames(base MemberNames, apply func(*MemberNames)) MemberNames {
	apply(&base)
	return base
}

// Rules returns the decision table in evaluation order: most specific and
// most recent first. The final row has no predicate so every supported
// profile matches exactly one rule.
func Rules() []Rule {
	return []Rule{
		{
			Name:   "friendly-registry",
			Branch: BranchRegistrySave,
			Names:  friendlyNames,
			match: func(p VersionProfile, t Thresholds) bool {
				return p.Friendly() && p.Full >= t.RegistrySave
			},
		},
		{
			Name:   "friendly",
			Branch: BranchModernSave,
			Names:  friendlyNames,
			match: func(p VersionProfile, _ Thresholds) bool {
				return p.Friendly()
			},
		},
		{
			Name:   "registry-save",
			Branch: BranchRegistrySave,
			Names: withNames(legacyNames, func(n *MemberNames) {
				n.Locate = "c_"
				n.Save = "d"
				n.EnclosingWorld = "i"
				n.RegistryContext = "J_"
			}),
			match: func(p VersionProfile, t Thresholds) bool {
				return p.Full >= t.RegistrySave
			},
		},
		{
			Name:   "modern-save-renamed",
			Branch: BranchModernSave,
			Names: withNames(legacyNames, func(n *MemberNames) {
				n.Locate = "c_"
				n.Save = "o"
			}),
			match: func(p VersionProfile, t Thresholds) bool {
				return p.Full >= t.ModernSaveRenamed
			},
		},
		{
			Name:   "modern-save",
			Branch: BranchModernSave,
			Names: withNames(legacyNames, func(n *MemberNames) {
				n.Locate = "c_"
				n.Save = "m"
			}),
			match: func(p VersionProfile, t Thresholds) bool {
				return p.Major >= t.ModernSave
			},
		},
		{
			Name:   "legacy-block-data",
			Branch: BranchLegacyBlockData,
			Names: withNames(legacyNames, func(n *MemberNames) {
				n.Save = "save"
				n.Load = "load"
			}),
			match: func(p VersionProfile, t Thresholds) bool {
				return p.Major == t.LegacyBlockData
			},
		},
		{
			Name:   "save-load-named",
			Branch: BranchNamedSaveLoad,
			Names: withNames(legacyNames, func(n *MemberNames) {
				n.Save = "save"
				n.Load = "load"
			}),
			match: func(p VersionProfile, t Thresholds) bool {
				return p.Major >= t.LoadNamed
			},
		},
		{
			Name:   "save-named",
			Branch: BranchNamedSaveLoad,
			Names: withNames(legacyNames, func(n *MemberNames) {
				n.Save = "save"
			}),
			match: func(p VersionProfile, t Thresholds) bool {
				return p.Major >= t.SaveLoadNamed
			},
		},
		{
			Name:   "legacy",
			Branch: BranchLegacy,
			Names:  legacyNames,
		},
	}
}

// SelectRule returns the first rule matching profile. Profiles below
// t.Minimum are rejected rather than falling through to the legacy row.
func SelectRule(profile VersionProfile, t Thresholds) (Rule, error) {
	if err := profile.Validate(); err != nil {
		return Rule{}, err
	}
	if profile.Major < t.Minimum {
		return Rule{}, fmt.Errorf("%w: %s is older than 1.%d", ErrVersionUnsupported, profile.Release(), t.Minimum)
	}
	for _, rule := range Rules() {
		if rule.Matches(profile, t) {
			return rule, nil
		}
	}
	return Rule{}, fmt.Errorf("%w: no rule matches %s", ErrVersionUnsupported, profile)
}

// Members returns the member identity for every operation under this rule.
// Operations the branch does not require are still described so reports and
// faults can name them.
func (r Rule) Members() map[Operation]MemberRef {
	members := map[Operation]MemberRef{
		OpConstructPosition:  constructorRef(TypeBlockPosition, TypeInt, TypeInt, TypeInt),
		OpLocateEntity:       methodRef(TypeWorld, r.Names.Locate, TypeTileEntity, TypeBlockPosition),
		OpGetWorldHandle:     methodRef(TypeCraftWorld, r.Names.WorldHandle, TypeWorldServer),
		OpGetEnclosingWorld:  methodRef(TypeTileEntity, r.Names.EnclosingWorld, TypeWorld),
		OpGetRegistryContext: methodRef(TypeWorld, r.Names.RegistryContext, TypeRegistryContext),
		OpGetBlockTypeAt:     methodRef(TypeWorld, r.Names.BlockTypeAt, TypeBlockData, TypeBlockPosition),
		OpGetPositionOf:      methodRef(TypeTileEntity, r.Names.PositionOf, TypeBlockPosition),
	}

	switch r.Branch {
	case BranchRegistrySave:
		members[OpSerialize] = methodRef(TypeTileEntity, r.Names.Save, TypeNBTTagCompound, TypeRegistryContext)
	case BranchModernSave:
		members[OpSerialize] = methodRef(TypeTileEntity, r.Names.Save, TypeNBTTagCompound)
	case BranchNamedSaveLoad, BranchLegacyBlockData:
		members[OpSerialize] = methodRef(TypeTileEntity, r.Names.Save, TypeNBTTagCompound, TypeNBTTagCompound)
	default:
		// void in the oldest release; the caller's container is filled in place
		members[OpSerialize] = methodRef(TypeTileEntity, r.Names.Save, TypeVoid, TypeNBTTagCompound)
	}

	if r.Branch == BranchLegacyBlockData {
		members[OpDeserialize] = methodRef(TypeTileEntity, r.Names.Load, TypeVoid, TypeBlockData, TypeNBTTagCompound)
	} else {
		members[OpDeserialize] = methodRef(TypeTileEntity, r.Names.Load, TypeVoid, TypeNBTTagCompound)
	}
	return members
}
