package core

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

type MappingMode int

const (
	MappingObfuscated MappingMode = iota
	MappingFriendly
)

func (m MappingMode) String() string {
	switch m {
	case MappingObfuscated:
		return "obfuscated"
	case MappingFriendly:
		return "friendly"
	default:
		return "unknown"
	}
}

func ParseMappingMode(raw string) (MappingMode, error) {
	switch strings.TrimSpace(strings.ToLower(raw)) {
	case "", "obfuscated", "spigot", "obf":
		return MappingObfuscated, nil
	case "friendly", "mojang", "mojmap":
		return MappingFriendly, nil
	default:
		return MappingObfuscated, fmt.Errorf("core: unknown mapping mode %q", raw)
	}
}

var (
	ErrVersionUndetected  = errors.New("core: host version could not be detected")
	ErrVersionUnsupported = errors.New("core: host version is not supported")
)

// VersionProfile is the detected host release. Full encodes release X.Y.Z as
// X*10000 + Y*100 + Z, so 1.19.3 is 11903; Major is the Y component.
type VersionProfile struct {
	Major   int
	Full    int
	Mapping MappingMode
}

func EncodeFullVersion(x, y, z int) int {
	return x*10000 + y*100 + z
}

func NewVersionProfile(major int, full int, mapping MappingMode) (VersionProfile, error) {
	profile := VersionProfile{Major: major, Full: full, Mapping: mapping}
	if err := profile.Validate(); err != nil {
		return VersionProfile{}, err
	}
	return profile, nil
}

func (p VersionProfile) Validate() error {
	if p.Major < 1 {
		return fmt.Errorf("%w: major version must be positive, got %d", ErrVersionUndetected, p.Major)
	}
	if p.Full <= 0 {
		return fmt.Errorf("%w: full version must be positive, got %d", ErrVersionUndetected, p.Full)
	}
	if (p.Full/100)%100 != p.Major {
		return fmt.Errorf("%w: full version %d does not carry major %d", ErrVersionUndetected, p.Full, p.Major)
	}
	if p.Mapping != MappingObfuscated && p.Mapping != MappingFriendly {
		return fmt.Errorf("%w: unknown mapping mode %d", ErrVersionUndetected, p.Mapping)
	}
	return nil
}

func (p VersionProfile) Friendly() bool {
	return p.Mapping == MappingFriendly
}

// Release renders the profile back into its X.Y.Z form.
func (p VersionProfile) Release() string {
	return fmt.Sprintf("%d.%d.%d", p.Full/10000, (p.Full/100)%100, p.Full%100)
}

func (p VersionProfile) String() string {
	return p.Release() + "/" + p.Mapping.String()
}

// ParseRelease accepts host release strings such as "1.20.4",
// "1.20.4-R0.1-SNAPSHOT" or "v1.16".
func ParseRelease(release string, mapping MappingMode) (VersionProfile, error) {
	raw := strings.TrimSpace(release)
	if idx := strings.IndexAny(raw, "-+ "); idx >= 0 {
		raw = raw[:idx]
	}
	if raw == "" {
		return VersionProfile{}, fmt.Errorf("%w: empty release string", ErrVersionUndetected)
	}
	if !strings.HasPrefix(raw, "v") {
		raw = "v" + raw
	}
	if !semver.IsValid(raw) {
		return VersionProfile{}, fmt.Errorf("%w: invalid release %q", ErrVersionUndetected, release)
	}
	parts := strings.Split(strings.TrimPrefix(semver.Canonical(raw), "v"), ".")
	if len(parts) != 3 {
		return VersionProfile{}, fmt.Errorf("%w: invalid release %q", ErrVersionUndetected, release)
	}
	numbers := make([]int, 3)
	for i, part := range parts {
		value, err := strconv.Atoi(part)
		if err != nil {
			return VersionProfile{}, fmt.Errorf("%w: invalid release %q", ErrVersionUndetected, release)
		}
		numbers[i] = value
	}
	if numbers[1] > 99 || numbers[2] > 99 {
		return VersionProfile{}, fmt.Errorf("%w: release %q out of encodable range", ErrVersionUndetected, release)
	}
	return NewVersionProfile(numbers[1], EncodeFullVersion(numbers[0], numbers[1], numbers[2]), mapping)
}

type StaticDetector struct {
	Profile VersionProfile
}

func (d StaticDetector) Detect(context.Context) (VersionProfile, error) {
	if err := d.Profile.Validate(); err != nil {
		return VersionProfile{}, err
	}
	return d.Profile, nil
}

// ReleaseDetector derives the profile from a release string reported by the
// host, e.g. the server's advertised game version.
type ReleaseDetector struct {
	Release func(ctx context.Context) (string, error)
	Mapping MappingMode
}

func (d ReleaseDetector) Detect(ctx context.Context) (VersionProfile, error) {
	if d.Release == nil {
		return VersionProfile{}, fmt.Errorf("%w: release source is not configured", ErrVersionUndetected)
	}
	release, err := d.Release(ctx)
	if err != nil {
		return VersionProfile{}, fmt.Errorf("%w: %v", ErrVersionUndetected, err)
	}
	return ParseRelease(release, d.Mapping)
}
