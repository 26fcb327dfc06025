package core

import (
	"fmt"
	"strings"
)

type Config struct {
	Name       string           `koanf:"name" mapstructure:"name"`
	Thresholds Thresholds       `koanf:"thresholds" mapstructure:"thresholds"`
	Overrides  []MemberOverride `koanf:"overrides" mapstructure:"overrides"`
}

func DefaultConfig() Config {
	return Config{
		Name:       "blocktag",
		Thresholds: DefaultThresholds(),
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("core: name is required")
	}
	if err := c.Thresholds.Validate(); err != nil {
		return err
	}
	for idx, override := range c.Overrides {
		if err := override.Validate(); err != nil {
			return fmt.Errorf("core: overrides[%d]: %w", idx, err)
		}
	}
	return nil
}
