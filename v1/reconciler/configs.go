package reconciler

import (
	"fmt"

	registry "github.com/Aleph-Alpha/schemasync/v1/schema_registry"
)

// DefaultTargetCompatibility is asserted on the subject after every write.
const DefaultTargetCompatibility = registry.CompatibilityFull

// Config describes what to reconcile.
type Config struct {
	// Topic the schema belongs to. The subject is derived from Topic and Role
	// unless SubjectNameOverride is set.
	Topic string `yaml:"topic" envconfig:"RECONCILER_TOPIC"`

	// Role is "value" (default) or "key".
	Role registry.Role `yaml:"role" envconfig:"RECONCILER_ROLE"`

	SubjectNameOverride string `yaml:"subject_name_override" envconfig:"RECONCILER_SUBJECT_NAME_OVERRIDE"`

	// TargetCompatibilityLevel defaults to FULL.
	TargetCompatibilityLevel registry.CompatibilityLevel `yaml:"target_compatibility" envconfig:"RECONCILER_TARGET_COMPATIBILITY"`
}

// Subject returns the registry subject reconciled under c.
func (c Config) Subject() string {
	if c.SubjectNameOverride != "" {
		return c.SubjectNameOverride
	}
	return registry.SubjectName(c.Topic, c.Role)
}

func (c Config) validate() (Config, error) {
	if c.Topic == "" && c.SubjectNameOverride == "" {
		return c, fmt.Errorf("reconciler: topic or subject name override is required")
	}
	switch c.Role {
	case "":
		c.Role = registry.RoleValue
	case registry.RoleKey, registry.RoleValue:
	default:
		return c, fmt.Errorf("reconciler: invalid role %q", c.Role)
	}
	if c.TargetCompatibilityLevel == "" {
		c.TargetCompatibilityLevel = DefaultTargetCompatibility
	}
	level, err := registry.ParseCompatibilityLevel(string(c.TargetCompatibilityLevel))
	if err != nil {
		return c, fmt.Errorf("reconciler: %w", err)
	}
	c.TargetCompatibilityLevel = level
	return c, nil
}
