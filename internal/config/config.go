// Package config holds the run configuration for ceabridge: which scenario
// to operate on, how the thermal-network layout should be built, and how
// the external CEA command line is reached.
package config

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for broad classification.
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidConfig = errors.New("invalid config")
)

// ConfigError wraps a configuration failure with the offending path/field.
type ConfigError struct {
	Kind  error
	Path  string
	Field string
	Msg   string
}

func (e *ConfigError) Error() string {
	if e == nil {
		return ""
	}
	parts := []string{e.Kind.Error()}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	if e.Msg != "" {
		parts = append(parts, e.Msg)
	}
	s := strings.Join(parts, ": ")
	if e.Path != "" {
		s += fmt.Sprintf(" (path=%s)", e.Path)
	}
	return s
}

func (e *ConfigError) Unwrap() error { return e.Kind }

func invalidf(field, format string, args ...any) error {
	return &ConfigError{Kind: ErrInvalidConfig, Field: field, Msg: fmt.Sprintf(format, args...)}
}

// NetworkType identifies the thermal network a layout is built for.
type NetworkType string

const (
	NetworkDH NetworkType = "DH" // district heating
	NetworkDC NetworkType = "DC" // district cooling
)

// TreeStrategy selects how pipe routes are derived from the potential
// network. The minimum-spanning-tree variant is an alternate strategy that
// stays reachable through configuration.
type TreeStrategy string

const (
	TreeSteiner         TreeStrategy = "steiner"
	TreeMinimumSpanning TreeStrategy = "minimum-spanning"
)

// NetworkLayout carries the settings the layout pipeline hands to the
// external GIS computations.
type NetworkLayout struct {
	NetworkType         NetworkType
	PipeMaterial        string
	PipeDiameter        float64
	CreatePlant         bool
	AllowLoopedNetworks bool
	Buildings           []string // connected buildings
	TreeStrategy        TreeStrategy
}

// ThermalNetwork carries settings shared with the thermal-network solver.
type ThermalNetwork struct {
	DisconnectedBuildings []string
}

// Config is the fully validated run configuration.
type Config struct {
	Scenario string
	Weather  string
	// Python is the interpreter used to reach the external CEA CLI.
	// Empty means "discover via the interpreter path file".
	Python string

	NetworkLayout  NetworkLayout
	ThermalNetwork ThermalNetwork
}

// Defaults mirror the CEA defaults for a layout run.
const (
	DefaultPipeMaterial = "T1"
	DefaultPipeDiameter = 150
)

// Validate checks cross-field invariants. The scenario is not required
// here: commands that operate on one enforce it themselves, and path
// existence belongs to the operations that consume the paths.
func (c *Config) Validate() error {
	if c == nil {
		return invalidf("", "nil config")
	}
	switch c.NetworkLayout.NetworkType {
	case NetworkDH, NetworkDC:
	default:
		return invalidf("network-layout.network-type", "must be DH or DC (got %q)", c.NetworkLayout.NetworkType)
	}
	switch c.NetworkLayout.TreeStrategy {
	case TreeSteiner, TreeMinimumSpanning:
	default:
		return invalidf("network-layout.tree-strategy", "must be steiner or minimum-spanning (got %q)", c.NetworkLayout.TreeStrategy)
	}
	if c.NetworkLayout.PipeDiameter <= 0 {
		return invalidf("network-layout.pipe-diameter", "must be positive (got %v)", c.NetworkLayout.PipeDiameter)
	}
	return nil
}
