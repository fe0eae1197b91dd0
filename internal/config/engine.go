package config

import (
	"fmt"
	"strconv"

	"github.com/joeycumines/one-shot-cad/internal/engine"
)

// EngineDefaults builds the initial command options from the [fillet],
// [chamfer], [offset] and [copy] sections and the global pick tolerance.
// Unset options keep their schema defaults.
func EngineDefaults(c *Config) (engine.Defaults, error) {
	s := DefaultSchema()
	d := engine.BuiltinDefaults()

	floats := []struct {
		section, key string
		dst          *float64
		positive     bool
	}{
		{"fillet", "radius", &d.FilletRadius, false},
		{"chamfer", "distance1", &d.ChamferDist1, false},
		{"chamfer", "distance2", &d.ChamferDist2, false},
		{"offset", "distance", &d.OffsetDistance, true},
		{"", "pick.tolerance", &d.PickTolerance, true},
	}
	for _, o := range floats {
		v, err := parseFloat(s.ResolveIn(c, o.section, o.key))
		if err != nil {
			return engine.Defaults{}, fmt.Errorf("%s: %w", optionName(o.section, o.key), err)
		}
		switch {
		case o.positive && v <= 0:
			return engine.Defaults{}, fmt.Errorf("%s: must be positive, got %g", optionName(o.section, o.key), v)
		case v < 0:
			return engine.Defaults{}, fmt.Errorf("%s: must not be negative, got %g", optionName(o.section, o.key), v)
		}
		*o.dst = v
	}

	bools := []struct {
		section, key string
		dst          *bool
	}{
		{"fillet", "trim", &d.FilletTrim},
		{"fillet", "multiple", &d.FilletMultiple},
		{"chamfer", "trim", &d.ChamferTrim},
		{"chamfer", "multiple", &d.ChamferMultiple},
		{"copy", "multiple", &d.CopyMultiple},
	}
	for _, o := range bools {
		v, err := parseBool(s.ResolveIn(c, o.section, o.key))
		if err != nil {
			return engine.Defaults{}, fmt.Errorf("%s: %w", optionName(o.section, o.key), err)
		}
		*o.dst = v
	}

	return d, nil
}

// HistoryLimit returns the configured undo depth.
func HistoryLimit(c *Config) (int, error) {
	v := DefaultSchema().Resolve(c, "history.limit")
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("history.limit: invalid integer: %s", v)
	}
	return n, nil
}

func optionName(section, key string) string {
	if section == "" {
		return key
	}
	return "[" + section + "] " + key
}
