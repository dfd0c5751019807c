package config

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Difficulty is a named preset for generated maps and flow timing.
type Difficulty struct {
	Name         string
	Delay        int
	FlowDuration int
	WallDensity  float64
}

var difficulties = map[string]Difficulty{
	"easy":   {Name: "easy", Delay: 15, FlowDuration: 6, WallDensity: 0.10},
	"normal": {Name: "normal", Delay: 10, FlowDuration: 5, WallDensity: 0.15},
	"hard":   {Name: "hard", Delay: 6, FlowDuration: 3, WallDensity: 0.25},
}

// Difficulties returns the preset names in alphabetical order.
func Difficulties() []string {
	names := make([]string, 0, len(difficulties))
	for name := range difficulties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupDifficulty returns the named preset, case-insensitively.
func LookupDifficulty(name string) (Difficulty, error) {
	d, ok := difficulties[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Difficulty{}, fmt.Errorf("config: unknown difficulty %q (want one of %s)",
			name, strings.Join(Difficulties(), ", "))
	}
	return d, nil
}

// Apply returns s with the preset's timing and density.
func (d Difficulty) Apply(s Settings) Settings {
	s.Delay = d.Delay
	s.FlowDuration = d.FlowDuration
	s.WallDensity = clampF(d.WallDensity, 0, 0.9)
	return s
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
