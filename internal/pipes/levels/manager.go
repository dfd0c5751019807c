// Package levels tracks the map directory and the level being played.
package levels

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/vovakirdan/tui-pipes/internal/pipes/core"
	"github.com/vovakirdan/tui-pipes/internal/pipes/mapfile"
)

// Generate is the pseudo level name for a freshly generated random map.
const Generate = "<generate>"

// ErrBlankLevel is returned by SetLevel for an empty name.
var ErrBlankLevel = errors.New("levels: blank level name")

// Manager lists the maps of one directory and remembers the current one.
// It is not safe for concurrent use.
type Manager struct {
	dir     string
	names   []string
	current string
	gen     core.GenParams
}

// NewManager creates a manager for dir and loads its listing. gen is used
// for the Generate pseudo level.
func NewManager(dir string, gen core.GenParams) (*Manager, error) {
	m := &Manager{gen: gen}
	if err := m.SetDir(dir); err != nil {
		return nil, err
	}
	return m, nil
}

// SetDir switches to dir and reloads the listing. A missing directory
// yields an empty listing.
func (m *Manager) SetDir(dir string) error {
	if dir == "" {
		dir = "."
	}
	m.dir = dir
	return m.Reload()
}

// Dir returns the map directory.
func (m *Manager) Dir() string {
	return m.dir
}

// Reload rescans the directory for *.map files, sorted by name.
func (m *Manager) Reload() error {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		m.names = nil
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("levels: read %s: %w", m.dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasSuffix(e.Name(), mapfile.Ext) {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	m.names = names
	return nil
}

// Names returns the level file names in order.
func (m *Manager) Names() []string {
	return slices.Clone(m.names)
}

// Current returns the current level name, or "" when none is set.
func (m *Manager) Current() string {
	return m.current
}

// SetLevel selects a level by file name or Generate.
func (m *Manager) SetLevel(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrBlankLevel
	}
	m.current = name
	return nil
}

// CurrentPath returns the full path of the current level.
func (m *Manager) CurrentPath() string {
	return filepath.Join(m.dir, m.current)
}

// Next advances to the following level and returns its name, or "" after
// the last one. The current level must be one of Names; anything else is
// a caller bug and panics.
func (m *Manager) Next() string {
	i := slices.Index(m.names, m.current)
	if i < 0 {
		panic(fmt.Sprintf("levels: current level %q is not in %s", m.current, m.dir))
	}
	if i == len(m.names)-1 {
		return ""
	}
	m.current = m.names[i+1]
	return m.current
}

// Load reads the current level. Generate produces a new random map with
// the manager's generation parameters, bumping the seed each call.
func (m *Manager) Load() (core.GameProperties, error) {
	if m.current == "" {
		return core.GameProperties{}, ErrBlankLevel
	}
	if m.current == Generate {
		props, err := core.Generate(m.gen)
		m.gen.Seed++
		return props, err
	}
	return mapfile.ParseFile(m.CurrentPath())
}
