package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"codequest/internal/logging"
)

var (
	// ErrNoSave is returned by Load when no save exists for a name.
	ErrNoSave = errors.New("no saved game")
	// ErrInvalidName is returned for a character name that cannot name a
	// save file.
	ErrInvalidName = errors.New("invalid character name")
)

// saveFile is the on-disk form of a save.
type saveFile struct {
	Character
	Timestamp time.Time `json:"timestamp"`
}

// SaveInfo summarizes one save file.
type SaveInfo struct {
	Name      string
	Class     string
	Level     int
	Timestamp time.Time
	Path      string
}

// SaveManager stores one JSON file per character in a directory.
type SaveManager struct {
	dir string
	now func() time.Time
}

// NewSaveManager creates dir if needed.
func NewSaveManager(dir string) (*SaveManager, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create save directory: %w", err)
	}
	return &SaveManager{dir: dir, now: time.Now}, nil
}

// Dir returns the save directory.
func (m *SaveManager) Dir() string { return m.dir }

// FileName maps a character name onto its save file name.
func FileName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_") + ".json"
}

// ValidateName rejects names that are empty or would leave the save
// directory.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return fmt.Errorf("%w: name is empty", ErrInvalidName)
	case strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidName, name)
	case strings.HasPrefix(name, "."):
		return fmt.Errorf("%w: %q starts with a dot", ErrInvalidName, name)
	}
	return nil
}

func (m *SaveManager) path(name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	return filepath.Join(m.dir, FileName(name)), nil
}

// Save writes c, replacing any earlier save of the same name.
func (m *SaveManager) Save(c *Character) error {
	path, err := m.path(c.Name)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(saveFile{Character: *c, Timestamp: m.now().UTC()}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal save: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write save: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to write save: %w", err)
	}
	logging.Game("Saved %s (level %d) to %s", c.Name, c.Level, path)
	return nil
}

// Load reads the save for name.
func (m *SaveManager) Load(name string) (*Character, error) {
	path, err := m.path(name)
	if err != nil {
		return nil, err
	}
	sf, err := readSave(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w for %q", ErrNoSave, name)
		}
		return nil, err
	}
	c := sf.Character
	if c.Skills == nil {
		c.Skills = make(map[Skill]float64)
	}
	for _, s := range Skills() {
		if _, ok := c.Skills[s]; !ok {
			c.Skills[s] = 1
		}
	}
	if len(c.UnlockedAreas) == 0 {
		c.UnlockedAreas = []string{AlgorithmForest}
	}
	if c.Inventory == nil {
		c.Inventory = []string{}
	}
	if c.Level < 1 {
		c.Level = 1
	}
	return &c, nil
}

func readSave(path string) (saveFile, error) {
	var sf saveFile
	data, err := os.ReadFile(path)
	if err != nil {
		return sf, err
	}
	if err := json.Unmarshal(data, &sf); err != nil {
		return sf, fmt.Errorf("failed to parse save %s: %w", filepath.Base(path), err)
	}
	return sf, nil
}

// List summarizes every readable save, sorted by name. Corrupted files are
// logged and skipped.
func (m *SaveManager) List() ([]SaveInfo, error) {
	matches, err := filepath.Glob(filepath.Join(m.dir, "*.json"))
	if err != nil {
		return nil, err
	}
	var out []SaveInfo
	for _, path := range matches {
		sf, err := readSave(path)
		if err != nil {
			logging.Get(logging.CategoryGame).Warn("Skipping save %s: %v", path, err)
			continue
		}
		out = append(out, SaveInfo{
			Name:      sf.Name,
			Class:     sf.Class.String(),
			Level:     sf.Level,
			Timestamp: sf.Timestamp,
			Path:      path,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Delete removes the save for name.
func (m *SaveManager) Delete(name string) error {
	path, err := m.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w for %q", ErrNoSave, name)
		}
		return err
	}
	return nil
}
