// Package game holds the player's side of codequest: the character, the world
// map and save files.
package game

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// MaxSkill caps every skill level.
const MaxSkill = 10.0

// SkillGain is added to a skill for each completed challenge that trains it.
const SkillGain = 0.2

// AreaUnlockInterval is the level step at which a new area opens.
const AreaUnlockInterval = 5

// Class is a character class. Each class starts with some skills boosted.
type Class int

const (
	AlgorithmWizard Class = iota
	DataStructurePaladin
	DebuggingRogue
	SystemDesignDruid
	FullstackBard
)

var classNames = [...]string{
	AlgorithmWizard:      "Algorithm Wizard",
	DataStructurePaladin: "Data Structure Paladin",
	DebuggingRogue:       "Debugging Rogue",
	SystemDesignDruid:    "System Design Druid",
	FullstackBard:        "Fullstack Bard",
}

// Classes lists every class in menu order.
func Classes() []Class {
	return []Class{AlgorithmWizard, DataStructurePaladin, DebuggingRogue, SystemDesignDruid, FullstackBard}
}

func (c Class) String() string {
	if c >= 0 && int(c) < len(classNames) {
		return classNames[c]
	}
	return fmt.Sprintf("Class(%d)", int(c))
}

// ParseClass accepts a class name in any case, with spaces, dashes or
// underscores between words, or a single word of it such as "wizard".
func ParseClass(s string) (Class, error) {
	key := foldName(s)
	for _, c := range Classes() {
		full := foldName(c.String())
		if key == full {
			return c, nil
		}
	}
	for _, c := range Classes() {
		for _, word := range strings.Fields(strings.ToLower(c.String())) {
			if key == word {
				return c, nil
			}
		}
	}
	return 0, fmt.Errorf("unknown class %q", s)
}

func (c Class) MarshalText() ([]byte, error) {
	if c < 0 || int(c) >= len(classNames) {
		return nil, fmt.Errorf("invalid class %d", int(c))
	}
	return []byte(c.String()), nil
}

func (c *Class) UnmarshalText(b []byte) error {
	v, err := ParseClass(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Skill is a trainable skill.
type Skill int

const (
	Arrays Skill = iota
	LinkedLists
	Trees
	Graphs
	DynamicProgramming
	Sorting
	Searching
	Recursion
	Databases
	SystemDesign
)

var skillNames = [...]string{
	Arrays:             "Arrays",
	LinkedLists:        "Linked Lists",
	Trees:              "Trees",
	Graphs:             "Graphs",
	DynamicProgramming: "Dynamic Programming",
	Sorting:            "Sorting",
	Searching:          "Searching",
	Recursion:          "Recursion",
	Databases:          "Databases",
	SystemDesign:       "System Design",
}

// Skills lists every skill.
func Skills() []Skill {
	out := make([]Skill, len(skillNames))
	for i := range out {
		out[i] = Skill(i)
	}
	return out
}

func (s Skill) String() string {
	if s >= 0 && int(s) < len(skillNames) {
		return skillNames[s]
	}
	return fmt.Sprintf("Skill(%d)", int(s))
}

// Key is the stable identifier used in save files and challenge packs,
// such as "linked_lists".
func (s Skill) Key() string {
	return strings.ReplaceAll(strings.ToLower(s.String()), " ", "_")
}

// ParseSkill accepts a skill's display name or key in any case.
func ParseSkill(name string) (Skill, error) {
	key := foldName(name)
	for _, s := range Skills() {
		if key == foldName(s.String()) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown skill %q", name)
}

func (s Skill) MarshalText() ([]byte, error) {
	if s < 0 || int(s) >= len(skillNames) {
		return nil, fmt.Errorf("invalid skill %d", int(s))
	}
	return []byte(s.Key()), nil
}

func (s *Skill) UnmarshalText(b []byte) error {
	v, err := ParseSkill(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func foldName(s string) string {
	r := strings.NewReplacer(" ", "", "_", "", "-", "")
	return strings.ToLower(r.Replace(strings.TrimSpace(s)))
}

// Character is the player's avatar. It is not safe for concurrent use.
type Character struct {
	ID                  string            `json:"id"`
	Name                string            `json:"name"`
	Class               Class             `json:"class"`
	Level               int               `json:"level"`
	Experience          int               `json:"experience"`
	ChallengesCompleted int               `json:"challenges_completed"`
	Completed           []string          `json:"completed,omitempty"`
	Skills              map[Skill]float64 `json:"skills"`
	Inventory           []string          `json:"inventory"`
	UnlockedAreas       []string          `json:"unlocked_areas"`
}

// NewCharacter creates a level 1 character standing in the Algorithm Forest.
func NewCharacter(name string, class Class) *Character {
	c := &Character{
		ID:            uuid.NewString(),
		Name:          name,
		Class:         class,
		Level:         1,
		Skills:        make(map[Skill]float64, len(skillNames)),
		Inventory:     []string{},
		UnlockedAreas: []string{AlgorithmForest},
	}
	for _, s := range Skills() {
		c.Skills[s] = 1
	}
	switch class {
	case AlgorithmWizard:
		c.Skills[DynamicProgramming] = 2
		c.Skills[Recursion] = 2
	case DataStructurePaladin:
		c.Skills[Arrays] = 2
		c.Skills[LinkedLists] = 2
		c.Skills[Trees] = 2
	case DebuggingRogue:
		c.Skills[Searching] = 2
		c.Skills[Sorting] = 2
	case SystemDesignDruid:
		c.Skills[SystemDesign] = 2
		c.Skills[Databases] = 2
	case FullstackBard:
		for _, s := range Skills() {
			c.Skills[s] = 1.5
		}
	}
	return c
}

// XPToNextLevel is the experience needed to leave the current level.
func (c *Character) XPToNextLevel() int {
	return 100 * c.Level
}

// GainExperience adds amount and levels up as many times as it covers. It
// reports the levels gained and any areas unlocked on the way.
func (c *Character) GainExperience(amount int) (levels int, unlocked []string) {
	if amount <= 0 {
		return 0, nil
	}
	c.Experience += amount
	for c.Experience >= c.XPToNextLevel() {
		c.Experience -= c.XPToNextLevel()
		c.Level++
		levels++
		if c.Level%AreaUnlockInterval == 0 {
			if area, ok := c.unlockNextArea(); ok {
				unlocked = append(unlocked, area)
			}
		}
	}
	return levels, unlocked
}

func (c *Character) unlockNextArea() (string, bool) {
	for _, area := range UnlockOrder {
		if !c.HasArea(area) {
			c.UnlockedAreas = append(c.UnlockedAreas, area)
			return area, true
		}
	}
	return "", false
}

// HasArea reports whether area is unlocked.
func (c *Character) HasArea(area string) bool {
	for _, a := range c.UnlockedAreas {
		if a == area {
			return true
		}
	}
	return false
}

// HasCompleted reports whether the challenge id was completed before.
func (c *Character) HasCompleted(id string) bool {
	for _, done := range c.Completed {
		if done == id {
			return true
		}
	}
	return false
}

// Progress describes what completing a challenge changed.
type Progress struct {
	XPGained      int
	LevelsGained  int
	Level         int
	Skill         string
	SkillLevel    float64
	UnlockedAreas []string
	// Repeat is set when the challenge had been completed before. A repeat
	// earns no experience.
	Repeat bool
}

// CompleteChallenge records a completed challenge. skill may be empty or
// unknown, in which case no skill improves.
func (c *Character) CompleteChallenge(id, skill string, xp int) Progress {
	p := Progress{Repeat: c.HasCompleted(id)}
	c.ChallengesCompleted++
	if !p.Repeat {
		c.Completed = append(c.Completed, id)
		p.XPGained = xp
		p.LevelsGained, p.UnlockedAreas = c.GainExperience(xp)
	}
	if s, err := ParseSkill(skill); err == nil {
		c.Skills[s] = min(MaxSkill, c.Skills[s]+SkillGain)
		p.Skill = s.String()
		p.SkillLevel = c.Skills[s]
	}
	p.Level = c.Level
	return p
}

// AddItem puts item in the inventory.
func (c *Character) AddItem(item string) {
	c.Inventory = append(c.Inventory, item)
}

// SkillLevel pairs a skill with its level.
type SkillLevel struct {
	Name  string
	Level float64
}

// Stats is a display snapshot of a character.
type Stats struct {
	Name                string
	Class               string
	Level               int
	Experience          int
	XPToNextLevel       int
	ChallengesCompleted int
	Skills              []SkillLevel
	Inventory           []string
	UnlockedAreas       []string
}

// Stats returns the character's stats with skills in declaration order.
func (c *Character) Stats() Stats {
	skills := make([]SkillLevel, 0, len(c.Skills))
	for s, lvl := range c.Skills {
		skills = append(skills, SkillLevel{Name: s.String(), Level: lvl})
	}
	sort.Slice(skills, func(i, j int) bool {
		a, _ := ParseSkill(skills[i].Name)
		b, _ := ParseSkill(skills[j].Name)
		return a < b
	})
	return Stats{
		Name:                c.Name,
		Class:               c.Class.String(),
		Level:               c.Level,
		Experience:          c.Experience,
		XPToNextLevel:       c.XPToNextLevel(),
		ChallengesCompleted: c.ChallengesCompleted,
		Skills:              skills,
		Inventory:           append([]string(nil), c.Inventory...),
		UnlockedAreas:       append([]string(nil), c.UnlockedAreas...),
	}
}
