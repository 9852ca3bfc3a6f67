package game

import (
	"fmt"
	"strings"
)

// Area names.
const (
	AlgorithmForest        = "Algorithm Forest"
	DataStructureMountains = "Data Structure Mountains"
	DatabaseDungeon        = "Database Dungeon"
	SystemDesignCitadel    = "System Design Citadel"
	WebDevelopmentShores   = "Web Development Shores"
	CloudKingdom           = "Cloud Kingdom"
)

// UnlockOrder is the order in which levelling opens areas after the forest.
var UnlockOrder = []string{
	DataStructureMountains,
	DatabaseDungeon,
	SystemDesignCitadel,
	WebDevelopmentShores,
	CloudKingdom,
}

// Area is one region of the world map.
type Area struct {
	Name        string
	Description string
	Connected   []string
	Difficulty  int
	Topics      []string
	Unlocked    bool
}

// World is the map of areas. It is not safe for concurrent use.
type World struct {
	areas map[string]*Area
	order []string
}

// NewWorld creates the six areas with only the forest unlocked.
func NewWorld() *World {
	w := &World{areas: make(map[string]*Area)}
	for _, a := range []Area{
		{
			Name: AlgorithmForest,
			Description: "A mystical forest where algorithmic challenges lurk behind every tree. " +
				"The perfect starting point for new adventurers.",
			Connected:  []string{DataStructureMountains},
			Difficulty: 1,
			Topics:     []string{"sorting", "searching", "recursion"},
			Unlocked:   true,
		},
		{
			Name: DataStructureMountains,
			Description: "Towering peaks where each cliff and valley represents a different data structure. " +
				"A challenging area for those who have mastered the basics.",
			Connected:  []string{AlgorithmForest, DatabaseDungeon, SystemDesignCitadel},
			Difficulty: 2,
			Topics:     []string{"arrays", "linked_lists", "trees", "graphs"},
		},
		{
			Name: DatabaseDungeon,
			Description: "A sprawling underground network of caverns filled with database challenges. " +
				"The echoes of SQL queries bounce off the walls.",
			Connected:  []string{DataStructureMountains, SystemDesignCitadel},
			Difficulty: 3,
			Topics:     []string{"sql", "nosql", "data_modeling"},
		},
		{
			Name: SystemDesignCitadel,
			Description: "A grand fortress where architects come to test their system design knowledge. " +
				"Each room presents a different scalability challenge.",
			Connected:  []string{DataStructureMountains, DatabaseDungeon, WebDevelopmentShores},
			Difficulty: 4,
			Topics:     []string{"architecture", "scalability", "reliability"},
		},
		{
			Name: WebDevelopmentShores,
			Description: "A beautiful coastline where the waves of frontend and backend development crash together. " +
				"Build web applications to proceed further.",
			Connected:  []string{SystemDesignCitadel, CloudKingdom},
			Difficulty: 3,
			Topics:     []string{"frontend", "backend", "api_design"},
		},
		{
			Name: CloudKingdom,
			Description: "A kingdom floating among the clouds, representing the pinnacle of cloud computing challenges. " +
				"Only the most skilled adventurers can reach this realm.",
			Connected:  []string{WebDevelopmentShores},
			Difficulty: 5,
			Topics:     []string{"cloud_services", "serverless", "devops"},
		},
	} {
		a := a
		w.areas[a.Name] = &a
		w.order = append(w.order, a.Name)
	}
	return w
}

// Area returns a copy of the named area.
func (w *World) Area(name string) (Area, bool) {
	a, ok := w.areas[name]
	if !ok {
		return Area{}, false
	}
	return *a, true
}

// Areas returns every area in map order.
func (w *World) Areas() []Area {
	out := make([]Area, 0, len(w.order))
	for _, name := range w.order {
		out = append(out, *w.areas[name])
	}
	return out
}

// Unlock opens the named area.
func (w *World) Unlock(name string) error {
	a, ok := w.areas[name]
	if !ok {
		return fmt.Errorf("unknown area %q", name)
	}
	a.Unlocked = true
	return nil
}

// Sync unlocks every area the character has unlocked. Unknown names are
// ignored so saves from a larger world still load.
func (w *World) Sync(c *Character) {
	for _, name := range c.UnlockedAreas {
		_ = w.Unlock(name)
	}
}

// Unlocked returns the unlocked areas in map order.
func (w *World) Unlocked() []Area {
	var out []Area
	for _, name := range w.order {
		if a := w.areas[name]; a.Unlocked {
			out = append(out, *a)
		}
	}
	return out
}

// Connected returns the unlocked neighbours of an area.
func (w *World) Connected(name string) []Area {
	a, ok := w.areas[name]
	if !ok {
		return nil
	}
	var out []Area
	for _, n := range a.Connected {
		if c := w.areas[n]; c != nil && c.Unlocked {
			out = append(out, *c)
		}
	}
	return out
}

// Map renders the world map. Locked areas are shown as "???".
func (w *World) Map() string {
	label := func(name string) string {
		if a := w.areas[name]; a != nil && a.Unlocked {
			return strings.ToUpper(name)
		}
		return "???"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "                  [%s]\n", label(CloudKingdom))
	b.WriteString("                    /\n")
	fmt.Fprintf(&b, "           [%s]\n", label(WebDevelopmentShores))
	b.WriteString("                 /\n")
	fmt.Fprintf(&b, "        [%s]\n", label(SystemDesignCitadel))
	b.WriteString("             /        \\\n")
	fmt.Fprintf(&b, "  [%s]   [%s]\n", label(DatabaseDungeon), label(DataStructureMountains))
	b.WriteString("                          \\\n")
	fmt.Fprintf(&b, "                 [%s]\n", label(AlgorithmForest))
	return b.String()
}
