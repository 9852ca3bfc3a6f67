// Package challenge defines the challenge entity and the registry the game
// looks challenges up in.
//
// A Challenge pairs an immutable Definition with the verification strategy
// chosen for its test cases and a few mutable counters. Neither Challenge nor
// Registry is safe for concurrent use; the game drives them from one goroutine.
package challenge

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"codequest/internal/logging"
	"codequest/internal/submission"
	"codequest/internal/verify"
)

// DefaultArea is used when a definition names no area.
const DefaultArea = "Algorithm Forest"

// NoMoreHints is returned by Hint past the last hint.
const NoMoreHints = "No more hints available for this challenge."

var (
	// ErrNoTestCases is returned by New for a definition without cases.
	ErrNoTestCases = verify.ErrNoTestCases
	// ErrInvalid is returned by New for a malformed definition.
	ErrInvalid = errors.New("invalid challenge definition")
)

// Difficulty grades a challenge.
type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
	Epic
)

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "Easy"
	case Medium:
		return "Medium"
	case Hard:
		return "Hard"
	case Epic:
		return "Epic"
	default:
		return fmt.Sprintf("Difficulty(%d)", int(d))
	}
}

// ParseDifficulty accepts a difficulty name in any case.
func ParseDifficulty(s string) (Difficulty, error) {
	for d := Easy; d <= Epic; d++ {
		if strings.EqualFold(s, d.String()) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown difficulty %q", s)
}

// Category is the kind of problem a challenge poses.
type Category int

const (
	Algorithm Category = iota
	DataStructure
	SystemDesign
	Database
	Debugging
)

func (c Category) String() string {
	switch c {
	case Algorithm:
		return "Algorithm"
	case DataStructure:
		return "Data Structure"
	case SystemDesign:
		return "System Design"
	case Database:
		return "Database"
	case Debugging:
		return "Debugging"
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}

// ParseCategory accepts a category name in any case, with or without spaces,
// dashes or underscores.
func ParseCategory(s string) (Category, error) {
	fold := func(v string) string {
		r := strings.NewReplacer(" ", "", "_", "", "-", "")
		return strings.ToLower(r.Replace(v))
	}
	for c := Algorithm; c <= Debugging; c++ {
		if fold(s) == fold(c.String()) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", s)
}

// Definition is the immutable description of a challenge.
type Definition struct {
	ID          string
	Name        string
	Description string
	Difficulty  Difficulty
	Category    Category
	XPReward    int
	// TimeLimitSeconds of 0 means unlimited.
	TimeLimitSeconds int
	Cases            []verify.TestCase
	Hints            []string
	// Solution is a reference solution kept for documentation and tests.
	// The engine never runs it.
	Solution     string
	Area         string
	PrimarySkill string
	// Entrypoint is the function the learner is asked to write.
	Entrypoint string
	// Fixture is support code compiled with every submission.
	Fixture string
	// Template is the starter code offered in the editor.
	Template    string
	Complexity  verify.Complexity
	Feedback    verify.Extra
	ProblemType string
}

// Compiler turns learner source into a submission.
type Compiler interface {
	Compile(p submission.Program) (verify.Submission, error)
}

// Option configures a Challenge.
type Option func(*Challenge)

// WithCompiler replaces the default interpreter-backed compiler.
func WithCompiler(c Compiler) Option {
	return func(ch *Challenge) {
		if c != nil {
			ch.compiler = c
		}
	}
}

// WithClock replaces the wall clock used for the time limit.
func WithClock(now func() time.Time) Option {
	return func(ch *Challenge) {
		if now != nil {
			ch.now = now
		}
	}
}

// Challenge is a scorable challenge.
type Challenge struct {
	def      Definition
	shape    verify.Shape
	strategy verify.Strategy
	compiler Compiler
	now      func() time.Time
	log      *logging.Logger

	attempts    int
	completions int
	best        time.Duration
	hasBest     bool
}

// New validates def and selects the strategy for its test cases.
func New(def Definition, opts ...Option) (*Challenge, error) {
	if strings.TrimSpace(def.ID) == "" {
		return nil, fmt.Errorf("%w: empty id", ErrInvalid)
	}
	if def.XPReward < 0 {
		return nil, fmt.Errorf("%w: %s: negative experience reward", ErrInvalid, def.ID)
	}
	if def.TimeLimitSeconds < 0 {
		return nil, fmt.Errorf("%w: %s: negative time limit", ErrInvalid, def.ID)
	}
	shape, err := verify.ShapeOf(def.Cases)
	if err != nil {
		return nil, fmt.Errorf("challenge %s: %w", def.ID, err)
	}
	if def.Area == "" {
		def.Area = DefaultArea
	}
	if def.Name == "" {
		def.Name = def.ID
	}

	c := &Challenge{
		def:   def,
		shape: shape,
		now:   time.Now,
		log:   logging.Get(logging.CategoryVerify),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.compiler == nil {
		c.compiler = submission.NewExecutor(submission.Config{CaptureOutput: true})
	}
	if c.strategy, err = verify.StrategyFor(shape, verify.WithClock(c.now)); err != nil {
		return nil, fmt.Errorf("challenge %s: %w", def.ID, err)
	}
	return c, nil
}

// ID returns the challenge identifier.
func (c *Challenge) ID() string { return c.def.ID }

// Definition returns a copy of the definition.
func (c *Challenge) Definition() Definition { return c.def }

// Shape returns the shape shared by the challenge's test cases.
func (c *Challenge) Shape() verify.Shape { return c.shape }

// Attempt compiles source and verifies it. A compile failure is a failed
// attempt with the compiler's message as feedback.
func (c *Challenge) Attempt(source string) verify.Result {
	sub, err := c.compiler.Compile(submission.Program{
		Source:  source,
		Entry:   c.def.Entrypoint,
		Fixture: c.def.Fixture,
	})
	if err != nil {
		c.attempts++
		c.log.Info("Attempt at %s did not compile: %v", c.def.ID, err)
		return verify.Fail("Error executing your solution: %v", err)
	}
	if e, ok := sub.(interface{ Entry() string }); ok && e.Entry() == "" && c.shape != verify.ShapeTrace {
		c.attempts++
		return verify.Fail("No function found in your solution.")
	}
	return c.AttemptSolution(sub)
}

// AttemptSolution verifies an already compiled submission. It never panics:
// a verification failure yields one diagnostic feedback entry. The time limit
// is checked after the run against the time measured here.
func (c *Challenge) AttemptSolution(sub verify.Submission) verify.Result {
	c.attempts++
	log := c.log.WithContext(map[string]interface{}{"challenge": c.def.ID, "attempt": c.attempts})
	start := c.now()
	res, err := c.run(sub)
	elapsed := c.now().Sub(start)

	if err != nil {
		log.Error("Verification failed: %v", err)
		res = verify.Fail("Error evaluating solution: %v", err)
		res.Elapsed = elapsed
		return res
	}

	res.Elapsed = elapsed
	res.Complexity = c.def.Complexity
	if limit := c.def.TimeLimitSeconds; limit > 0 && elapsed > time.Duration(limit)*time.Second {
		res.Success = false
		res.Error = fmt.Sprintf("Time limit exceeded. Your solution took %.2fs, but the limit is %ds.",
			elapsed.Seconds(), limit)
	}
	verify.Synthesize(&res, c.def.Feedback)

	if res.Success {
		c.completions++
		if !c.hasBest || elapsed < c.best {
			c.best = elapsed
			c.hasBest = true
		}
	}
	log.Info("Attempt finished: success=%v passed=%d/%d elapsed=%s",
		res.Success, res.Passed(), len(res.Outcomes), elapsed)
	return res
}

func (c *Challenge) run(sub verify.Submission) (res verify.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = verify.Recovered(r)
		}
	}()
	if sub == nil {
		return verify.Result{}, errors.New("no submission")
	}
	return c.strategy.Verify(sub, c.def.Cases)
}

// Hint returns the hint at level, counting from zero.
func (c *Challenge) Hint(level int) string {
	if level < 0 || level >= len(c.def.Hints) {
		return NoMoreHints
	}
	return c.def.Hints[level]
}

var difficultyPrefix = map[Difficulty]string{
	Easy:   "A novice's task",
	Medium: "A skilled adventurer's challenge",
	Hard:   "A hero's trial",
	Epic:   "A legendary quest",
}

// FantasyDescription renders the narrative card shown before a challenge.
func (c *Challenge) FantasyDescription() string {
	limit := "None"
	if c.def.TimeLimitSeconds > 0 {
		limit = fmt.Sprintf("%d seconds", c.def.TimeLimitSeconds)
	}
	return fmt.Sprintf("%s in the %s:\n\n%s\n\n%s\n\nReward: %d XP\nTime Limit: %s\n",
		difficultyPrefix[c.def.Difficulty], c.def.Area, c.def.Name,
		strings.TrimSpace(c.def.Description), c.def.XPReward, limit)
}

// Info is the read-only metadata menus display.
type Info struct {
	ID               string
	Name             string
	Difficulty       Difficulty
	Category         Category
	XPReward         int
	TimeLimitSeconds int
	Area             string
	PrimarySkill     string
	Entrypoint       string
	Template         string
	Complexity       verify.Complexity
	CaseCount        int
	HintCount        int
	Shape            verify.Shape
}

// Info returns the challenge metadata.
func (c *Challenge) Info() Info {
	return Info{
		ID:               c.def.ID,
		Name:             c.def.Name,
		Difficulty:       c.def.Difficulty,
		Category:         c.def.Category,
		XPReward:         c.def.XPReward,
		TimeLimitSeconds: c.def.TimeLimitSeconds,
		Area:             c.def.Area,
		PrimarySkill:     c.def.PrimarySkill,
		Entrypoint:       c.def.Entrypoint,
		Template:         c.def.Template,
		Complexity:       c.def.Complexity,
		CaseCount:        len(c.def.Cases),
		HintCount:        len(c.def.Hints),
		Shape:            c.shape,
	}
}

// Stats are the counters accumulated across attempts.
type Stats struct {
	Attempts    int
	Completions int
	// BestTime is meaningful only when HasBest is set.
	BestTime time.Duration
	HasBest  bool
}

// Stats returns the current counters.
func (c *Challenge) Stats() Stats {
	return Stats{
		Attempts:    c.attempts,
		Completions: c.completions,
		BestTime:    c.best,
		HasBest:     c.hasBest,
	}
}
