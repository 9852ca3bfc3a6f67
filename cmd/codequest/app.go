package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"codequest/cmd/codequest/ui"
	"codequest/internal/catalog"
	"codequest/internal/challenge"
	"codequest/internal/game"
	"codequest/internal/hints"
	"codequest/internal/store"
	"codequest/internal/submission"
	"codequest/internal/verify"

	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"
)

// app holds everything a command needs. It is built per command run and
// closed when the command returns.
type app struct {
	registry *challenge.Registry
	saves    *game.SaveManager
	// journal is nil when the store is disabled or could not be opened.
	journal  *store.Journal
	hints    *hints.Generator
	reviewer *hints.Reviewer
	styles   ui.Styles
	renderer *glamour.TermRenderer
	// isolate runs verifications in a worker process.
	isolate  bool
}

func newApp() (*app, error) {
	if cfg == nil {
		return nil, errors.New("configuration not loaded")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	saves, err := game.NewSaveManager(cfg.CharactersDir())
	if err != nil {
		return nil, err
	}

	registry := loadRegistry(cfg.Challenges.Enabled, cfg.Challenges.PackDirs, submission.Config{
		BlockedImports: cfg.Submission.BlockedImports,
		CaptureOutput:  cfg.Submission.CaptureOutput,
	})

	seed := cfg.Game.HintSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	theme := ui.ThemeNamed(cfg.UI.Theme)
	renderer, err := ui.NewRenderer(theme, cfg.UI.Width)
	if err != nil {
		logger.Warn("Markdown rendering unavailable", zap.Error(err))
	}

	a := &app{
		registry: registry,
		saves:    saves,
		hints:    hints.NewGenerator(rand.New(rand.NewSource(seed))),
		reviewer: hints.NewReviewer(),
		styles:   ui.NewStyles(theme),
		renderer: renderer,
		isolate:  cfg.Submission.Isolate,
	}

	if cfg.Store.Enabled {
		j, err := store.Open(cfg.JournalPath())
		if err != nil {
			logger.Warn("Attempt journal unavailable", zap.Error(err))
		} else {
			a.journal = j
		}
	}
	return a, nil
}

// loadRegistry registers the enabled built-ins and every pack. Workers build
// the same registry from their request.
func loadRegistry(enabled, packDirs []string, sc submission.Config) *challenge.Registry {
	compiler := challenge.WithCompiler(submission.NewExecutor(sc))
	registry := challenge.NewRegistry()
	builtin := registry.Load(catalog.Filter(catalog.Builtin(compiler), enabled)...)
	packs := registry.LoadPacks(catalog.PackReader(compiler), packDirs...)
	logger.Debug("Challenges loaded", zap.Int("builtin", builtin), zap.Int("packs", packs))
	return registry
}

// withApp builds the app, runs fn and closes the app.
func withApp(fn func(a *app) error) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func (a *app) Close() error {
	if a.journal != nil {
		return a.journal.Close()
	}
	return nil
}

// lookup finds a challenge by id.
func (a *app) lookup(id string) (*challenge.Challenge, error) {
	ch, ok := a.registry.Get(id)
	if !ok {
		return nil, fmt.Errorf("unknown challenge %q (run 'codequest list')", id)
	}
	return ch, nil
}

// hero loads a character by name. An empty name yields nil.
func (a *app) hero(name string) (*game.Character, error) {
	if name == "" {
		return nil, nil
	}
	c, err := a.saves.Load(name)
	if err != nil {
		if errors.Is(err, game.ErrNoSave) {
			return nil, fmt.Errorf("no character named %q (create one with 'codequest character new')", name)
		}
		return nil, err
	}
	return c, nil
}

// available returns the challenges in areas hero has unlocked, or every
// challenge when hero is nil.
func (a *app) available(hero *game.Character) []*challenge.Challenge {
	all := a.registry.All()
	if hero == nil {
		return all
	}
	var out []*challenge.Challenge
	for _, ch := range all {
		if hero.HasArea(ch.Info().Area) {
			out = append(out, ch)
		}
	}
	return out
}

// report is what one submission produced.
type report struct {
	Challenge challenge.Info
	Result    verify.Result
	Review    hints.Review
	// Progress is set when a character completed the challenge.
	Progress *game.Progress
}

// submit verifies source, rewards hero on success and records the attempt.
// hero may be nil.
func (a *app) submit(ctx context.Context, ch *challenge.Challenge, hero *game.Character, source string) (report, error) {
	if err := reachable(ch, hero); err != nil {
		return report{}, err
	}
	return a.settle(ctx, a.verify(ctx, ch, source), hero, source)
}

// reachable reports an error when hero has not unlocked ch's area.
func reachable(ch *challenge.Challenge, hero *game.Character) error {
	if area := ch.Info().Area; hero != nil && !hero.HasArea(area) {
		return fmt.Errorf("%s has not reached the %s yet", hero.Name, area)
	}
	return nil
}

// verify runs source against ch and reviews it. It touches no character
// state, so it may run off the UI goroutine. An isolated run leaves ch's
// counters untouched.
func (a *app) verify(ctx context.Context, ch *challenge.Challenge, source string) report {
	info := ch.Info()
	var res verify.Result
	if a.isolate {
		res = attemptIsolated(ctx, newWorkerRequest(info.ID, source), ch.Definition().TimeLimitSeconds)
	} else {
		res = ch.Attempt(source)
	}
	logger.Info("Attempt verified",
		zap.String("challenge", info.ID),
		zap.Bool("success", res.Success),
		zap.Int("passed", res.Passed()),
		zap.Int("total", len(res.Outcomes)),
		zap.Duration("elapsed", res.Elapsed))
	return report{Challenge: info, Result: res, Review: a.reviewer.Review(source)}
}

// settle applies a verified report: hero earns the rewards of a success and
// is saved, and the attempt goes to the journal. A journal failure is logged
// only.
func (a *app) settle(ctx context.Context, rep report, hero *game.Character, source string) (report, error) {
	info, res := rep.Challenge, rep.Result
	if hero != nil && res.Success {
		p := hero.CompleteChallenge(info.ID, info.PrimarySkill, info.XPReward)
		rep.Progress = &p
		if err := a.saves.Save(hero); err != nil {
			return rep, fmt.Errorf("failed to save %s: %w", hero.Name, err)
		}
	}

	if a.journal != nil {
		at := store.Attempt{
			ChallengeID: info.ID,
			Success:     res.Success,
			Passed:      res.Passed(),
			Total:       len(res.Outcomes),
			Elapsed:     res.Elapsed,
			Source:      source,
			Feedback:    res.Feedback,
		}
		if hero != nil {
			at.CharacterID = hero.ID
			at.Character = hero.Name
		}
		if _, err := a.journal.Record(ctx, at); err != nil {
			logger.Warn("Failed to record attempt", zap.String("challenge", info.ID), zap.Error(err))
		}
	}
	return rep, nil
}

// generateHints returns up to n hints for ch, the challenge's own first.
func (a *app) generateHints(ch *challenge.Challenge, n int) []string {
	if n <= 0 {
		n = cfg.Game.HintsPerRequest
	}
	def := ch.Definition()
	return a.hints.Generate(def.ProblemType, def.Hints, n)
}
