package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"codequest/cmd/codequest/ui"
	"codequest/internal/challenge"
	"codequest/internal/game"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	listArea         string
	heroName         string
	heroClass        string
	hintLevel        int
	hintCount        int
	solutionFile     string
	historyChallenge string
	historyLimit     int
	tutorialPage     int
)

// attemptTimeout bounds one attempt: the verification and the journal write.
const attemptTimeout = 30 * time.Second

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available challenges",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var showCmd = &cobra.Command{
	Use:   "show <challenge>",
	Short: "Describe a challenge",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var hintCmd = &cobra.Command{
	Use:   "hint <challenge>",
	Short: "Get hints for a challenge",
	Long: `Without --level, hint prints the challenge's own hints followed by
general hints for its kind of problem. With --level, it prints a single hint
of the challenge.`,
	Args: cobra.ExactArgs(1),
	RunE: runHint,
}

var attemptCmd = &cobra.Command{
	Use:   "attempt <challenge>",
	Short: "Submit a solution to a challenge",
	Args:  cobra.ExactArgs(1),
	RunE:  runAttempt,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded attempts",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Show the world map",
	Args:  cobra.NoArgs,
	RunE:  runMap,
}

var tutorialCmd = &cobra.Command{
	Use:   "tutorial",
	Short: "Learn how to play",
	Args:  cobra.NoArgs,
	RunE:  runTutorial,
}

var characterCmd = &cobra.Command{
	Use:   "character",
	Short: "Manage characters",
}

var characterNewCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create a character",
	Long: fmt.Sprintf(`Create a character of one of the classes:

  %s`, strings.Join(classNames(), "\n  ")),
	Args: cobra.ExactArgs(1),
	RunE: runCharacterNew,
}

var characterShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a character sheet",
	Args:  cobra.ExactArgs(1),
	RunE:  runCharacterShow,
}

var characterDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a character's save",
	Args:  cobra.ExactArgs(1),
	RunE:  runCharacterDelete,
}

var characterListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved characters",
	Args:  cobra.NoArgs,
	RunE:  runCharacterList,
}

func classNames() []string {
	var out []string
	for _, c := range game.Classes() {
		out = append(out, c.String())
	}
	return out
}

// commandContext returns the command's context, or Background when the
// command was not started through Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func runList(cmd *cobra.Command, args []string) error {
	return withApp(func(a *app) error {
		hero, err := a.hero(heroName)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tDIFFICULTY\tAREA\tXP\t")
		shown := 0
		for _, ch := range a.registry.All() {
			info := ch.Info()
			if listArea != "" && !strings.EqualFold(info.Area, listArea) {
				continue
			}
			mark := ""
			if hero != nil {
				switch {
				case hero.HasCompleted(info.ID):
					mark = "done"
				case !hero.HasArea(info.Area):
					mark = "locked"
				}
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n", info.ID, info.Name, info.Difficulty, info.Area, info.XPReward, mark)
			shown++
		}
		if err := w.Flush(); err != nil {
			return err
		}
		if shown == 0 {
			fmt.Fprintln(out, "No challenges found.")
		}
		return nil
	})
}

func runShow(cmd *cobra.Command, args []string) error {
	return withApp(func(a *app) error {
		ch, err := a.lookup(args[0])
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), ui.RenderMarkdown(a.renderer, challengeMarkdown(ch)))
		return nil
	})
}

func runHint(cmd *cobra.Command, args []string) error {
	return withApp(func(a *app) error {
		ch, err := a.lookup(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if hintLevel >= 0 {
			fmt.Fprintln(out, ch.Hint(hintLevel))
			return nil
		}
		for i, h := range a.generateHints(ch, hintCount) {
			fmt.Fprintf(out, "%d. %s\n", i+1, h)
		}
		return nil
	})
}

// readSolution reads the solution from path, or from in when path is "-".
func readSolution(path string, in io.Reader) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(in)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read solution: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", errors.New("solution is empty")
	}
	return string(data), nil
}

func runAttempt(cmd *cobra.Command, args []string) error {
	source, err := readSolution(solutionFile, cmd.InOrStdin())
	if err != nil {
		return err
	}
	return withApp(func(a *app) error {
		ch, err := a.lookup(args[0])
		if err != nil {
			return err
		}
		hero, err := a.hero(heroName)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(commandContext(cmd), attemptTimeout)
		defer cancel()
		rep, err := a.submit(ctx, ch, hero, source)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), renderReport(a.styles, rep))
		return nil
	})
}

func runHistory(cmd *cobra.Command, args []string) error {
	return withApp(func(a *app) error {
		if a.journal == nil {
			return errors.New("the attempt journal is disabled (store.enabled)")
		}
		ctx, cancel := context.WithTimeout(commandContext(cmd), attemptTimeout)
		defer cancel()

		out := cmd.OutOrStdout()
		if historyChallenge != "" {
			attempts, err := a.journal.ForChallenge(ctx, historyChallenge, historyLimit)
			if err != nil {
				return err
			}
			sum, err := a.journal.Summarize(ctx, historyChallenge)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s: %d attempts, %d successful", sum.ChallengeID, sum.Attempts, sum.Successes)
			if sum.BestElapsed > 0 {
				fmt.Fprintf(out, ", best %s", sum.BestElapsed.Round(time.Microsecond))
			}
			fmt.Fprintln(out)
			for _, at := range attempts {
				fmt.Fprintln(out, renderAttempt(a.styles, at))
			}
			return nil
		}

		attempts, err := a.journal.Recent(ctx, historyLimit)
		if err != nil {
			return err
		}
		if len(attempts) == 0 {
			fmt.Fprintln(out, "No attempts recorded yet.")
		}
		for _, at := range attempts {
			fmt.Fprintln(out, renderAttempt(a.styles, at))
		}
		return nil
	})
}

func runMap(cmd *cobra.Command, args []string) error {
	return withApp(func(a *app) error {
		hero, err := a.hero(heroName)
		if err != nil {
			return err
		}
		world := game.NewWorld()
		if hero != nil {
			world.Sync(hero)
		}
		out := cmd.OutOrStdout()
		fmt.Fprint(out, world.Map())
		fmt.Fprintln(out)
		for _, area := range world.Unlocked() {
			fmt.Fprintf(out, "%s  %s\n", a.styles.Bold.Render(area.Name), a.styles.Muted.Render(area.Description))
			if n := len(a.registry.ByArea(area.Name)); n > 0 {
				fmt.Fprintf(out, "  %d challenges\n", n)
			}
		}
		return nil
	})
}

func runCharacterNew(cmd *cobra.Command, args []string) error {
	class, err := game.ParseClass(heroClass)
	if err != nil {
		return fmt.Errorf("%w (choose one of: %s)", err, strings.Join(classNames(), ", "))
	}
	return withApp(func(a *app) error {
		name := strings.TrimSpace(args[0])
		if err := game.ValidateName(name); err != nil {
			return err
		}
		if _, err := a.saves.Load(name); err == nil {
			return fmt.Errorf("a character named %q already exists", name)
		} else if !errors.Is(err, game.ErrNoSave) {
			return err
		}

		hero := game.NewCharacter(name, class)
		if area := startingArea(); !hero.HasArea(area) {
			hero.UnlockedAreas = append(hero.UnlockedAreas, area)
		}
		if err := a.saves.Save(hero); err != nil {
			return err
		}
		logger.Info("Character created", zap.String("name", name), zap.String("class", class.String()))
		fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s the %s! Your journey begins in the %s.\n",
			hero.Name, hero.Class, startingArea())
		return nil
	})
}

func startingArea() string {
	if cfg != nil && cfg.Game.StartingArea != "" {
		return cfg.Game.StartingArea
	}
	return challenge.DefaultArea
}

func runCharacterShow(cmd *cobra.Command, args []string) error {
	return withApp(func(a *app) error {
		hero, err := a.hero(args[0])
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), renderStats(a.styles, hero.Stats()))
		return nil
	})
}

func runCharacterList(cmd *cobra.Command, args []string) error {
	return withApp(func(a *app) error {
		saves, err := a.saves.List()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(saves) == 0 {
			fmt.Fprintln(out, "No characters yet. Create one with 'codequest character new <name>'.")
			return nil
		}
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tCLASS\tLEVEL\tLAST SAVED")
		for _, s := range saves {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", s.Name, s.Class, s.Level, s.Timestamp.Local().Format("2006-01-02 15:04"))
		}
		return w.Flush()
	})
}

func runTutorial(cmd *cobra.Command, args []string) error {
	return withApp(func(a *app) error {
		pages := game.Tutorial()
		if tutorialPage < 0 || tutorialPage > len(pages) {
			return fmt.Errorf("the tutorial has pages 1 to %d", len(pages))
		}
		out := cmd.OutOrStdout()
		for i, p := range pages {
			if tutorialPage != 0 && i+1 != tutorialPage {
				continue
			}
			fmt.Fprint(out, ui.RenderMarkdown(a.renderer, p.Markdown(i+1, len(pages))))
		}
		return nil
	})
}

func runCharacterDelete(cmd *cobra.Command, args []string) error {
	return withApp(func(a *app) error {
		if err := a.saves.Delete(args[0]); err != nil {
			if errors.Is(err, game.ErrNoSave) {
				return fmt.Errorf("no character named %q", args[0])
			}
			return err
		}
		logger.Info("Character deleted", zap.String("name", args[0]))
		fmt.Fprintf(cmd.OutOrStdout(), "Farewell, %s.\n", args[0])
		return nil
	})
}
