package main

import (
	"fmt"
	"strings"
	"time"

	"codequest/cmd/codequest/ui"
	"codequest/internal/challenge"
	"codequest/internal/game"
	"codequest/internal/store"
)

// challengeMarkdown is the Markdown card shown by show and play.
func challengeMarkdown(ch *challenge.Challenge) string {
	info := ch.Info()
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", info.Name)
	fmt.Fprintf(&b, "*%s · %s · %s*\n\n", info.Difficulty, info.Category, info.Area)
	b.WriteString(ch.FantasyDescription())
	if info.Complexity.Time != "" || info.Complexity.Space != "" {
		fmt.Fprintf(&b, "\nExpected complexity: time %s, space %s\n", info.Complexity.Time, info.Complexity.Space)
	}
	if info.Template != "" {
		fmt.Fprintf(&b, "\n## Starter code\n\n```go\n%s\n```\n", strings.TrimSpace(info.Template))
	}
	return b.String()
}

// renderReport formats a submission report for the terminal.
func renderReport(s ui.Styles, rep report) string {
	var b strings.Builder
	res := rep.Result
	for i, line := range res.Feedback {
		switch {
		case i == 0 && res.Success:
			b.WriteString(s.Success.Render(line))
		case i == 0:
			b.WriteString(s.Error.Render(line))
		default:
			b.WriteString(s.Body.Render(line))
		}
		b.WriteByte('\n')
	}
	if len(res.Outcomes) > 0 {
		b.WriteString(s.Muted.Render(fmt.Sprintf("%d/%d cases in %s", res.Passed(), len(res.Outcomes), res.Elapsed.Round(time.Microsecond))))
		b.WriteByte('\n')
	}

	if lines := rep.Review.Lines(); len(lines) > 0 {
		b.WriteByte('\n')
		b.WriteString(s.Bold.Render("Code review"))
		b.WriteByte('\n')
		for _, line := range lines {
			b.WriteString(s.Muted.Render("  " + line))
			b.WriteByte('\n')
		}
	}

	if p := rep.Progress; p != nil {
		b.WriteByte('\n')
		if p.Repeat {
			b.WriteString(s.Info.Render("Already completed: no experience this time."))
			b.WriteByte('\n')
		} else {
			b.WriteString(s.Success.Render(fmt.Sprintf("+%d XP", p.XPGained)))
			b.WriteByte('\n')
		}
		if p.LevelsGained > 0 {
			b.WriteString(s.Warning.Render(fmt.Sprintf("Level up! You are now level %d.", p.Level)))
			b.WriteByte('\n')
		}
		if p.Skill != "" {
			b.WriteString(s.Body.Render(fmt.Sprintf("%s improved to %.1f", p.Skill, p.SkillLevel)))
			b.WriteByte('\n')
		}
		for _, area := range p.UnlockedAreas {
			b.WriteString(s.Badge.Render("New area unlocked: " + area))
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// renderStats formats a character sheet.
func renderStats(s ui.Styles, st game.Stats) string {
	var b strings.Builder
	b.WriteString(s.Title.Render(fmt.Sprintf("%s the %s", st.Name, st.Class)))
	b.WriteByte('\n')
	fmt.Fprintf(&b, "Level %d  (%d/%d XP)\n", st.Level, st.Experience, st.XPToNextLevel)
	fmt.Fprintf(&b, "Challenges completed: %d\n\n", st.ChallengesCompleted)
	b.WriteString(s.Bold.Render("Skills"))
	b.WriteByte('\n')
	for _, sk := range st.Skills {
		bar := strings.Repeat("█", int(sk.Level)) + strings.Repeat("░", game.MaxSkill-int(sk.Level))
		fmt.Fprintf(&b, "  %-20s %s %.1f\n", sk.Name, bar, sk.Level)
	}
	b.WriteByte('\n')
	fmt.Fprintf(&b, "Areas: %s\n", strings.Join(st.UnlockedAreas, ", "))
	if len(st.Inventory) > 0 {
		fmt.Fprintf(&b, "Inventory: %s\n", strings.Join(st.Inventory, ", "))
	}
	return b.String()
}

// renderAttempt formats one journal line.
func renderAttempt(s ui.Styles, at store.Attempt) string {
	status := s.Error.Render("FAIL")
	if at.Success {
		status = s.Success.Render("PASS")
	}
	who := at.Character
	if who == "" {
		who = "-"
	}
	return fmt.Sprintf("%s  %s  %-20s %-12s %d/%d  %s",
		at.CreatedAt.Local().Format("2006-01-02 15:04"), status, at.ChallengeID, who,
		at.Passed, at.Total, at.Elapsed.Round(time.Microsecond))
}
