package game

import (
	"fmt"
	"strings"
)

// TutorialPage is one page of the first-time player tutorial. Body is
// Markdown.
type TutorialPage struct {
	Title string
	Body  string
}

var tutorial = []TutorialPage{
	{
		Title: "Welcome to Code Quest!",
		Body: `Code Quest combines coding practice with a role-playing adventure.
Solve challenges written as fantasy quests, and your character levels up and
travels to new areas of the realm.`,
	},
	{
		Title: "Your Character",
		Body: `Create a character with ` + "`codequest character new <name> --class <class>`" + `.

- The **class** boosts some skills from the start.
- **Skills** improve as you complete challenges that train them.
- **Experience** levels you up; every fifth level opens a new area.
- **Areas** decide which challenges you can take on.`,
	},
	{
		Title: "Taking on Challenges",
		Body: `1. List what is open to you with ` + "`codequest list --character <name>`" + `.
2. Read a quest with ` + "`codequest show <challenge>`" + `.
3. Stuck? ` + "`codequest hint <challenge>`" + ` gives hints, most specific first.
4. Submit with ` + "`codequest attempt <challenge> -f solution.go --character <name>`" + `.

Or run ` + "`codequest play --character <name>`" + ` for the interactive quest board.`,
	},
	{
		Title: "Writing Solutions",
		Body: `Solutions are plain Go. The package clause is optional.

- Name your function the way the quest asks, with the parameters it lists.
- Return the value the quest expects; returning an error fails the case.
- Your code runs in an interpreter with the standard library available.

Try as often as you like. Every attempt shows which cases failed and why.`,
	},
	{
		Title: "Progression",
		Body: `A completed quest pays its experience once; solving it again trains
the skill but earns nothing more. ` + "`codequest map --character <name>`" + ` shows the
areas you have reached, and ` + "`codequest history`" + ` lists your past attempts.

Good luck, adventurer!`,
	},
}

// Tutorial returns the tutorial pages in reading order.
func Tutorial() []TutorialPage {
	return append([]TutorialPage(nil), tutorial...)
}

// Markdown renders the page with its position in the tutorial.
func (p TutorialPage) Markdown(n, total int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", p.Title)
	b.WriteString(strings.TrimSpace(p.Body))
	fmt.Fprintf(&b, "\n\n*Page %d of %d*\n", n, total)
	return b.String()
}
