package verify

import "fmt"

// MaxFailureDetails caps how many failed cases get their own feedback line.
const MaxFailureDetails = 3

// DefaultSuccessMessage opens the feedback of a fully passing run.
const DefaultSuccessMessage = "Great job! Your solution passed all test cases."

// Extra carries challenge-specific feedback lines.
type Extra struct {
	SuccessMessage string
	OnSuccess      []string
	OnFailure      []string
}

// Synthesize appends human-readable feedback to res.
func Synthesize(res *Result, extra Extra) {
	if res.Success {
		msg := extra.SuccessMessage
		if msg == "" {
			msg = DefaultSuccessMessage
		}
		res.Feedback = append(res.Feedback,
			msg,
			fmt.Sprintf("Your solution ran in %.5f seconds.", res.Elapsed.Seconds()),
		)
		res.Feedback = append(res.Feedback, extra.OnSuccess...)
		return
	}

	if res.Error != "" {
		res.Feedback = append(res.Feedback, res.Error)
	}
	if len(res.Outcomes) > 0 {
		res.Feedback = append(res.Feedback,
			fmt.Sprintf("Your solution passed %d out of %d test cases.", res.Passed(), len(res.Outcomes)))
	}

	shown := 0
	for i, o := range res.Outcomes {
		if o.Passed {
			continue
		}
		if shown == MaxFailureDetails {
			break
		}
		shown++
		res.Feedback = append(res.Feedback, failureLine(i+1, o))
	}

	res.Feedback = append(res.Feedback, extra.OnFailure...)
	if len(res.Feedback) == 0 {
		res.Feedback = append(res.Feedback, "Your solution did not pass.")
	}
}

func failureLine(n int, o Outcome) string {
	if o.Error != "" {
		return fmt.Sprintf("Test case %d failed: %s", n, o.Error)
	}
	if o.Snapshot == nil {
		return fmt.Sprintf("Test case %d failed.", n)
	}
	return fmt.Sprintf("Test case %d failed. Input: %s, Expected: %s, Got: %s",
		n, formatInput(o.Snapshot.Input), Format(o.Snapshot.Expected), Format(o.Snapshot.Actual))
}

func formatInput(v any) string {
	if a, ok := v.(map[string]any); ok {
		return Named(a).String()
	}
	return Format(v)
}
