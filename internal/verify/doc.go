// Package verify is the challenge verification engine.
//
// A challenge owns an ordered list of test cases that all share one shape:
// functional cases map arguments to a return value, trace cases replay a
// sequence of method calls against a fresh instance, and script cases run a
// self-contained test body with the learner's entrypoint bound as Solution.
// StrategyFor picks the strategy for a shape; a strategy runs every case,
// isolating each failure in its Outcome, and Synthesize turns the aggregate
// Result into learner-facing feedback.
//
// Values produced by learner code are normalized into a small canonical set
// (nil, bool, int64, float64, string, []any, map[string]any) before they are
// compared or formatted.
//
// Nothing in this package is safe for concurrent use.
package verify
