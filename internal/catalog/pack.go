package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"codequest/internal/challenge"
	"codequest/internal/logging"
	"codequest/internal/verify"
)

// packFile is the on-disk form of a pack file. A file either describes one
// challenge at the top level or lists several under challenges.
type packFile struct {
	challengeFile `yaml:",inline"`
	Challenges    []challengeFile `yaml:"challenges"`
}

type challengeFile struct {
	ID               string         `yaml:"id"`
	Name             string         `yaml:"name"`
	Description      string         `yaml:"description"`
	Difficulty       string         `yaml:"difficulty"`
	Category         string         `yaml:"category"`
	XPReward         int            `yaml:"xp_reward"`
	TimeLimitSeconds int            `yaml:"time_limit_seconds"`
	Area             string         `yaml:"area"`
	PrimarySkill     string         `yaml:"primary_skill"`
	Entrypoint       string         `yaml:"entrypoint"`
	Fixture          string         `yaml:"fixture"`
	Template         string         `yaml:"template"`
	ProblemType      string         `yaml:"problem_type"`
	Complexity       complexityFile `yaml:"complexity"`
	Hints            []string       `yaml:"hints"`
	Solution         string         `yaml:"solution"`
	Feedback         feedbackFile   `yaml:"feedback"`
	Cases            []caseFile     `yaml:"cases"`
}

type complexityFile struct {
	Time  string `yaml:"time"`
	Space string `yaml:"space"`
}

type feedbackFile struct {
	SuccessMessage string   `yaml:"success_message"`
	OnSuccess      []string `yaml:"on_success"`
	OnFailure      []string `yaml:"on_failure"`
}

// caseFile holds one test case. A case with script is a script case, one
// with steps a trace case, anything else a functional case.
type caseFile struct {
	Name     string     `yaml:"name"`
	Script   string     `yaml:"script"`
	Imports  []string   `yaml:"imports"`
	Fixture  string     `yaml:"fixture"`
	Steps    []stepFile `yaml:"steps"`
	Input    yaml.Node  `yaml:"input"`
	Expected any        `yaml:"expected"`
}

type stepFile struct {
	New  string `yaml:"new"`
	Call string `yaml:"call"`
	Args []any  `yaml:"args"`
}

// PackReader returns a reader for YAML challenge packs. It picks up *.yaml and
// *.yml files in a directory and one level of subdirectories. opts are
// applied to every challenge built.
func PackReader(opts ...challenge.Option) challenge.PackReader {
	return func(dir string) ([]challenge.Source, error) {
		info, err := os.Stat(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to open pack: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("pack %s is not a directory", dir)
		}

		var files []string
		for _, pattern := range []string{"*.yaml", "*.yml"} {
			matches, err := filepath.Glob(filepath.Join(dir, pattern))
			if err != nil {
				continue
			}
			files = append(files, matches...)
			subMatches, err := filepath.Glob(filepath.Join(dir, "*", pattern))
			if err != nil {
				continue
			}
			files = append(files, subMatches...)
		}
		sort.Strings(files)

		logging.Registry("Reading challenge pack %s (%d files)", dir, len(files))

		var sources []challenge.Source
		for _, file := range files {
			defs, err := LoadFile(file)
			if err != nil {
				// surfaced by the registry, which logs and skips it
				err := err
				sources = append(sources, challenge.Source{
					Name:    file,
					Factory: func() (*challenge.Challenge, error) { return nil, err },
				})
				continue
			}
			logging.RegistryDebug("Parsed %s: %d challenges", file, len(defs))
			for i, def := range defs {
				def := def
				sources = append(sources, challenge.Source{
					Name: fmt.Sprintf("%s#%d", file, i),
					Factory: func() (*challenge.Challenge, error) {
						return challenge.New(def, opts...)
					},
				})
			}
		}
		return sources, nil
	}
}

// LoadFile parses one pack file into challenge definitions.
func LoadFile(path string) ([]challenge.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Parse(data)
}

// Parse decodes pack YAML into challenge definitions.
func Parse(data []byte) ([]challenge.Definition, error) {
	var pf packFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	files := pf.Challenges
	if pf.ID != "" {
		files = append([]challengeFile{pf.challengeFile}, files...)
	}
	if len(files) == 0 {
		return nil, errors.New("pack file declares no challenges")
	}

	defs := make([]challenge.Definition, 0, len(files))
	for _, cf := range files {
		def, err := cf.definition()
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func (cf challengeFile) definition() (challenge.Definition, error) {
	if cf.ID == "" {
		return challenge.Definition{}, errors.New("challenge id is required")
	}

	def := challenge.Definition{
		ID:               cf.ID,
		Name:             cf.Name,
		Description:      cf.Description,
		XPReward:         cf.XPReward,
		TimeLimitSeconds: cf.TimeLimitSeconds,
		Area:             cf.Area,
		PrimarySkill:     cf.PrimarySkill,
		Entrypoint:       cf.Entrypoint,
		Fixture:          cf.Fixture,
		Template:         cf.Template,
		ProblemType:      cf.ProblemType,
		Hints:            cf.Hints,
		Solution:         cf.Solution,
		Complexity:       verify.Complexity{Time: cf.Complexity.Time, Space: cf.Complexity.Space},
		Feedback: verify.Extra{
			SuccessMessage: cf.Feedback.SuccessMessage,
			OnSuccess:      cf.Feedback.OnSuccess,
			OnFailure:      cf.Feedback.OnFailure,
		},
	}

	var err error
	if cf.Difficulty != "" {
		if def.Difficulty, err = challenge.ParseDifficulty(cf.Difficulty); err != nil {
			return def, fmt.Errorf("challenge %s: %w", cf.ID, err)
		}
	}
	if cf.Category != "" {
		if def.Category, err = challenge.ParseCategory(cf.Category); err != nil {
			return def, fmt.Errorf("challenge %s: %w", cf.ID, err)
		}
	}

	for i, c := range cf.Cases {
		tc, err := c.testCase()
		if err != nil {
			return def, fmt.Errorf("challenge %s: case %d: %w", cf.ID, i+1, err)
		}
		def.Cases = append(def.Cases, tc)
	}
	return def, nil
}

func (c caseFile) testCase() (verify.TestCase, error) {
	switch {
	case c.Script != "":
		return verify.ScriptCase{Name: c.Name, Body: c.Script, Imports: c.Imports, Fixture: c.Fixture}, nil

	case len(c.Steps) > 0:
		steps := make([]verify.Step, len(c.Steps))
		for i, s := range c.Steps {
			switch {
			case s.New != "" && s.Call != "":
				return nil, fmt.Errorf("step %d sets both new and call", i+1)
			case s.New != "":
				steps[i] = verify.Construct(s.New, s.Args...)
			case s.Call != "":
				steps[i] = verify.Call(s.Call, s.Args...)
			default:
				return nil, fmt.Errorf("step %d names no method", i+1)
			}
		}
		expected, ok := c.Expected.([]any)
		if !ok {
			return nil, errors.New("trace expected must be a list")
		}
		if len(expected) != len(steps) {
			return nil, fmt.Errorf("trace has %d steps but %d expected values", len(steps), len(expected))
		}
		return verify.TraceCase{Steps: steps, Expected: expected}, nil

	default:
		if c.Input.Kind == 0 {
			return verify.FunctionalCase{Input: verify.Named(nil), Expected: c.Expected}, nil
		}
		var input any
		if err := c.Input.Decode(&input); err != nil {
			return nil, fmt.Errorf("input: %w", err)
		}
		return verify.FunctionalCase{Input: verify.ArgsFrom(input), Expected: c.Expected}, nil
	}
}
