// Package automation builds worlds from configuration and runs scripted
// sequences of recorded simulations.
package automation

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/rigsim/internal/config"
	"github.com/san-kum/rigsim/internal/rig"
	"github.com/san-kum/rigsim/internal/storage"
	"github.com/san-kum/rigsim/internal/world"
)

// Scenario is a scripted sequence of simulations, each recorded as its
// own run.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step selects one world and how to run it. An inline world wins over a
// preset reference; zero overrides keep the world's own settings.
type Step struct {
	Family    string              `yaml:"family"`
	Preset    string              `yaml:"preset"`
	World     *config.WorldConfig `yaml:"world"`
	Duration  float64             `yaml:"duration"`
	Step      float64             `yaml:"step"`
	Torque    string              `yaml:"torque"` // model::joint=value, reapplied every tick
	TorqueDof int                 `yaml:"torque_dof"`
	SaveAs    string              `yaml:"save_as"`
}

// StepResult reports one executed step.
type StepResult struct {
	Name  string
	RunID string
	Steps int
	Links int
	Time  float64
}

// Load reads a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps", path)
	}
	return &sc, nil
}

// ParseTorque splits a model::joint=value actuation argument.
func ParseTorque(s string) (model, joint string, f float64, err error) {
	eq := strings.SplitN(s, "=", 2)
	if len(eq) != 2 {
		return "", "", 0, fmt.Errorf("torque must be model::joint=value, got %q", s)
	}
	names := strings.SplitN(eq[0], "::", 2)
	if len(names) != 2 {
		return "", "", 0, fmt.Errorf("torque must be model::joint=value, got %q", s)
	}
	f, err = strconv.ParseFloat(eq[1], 64)
	if err != nil {
		return "", "", 0, fmt.Errorf("torque value %q: %w", eq[1], err)
	}
	return names[0], names[1], f, nil
}

// BuildWorld creates a world from a configuration and loads its models.
func BuildWorld(cfg *config.WorldConfig, logger *slog.Logger, opts ...world.Option) (*world.World, error) {
	opts = append(opts,
		world.WithLogger(logger),
		world.WithGravity(cfg.GravityVec()),
	)
	if cfg.Accuracy > 0 {
		opts = append(opts, world.WithAccuracy(cfg.Accuracy))
	}
	w, err := world.New(opts...)
	if err != nil {
		return nil, err
	}
	for i := range cfg.Models {
		m, err := cfg.Models[i].ToModel()
		if err != nil {
			return nil, err
		}
		if err := w.Load(m); err != nil {
			return nil, fmt.Errorf("load %s: %w", m.Name, err)
		}
	}
	return w, nil
}

func (st *Step) resolve() (*config.WorldConfig, error) {
	var cfg *config.WorldConfig
	switch {
	case st.World != nil:
		cfg = st.World
	case st.Family != "":
		name := st.Preset
		if name == "" {
			name = "default"
		}
		p := config.GetPreset(st.Family, name)
		if p == nil {
			return nil, fmt.Errorf("unknown preset %s/%s", st.Family, name)
		}
		c := *p
		cfg = &c
	default:
		return nil, fmt.Errorf("step needs a world or a preset family")
	}
	if st.Duration > 0 {
		cfg.Duration = st.Duration
	}
	if st.Step > 0 {
		cfg.Step = st.Step
	}
	return cfg, nil
}

// Run executes every step in order. It stops at the first failure and
// returns the results collected so far.
func Run(ctx context.Context, sc *Scenario, st *storage.Store, logger *slog.Logger) ([]StepResult, error) {
	results := make([]StepResult, 0, len(sc.Steps))
	for i := range sc.Steps {
		logger.Info("running scenario step", "scenario", sc.Name, "step", i+1, "of", len(sc.Steps))
		res, err := RunStep(ctx, &sc.Steps[i], st, logger)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		results = append(results, res)
	}
	return results, nil
}

// RunStep builds the step's world, runs it to its duration and records
// the published link poses as one stored run.
func RunStep(ctx context.Context, step *Step, st *storage.Store, logger *slog.Logger, opts ...world.Option) (StepResult, error) {
	cfg, err := step.resolve()
	if err != nil {
		return StepResult{}, err
	}

	w, err := BuildWorld(cfg, logger, opts...)
	if err != nil {
		return StepResult{}, err
	}

	snap := w.Scene().Snapshot()
	links := make([]string, 0, len(snap))
	for l := range snap {
		links = append(links, l)
	}
	sort.Strings(links)

	tr := storage.NewTrajectory(links)
	record := func(t float64) {
		poses := w.Scene().Snapshot()
		row := make([]rig.Pose, len(links))
		for i, l := range links {
			row[i] = poses[l]
		}
		tr.Append(t, row)
	}
	record(w.Time())

	var torqueModel, torqueJoint string
	var torqueVal float64
	if step.Torque != "" {
		torqueModel, torqueJoint, torqueVal, err = ParseTorque(step.Torque)
		if err != nil {
			return StepResult{}, err
		}
		// Forces are consumed by each step, so reapply every tick.
		if err := w.ApplyJointForce(torqueModel, torqueJoint, step.TorqueDof, torqueVal); err != nil {
			return StepResult{}, err
		}
	}

	err = w.Run(ctx, cfg.Duration, cfg.Step, func(stats world.StepStats) {
		record(stats.Time)
		if step.Torque != "" {
			// Joint existence was checked above.
			_ = w.ApplyJointForce(torqueModel, torqueJoint, step.TorqueDof, torqueVal)
		}
	})
	if err != nil {
		return StepResult{}, err
	}

	name := step.SaveAs
	if name == "" {
		name = cfg.Name
	}
	if name == "" {
		name = "world"
	}
	runID, err := st.Save(name, cfg.Step, cfg.Duration, cfg.Accuracy, tr)
	if err != nil {
		return StepResult{}, err
	}

	return StepResult{
		Name:  name,
		RunID: runID,
		Steps: len(tr.Times),
		Links: len(links),
		Time:  w.Time(),
	}, nil
}
