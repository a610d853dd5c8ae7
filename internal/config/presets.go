package config

import "sort"

// Presets are ready-made worlds keyed by family and variant. Every entry
// is a complete WorldConfig; GetPreset hands out the shared instance, so
// callers that tweak settings should do so before loading models from it.
var Presets = map[string]map[string]*WorldConfig{
	"pendulum": {
		"default": {
			Name: "pendulum", Gravity: DefaultGravity, Accuracy: DefaultAccuracy,
			Step: 0.01, Duration: 10,
			Models: []ModelConfig{{
				Name: "pendulum",
				Links: []LinkConfig{{
					Name: "arm", Mass: 1, Inertia: [3]float64{1.0 / 12, 1.0 / 12, 1e-3},
					Pose: PoseConfig{Pos: [3]float64{0.5, 0, 1}},
				}},
				Joints: []JointConfig{{
					Name: "pivot", Type: "revolute", Child: "arm",
					Axis:      [3]float64{0, 1, 0},
					ChildPose: PoseConfig{Pos: [3]float64{-0.5, 0, 0}},
				}},
			}},
		},
		"raised": {
			Name: "pendulum", Gravity: DefaultGravity, Accuracy: DefaultAccuracy,
			Step: 0.01, Duration: 10,
			Models: []ModelConfig{{
				Name: "pendulum",
				Links: []LinkConfig{{
					Name: "arm", Mass: 1, Inertia: [3]float64{1.0 / 12, 1.0 / 12, 1e-3},
					Pose: PoseConfig{Pos: [3]float64{0.354, 0, 1.354}, RPY: [3]float64{0, -0.7854, 0}},
				}},
				Joints: []JointConfig{{
					Name: "pivot", Type: "revolute", Child: "arm",
					Axis:      [3]float64{0, 1, 0},
					ChildPose: PoseConfig{Pos: [3]float64{-0.5, 0, 0}},
				}},
			}},
		},
	},
	"double_pendulum": {
		"default": {
			Name: "double_pendulum", Gravity: DefaultGravity, Accuracy: DefaultAccuracy,
			Step: 0.005, Duration: 20,
			Models: []ModelConfig{{
				Name: "chain",
				Links: []LinkConfig{
					{
						Name: "arm1", Mass: 1, Inertia: [3]float64{1.0 / 12, 1.0 / 12, 1e-3},
						Pose: PoseConfig{Pos: [3]float64{0.5, 0, 2}},
					},
					{
						Name: "arm2", Mass: 1, Inertia: [3]float64{1.0 / 12, 1.0 / 12, 1e-3},
						Pose: PoseConfig{Pos: [3]float64{1.5, 0, 2}},
					},
				},
				Joints: []JointConfig{
					{
						Name: "shoulder", Type: "revolute", Child: "arm1",
						Axis:      [3]float64{0, 1, 0},
						ChildPose: PoseConfig{Pos: [3]float64{-0.5, 0, 0}},
					},
					{
						Name: "elbow", Type: "revolute", Parent: "arm1", Child: "arm2",
						Axis:      [3]float64{0, 1, 0},
						ChildPose: PoseConfig{Pos: [3]float64{-0.5, 0, 0}},
					},
				},
			}},
		},
		"chaos": {
			Name: "double_pendulum", Gravity: DefaultGravity, Accuracy: 5e-4,
			Step: 0.005, Duration: 30,
			Models: []ModelConfig{{
				Name: "chain",
				Pose: PoseConfig{RPY: [3]float64{0, 0.05, 0}},
				Links: []LinkConfig{
					{
						Name: "arm1", Mass: 1, Inertia: [3]float64{1.0 / 12, 1.0 / 12, 1e-3},
						Pose: PoseConfig{Pos: [3]float64{0, 0, 2.5}},
					},
					{
						Name: "arm2", Mass: 1, Inertia: [3]float64{1.0 / 12, 1.0 / 12, 1e-3},
						Pose: PoseConfig{Pos: [3]float64{0, 0, 3.5}},
					},
				},
				Joints: []JointConfig{
					{
						Name: "shoulder", Type: "revolute", Child: "arm1",
						Axis:      [3]float64{0, 1, 0},
						ChildPose: PoseConfig{Pos: [3]float64{0, 0, -0.5}},
					},
					{
						Name: "elbow", Type: "revolute", Parent: "arm1", Child: "arm2",
						Axis:      [3]float64{0, 1, 0},
						ChildPose: PoseConfig{Pos: [3]float64{0, 0, -0.5}},
					},
				},
			}},
		},
	},
	"fourbar": {
		"default": {
			Name: "fourbar", Gravity: DefaultGravity, Accuracy: 5e-4,
			Step: 0.005, Duration: 10,
			Models: []ModelConfig{{
				Name: "linkage",
				Links: []LinkConfig{
					{
						Name: "crank", Mass: 1, Inertia: [3]float64{1.0 / 12, 1.0 / 12, 1e-3},
						Pose: PoseConfig{Pos: [3]float64{0, 0, 0.5}},
					},
					{
						Name: "coupler", Mass: 1, Inertia: [3]float64{1.0 / 3, 1.0 / 3, 2e-3},
						Pose: PoseConfig{Pos: [3]float64{1, 0, 1}},
					},
					{
						Name: "rocker", Mass: 1, Inertia: [3]float64{1.0 / 12, 1.0 / 12, 1e-3},
						Pose: PoseConfig{Pos: [3]float64{2, 0, 0.5}},
					},
				},
				Joints: []JointConfig{
					{
						Name: "crank_pivot", Type: "revolute", Child: "crank",
						Axis:      [3]float64{0, 1, 0},
						ChildPose: PoseConfig{Pos: [3]float64{0, 0, -0.5}},
					},
					{
						Name: "crank_coupler", Type: "revolute", Parent: "crank", Child: "coupler",
						Axis:      [3]float64{0, 1, 0},
						ChildPose: PoseConfig{Pos: [3]float64{-1, 0, 0}},
					},
					{
						Name: "coupler_rocker", Type: "revolute", Parent: "coupler", Child: "rocker",
						Axis:      [3]float64{0, 1, 0},
						ChildPose: PoseConfig{Pos: [3]float64{0, 0, 0.5}},
					},
					{
						Name: "rocker_pivot", Type: "revolute", Child: "rocker",
						Axis:      [3]float64{0, 1, 0},
						ChildPose: PoseConfig{Pos: [3]float64{0, 0, -0.5}},
					},
				},
			}},
		},
	},
	"slider_crank": {
		"default": {
			Name: "slider_crank", Gravity: DefaultGravity, Accuracy: 5e-4,
			Step: 0.005, Duration: 10,
			Models: []ModelConfig{{
				Name: "mechanism",
				Links: []LinkConfig{
					{
						Name: "crank", Mass: 1, Inertia: [3]float64{0.021, 0.021, 1e-3},
						Pose: PoseConfig{Pos: [3]float64{0.25, 0, 1}},
					},
					{
						Name: "rod", Mass: 1, Inertia: [3]float64{1.0 / 12, 1.0 / 12, 1e-3},
						Pose: PoseConfig{Pos: [3]float64{1, 0, 1}},
					},
					{
						Name: "piston", Mass: 0.5, Inertia: [3]float64{0.01, 0.01, 0.01},
						Pose: PoseConfig{Pos: [3]float64{1.75, 0, 1}},
					},
				},
				Joints: []JointConfig{
					{
						Name: "crank_pivot", Type: "revolute", Child: "crank",
						Axis:      [3]float64{0, 1, 0},
						ChildPose: PoseConfig{Pos: [3]float64{-0.25, 0, 0}},
					},
					{
						Name: "crank_rod", Type: "revolute", Parent: "crank", Child: "rod",
						Axis:      [3]float64{0, 1, 0},
						ChildPose: PoseConfig{Pos: [3]float64{-0.5, 0, 0}},
					},
					{
						Name: "rod_piston", Type: "revolute", Parent: "rod", Child: "piston",
						Axis:      [3]float64{0, 1, 0},
						ChildPose: PoseConfig{Pos: [3]float64{-0.25, 0, 0}},
					},
					{
						Name: "slide", Type: "prismatic", Child: "piston",
						Axis: [3]float64{1, 0, 0},
					},
				},
			}},
		},
	},
	"ball_chain": {
		"default": {
			Name: "ball_chain", Gravity: DefaultGravity, Accuracy: DefaultAccuracy,
			Step: 0.01, Duration: 15,
			Models: []ModelConfig{{
				Name: "chain",
				Pose: PoseConfig{Pos: [3]float64{0, 0, 3}, RPY: [3]float64{0, 0.4, 0}},
				Links: []LinkConfig{
					{
						Name: "link1", Mass: 0.5, Inertia: [3]float64{0.042, 0.042, 1e-3},
						Pose: PoseConfig{Pos: [3]float64{0, 0, -0.5}},
					},
					{
						Name: "link2", Mass: 0.5, Inertia: [3]float64{0.042, 0.042, 1e-3},
						Pose: PoseConfig{Pos: [3]float64{0, 0, -1.5}},
					},
					{
						Name: "link3", Mass: 0.5, Inertia: [3]float64{0.042, 0.042, 1e-3},
						Pose: PoseConfig{Pos: [3]float64{0, 0, -2.5}},
					},
				},
				Joints: []JointConfig{
					{
						Name: "socket1", Type: "ball", Child: "link1",
						ChildPose: PoseConfig{Pos: [3]float64{0, 0, 0.5}},
					},
					{
						Name: "socket2", Type: "ball", Parent: "link1", Child: "link2",
						ChildPose: PoseConfig{Pos: [3]float64{0, 0, 0.5}},
					},
					{
						Name: "socket3", Type: "ball", Parent: "link2", Child: "link3",
						ChildPose: PoseConfig{Pos: [3]float64{0, 0, 0.5}},
					},
				},
			}},
		},
		"wide": {
			Name: "ball_chain", Gravity: DefaultGravity, Accuracy: DefaultAccuracy,
			Step: 0.01, Duration: 20,
			Models: []ModelConfig{{
				Name: "chain",
				Pose: PoseConfig{Pos: [3]float64{0, 0, 3}, RPY: [3]float64{0, 1.2, 0}},
				Links: []LinkConfig{
					{
						Name: "link1", Mass: 0.5, Inertia: [3]float64{0.042, 0.042, 1e-3},
						Pose: PoseConfig{Pos: [3]float64{0, 0, -0.5}},
					},
					{
						Name: "link2", Mass: 0.5, Inertia: [3]float64{0.042, 0.042, 1e-3},
						Pose: PoseConfig{Pos: [3]float64{0, 0, -1.5}},
					},
					{
						Name: "link3", Mass: 0.5, Inertia: [3]float64{0.042, 0.042, 1e-3},
						Pose: PoseConfig{Pos: [3]float64{0, 0, -2.5}},
					},
				},
				Joints: []JointConfig{
					{
						Name: "socket1", Type: "ball", Child: "link1",
						ChildPose: PoseConfig{Pos: [3]float64{0, 0, 0.5}},
					},
					{
						Name: "socket2", Type: "ball", Parent: "link1", Child: "link2",
						ChildPose: PoseConfig{Pos: [3]float64{0, 0, 0.5}},
					},
					{
						Name: "socket3", Type: "ball", Parent: "link2", Child: "link3",
						ChildPose: PoseConfig{Pos: [3]float64{0, 0, 0.5}},
					},
				},
			}},
		},
	},
	"static_ground": {
		"default": {
			Name: "static_ground", Gravity: DefaultGravity, Accuracy: DefaultAccuracy,
			Step: 0.01, Duration: 5,
			Models: []ModelConfig{
				{
					Name: "ground", Static: true,
					Links: []LinkConfig{{
						Name: "terrain",
						Collisions: []CollisionConfig{
							{
								Name:  "plane",
								Shape: ShapeConfig{Type: "plane", Normal: [3]float64{0, 0, 1}},
							},
							{
								Name:  "block",
								Pose:  PoseConfig{Pos: [3]float64{1.5, 0, 0.25}},
								Shape: ShapeConfig{Type: "box", Size: [3]float64{1, 1, 0.5}},
							},
						},
					}},
				},
				{
					Name: "ball",
					Links: []LinkConfig{{
						Name: "sphere", Mass: 1, Inertia: [3]float64{0.1, 0.1, 0.1},
						Pose: PoseConfig{Pos: [3]float64{0, 0, 2}},
						Collisions: []CollisionConfig{{
							Name:  "skin",
							Shape: ShapeConfig{Type: "sphere", Radius: 0.5},
						}},
					}},
				},
			},
		},
	},
}

func GetPreset(family, name string) *WorldConfig {
	variants, ok := Presets[family]
	if !ok {
		return nil
	}
	cfg, ok := variants[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(family string) []string {
	variants, ok := Presets[family]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(variants))
	for name := range variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListFamilies names every preset family in sorted order.
func ListFamilies() []string {
	families := make([]string, 0, len(Presets))
	for name := range Presets {
		families = append(families, name)
	}
	sort.Strings(families)
	return families
}
