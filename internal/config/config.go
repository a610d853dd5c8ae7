// Package config reads and writes world description files. A world file
// names the simulation settings and the models to load; ToModel converts
// the declarative form into the rig structures the assembler consumes.
package config

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/rigsim/internal/rig"
)

const (
	DefaultStep     = 0.01
	DefaultDuration = 10.0
	DefaultAccuracy = 1e-3
)

var DefaultGravity = [3]float64{0, 0, -9.81}

type WorldConfig struct {
	Name     string        `yaml:"name"`
	Gravity  [3]float64    `yaml:"gravity"`
	Accuracy float64       `yaml:"accuracy"`
	Step     float64       `yaml:"step"`
	Duration float64       `yaml:"duration"`
	Models   []ModelConfig `yaml:"models"`
}

type ModelConfig struct {
	Name        string        `yaml:"name"`
	Static      bool          `yaml:"static"`
	SelfCollide bool          `yaml:"self_collide"`
	Pose        PoseConfig    `yaml:"pose"`
	Links       []LinkConfig  `yaml:"links"`
	Joints      []JointConfig `yaml:"joints"`
}

type LinkConfig struct {
	Name       string            `yaml:"name"`
	Mass       float64           `yaml:"mass"`
	COM        [3]float64        `yaml:"com"`
	Inertia    [3]float64        `yaml:"inertia"`
	Pose       PoseConfig        `yaml:"pose"`
	MustBeBase bool              `yaml:"must_be_base"`
	Collisions []CollisionConfig `yaml:"collisions"`
}

type JointConfig struct {
	Name      string     `yaml:"name"`
	Type      string     `yaml:"type"`
	Parent    string     `yaml:"parent"`
	Child     string     `yaml:"child"`
	Axis      [3]float64 `yaml:"axis"`
	ChildPose PoseConfig `yaml:"child_pose"`
	// ParentPose is optional; when absent the joint frame on the parent is
	// derived from the links' default poses.
	ParentPose *PoseConfig `yaml:"parent_pose"`
	MustBreak  bool        `yaml:"must_break"`
}

type CollisionConfig struct {
	Name  string      `yaml:"name"`
	Pose  PoseConfig  `yaml:"pose"`
	Shape ShapeConfig `yaml:"shape"`
}

type ShapeConfig struct {
	Type   string     `yaml:"type"`
	Normal [3]float64 `yaml:"normal"`
	Radius float64    `yaml:"radius"`
	Length float64    `yaml:"length"`
	Size   [3]float64 `yaml:"size"`
}

// PoseConfig is a position plus extrinsic roll/pitch/yaw angles in radians.
type PoseConfig struct {
	Pos [3]float64 `yaml:"pos"`
	RPY [3]float64 `yaml:"rpy"`
}

func DefaultConfig() *WorldConfig {
	return &WorldConfig{
		Name:     "pendulum",
		Gravity:  DefaultGravity,
		Accuracy: DefaultAccuracy,
		Step:     DefaultStep,
		Duration: DefaultDuration,
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
	}
}

// Load reads a world file. Settings the file leaves out keep their
// defaults; the model list is taken as written.
func Load(path string) (*WorldConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &WorldConfig{
		Gravity:  DefaultGravity,
		Accuracy: DefaultAccuracy,
		Step:     DefaultStep,
		Duration: DefaultDuration,
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *WorldConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *WorldConfig) GravityVec() mgl64.Vec3 { return vec3(c.Gravity) }

// ToModel converts the declarative model into rig structures. Unknown
// joint or shape type names are an error.
func (mc *ModelConfig) ToModel() (*rig.Model, error) {
	m := &rig.Model{
		Name:        mc.Name,
		Static:      mc.Static,
		SelfCollide: mc.SelfCollide,
		Pose:        mc.Pose.Pose(),
	}
	for _, l := range mc.Links {
		mass := rig.MassProps{Mass: l.Mass, COM: vec3(l.COM), Inertia: mgl64.Diag3(vec3(l.Inertia))}
		if l.Inertia == ([3]float64{}) {
			mass.Inertia = mgl64.Ident3().Mul(l.Mass)
		}
		b := rig.Body{Name: l.Name, Mass: mass, Pose: l.Pose.Pose(), MustBeBase: l.MustBeBase}
		for _, c := range l.Collisions {
			sh, err := c.Shape.shape()
			if err != nil {
				return nil, fmt.Errorf("link %q collision %q: %w", l.Name, c.Name, err)
			}
			b.Collisions = append(b.Collisions, rig.Collision{Name: c.Name, Pose: c.Pose.Pose(), Shape: sh})
		}
		m.Bodies = append(m.Bodies, b)
	}
	for _, j := range mc.Joints {
		jt, err := rig.ParseJointType(j.Type)
		if err != nil {
			return nil, fmt.Errorf("joint %q: %w", j.Name, err)
		}
		rj := rig.Joint{
			Name: j.Name, Type: jt, Parent: j.Parent, Child: j.Child,
			Axis: vec3(j.Axis), ChildPose: j.ChildPose.Pose(), MustBreakLoop: j.MustBreak,
		}
		if j.ParentPose != nil {
			rj.ParentPose = j.ParentPose.Pose()
		}
		m.Joints = append(m.Joints, rj)
	}
	return m, nil
}

func (p PoseConfig) Pose() rig.Pose {
	return rig.NewPose(p.Pos[0], p.Pos[1], p.Pos[2], p.RPY[0], p.RPY[1], p.RPY[2])
}

func (s ShapeConfig) shape() (rig.Shape, error) {
	switch s.Type {
	case "plane":
		n := vec3(s.Normal)
		if n == (mgl64.Vec3{}) {
			n = mgl64.Vec3{0, 0, 1}
		}
		return rig.Shape{Kind: rig.ShapePlane, Normal: n}, nil
	case "sphere":
		return rig.Shape{Kind: rig.ShapeSphere, Radius: s.Radius}, nil
	case "cylinder":
		return rig.Shape{Kind: rig.ShapeCylinder, Radius: s.Radius, Length: s.Length}, nil
	case "box":
		return rig.Shape{Kind: rig.ShapeBox, Size: vec3(s.Size)}, nil
	case "mesh":
		return rig.Shape{Kind: rig.ShapeMesh}, nil
	case "heightmap":
		return rig.Shape{Kind: rig.ShapeHeightmap}, nil
	}
	return rig.Shape{}, fmt.Errorf("config: unknown shape type %q", s.Type)
}

func vec3(a [3]float64) mgl64.Vec3 { return mgl64.Vec3{a[0], a[1], a[2]} }
