package assembly

import (
	"fmt"
	"log/slog"

	"github.com/san-kum/rigsim/internal/engine"
	"github.com/san-kum/rigsim/internal/logging"
	"github.com/san-kum/rigsim/internal/rig"
)

// Handles are the engine ids carrying one link: the master mobilized body
// plus any slave copies created by loop breaking. Static links resolve to
// the ground id.
type Handles struct {
	Master engine.MobodID
	Slaves []engine.MobodID
}

// JointRecord ties a model joint to the mobilizer that implements it.
// Reversed records that the tree mobilizes the joint from child to parent,
// so joint coordinates read back with the opposite sign.
type JointRecord struct {
	Mobod    engine.MobodID
	Reversed bool
}

// PoseOverride supplies a current world pose for a link, overriding the
// model's default. The world uses it to carry link placement across a
// rebuild; joint frame geometry always comes from the defaults.
type PoseOverride func(model, link string) (rig.Pose, bool)

// Assembler accumulates models into one engine system. It is not safe for
// concurrent use; the world serializes access to it.
type Assembler struct {
	sys      *engine.System
	log      *slog.Logger
	override PoseOverride
	bodies   map[string]Handles
	joints   map[string]JointRecord
	models   map[string]bool
}

type Option func(*Assembler)

func WithLogger(l *slog.Logger) Option {
	return func(a *Assembler) { a.log = l }
}

func WithPoseOverride(fn PoseOverride) Option {
	return func(a *Assembler) { a.override = fn }
}

func New(opts ...Option) *Assembler {
	a := &Assembler{
		sys:    engine.NewSystem(),
		log:    logging.NewNop(),
		bodies: make(map[string]Handles),
		joints: make(map[string]JointRecord),
		models: make(map[string]bool),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// System exposes the engine system under construction.
func (a *Assembler) System() *engine.System { return a.sys }

// AddModel validates a model and instantiates it. Static models weld to
// the ground; dynamic models go through the graph step first.
func (a *Assembler) AddModel(m *rig.Model) error {
	m.Normalize()
	if err := m.Validate(); err != nil {
		return err
	}
	if a.models[m.Name] {
		return fmt.Errorf("%w: %q", ErrDuplicateModel, m.Name)
	}
	if m.Static {
		if err := a.addStatic(m); err != nil {
			return err
		}
	} else {
		g, err := BuildGraph(m)
		if err != nil {
			return err
		}
		if err := a.addDynamic(m, g); err != nil {
			return err
		}
	}
	a.models[m.Name] = true
	return nil
}

// Finish realizes the system topology and returns its default state. The
// assembler is done after this; further AddModel calls fail.
func (a *Assembler) Finish() (*engine.State, error) {
	return a.sys.RealizeTopology()
}

// Body resolves a link to its engine handles.
func (a *Assembler) Body(model, link string) (Handles, bool) {
	h, ok := a.bodies[scoped(model, link)]
	return h, ok
}

// Joint resolves a model joint to its mobilizer record. Joints that never
// became mobilizers (fixed joints collapse into welds but keep a record;
// broken loop joints map to their slave mobilizer) are all resolvable.
func (a *Assembler) Joint(model, joint string) (JointRecord, bool) {
	r, ok := a.joints[scoped(model, joint)]
	return r, ok
}

func scoped(model, name string) string { return model + "::" + name }

// addStatic welds every link of the model to the ground: no mobilizers, no
// graph, just collision geometry placed at the composed world pose.
func (a *Assembler) addStatic(m *rig.Model) error {
	clique := 0
	if !m.SelfCollide {
		clique = a.sys.NewClique()
	}
	for i := range m.Bodies {
		b := &m.Bodies[i]
		xWL := m.Pose.Mul(b.Pose)
		if err := a.attachCollisions(engine.Ground, m, b, xWL, clique); err != nil {
			return err
		}
		a.bodies[scoped(m.Name, b.Name)] = Handles{Master: engine.Ground}
	}
	a.log.Debug("static model welded to ground", "model", m.Name, "links", len(m.Bodies))
	return nil
}

// worldDefault returns the link's current world pose: the override when the
// caller carries one, the model default otherwise.
func (a *Assembler) worldDefault(m *rig.Model, link string) rig.Pose {
	if a.override != nil {
		if p, ok := a.override(m.Name, link); ok {
			return p
		}
	}
	p, _ := m.LinkWorldPose(link)
	return p
}
