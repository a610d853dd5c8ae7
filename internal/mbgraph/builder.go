package mbgraph

import (
	"fmt"
	"math"
	"strings"
)

type jointTypeInfo struct {
	name              string
	dof               int
	haveGoodLoopJoint bool
}

type bodyNode struct {
	name       string
	mass       float64
	mustBeBase bool
	joints     []int
}

type jointEdge struct {
	name      string
	typeName  string
	parent    int
	child     int
	mustBreak bool
}

// Builder accumulates one model's bodies and joints and derives the
// spanning-tree topology. Registration order is preserved, which keeps the
// emitted graph deterministic for a given input.
type Builder struct {
	types   map[string]jointTypeInfo
	bodies  []bodyNode
	bodyIx  map[string]int
	joints  []jointEdge
	jointIx map[string]int
	ground  int
}

func NewBuilder() *Builder {
	b := &Builder{
		types:   make(map[string]jointTypeInfo),
		bodyIx:  make(map[string]int),
		jointIx: make(map[string]int),
		ground:  -1,
	}
	b.types[WeldType] = jointTypeInfo{name: WeldType, dof: 0}
	b.types[FreeType] = jointTypeInfo{name: FreeType, dof: 6}
	return b
}

// AddJointType registers a joint type and its mobility count. Types with a
// reduced-freedom loop constraint available may set haveGoodLoopJoint;
// cycles closed by such a joint then become a direct constraint instead of
// splitting a body.
func (b *Builder) AddJointType(name string, dof int, haveGoodLoopJoint bool) error {
	if _, ok := b.types[name]; ok {
		return fmt.Errorf("%w: joint type %q", ErrDuplicate, name)
	}
	b.types[name] = jointTypeInfo{name: name, dof: dof, haveGoodLoopJoint: haveGoodLoopJoint}
	return nil
}

// AddBody registers a graph node. An infinite mass marks the immovable
// environment body; exactly one such body must be registered before Build.
func (b *Builder) AddBody(name string, mass float64, mustBeBase bool) error {
	if strings.HasPrefix(name, "#") {
		return fmt.Errorf("%w: body %q", ErrReservedName, name)
	}
	if _, ok := b.bodyIx[name]; ok {
		return fmt.Errorf("%w: body %q", ErrDuplicate, name)
	}
	if math.IsInf(mass, 1) {
		if b.ground >= 0 {
			return fmt.Errorf("%w: %q and %q", ErrMultipleGrounds, b.bodies[b.ground].name, name)
		}
		b.ground = len(b.bodies)
	}
	b.bodyIx[name] = len(b.bodies)
	b.bodies = append(b.bodies, bodyNode{name: name, mass: mass, mustBeBase: mustBeBase})
	return nil
}

// AddJoint registers a graph edge. An empty parent resolves to the ground
// body, which must already be registered in that case. Joints flagged
// mustBreak never become tree mobilizers; they are broken in Build even
// when no cycle forces it.
func (b *Builder) AddJoint(name, typeName, parent, child string, mustBreak bool) error {
	if strings.HasPrefix(name, "#") {
		return fmt.Errorf("%w: joint %q", ErrReservedName, name)
	}
	if _, ok := b.jointIx[name]; ok {
		return fmt.Errorf("%w: joint %q", ErrDuplicate, name)
	}
	if _, ok := b.types[typeName]; !ok {
		return fmt.Errorf("%w: joint %q declared as %q", ErrUnknownJointType, name, typeName)
	}
	if parent == "" {
		if b.ground < 0 {
			return fmt.Errorf("%w: joint %q has no parent", ErrNoGround, name)
		}
		parent = b.bodies[b.ground].name
	}
	pi, ok := b.bodyIx[parent]
	if !ok {
		return fmt.Errorf("%w: joint %q parent %q", ErrUnknownBody, name, parent)
	}
	ci, ok := b.bodyIx[child]
	if !ok {
		return fmt.Errorf("%w: joint %q child %q", ErrUnknownBody, name, child)
	}
	if pi == ci {
		return fmt.Errorf("%w: joint %q", ErrSelfJoint, name)
	}
	ix := len(b.joints)
	b.jointIx[name] = ix
	b.joints = append(b.joints, jointEdge{name: name, typeName: typeName, parent: pi, child: ci, mustBreak: mustBreak})
	b.bodies[pi].joints = append(b.bodies[pi].joints, ix)
	b.bodies[ci].joints = append(b.bodies[ci].joints, ix)
	return nil
}

// GroundName returns the name of the registered immovable body.
func (b *Builder) GroundName() (string, bool) {
	if b.ground < 0 {
		return "", false
	}
	return b.bodies[b.ground].name, true
}

// Build derives the spanning tree and loop constraints. The returned
// mobilizer list is in tree order: each entry's inboard body is the ground
// or the outboard of an earlier entry. Build does not consume the builder;
// calling it again yields an equivalent graph.
func (b *Builder) Build() (*Graph, error) {
	if b.ground < 0 {
		return nil, ErrNoGround
	}

	g := &Graph{}
	inTree := make([]bool, len(b.bodies))
	done := make([]bool, len(b.joints))
	slaveCount := make([]int, len(b.bodies))

	queue := []int{b.ground}
	inTree[b.ground] = true

	grow := func() {
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, jx := range b.bodies[cur].joints {
				j := &b.joints[jx]
				if done[jx] || j.mustBreak {
					continue
				}
				other, reversed := j.child, false
				if cur == j.child {
					other, reversed = j.parent, true
				}
				if inTree[other] {
					// Would close a cycle; left for the break phase.
					continue
				}
				done[jx] = true
				inTree[other] = true
				g.Mobilizers = append(g.Mobilizers, Mobilizer{
					JointName:  j.name,
					TypeName:   j.typeName,
					Inboard:    b.bodies[cur].name,
					Outboard:   b.bodies[other].name,
					IsReversed: reversed,
				})
				queue = append(queue, other)
			}
		}
	}

	grow()

	// Every component not reachable from the ground gets one added free
	// base mobilizer, then the tree keeps growing from there.
	for {
		base := b.pickBase(inTree)
		if base < 0 {
			break
		}
		inTree[base] = true
		g.Mobilizers = append(g.Mobilizers, Mobilizer{
			JointName:   "#free_" + b.bodies[base].name,
			TypeName:    FreeType,
			Inboard:     b.bodies[b.ground].name,
			Outboard:    b.bodies[base].name,
			IsAddedBase: true,
		})
		queue = append(queue, base)
		grow()
	}

	// Whatever joints remain close cycles (or were forced with mustBreak).
	// Both endpoints are mobilized by now, so slave mobilizers can append
	// at the end without breaking tree order.
	for jx := range b.joints {
		if done[jx] {
			continue
		}
		j := &b.joints[jx]

		if b.types[j.typeName].haveGoodLoopJoint {
			g.LoopConstraints = append(g.LoopConstraints, LoopConstraint{
				JointName: j.name,
				TypeName:  j.typeName,
				Master:    b.bodies[j.parent].name,
				Slave:     b.bodies[j.child].name,
			})
			continue
		}

		split := j.child
		if split == b.ground {
			split = j.parent
		}
		other := j.parent
		if split == j.parent {
			other = j.child
		}
		slaveCount[split]++
		slaveName := fmt.Sprintf("#%s_slave_%d", b.bodies[split].name, slaveCount[split])

		g.Mobilizers = append(g.Mobilizers, Mobilizer{
			JointName:  j.name,
			TypeName:   j.typeName,
			Inboard:    b.bodies[other].name,
			Outboard:   slaveName,
			Master:     b.bodies[split].name,
			IsSlave:    true,
			IsReversed: split == j.parent,
		})
		g.LoopConstraints = append(g.LoopConstraints, LoopConstraint{
			JointName: j.name,
			TypeName:  WeldType,
			Master:    b.bodies[split].name,
			Slave:     slaveName,
		})
	}

	return g, nil
}

// pickBase chooses the root for the next disconnected component: bodies
// flagged mustBeBase win, then higher joint degree, then registration
// order.
func (b *Builder) pickBase(inTree []bool) int {
	best := -1
	for i := range b.bodies {
		if inTree[i] {
			continue
		}
		if best < 0 {
			best = i
			continue
		}
		cand, cur := &b.bodies[i], &b.bodies[best]
		if cand.mustBeBase != cur.mustBeBase {
			if cand.mustBeBase {
				best = i
			}
			continue
		}
		if len(cand.joints) > len(cur.joints) {
			best = i
		}
	}
	return best
}
