package mbgraph

// Built-in joint type names. Weld and free are always registered; weld
// backs fixed joints and loop constraints, free backs added base mobilizers.
const (
	WeldType = "weld"
	FreeType = "free"
)

// Mobilizer is one joint of the spanning tree. Inboard is the body already
// mobilized when this entry is processed; Outboard is the body this entry
// makes movable. For slave mobilizers Outboard is the generated slave name
// and Master the physical body it duplicates.
type Mobilizer struct {
	JointName   string
	TypeName    string
	Inboard     string
	Outboard    string
	Master      string
	IsAddedBase bool
	IsSlave     bool
	IsReversed  bool
}

// OutboardBody returns the physical body this mobilizer moves, resolving
// slaves to their master.
func (m Mobilizer) OutboardBody() string {
	if m.IsSlave {
		return m.Master
	}
	return m.Outboard
}

// LoopConstraint is a rigid coupling closing one cycle: the slave copy is
// welded back to its master body. JointName records which input joint the
// break substituted for.
type LoopConstraint struct {
	JointName string
	TypeName  string
	Master    string
	Slave     string
}

// Graph is the builder's output: mobilizers in tree order plus the loop
// constraints. It is consumed by assembly and discarded; nothing retains it
// at simulation time.
type Graph struct {
	Mobilizers      []Mobilizer
	LoopConstraints []LoopConstraint
}

// Fragments reports how many mobilizer fragments a body was split into:
// one for the master plus one per slave. Mass properties are divided across
// fragments at assembly.
func (g *Graph) Fragments(body string) int {
	n := 1
	for _, m := range g.Mobilizers {
		if m.IsSlave && m.Master == body {
			n++
		}
	}
	return n
}
