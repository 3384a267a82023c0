package symbolic

// PathEntryKind describes the kind of event a PathEntry records.
type PathEntryKind uint8

const (
	// PathEntryBranch describes a reached branch, with or without a predicate.
	PathEntryBranch PathEntryKind = iota
	// PathEntryCall describes a call into an instrumented function.
	PathEntryCall
	// PathEntryReturn describes a return from an instrumented function.
	PathEntryReturn
)

// String returns the textual name of the entry kind.
func (k PathEntryKind) String() string {
	switch k {
	case PathEntryBranch:
		return "branch"
	case PathEntryCall:
		return "call"
	case PathEntryReturn:
		return "return"
	default:
		return "unknown"
	}
}

// PathEntry describes a single event of a Path.
type PathEntry struct {
	// Kind describes which kind of event the entry records.
	Kind PathEntryKind

	// Branch describes the reached branch. Only set for PathEntryBranch entries.
	Branch BranchID

	// Function describes the called function. Only set for PathEntryCall entries.
	Function FunctionID

	// Pred describes the predicate which held given the branch taken, or nil if the branch condition was
	// concrete. Only set for PathEntryBranch entries.
	Pred *Pred
}

// Path describes the ordered, append-only record of branch, call and return events of an execution.
type Path struct {
	// entries describes every recorded event in order.
	entries []PathEntry

	// branches describes the ids of every reached branch in order.
	branches []BranchID

	// constraints describes the predicates of every symbolic branch in order.
	constraints []*Pred

	// constraintIndices describes, for each constraint, the index into branches of the branch it was recorded at.
	constraintIndices []int
}

// NewPath returns an empty Path.
func NewPath() *Path {
	return &Path{
		entries:           make([]PathEntry, 0),
		branches:          make([]BranchID, 0),
		constraints:       make([]*Pred, 0),
		constraintIndices: make([]int, 0),
	}
}

// Push records a reached branch. If pred is non-nil, the path takes ownership of it.
func (p *Path) Push(bid BranchID, pred *Pred) {
	p.entries = append(p.entries, PathEntry{Kind: PathEntryBranch, Branch: bid, Pred: pred})
	if pred != nil {
		p.constraints = append(p.constraints, pred)
		p.constraintIndices = append(p.constraintIndices, len(p.branches))
	}
	p.branches = append(p.branches, bid)
}

// PushCall records a call into the function fid.
func (p *Path) PushCall(fid FunctionID) {
	p.entries = append(p.entries, PathEntry{Kind: PathEntryCall, Function: fid})
}

// PushReturn records a return from the current function.
func (p *Path) PushReturn() {
	p.entries = append(p.entries, PathEntry{Kind: PathEntryReturn})
}

// Len returns the number of recorded events.
func (p *Path) Len() int {
	return len(p.entries)
}

// Entries returns a copy of the recorded events. Predicates are shared with the path and must not be mutated.
func (p *Path) Entries() []PathEntry {
	return append([]PathEntry(nil), p.entries...)
}

// Branches returns the ids of every reached branch in order.
func (p *Path) Branches() []BranchID {
	return append([]BranchID(nil), p.branches...)
}

// Constraints returns the predicates of every symbolic branch in order. Predicates are shared with the path and
// must not be mutated.
func (p *Path) Constraints() []*Pred {
	return append([]*Pred(nil), p.constraints...)
}

// ConstraintIndices returns, for each constraint, the index into Branches of the branch it was recorded at.
func (p *Path) ConstraintIndices() []int {
	return append([]int(nil), p.constraintIndices...)
}

// Equal reports whether two paths recorded the same events.
func (p *Path) Equal(o *Path) bool {
	if len(p.entries) != len(o.entries) {
		return false
	}
	for i, e := range p.entries {
		oe := o.entries[i]
		if e.Kind != oe.Kind || e.Branch != oe.Branch || e.Function != oe.Function {
			return false
		}
		if (e.Pred == nil) != (oe.Pred == nil) {
			return false
		}
		if e.Pred != nil && !e.Pred.Equal(oe.Pred) {
			return false
		}
	}
	return true
}
