package layout

import (
	"github.com/SigmundGranaas/petty-sub005/geo"
)

// Section tags the NodeState variants, one per container kind that can
// suspend mid-layout.
type Section uint8

const (
	SectionBlock Section = iota
	SectionFlex
	SectionListItem
	SectionParagraph
	SectionTable
	SectionAtomic
)

var sectionNames = [...]string{
	"block", "flex", "list item", "paragraph", "table", "atomic",
}

func (s Section) String() string {
	if int(s) < len(sectionNames) {
		return sectionNames[s]
	}
	return "unknown"
}

// NodeState records exactly how far one container progressed before a page
// break. It is created by a node's Layout, held by the pagination driver,
// and handed back on the next page; it never outlives a pass.
type NodeState struct {
	Section Section

	// ChildIndex is the in-progress child for block-like containers, or
	// the next flex line for flex containers.
	ChildIndex int

	// Child is the in-progress child's own state, nil when the break
	// landed between children.
	Child *NodeState

	// Offset is the consumed height of a paragraph's line strip, in
	// points. Zero means the whole paragraph was pushed to the next page.
	Offset float64

	// Row is the next table row to lay out, indexed over header plus
	// body rows.
	Row int

	// HeaderDone reports whether the table finished its header rows at
	// least once, which controls header repetition on later fragments.
	HeaderDone bool
}

// expect validates that the state belongs to the given container kind.
func (st *NodeState) expect(section Section) error {
	if st.Section != section {
		return &StateMismatchError{Expected: section, Actual: st.Section}
	}
	return nil
}

func blockState(childIndex int, child *NodeState) *NodeState {
	return &NodeState{Section: SectionBlock, ChildIndex: childIndex, Child: child}
}

func flexState(lineIndex int) *NodeState {
	return &NodeState{Section: SectionFlex, ChildIndex: lineIndex}
}

func listItemState(childIndex int, child *NodeState) *NodeState {
	return &NodeState{Section: SectionListItem, ChildIndex: childIndex, Child: child}
}

func paragraphState(offset float64) *NodeState {
	return &NodeState{Section: SectionParagraph, Offset: offset}
}

func tableState(row int, headerDone bool, child *NodeState) *NodeState {
	return &NodeState{Section: SectionTable, Row: row, HeaderDone: headerDone, Child: child}
}

func atomicState() *NodeState {
	return &NodeState{Section: SectionAtomic}
}

// Node is the uniform two-phase contract every layout node implements.
//
// Measure computes the node's intrinsic size under the given constraints
// without touching pagination state; parents that need a child's size
// before committing (flex, table, fit checks) call it freely.
//
// Layout places the node into the remaining page space described by ctx
// and c. A nil return state means the node finished; a non-nil state is a
// break: the driver starts a new page and calls Layout again with that
// state as resume. Resuming must continue exactly where the break
// happened — already placed children are never re-laid-out, because
// placement has side effects (anchors, index entries).
type Node interface {
	Style() *ComputedStyle
	Measure(env *Env, c geo.Constraints) (geo.Size, error)
	Layout(ctx *Context, c geo.Constraints, resume *NodeState) (*NodeState, error)
}
