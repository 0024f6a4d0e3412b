package layout

import "github.com/SigmundGranaas/petty-sub005/geo"

// IndexMarkerNode records where a term occurs. It is invisible and takes
// no space; the position it registers is the cursor at layout time.
type IndexMarkerNode struct {
	term  string
	style *ComputedStyle
}

func (n *IndexMarkerNode) Style() *ComputedStyle { return n.style }

func (n *IndexMarkerNode) Measure(env *Env, c geo.Constraints) (geo.Size, error) {
	return geo.Size{}, nil
}

func (n *IndexMarkerNode) Layout(ctx *Context, c geo.Constraints, resume *NodeState) (*NodeState, error) {
	ctx.RegisterIndexEntry(n.term)
	return nil, nil
}
