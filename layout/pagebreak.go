package layout

import "github.com/SigmundGranaas/petty-sub005/geo"

// PageBreakNode forces the following content onto a new page, optionally
// switching the page master. It occupies no space itself.
type PageBreakNode struct {
	masterName string
	style      *ComputedStyle
}

func (n *PageBreakNode) Style() *ComputedStyle { return n.style }

func (n *PageBreakNode) Measure(env *Env, c geo.Constraints) (geo.Size, error) {
	return geo.Size{}, nil
}

func (n *PageBreakNode) Layout(ctx *Context, c geo.Constraints, resume *NodeState) (*NodeState, error) {
	if resume != nil {
		if err := resume.expect(SectionAtomic); err != nil {
			return nil, err
		}
		// The break already happened.
		return nil, nil
	}

	if !ctx.IsEmpty() || ctx.CursorY() > 0 {
		ctx.RequestMaster(n.masterName)
		return atomicState(), nil
	}

	// Already at the top of an empty page. A plain break is a no-op, but
	// a master switch still needs a fresh page on that master.
	if n.masterName != "" {
		ctx.RequestMaster(n.masterName)
		return atomicState(), nil
	}
	return nil, nil
}
