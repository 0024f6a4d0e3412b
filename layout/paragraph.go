package layout

import (
	"math"

	"github.com/SigmundGranaas/petty-sub005/geo"
)

// ParagraphNode lays out rich inline content as wrapped lines. It breaks
// across pages between lines, honoring the style's widow and orphan
// minimums, and resumes from the consumed line height recorded in its
// break state.
type ParagraphNode struct {
	id    string
	spans []flatSpan
	links []string
	style *ComputedStyle

	runs      []shapedRun
	runsReady bool
	lines     map[int64][]lineLayout
}

func (n *ParagraphNode) Style() *ComputedStyle { return n.style }

// shapedRuns shapes the paragraph's spans once per pass.
func (n *ParagraphNode) shapedRuns(env *Env) ([]shapedRun, error) {
	if !n.runsReady {
		runs, err := env.text.shapeSpans(n.spans)
		if err != nil {
			return nil, err
		}
		n.runs = runs
		n.runsReady = true
	}
	return n.runs, nil
}

// linesFor wraps the paragraph at the given content width, memoized per
// width so measure and layout share the work.
func (n *ParagraphNode) linesFor(env *Env, width float64) ([]lineLayout, error) {
	key := widthKey(width)
	if cached, ok := n.lines[key]; ok {
		return cached, nil
	}
	runs, err := n.shapedRuns(env)
	if err != nil {
		return nil, err
	}
	lines := breakLines(runs, width, n.style.Text.Align)
	if n.lines == nil {
		n.lines = make(map[int64][]lineLayout)
	}
	n.lines[key] = lines
	return lines, nil
}

func (n *ParagraphNode) Measure(env *Env, c geo.Constraints) (geo.Size, error) {
	marginY := n.style.Box.Margin.Vertical()

	contentWidth := math.Inf(1)
	if c.HasBoundedWidth() {
		contentWidth = c.MaxW
	}
	lines, err := n.linesFor(env, contentWidth)
	if err != nil {
		return geo.Size{}, err
	}

	width := c.MaxW
	if !c.HasBoundedWidth() {
		width = 0
		for i := range lines {
			width = math.Max(width, lines[i].Width)
		}
	}

	height := 0.0
	for i := range lines {
		height += lines[i].Height
	}
	if h, ok := explicitPt(n.style.Box.Height); ok {
		height = h
	}
	return geo.Size{W: width, H: marginY + height}, nil
}

func (n *ParagraphNode) Layout(ctx *Context, c geo.Constraints, resume *NodeState) (*NodeState, error) {
	offset := 0.0
	if resume != nil {
		if err := resume.expect(SectionParagraph); err != nil {
			return nil, err
		}
		offset = resume.Offset
	}
	isContinuation := offset > 0

	if !isContinuation {
		if n.id != "" {
			ctx.RegisterAnchor(n.id)
		}
		if ctx.PrepareForBlock(n.style.Box.Margin.Top) {
			return paragraphState(0), nil
		}
	} else {
		ctx.ClearVMargin()
	}

	lines, err := n.linesFor(ctx.env, ctx.Bounds().W)
	if err != nil {
		return nil, err
	}
	runs, err := n.shapedRuns(ctx.env)
	if err != nil {
		return nil, err
	}

	// Skip the lines earlier fragments consumed.
	startLine := 0
	skipped := 0.0
	for startLine < len(lines) && skipped+lines[startLine].Height <= offset+geo.FitEpsilon {
		skipped += lines[startLine].Height
		startLine++
	}

	remaining := lines[startLine:]
	total := len(remaining)
	if total == 0 {
		ctx.FinishBlock(n.style.Box.Margin.Bottom)
		return nil, nil
	}

	available := ctx.AvailableHeight()
	fit := 0
	cum := 0.0
	for i := range remaining {
		if cum+remaining[i].Height > available+geo.FitEpsilon {
			break
		}
		cum += remaining[i].Height
		fit++
	}

	// A line must land somewhere, even on a page too short for it.
	if ctx.IsEmpty() && fit == 0 {
		fit = 1
	}

	// Too few lines would stay behind: push the whole paragraph.
	if !ctx.IsEmpty() && total > fit && fit < n.style.Misc.Orphans {
		return paragraphState(skipped), nil
	}

	// Too few lines would carry over: send some along with the break.
	if fit < total && fit > 0 {
		remainingCount := total - fit
		if remainingCount < n.style.Misc.Widows {
			move := n.style.Misc.Widows - remainingCount
			if move > fit {
				move = fit
			}
			fit -= move
		}
	}
	if fit == 0 {
		if ctx.IsEmpty() {
			fit = 1
		} else {
			return paragraphState(skipped), nil
		}
	}

	emitted := 0.0
	for i := 0; i < fit; i++ {
		renderLine(ctx, &remaining[i], runs, n.links)
		ctx.Advance(remaining[i].Height)
		emitted += remaining[i].Height
	}

	if fit >= total {
		ctx.FinishBlock(n.style.Box.Margin.Bottom)
		return nil, nil
	}
	return paragraphState(skipped + emitted), nil
}

// widthKey quantizes a wrap width to hundredths of a point for memoizing
// per-width results. Unbounded widths share one key.
func widthKey(w float64) int64 {
	if math.IsInf(w, 1) {
		return -1
	}
	return int64(math.Round(w * 100))
}

// HeadingNode is a paragraph that also lands in the document outline. It
// registers its anchor where the first fragment is placed and contributes
// one table of contents entry.
type HeadingNode struct {
	para     *ParagraphNode
	level    int
	text     string
	targetID string
}

func (n *HeadingNode) Style() *ComputedStyle { return n.para.style }

func (n *HeadingNode) Measure(env *Env, c geo.Constraints) (geo.Size, error) {
	return n.para.Measure(env, c)
}

func (n *HeadingNode) Layout(ctx *Context, c geo.Constraints, resume *NodeState) (*NodeState, error) {
	if resume == nil {
		ctx.RegisterTOCEntry(n.level, n.text, n.targetID)
	}
	if resume == nil || resume.Offset <= 0 {
		ctx.RegisterAnchor(n.targetID)
	}
	return n.para.Layout(ctx, c, resume)
}
