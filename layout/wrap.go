package layout

import (
	"math"

	"github.com/SigmundGranaas/petty-sub005/style"
)

// lineItem is a contiguous glyph range of one shaped run placed on a line.
// Image runs produce an item with an empty glyph range.
type lineItem struct {
	Run        int
	GlyphStart int
	GlyphEnd   int
	X          float64
	Width      float64
}

// lineLayout is one finished line: its items with final x offsets, the
// width the line occupies, its height and the baseline distance from the
// line top.
type lineLayout struct {
	Items    []lineItem
	Width    float64
	Height   float64
	Baseline float64
}

type rawLine struct {
	items    []lineItem
	width    float64
	height   float64
	baseline float64
}

// breakLines flows the shaped runs into lines no wider than maxWidth using
// greedy breaking at spaces, with hard breaks at newlines and mid-word
// splits for words wider than the line. Alignment is applied per line;
// justified paragraphs keep their final line left aligned.
func breakLines(runs []shapedRun, maxWidth float64, align style.TextAlign) []lineLayout {
	runes := make([][]rune, len(runs))
	for i := range runs {
		if runs[i].Image == nil {
			runes[i] = []rune(runs[i].Text)
		}
	}

	var raw []rawLine
	var items []lineItem
	lineWidth := 0.0
	lineHeight := 0.0
	baseline := 0.0

	flush := func(contentWidth float64) {
		raw = append(raw, rawLine{items: items, width: contentWidth, height: lineHeight, baseline: baseline})
		items = nil
		lineWidth = 0
	}

	for runIdx := range runs {
		run := &runs[runIdx]
		if run.Image != nil {
			if lineWidth+run.Width > maxWidth && len(items) > 0 {
				flush(lineWidth)
				lineHeight = 0
				baseline = 0
			}
			items = append(items, lineItem{Run: runIdx, X: lineWidth, Width: run.Width})
			lineWidth += run.Width
			lineHeight = math.Max(lineHeight, run.LineHeight)
			continue
		}

		lineHeight = math.Max(lineHeight, run.LineHeight)
		baseline = math.Max(baseline, run.Ascent)

		text := runes[runIdx]
		glyphStart := 0
		segWidth := 0.0

		for glyphIdx := 0; glyphIdx < len(run.Glyphs); glyphIdx++ {
			g := run.Glyphs[glyphIdx]
			var r rune
			if g.Cluster >= 0 && g.Cluster < len(text) {
				r = text[g.Cluster]
			}
			adv := g.XAdvance

			if r == '\n' {
				if glyphIdx > glyphStart {
					items = append(items, lineItem{
						Run:        runIdx,
						GlyphStart: glyphStart,
						GlyphEnd:   glyphIdx,
						X:          lineWidth,
						Width:      segWidth,
					})
				}
				flush(lineWidth + segWidth)
				segWidth = 0
				lineHeight = run.LineHeight
				baseline = run.Ascent
				glyphStart = glyphIdx + 1
				continue
			}

			if r == ' ' {
				if lineWidth+segWidth+adv > maxWidth && len(items) > 0 {
					// The pending word migrates to the new line, so it does
					// not count toward the finished line's width.
					flush(lineWidth)
					lineHeight = run.LineHeight
					baseline = run.Ascent
				}
				if glyphIdx >= glyphStart {
					items = append(items, lineItem{
						Run:        runIdx,
						GlyphStart: glyphStart,
						GlyphEnd:   glyphIdx + 1,
						X:          lineWidth,
						Width:      segWidth + adv,
					})
					lineWidth += segWidth + adv
					segWidth = 0
					glyphStart = glyphIdx + 1
				}
				continue
			}

			if lineWidth+segWidth+adv > maxWidth {
				if len(items) > 0 {
					flush(lineWidth)
					lineHeight = run.LineHeight
					baseline = run.Ascent
				} else {
					// The word alone exceeds the line. Split it at the
					// overflowing glyph.
					if glyphIdx > glyphStart {
						items = append(items, lineItem{
							Run:        runIdx,
							GlyphStart: glyphStart,
							GlyphEnd:   glyphIdx,
							X:          lineWidth,
							Width:      segWidth,
						})
					}
					flush(lineWidth + segWidth)
					segWidth = 0
					lineHeight = run.LineHeight
					baseline = run.Ascent
					glyphStart = glyphIdx
				}
			}
			segWidth += adv
		}

		if len(run.Glyphs) > glyphStart {
			items = append(items, lineItem{
				Run:        runIdx,
				GlyphStart: glyphStart,
				GlyphEnd:   len(run.Glyphs),
				X:          lineWidth,
				Width:      segWidth,
			})
			lineWidth += segWidth
		}
	}

	if len(items) > 0 {
		flush(lineWidth)
	}

	lines := make([]lineLayout, len(raw))
	for i := range raw {
		lines[i] = finalizeLine(raw[i], maxWidth, align, runs, runes, i == len(raw)-1)
	}
	return lines
}

func finalizeLine(rl rawLine, maxWidth float64, align style.TextAlign, runs []shapedRun, runes [][]rune, last bool) lineLayout {
	items := rl.items
	if last && align == style.AlignJustify {
		align = style.AlignLeft
	}

	if align != style.AlignJustify && len(items) > 0 {
		merged := make([]lineItem, 0, len(items))
		current := items[0]
		for _, next := range items[1:] {
			if next.Run == current.Run &&
				next.GlyphStart == current.GlyphEnd &&
				math.Abs(next.X-(current.X+current.Width)) < 0.05 {
				current.GlyphEnd = next.GlyphEnd
				current.Width += next.Width
			} else {
				merged = append(merged, current)
				current = next
			}
		}
		merged = append(merged, current)
		items = merged
	}

	if math.IsInf(maxWidth, 1) {
		return lineLayout{Items: items, Width: rl.width, Height: rl.height, Baseline: rl.baseline}
	}

	effectiveWidth := rl.width

	// Trimming the trailing space keeps the justified width honest and
	// excludes the final gap from stretching.
	if align == style.AlignJustify && len(items) > 0 {
		lastItem := &items[len(items)-1]
		if itemEndsInSpace(runs, runes, *lastItem) {
			adv := runs[lastItem.Run].Glyphs[lastItem.GlyphEnd-1].XAdvance
			effectiveWidth -= adv
			lastItem.Width -= adv
			lastItem.GlyphEnd--
		}
	}

	freeSpace := math.Max(0, maxWidth-effectiveWidth)

	switch align {
	case style.AlignCenter:
		offset := freeSpace / 2
		for i := range items {
			items[i].X += offset
		}
	case style.AlignRight:
		for i := range items {
			items[i].X += freeSpace
		}
	case style.AlignJustify:
		spaceCount := 0
		for _, it := range items {
			if itemEndsInSpace(runs, runes, it) {
				spaceCount++
			}
		}
		if spaceCount > 0 && freeSpace > 0 {
			extra := freeSpace / float64(spaceCount)
			accumulated := 0.0
			for i := range items {
				items[i].X += accumulated
				if itemEndsInSpace(runs, runes, items[i]) {
					accumulated += extra
				}
			}
		}
	}

	return lineLayout{Items: items, Width: maxWidth, Height: rl.height, Baseline: rl.baseline}
}

// itemEndsInSpace reports whether the item's final glyph maps to a space.
func itemEndsInSpace(runs []shapedRun, runes [][]rune, it lineItem) bool {
	if it.GlyphEnd <= 0 {
		return false
	}
	run := &runs[it.Run]
	if run.Image != nil || it.GlyphEnd > len(run.Glyphs) {
		return false
	}
	c := run.Glyphs[it.GlyphEnd-1].Cluster
	text := runes[it.Run]
	return c >= 0 && c < len(text) && text[c] == ' '
}

// renderLine pushes the line's items as elements at the current cursor.
// Text and page number items sit at the line top with the run's line
// height; inline images sit on the line bottom.
func renderLine(ctx *Context, line *lineLayout, runs []shapedRun, links []string) {
	for _, it := range line.Items {
		run := &runs[it.Run]
		if run.Image != nil {
			ctx.UseResource(run.Image.Src)
			ctx.PushElement(PositionedElement{
				X:       it.X,
				Y:       line.Height - run.Image.Size.H,
				W:       run.Image.Size.W,
				H:       run.Image.Size.H,
				Element: &ImageElement{Src: run.Image.Src},
				Style:   run.Style,
			})
			continue
		}
		renderRunSegment(ctx, run, it, links)
	}
}

// renderRunSegment pushes one glyph range of a text run as a single
// element. Page reference runs become page number placeholders resolved
// after pagination.
func renderRunSegment(ctx *Context, run *shapedRun, it lineItem, links []string) {
	if it.GlyphStart >= len(run.Glyphs) {
		return
	}
	end := it.GlyphEnd
	if end > len(run.Glyphs) {
		end = len(run.Glyphs)
	}
	if it.GlyphStart >= end {
		return
	}

	glyphs := run.Glyphs[it.GlyphStart:end]
	width := 0.0
	for _, g := range glyphs {
		width += g.XAdvance
	}

	var href string
	if run.LinkIndex > 0 && run.LinkIndex <= len(links) {
		href = links[run.LinkIndex-1]
	}

	if run.PageRef != "" {
		ctx.PushElement(PositionedElement{
			X:       it.X,
			W:       width,
			H:       run.LineHeight,
			Element: &PageNumberElement{TargetID: run.PageRef, Href: href},
			Style:   run.Style,
		})
		return
	}

	text := []rune(run.Text)
	startCluster := glyphs[0].Cluster
	endCluster := len(text)
	if end < len(run.Glyphs) {
		endCluster = run.Glyphs[end].Cluster
	}
	if startCluster > endCluster {
		startCluster, endCluster = endCluster, startCluster
	}
	startCluster = clampCluster(startCluster, len(text))
	endCluster = clampCluster(endCluster, len(text))

	ctx.PushElement(PositionedElement{
		X: it.X,
		W: width,
		H: run.LineHeight,
		Element: &TextElement{
			Content:    string(text[startCluster:endCluster]),
			Href:       href,
			Decoration: run.Style.Text.Decoration,
		},
		Style: run.Style,
	})
}

func clampCluster(c, max int) int {
	if c < 0 {
		return 0
	}
	if c > max {
		return max
	}
	return c
}
