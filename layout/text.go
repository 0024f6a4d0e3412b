package layout

import (
	"github.com/SigmundGranaas/petty-sub005/ir"
)

// objectReplacement occupies one rune in the paragraph's logical text for
// every inline image, keeping glyph cluster offsets aligned with the
// visible content.
const objectReplacement = "￼"

// pageNumberPlaceholder reserves enough width for a three-digit page
// number; the renderer substitutes the real value after pagination.
const pageNumberPlaceholder = "000"

// flattenInlines converts a paragraph's inline tree into shapeable spans
// plus the paragraph's link table. Adjacent text under the same resolved
// style and link target merges into one span; hyperlinks and page
// references append to the link table and tag their content with the
// 1-based link index.
func flattenInlines(env *Env, inlines []*ir.Inline, base *ComputedStyle) ([]flatSpan, []string, error) {
	f := &inlineFlattener{env: env}
	if err := f.walk(inlines, base, 0); err != nil {
		return nil, nil, err
	}
	return f.spans, f.links, nil
}

type inlineFlattener struct {
	env   *Env
	spans []flatSpan
	links []string
}

func (f *inlineFlattener) walk(inlines []*ir.Inline, cs *ComputedStyle, linkIndex int) error {
	for _, in := range inlines {
		switch in.Kind {
		case ir.InlineText:
			f.text(in.Text, cs, linkIndex)

		case ir.InlineLineBreak:
			f.spans = append(f.spans, flatSpan{Text: "\n", Style: cs, LinkIndex: linkIndex})

		case ir.InlineSpan:
			child, err := resolveStyle(f.env.sheet, in.Meta, cs)
			if err != nil {
				return err
			}
			child = f.env.store.Canonicalize(child)
			if err := f.walk(in.Children, child, linkIndex); err != nil {
				return err
			}

		case ir.InlineHyperlink:
			f.links = append(f.links, f.env.store.Intern(in.Href))
			if err := f.walk(in.Children, cs, len(f.links)); err != nil {
				return err
			}

		case ir.InlinePageRef:
			f.links = append(f.links, f.env.store.Intern("#"+in.TargetID))
			f.spans = append(f.spans, flatSpan{
				Text:      pageNumberPlaceholder,
				Style:     cs,
				LinkIndex: len(f.links),
				PageRef:   f.env.store.Intern(in.TargetID),
			})

		case ir.InlineImage:
			imgStyle, err := resolveStyle(f.env.sheet, in.Meta, cs)
			if err != nil {
				return err
			}
			imgStyle = f.env.store.Canonicalize(imgStyle)
			f.spans = append(f.spans, flatSpan{
				Text:      objectReplacement,
				Style:     imgStyle,
				LinkIndex: linkIndex,
				Image: &inlineObject{
					Src:  f.env.store.Intern(in.Src),
					Size: resolveImageSize(f.env, in.Src, imgStyle),
				},
			})
		}
	}
	return nil
}

// text appends literal content, merging into the previous span when the
// style and link target match.
func (f *inlineFlattener) text(s string, cs *ComputedStyle, linkIndex int) {
	if s == "" {
		return
	}
	if n := len(f.spans); n > 0 {
		last := &f.spans[n-1]
		if last.Style == cs && last.LinkIndex == linkIndex && last.Image == nil && last.PageRef == "" {
			last.Text += s
			return
		}
	}
	f.spans = append(f.spans, flatSpan{Text: s, Style: cs, LinkIndex: linkIndex})
}
