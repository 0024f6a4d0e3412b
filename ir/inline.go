package ir

// InlineKind tags the inline content variants inside paragraphs and headings.
type InlineKind uint8

const (
	InlineText InlineKind = iota
	InlineSpan
	InlineLineBreak
	InlineImage
	InlineHyperlink
	InlinePageRef
)

var inlineNames = [...]string{
	"text", "span", "line-break", "image", "hyperlink", "page-reference",
}

func (k InlineKind) String() string {
	if int(k) < len(inlineNames) {
		return inlineNames[k]
	}
	return "unknown"
}

// Inline is one piece of paragraph content.
type Inline struct {
	Kind InlineKind
	Meta Meta

	// Text is the literal content of an InlineText.
	Text string

	// Src is the InlineImage resource identifier.
	Src string

	// Href is the InlineHyperlink target.
	Href string

	// TargetID names the anchor an InlinePageRef resolves to.
	TargetID string

	// Children holds nested inlines for InlineSpan and InlineHyperlink.
	Children []*Inline
}

// Text returns a plain text inline.
func Text(s string) *Inline { return &Inline{Kind: InlineText, Text: s} }

// LineBreak returns a hard line break.
func LineBreak() *Inline { return &Inline{Kind: InlineLineBreak} }

// Span wraps inlines in a styled span.
func Span(meta Meta, children ...*Inline) *Inline {
	return &Inline{Kind: InlineSpan, Meta: meta, Children: children}
}

// Link wraps inlines in a hyperlink.
func Link(href string, children ...*Inline) *Inline {
	return &Inline{Kind: InlineHyperlink, Href: href, Children: children}
}

// ImageInline returns an inline image.
func ImageInline(src string) *Inline { return &Inline{Kind: InlineImage, Src: src} }

// PageRef returns a page-number reference to the given anchor id.
func PageRef(targetID string) *Inline { return &Inline{Kind: InlinePageRef, TargetID: targetID} }

// PlainText flattens the inline subtree into its literal text, ignoring
// images and page references. Used for heading TOC entries and diagnostics.
func (in *Inline) PlainText() string {
	switch in.Kind {
	case InlineText:
		return in.Text
	case InlineLineBreak:
		return "\n"
	case InlineSpan, InlineHyperlink:
		var out string
		for _, c := range in.Children {
			out += c.PlainText()
		}
		return out
	default:
		return ""
	}
}

// PlainText concatenates the plain text of a slice of inlines.
func PlainText(inlines []*Inline) string {
	var out string
	for _, in := range inlines {
		out += in.PlainText()
	}
	return out
}
