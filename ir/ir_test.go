package ir

import "testing"

func TestKindNames(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{Root, "root"},
		{FlexContainer, "flex-container"},
		{ListItem, "list-item"},
		{PageBreak, "page-break"},
		{IndexMarker, "index-marker"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestPlainText(t *testing.T) {
	inlines := []*Inline{
		Text("Hello "),
		Span(Meta{}, Text("styled")),
		LineBreak(),
		Link("https://example.com", Text("link text")),
		ImageInline("logo.png"),
		PageRef("chapter-2"),
	}
	got := PlainText(inlines)
	want := "Hello styled\nlink text"
	if got != want {
		t.Errorf("PlainText = %q, want %q", got, want)
	}
}
