package fonts

import (
	"testing"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/language"
)

func TestDetectScript(t *testing.T) {
	cases := []struct {
		text string
		want language.Script
	}{
		{"Hello World", language.Latin},
		{"مرحبا", language.Arabic},
		{"שלום", language.Hebrew},
		{"你好世界", language.Han},
		{"Привет", language.Cyrillic},
		{"abc 你", language.Latin},
		{"123 !?", language.Latin},
	}
	for _, c := range cases {
		if got := detectScript([]rune(c.text)); got != c.want {
			t.Errorf("detectScript(%q) = %v, want %v", c.text, got, c.want)
		}
	}
}

func TestScriptDirection(t *testing.T) {
	if scriptDirection(language.Arabic) != di.DirectionRTL {
		t.Error("Arabic should shape right-to-left")
	}
	if scriptDirection(language.Hebrew) != di.DirectionRTL {
		t.Error("Hebrew should shape right-to-left")
	}
	if scriptDirection(language.Latin) != di.DirectionLTR {
		t.Error("Latin should shape left-to-right")
	}
}

func TestShapeSpanRequiresFace(t *testing.T) {
	s := NewShaper()
	if _, err := s.ShapeSpan("text", nil, 12); err == nil {
		t.Error("expected error for nil font")
	}
	if _, err := s.ShapeSpan("text", &Font{Family: "Fake"}, 12); err == nil {
		t.Error("expected error for font without a parsed face")
	}
}
