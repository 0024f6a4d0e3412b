package style

import (
	"encoding/json"
	"testing"
)

func TestDimensionJSON(t *testing.T) {
	tests := []struct {
		in   string
		want Dimension
	}{
		{`12`, Pt(12)},
		{`"12pt"`, Pt(12)},
		{`"30%"`, Percent(30)},
		{`"auto"`, Auto()},
		{`"7.5"`, Pt(7.5)},
	}
	for _, tt := range tests {
		var d Dimension
		if err := json.Unmarshal([]byte(tt.in), &d); err != nil {
			t.Fatalf("unmarshal %s: %v", tt.in, err)
		}
		if d != tt.want {
			t.Errorf("unmarshal %s = %+v, want %+v", tt.in, d, tt.want)
		}
	}

	var d Dimension
	if err := json.Unmarshal([]byte(`"12furlongs"`), &d); err == nil {
		t.Error("expected error for unknown unit")
	}
}

func TestDimensionResolve(t *testing.T) {
	if v, ok := Pt(42).Resolve(100); !ok || v != 42 {
		t.Errorf("Pt resolve = %v, %v", v, ok)
	}
	if v, ok := Percent(25).Resolve(200); !ok || v != 50 {
		t.Errorf("Percent resolve = %v, %v", v, ok)
	}
	if _, ok := Auto().Resolve(100); ok {
		t.Error("Auto must not resolve")
	}
}

func TestColorParsing(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"#ff0000", Color{R: 255, A: 1.0}},
		{"#0f0", Color{G: 255, A: 1.0}},
		{"#00000080", Color{A: 128.0 / 255.0}},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if err != nil {
			t.Fatalf("ParseColor(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseColor(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
	if _, err := ParseColor("red"); err == nil {
		t.Error("expected error for non-hex color")
	}
}

func TestElementStyleJSON(t *testing.T) {
	src := `{
		"font-family": "Georgia",
		"font-size": 14,
		"font-weight": "bold",
		"text-align": "justify",
		"margin": {"top": 10, "bottom": 10},
		"width": "50%",
		"list-style-type": "lower-roman",
		"widows": 3
	}`
	var es ElementStyle
	if err := json.Unmarshal([]byte(src), &es); err != nil {
		t.Fatalf("unmarshal element style: %v", err)
	}
	if es.FontFamily == nil || *es.FontFamily != "Georgia" {
		t.Error("font-family not decoded")
	}
	if es.FontWeight == nil || *es.FontWeight != WeightBold {
		t.Error("font-weight name not decoded")
	}
	if es.TextAlign == nil || *es.TextAlign != AlignJustify {
		t.Error("text-align not decoded")
	}
	if es.Margin == nil || es.Margin.Top != 10 || es.Margin.Left != 0 {
		t.Errorf("margin not decoded: %+v", es.Margin)
	}
	if es.Width == nil || *es.Width != Percent(50) {
		t.Error("width not decoded")
	}
	if es.ListStyleType == nil || *es.ListStyleType != ListLowerRoman {
		t.Error("list-style-type not decoded")
	}
	if es.Widows == nil || *es.Widows != 3 {
		t.Error("widows not decoded")
	}
}

func TestParseStylesheet(t *testing.T) {
	src := `{
		"page-masters": {
			"main": {"size": "a4", "margins": {"top": 50, "right": 50, "bottom": 50, "left": 50}},
			"wide": {"size": {"width": 842, "height": 595}}
		},
		"default-page-master": "main",
		"styles": {
			"title": {"font-size": 24, "font-weight": "bold"}
		}
	}`
	sheet, err := ParseStylesheet([]byte(src))
	if err != nil {
		t.Fatalf("ParseStylesheet: %v", err)
	}
	if len(sheet.PageMasters) != 2 {
		t.Fatalf("expected 2 masters, got %d", len(sheet.PageMasters))
	}
	if sheet.PageMasters["main"].Size != A4 {
		t.Errorf("preset size not resolved: %+v", sheet.PageMasters["main"].Size)
	}
	if sheet.PageMasters["wide"].Size.W != 842 {
		t.Errorf("custom size not decoded: %+v", sheet.PageMasters["wide"].Size)
	}
	if sheet.Styles["title"].FontSize == nil || *sheet.Styles["title"].FontSize != 24 {
		t.Error("named style not decoded")
	}
}

func TestParseStylesheetSingleMasterDefault(t *testing.T) {
	src := `{"page-masters": {"only": {"size": "letter"}}}`
	sheet, err := ParseStylesheet([]byte(src))
	if err != nil {
		t.Fatalf("ParseStylesheet: %v", err)
	}
	if sheet.DefaultPageMaster != "only" {
		t.Errorf("single master should become the default, got %q", sheet.DefaultPageMaster)
	}

	if _, err := ParseStylesheet([]byte(`{}`)); err == nil {
		t.Error("stylesheet without masters should fail")
	}
}
