package style

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PageSize is a page's physical dimensions in points.
type PageSize struct {
	W, H float64
}

// Standard page sizes.
var (
	A4     = PageSize{W: 595.28, H: 841.89}
	Letter = PageSize{W: 612, H: 792}
	Legal  = PageSize{W: 612, H: 1008}
)

var pageSizeNames = map[string]PageSize{
	"a4": A4, "letter": Letter, "legal": Legal,
}

// UnmarshalJSON accepts a preset name ("a4", "letter", "legal") or an
// object {"width": W, "height": H}.
func (p *PageSize) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		size, ok := pageSizeNames[strings.ToLower(name)]
		if !ok {
			return fmt.Errorf("page size: unknown preset %q", name)
		}
		*p = size
		return nil
	}
	var custom struct {
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
	}
	if err := json.Unmarshal(data, &custom); err != nil {
		return fmt.Errorf("page size: expected preset name or dimensions, got %s", data)
	}
	if custom.Width <= 0 || custom.Height <= 0 {
		return fmt.Errorf("page size: dimensions must be positive, got %gx%g", custom.Width, custom.Height)
	}
	*p = PageSize{W: custom.Width, H: custom.Height}
	return nil
}

// MarshalJSON always encodes explicit dimensions.
func (p PageSize) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
	}{p.W, p.H})
}

// PageLayout is a named page master: size plus optional margins.
type PageLayout struct {
	Size    PageSize `json:"size"`
	Margins *Margins `json:"margins,omitempty"`
}

// Stylesheet groups the page masters and named style sets for one document.
type Stylesheet struct {
	PageMasters       map[string]PageLayout    `json:"page-masters"`
	DefaultPageMaster string                   `json:"default-page-master,omitempty"`
	Styles            map[string]*ElementStyle `json:"styles,omitempty"`
}

// DefaultStylesheet returns a stylesheet with a single A4 master with
// one-inch margins.
func DefaultStylesheet() *Stylesheet {
	return &Stylesheet{
		PageMasters: map[string]PageLayout{
			"default": {Size: A4, Margins: &Margins{Top: 72, Right: 72, Bottom: 72, Left: 72}},
		},
		DefaultPageMaster: "default",
	}
}

// ParseStylesheet decodes the JSON stylesheet format.
func ParseStylesheet(data []byte) (*Stylesheet, error) {
	var sheet Stylesheet
	if err := json.Unmarshal(data, &sheet); err != nil {
		return nil, fmt.Errorf("parse stylesheet: %w", err)
	}
	if len(sheet.PageMasters) == 0 {
		return nil, fmt.Errorf("parse stylesheet: no page masters defined")
	}
	if sheet.DefaultPageMaster == "" && len(sheet.PageMasters) == 1 {
		for name := range sheet.PageMasters {
			sheet.DefaultPageMaster = name
		}
	}
	return &sheet, nil
}
