// Package fonts provides the font registry and the text shaping service
// consumed by the layout engine. Fonts are registered from raw TrueType or
// OpenType data, deduplicated by content fingerprint, and resolved by
// (family, weight, style) to a shapeable face.
package fonts

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	gofont "github.com/go-text/typesetting/font"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/image/font/sfnt"

	"github.com/SigmundGranaas/petty-sub005/style"
)

// Font is a single registered face. The metadata fields are extracted from
// the font's name table at registration; Data holds the raw bytes so a
// downstream renderer can embed the font.
type Font struct {
	Family      string
	PostScript  string
	Weight      style.FontWeight
	Style       style.FontStyle
	Fingerprint [32]byte
	Data        []byte

	face *gofont.Face
}

// Face returns the parsed shaping face, or nil for fonts constructed
// without registration (test doubles).
func (f *Font) Face() *gofont.Face { return f.face }

// Resolver resolves a font request to a registered face. *Library is the
// standard implementation.
type Resolver interface {
	Resolve(family string, weight style.FontWeight, fs style.FontStyle) (*Font, error)
}

// Library is a thread-safe font registry. Registration is write-locked;
// resolution takes the read lock only, so concurrent layout passes do not
// block each other.
type Library struct {
	mu    sync.RWMutex
	fonts []*Font
	byID  map[[32]byte]*Font
}

func NewLibrary() *Library {
	return &Library{byID: make(map[[32]byte]*Font)}
}

// Register parses raw TrueType/OpenType data and adds it to the library.
// Registering the same bytes twice returns the existing entry.
func (l *Library) Register(data []byte) (*Font, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("font data is empty")
	}
	id := blake2b.Sum256(data)

	l.mu.Lock()
	defer l.mu.Unlock()
	if f, ok := l.byID[id]; ok {
		return f, nil
	}

	face, err := gofont.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	meta, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font tables: %w", err)
	}

	buf := &sfnt.Buffer{}
	family := nameEntry(meta, buf, sfnt.NameIDTypographicFamily, sfnt.NameIDFamily)
	sub := nameEntry(meta, buf, sfnt.NameIDTypographicSubfamily, sfnt.NameIDSubfamily)
	ps := nameEntry(meta, buf, sfnt.NameIDPostScript)
	if family == "" {
		family = ps
	}
	if family == "" {
		return nil, fmt.Errorf("font has no family name")
	}

	f := &Font{
		Family:      family,
		PostScript:  ps,
		Weight:      weightFromName(sub),
		Style:       styleFromName(sub),
		Fingerprint: id,
		Data:        data,
		face:        face,
	}
	l.fonts = append(l.fonts, f)
	l.byID[id] = f
	return f, nil
}

// Len reports the number of registered fonts.
func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.fonts)
}

// Resolve returns the registered face closest to the request. Matching is
// by family name (case-insensitive, PostScript name accepted), then by
// weight distance and style agreement. An unknown family is an error.
func (l *Library) Resolve(family string, weight style.FontWeight, fs style.FontStyle) (*Font, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.fonts) == 0 {
		return nil, fmt.Errorf("font library is empty")
	}

	var best *Font
	bestScore := -1
	for _, f := range l.fonts {
		if !strings.EqualFold(f.Family, family) && !strings.EqualFold(f.PostScript, family) {
			continue
		}
		score := styleDistance(f.Style, fs)*1000 + weightDistance(f.Weight, weight)
		if best == nil || score < bestScore {
			best = f
			bestScore = score
		}
	}
	if best == nil {
		return nil, fmt.Errorf("font family %q not found", family)
	}
	return best, nil
}

func nameEntry(f *sfnt.Font, buf *sfnt.Buffer, ids ...sfnt.NameID) string {
	for _, id := range ids {
		if s, err := f.Name(buf, id); err == nil && s != "" {
			return s
		}
	}
	return ""
}

func weightDistance(a, b style.FontWeight) int {
	d := int(a) - int(b)
	if d < 0 {
		d = -d
	}
	return d
}

func styleDistance(a, b style.FontStyle) int {
	if a == b {
		return 0
	}
	// Italic and oblique substitute for each other before upright does.
	if a != style.FontStyleNormal && b != style.FontStyleNormal {
		return 1
	}
	return 2
}

// weightFromName maps a subfamily string like "Bold" or "ExtraLight Italic"
// to the nearest numeric weight. Longer tokens are checked first so that
// "semibold" is not read as "bold".
func weightFromName(name string) style.FontWeight {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "thin"), strings.Contains(n, "hairline"):
		return style.WeightThin
	case strings.Contains(n, "extralight"), strings.Contains(n, "ultralight"):
		return style.WeightExtraLight
	case strings.Contains(n, "semibold"), strings.Contains(n, "demibold"), strings.Contains(n, "demi"):
		return style.WeightSemibold
	case strings.Contains(n, "extrabold"), strings.Contains(n, "ultrabold"):
		return style.WeightExtraBold
	case strings.Contains(n, "light"):
		return style.WeightLight
	case strings.Contains(n, "medium"):
		return style.WeightMedium
	case strings.Contains(n, "bold"):
		return style.WeightBold
	case strings.Contains(n, "black"), strings.Contains(n, "heavy"):
		return style.WeightBlack
	default:
		return style.WeightRegular
	}
}

func styleFromName(name string) style.FontStyle {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "italic"):
		return style.FontStyleItalic
	case strings.Contains(n, "oblique"):
		return style.FontStyleOblique
	default:
		return style.FontStyleNormal
	}
}
