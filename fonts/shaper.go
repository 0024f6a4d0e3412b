package fonts

import (
	"fmt"
	"math"
	"sync"
	"unicode"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
)

// ShapedGlyph is one positioned glyph. Cluster is the index of the first
// rune the glyph covers in the shaped text, RuneCount how many runes the
// cluster spans. XAdvance is in points at the requested size.
type ShapedGlyph struct {
	ID        int
	Cluster   int
	RuneCount int
	XAdvance  float64
}

// ShapedRun is the result of shaping one span of same-styled text.
// Ascent and Descent are positive distances from the baseline in points.
type ShapedRun struct {
	Glyphs  []ShapedGlyph
	Width   float64
	Ascent  float64
	Descent float64
}

// Shaper turns span text into positioned glyphs. Implementations must be
// safe for concurrent use.
type Shaper interface {
	ShapeSpan(text string, font *Font, size float64) (ShapedRun, error)
}

// GoTextShaper shapes text with HarfBuzz via go-text/typesetting. The
// underlying shapers hold reusable buffers and are not goroutine-safe, so
// they are pooled per call.
type GoTextShaper struct {
	pool sync.Pool
}

func NewShaper() *GoTextShaper {
	return &GoTextShaper{
		pool: sync.Pool{New: func() any { return &shaping.HarfbuzzShaper{} }},
	}
}

func (s *GoTextShaper) ShapeSpan(text string, font *Font, size float64) (ShapedRun, error) {
	if font == nil || font.face == nil {
		return ShapedRun{}, fmt.Errorf("shape %q: font has no parsed face", text)
	}
	runes := []rune(text)
	if len(runes) == 0 {
		return ShapedRun{}, nil
	}

	script := detectScript(runes)
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: scriptDirection(script),
		Face:      font.face,
		Size:      fixed.Int26_6(size * 64),
		Script:    script,
		Language:  language.DefaultLanguage(),
	}

	hb := s.pool.Get().(*shaping.HarfbuzzShaper)
	output := hb.Shape(input)
	s.pool.Put(hb)

	run := ShapedRun{
		Glyphs:  make([]ShapedGlyph, 0, len(output.Glyphs)),
		Ascent:  fromFixed(output.LineBounds.Ascent),
		Descent: math.Abs(fromFixed(output.LineBounds.Descent)),
	}
	for _, g := range output.Glyphs {
		adv := fromFixed(g.XAdvance)
		run.Glyphs = append(run.Glyphs, ShapedGlyph{
			ID:        int(g.GlyphID),
			Cluster:   g.ClusterIndex,
			RuneCount: g.RuneCount,
			XAdvance:  adv,
		})
		run.Width += adv
	}
	return run, nil
}

func fromFixed(v fixed.Int26_6) float64 { return float64(v) / 64.0 }

func scriptDirection(script language.Script) di.Direction {
	switch script {
	case language.Arabic, language.Hebrew, language.Syriac, language.Thaana, language.Nko:
		return di.DirectionRTL
	default:
		return di.DirectionLTR
	}
}

// detectScript picks the dominant script of the runes so HarfBuzz applies
// the right shaping rules. Mixed-script spans follow the majority.
func detectScript(runes []rune) language.Script {
	counts := make(map[language.Script]int)
	maxCount := 0
	bestScript := language.Latin

	for _, r := range runes {
		script := scriptFromRune(r)
		if script == language.Unknown {
			continue
		}
		counts[script]++
		if counts[script] > maxCount {
			maxCount = counts[script]
			bestScript = script
		}
	}
	return bestScript
}

func scriptFromRune(r rune) language.Script {
	switch {
	case unicode.Is(unicode.Arabic, r):
		return language.Arabic
	case unicode.Is(unicode.Hebrew, r):
		return language.Hebrew
	case unicode.Is(unicode.Latin, r):
		return language.Latin
	case unicode.Is(unicode.Cyrillic, r):
		return language.Cyrillic
	case unicode.Is(unicode.Greek, r):
		return language.Greek
	case unicode.Is(unicode.Thai, r):
		return language.Thai
	case unicode.Is(unicode.Devanagari, r):
		return language.Devanagari
	case unicode.Is(unicode.Bengali, r):
		return language.Bengali
	case unicode.Is(unicode.Tamil, r):
		return language.Tamil
	case unicode.Is(unicode.Telugu, r):
		return language.Telugu
	case unicode.Is(unicode.Kannada, r):
		return language.Kannada
	case unicode.Is(unicode.Malayalam, r):
		return language.Malayalam
	case unicode.Is(unicode.Sinhala, r):
		return language.Sinhala
	case unicode.Is(unicode.Lao, r):
		return language.Lao
	case unicode.Is(unicode.Tibetan, r):
		return language.Tibetan
	case unicode.Is(unicode.Myanmar, r):
		return language.Myanmar
	case unicode.Is(unicode.Khmer, r):
		return language.Khmer
	case unicode.Is(unicode.Han, r):
		return language.Han
	case unicode.Is(unicode.Hiragana, r):
		return language.Hiragana
	case unicode.Is(unicode.Katakana, r):
		return language.Katakana
	case unicode.Is(unicode.Hangul, r):
		return language.Hangul
	}
	return language.Unknown
}
