// Command paginate lays out a document and reports the resulting pages.
// The input format is picked from the file extension: .json is treated as
// a data-bound template, .md/.markdown as Markdown and .html/.htm as HTML.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/SigmundGranaas/petty-sub005/html"
	"github.com/SigmundGranaas/petty-sub005/ir"
	"github.com/SigmundGranaas/petty-sub005/layout"
	"github.com/SigmundGranaas/petty-sub005/markdown"
	"github.com/SigmundGranaas/petty-sub005/observability"
	"github.com/SigmundGranaas/petty-sub005/resources"
	"github.com/SigmundGranaas/petty-sub005/style"
	"github.com/SigmundGranaas/petty-sub005/template"
)

type stringList []string

func (l *stringList) String() string { return strings.Join(*l, ",") }
func (l *stringList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

type options struct {
	inputPath    string
	stylePath    string
	dataPath     string
	resourceDir  string
	fontPaths    stringList
	outputFormat string
	verbose      bool
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "paginate: %v\n", err)
		os.Exit(2)
	}
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "paginate: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() (options, error) {
	var opts options
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: go run ./cmd/paginate [flags] <document>\n")
		flag.PrintDefaults()
	}
	stylePath := flag.String("style", "", "Stylesheet JSON (defaults to A4 with one-inch margins)")
	dataPath := flag.String("data", "", "JSON data bound to template expressions")
	resourceDir := flag.String("resources", "", "Directory serving image resources")
	output := flag.String("out", "summary", "Output format: summary or json")
	verbose := flag.Bool("v", false, "Log layout diagnostics to stderr")
	flag.Var(&opts.fontPaths, "font", "TrueType/OpenType font file to register (repeatable)")
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		return options{}, fmt.Errorf("missing document path")
	}
	opts.inputPath = flag.Arg(0)
	opts.stylePath = *stylePath
	opts.dataPath = *dataPath
	opts.resourceDir = *resourceDir
	opts.outputFormat = *output
	opts.verbose = *verbose

	if opts.outputFormat != "summary" && opts.outputFormat != "json" {
		return options{}, fmt.Errorf("unknown output format %q", opts.outputFormat)
	}
	return opts, nil
}

func run(opts options) error {
	doc, err := loadDocument(opts)
	if err != nil {
		return err
	}

	sheet, err := loadStylesheet(opts.stylePath)
	if err != nil {
		return err
	}

	engineOpts := []layout.Option{}
	if opts.verbose {
		engineOpts = append(engineOpts, layout.WithLogger(observability.NewWriterLogger(os.Stderr)))
	}
	if opts.resourceDir != "" {
		engineOpts = append(engineOpts, layout.WithResources(resources.NewDir(opts.resourceDir)))
	}
	eng := layout.NewEngine(engineOpts...)

	for _, path := range opts.fontPaths {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read font: %w", err)
		}
		if _, err := eng.RegisterFont(data); err != nil {
			return fmt.Errorf("register font %s: %w", filepath.Base(path), err)
		}
	}

	seq, err := eng.Layout(context.Background(), sheet, doc)
	if err != nil {
		return err
	}

	switch opts.outputFormat {
	case "json":
		return writeJSON(os.Stdout, seq)
	default:
		writeSummary(os.Stdout, seq)
		return nil
	}
}

func loadDocument(opts options) (*ir.Node, error) {
	source, err := os.ReadFile(opts.inputPath)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(opts.inputPath)) {
	case ".md", ".markdown":
		return markdown.NewConverter().Convert(source)
	case ".html", ".htm":
		return html.Convert(source)
	case ".json":
		var data any
		if opts.dataPath != "" {
			raw, err := os.ReadFile(opts.dataPath)
			if err != nil {
				return nil, fmt.Errorf("read data: %w", err)
			}
			if err := json.Unmarshal(raw, &data); err != nil {
				return nil, fmt.Errorf("decode data: %w", err)
			}
		}
		return template.NewParser(nil).Parse(context.Background(), source, data)
	default:
		return nil, fmt.Errorf("unsupported document type %q", filepath.Ext(opts.inputPath))
	}
}

func loadStylesheet(path string) (*style.Stylesheet, error) {
	if path == "" {
		return style.DefaultStylesheet(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stylesheet: %w", err)
	}
	return style.ParseStylesheet(data)
}

func writeSummary(w *os.File, seq *layout.LaidOutSequence) {
	for _, page := range seq.Pages {
		fmt.Fprintf(w, "page %d (%s, %.0fx%.0f): %d elements\n",
			page.Index+1, page.Master, page.Size.W, page.Size.H, len(page.Elements))
	}
	if len(seq.TOC) > 0 {
		fmt.Fprintln(w, "contents:")
		for _, entry := range seq.TOC {
			anchor := seq.Anchors[entry.TargetID]
			fmt.Fprintf(w, "%s%s ... %d\n",
				strings.Repeat("  ", entry.Level), entry.Text, anchor.Page+1)
		}
	}
	if len(seq.Index) > 0 {
		fmt.Fprintln(w, "index:")
		for term, positions := range seq.Index {
			pages := make([]string, len(positions))
			for i, pos := range positions {
				pages[i] = fmt.Sprintf("%d", pos.Page+1)
			}
			fmt.Fprintf(w, "  %s: %s\n", term, strings.Join(pages, ", "))
		}
	}
	if len(seq.Resources) > 0 {
		fmt.Fprintf(w, "resources: %d\n", len(seq.Resources))
	}
}

// jsonElement flattens the element union for serialization.
type jsonElement struct {
	Type    string  `json:"type"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	W       float64 `json:"w"`
	H       float64 `json:"h"`
	Content string  `json:"content,omitempty"`
	Src     string  `json:"src,omitempty"`
	Href    string  `json:"href,omitempty"`
	Target  string  `json:"target,omitempty"`
}

type jsonPage struct {
	Index    int           `json:"index"`
	Master   string        `json:"master"`
	Width    float64       `json:"width"`
	Height   float64       `json:"height"`
	Elements []jsonElement `json:"elements"`
}

type jsonReport struct {
	Pages   []jsonPage                   `json:"pages"`
	Anchors map[string]layout.Position   `json:"anchors,omitempty"`
	TOC     []layout.TOCEntry            `json:"toc,omitempty"`
	Index   map[string][]layout.Position `json:"index,omitempty"`
}

func writeJSON(w *os.File, seq *layout.LaidOutSequence) error {
	report := jsonReport{
		Anchors: seq.Anchors,
		TOC:     seq.TOC,
		Index:   seq.Index,
	}
	for _, page := range seq.Pages {
		jp := jsonPage{
			Index:  page.Index,
			Master: page.Master,
			Width:  page.Size.W,
			Height: page.Size.H,
		}
		for _, el := range page.Elements {
			je := jsonElement{X: el.X, Y: el.Y, W: el.W, H: el.H}
			switch e := el.Element.(type) {
			case *layout.TextElement:
				je.Type = "text"
				je.Content = e.Content
				je.Href = e.Href
			case *layout.RectElement:
				je.Type = "rect"
			case *layout.ImageElement:
				je.Type = "image"
				je.Src = e.Src
			case *layout.PageNumberElement:
				je.Type = "page-number"
				je.Target = e.TargetID
				je.Href = e.Href
			}
			jp.Elements = append(jp.Elements, je)
		}
		report.Pages = append(report.Pages, jp)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
