// Package template expands JSON document templates into structural trees.
// A template mirrors the document node kinds and may embed data-binding
// expressions in double braces; repeat and if directives expand nodes
// against the bound data. Expressions are evaluated by a scripting engine.
package template

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/SigmundGranaas/petty-sub005/ir"
	"github.com/SigmundGranaas/petty-sub005/scripting"
	"github.com/SigmundGranaas/petty-sub005/style"
)

// defaultLoopVar names the element variable of a repeat directive when the
// template does not set one.
const defaultLoopVar = "item"

// Parser expands templates against bound data.
type Parser struct {
	engine scripting.Engine
}

// NewParser returns a parser evaluating expressions on the given engine.
// A nil engine selects a fresh JavaScript engine.
func NewParser(engine scripting.Engine) *Parser {
	if engine == nil {
		engine = scripting.NewEngine()
	}
	return &Parser{engine: engine}
}

// Parse decodes the template and expands it against data. The data value
// is visible to expressions as "data"; repeat directives add their element
// and "index" variables for their subtree.
func (p *Parser) Parse(ctx context.Context, templateJSON []byte, data any) (*ir.Node, error) {
	var root tmplNode
	if err := json.Unmarshal(templateJSON, &root); err != nil {
		return nil, fmt.Errorf("template: decode: %w", err)
	}

	vars := map[string]any{"data": data}
	nodes, err := p.expand(ctx, &root, vars)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 1 && nodes[0].Kind == ir.Root {
		return nodes[0], nil
	}
	return &ir.Node{Kind: ir.Root, Children: nodes}, nil
}

// tmplNode is the JSON shape of one template node. Repeat and If are
// directives that apply to the node carrying them.
type tmplNode struct {
	Kind   string              `json:"kind"`
	ID     string              `json:"id,omitempty"`
	Styles []string            `json:"styles,omitempty"`
	Style  *style.ElementStyle `json:"style,omitempty"`

	Text   string `json:"text,omitempty"`
	Level  int    `json:"level,omitempty"`
	Src    string `json:"src,omitempty"`
	Master string `json:"master,omitempty"`
	Term   string `json:"term,omitempty"`

	Columns []style.Dimension `json:"columns,omitempty"`
	Header  []tmplRow         `json:"header,omitempty"`
	Body    []tmplRow         `json:"body,omitempty"`

	Children []tmplNode `json:"children,omitempty"`

	Repeat string `json:"repeat,omitempty"`
	As     string `json:"as,omitempty"`
	If     string `json:"if,omitempty"`
}

type tmplRow struct {
	Cells  []tmplCell `json:"cells"`
	Repeat string     `json:"repeat,omitempty"`
	As     string     `json:"as,omitempty"`
}

type tmplCell struct {
	Text     string     `json:"text,omitempty"`
	ColSpan  int        `json:"colspan,omitempty"`
	RowSpan  int        `json:"rowspan,omitempty"`
	Styles   []string   `json:"styles,omitempty"`
	Children []tmplNode `json:"children,omitempty"`
}

var kindsByName = map[string]ir.Kind{
	"root": ir.Root, "block": ir.Block, "paragraph": ir.Paragraph,
	"heading": ir.Heading, "image": ir.Image, "flex-container": ir.FlexContainer,
	"list": ir.List, "list-item": ir.ListItem, "table": ir.Table,
	"page-break": ir.PageBreak, "index-marker": ir.IndexMarker,
}

// expand turns one template node into zero or more document nodes: zero
// when an if directive rejects it, several when a repeat directive
// multiplies it.
func (p *Parser) expand(ctx context.Context, t *tmplNode, vars map[string]any) ([]*ir.Node, error) {
	if t.If != "" {
		ok, err := p.condition(ctx, t.If, vars)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
	}

	if t.Repeat != "" {
		return p.expandRepeat(ctx, t, vars)
	}

	node, err := p.instantiate(ctx, t, vars)
	if err != nil {
		return nil, err
	}
	return []*ir.Node{node}, nil
}

func (p *Parser) expandRepeat(ctx context.Context, t *tmplNode, vars map[string]any) ([]*ir.Node, error) {
	val, err := p.engine.Evaluate(ctx, t.Repeat, vars)
	if err != nil {
		return nil, fmt.Errorf("template: repeat %q: %w", t.Repeat, err)
	}
	items, err := asSlice(val)
	if err != nil {
		return nil, fmt.Errorf("template: repeat %q: %w", t.Repeat, err)
	}

	loopVar := t.As
	if loopVar == "" {
		loopVar = defaultLoopVar
	}

	var out []*ir.Node
	for i, item := range items {
		scope := make(map[string]any, len(vars)+2)
		for k, v := range vars {
			scope[k] = v
		}
		scope[loopVar] = item
		scope["index"] = i

		// The directive is consumed; the node body expands once per item.
		body := *t
		body.Repeat = ""
		body.If = ""
		nodes, err := p.expand(ctx, &body, scope)
		if err != nil {
			return nil, err
		}
		out = append(out, nodes...)
	}
	return out, nil
}

func (p *Parser) instantiate(ctx context.Context, t *tmplNode, vars map[string]any) (*ir.Node, error) {
	kind, ok := kindsByName[t.Kind]
	if !ok {
		return nil, fmt.Errorf("template: unknown node kind %q", t.Kind)
	}

	id, err := p.interpolate(ctx, t.ID, vars)
	if err != nil {
		return nil, err
	}
	node := &ir.Node{
		Kind: kind,
		Meta: ir.Meta{ID: id, StyleSets: t.Styles, StyleOverride: t.Style},
	}

	switch kind {
	case ir.Paragraph, ir.Heading:
		text, err := p.interpolate(ctx, t.Text, vars)
		if err != nil {
			return nil, err
		}
		node.Inlines = []*ir.Inline{ir.Text(text)}
		node.Level = t.Level
	case ir.Image:
		src, err := p.interpolate(ctx, t.Src, vars)
		if err != nil {
			return nil, err
		}
		node.Src = src
	case ir.PageBreak:
		node.MasterName = t.Master
	case ir.IndexMarker:
		term, err := p.interpolate(ctx, t.Term, vars)
		if err != nil {
			return nil, err
		}
		node.Term = term
	case ir.Table:
		if err := p.fillTable(ctx, node, t, vars); err != nil {
			return nil, err
		}
	}

	for i := range t.Children {
		children, err := p.expand(ctx, &t.Children[i], vars)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, children...)
	}
	return node, nil
}

func (p *Parser) fillTable(ctx context.Context, node *ir.Node, t *tmplNode, vars map[string]any) error {
	for i := range t.Columns {
		w := t.Columns[i]
		node.Columns = append(node.Columns, ir.ColumnDef{Width: &w})
	}
	var err error
	node.Header, err = p.buildRows(ctx, t.Header, vars)
	if err != nil {
		return err
	}
	node.Body, err = p.buildRows(ctx, t.Body, vars)
	return err
}

func (p *Parser) buildRows(ctx context.Context, rows []tmplRow, vars map[string]any) ([]*ir.Row, error) {
	out := make([]*ir.Row, 0, len(rows))
	for _, row := range rows {
		if row.Repeat != "" {
			expanded, err := p.repeatRow(ctx, row, vars)
			if err != nil {
				return nil, err
			}
			out = append(out, expanded...)
			continue
		}
		built, err := p.buildRow(ctx, row, vars)
		if err != nil {
			return nil, err
		}
		out = append(out, built)
	}
	return out, nil
}

// repeatRow emits one row per element of the repeat expression's result.
func (p *Parser) repeatRow(ctx context.Context, row tmplRow, vars map[string]any) ([]*ir.Row, error) {
	val, err := p.engine.Evaluate(ctx, row.Repeat, vars)
	if err != nil {
		return nil, fmt.Errorf("template: repeat %q: %w", row.Repeat, err)
	}
	items, err := asSlice(val)
	if err != nil {
		return nil, fmt.Errorf("template: repeat %q: %w", row.Repeat, err)
	}
	loopVar := row.As
	if loopVar == "" {
		loopVar = defaultLoopVar
	}
	out := make([]*ir.Row, 0, len(items))
	for i, item := range items {
		scope := make(map[string]any, len(vars)+2)
		for k, v := range vars {
			scope[k] = v
		}
		scope[loopVar] = item
		scope["index"] = i
		built, err := p.buildRow(ctx, row, scope)
		if err != nil {
			return nil, err
		}
		out = append(out, built)
	}
	return out, nil
}

func (p *Parser) buildRow(ctx context.Context, row tmplRow, vars map[string]any) (*ir.Row, error) {
	built := &ir.Row{}
	for _, c := range row.Cells {
		cell := &ir.Cell{
			Meta:    ir.Meta{StyleSets: c.Styles},
			ColSpan: c.ColSpan,
			RowSpan: c.RowSpan,
		}
		if len(c.Children) > 0 {
			for i := range c.Children {
				nodes, err := p.expand(ctx, &c.Children[i], vars)
				if err != nil {
					return nil, err
				}
				cell.Children = append(cell.Children, nodes...)
			}
		} else {
			text, err := p.interpolate(ctx, c.Text, vars)
			if err != nil {
				return nil, err
			}
			cell.Children = []*ir.Node{{
				Kind:    ir.Paragraph,
				Inlines: []*ir.Inline{ir.Text(text)},
			}}
		}
		built.Cells = append(built.Cells, cell)
	}
	return built, nil
}

// interpolate replaces every {{expr}} occurrence with the expression's
// stringified result.
func (p *Parser) interpolate(ctx context.Context, s string, vars map[string]any) (string, error) {
	if !strings.Contains(s, "{{") {
		return s, nil
	}
	var b strings.Builder
	rest := s
	for {
		start := strings.Index(rest, "{{")
		if start < 0 {
			b.WriteString(rest)
			return b.String(), nil
		}
		end := strings.Index(rest[start:], "}}")
		if end < 0 {
			return "", fmt.Errorf("template: unterminated expression in %q", s)
		}
		b.WriteString(rest[:start])
		expr := strings.TrimSpace(rest[start+2 : start+end])
		val, err := p.engine.Evaluate(ctx, expr, vars)
		if err != nil {
			return "", fmt.Errorf("template: expression %q: %w", expr, err)
		}
		if val != nil {
			fmt.Fprintf(&b, "%v", val)
		}
		rest = rest[start+end+2:]
	}
}

func (p *Parser) condition(ctx context.Context, expr string, vars map[string]any) (bool, error) {
	val, err := p.engine.Evaluate(ctx, expr, vars)
	if err != nil {
		return false, fmt.Errorf("template: condition %q: %w", expr, err)
	}
	return truthy(val), nil
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case int64:
		return t != 0
	case float64:
		return t != 0
	default:
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Slice, reflect.Map, reflect.Array:
			return rv.Len() > 0
		}
		return true
	}
}

// asSlice normalizes the exported result of an array expression.
func asSlice(v any) ([]any, error) {
	if items, ok := v.([]any); ok {
		return items, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out, nil
	}
	return nil, fmt.Errorf("expression result %T is not a list", v)
}
