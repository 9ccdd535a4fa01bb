package aspectgraph

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/jyotish/pkg/astro"
	"github.com/matzehuels/jyotish/pkg/house"
)

// Options configures diagram generation.
type Options struct {
	// FullOnly drops partial aspects.
	FullOnly bool

	// Detailed adds sign, degree and nakshatra to node labels.
	Detailed bool

	// Title is drawn above the diagram when set.
	Title string
}

var dignityFill = map[astro.Dignity]string{
	astro.Exalted:      "palegreen",
	astro.Moolatrikona: "lightgreen",
	astro.OwnSign:      "honeydew",
	astro.Friendly:     "white",
	astro.NeutralSign:  "white",
	astro.EnemySign:    "mistyrose",
	astro.Debilitated:  "lightcoral",
}

// ToDOT converts a chart frame and its aspect graph to Graphviz DOT.
// A nil graph is computed from v.
func ToDOT(v *astro.Variant, g *house.Graph, opts Options) string {
	if g == nil {
		g = house.Aspects(v)
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=18, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [arrowsize=0.7];\n")
	if opts.Title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n", opts.Title)
	}
	buf.WriteString("\n")

	for h := 1; h <= 12; h++ {
		grahas := v.InHouse(h)
		if len(grahas) == 0 {
			continue
		}
		fmt.Fprintf(&buf, "  subgraph cluster_h%d {\n", h)
		fmt.Fprintf(&buf, "    label=%q;\n    style=dashed;\n    color=grey;\n", houseLabel(h, v.Ascendant.Sign.Add(h-1)))
		for _, gr := range grahas {
			p := v.Of(gr)
			fmt.Fprintf(&buf, "    %q [%s];\n", gr.String(), strings.Join(nodeAttrs(p, opts.Detailed), ", "))
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		if opts.FullOnly && !e.IsFull() {
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.From.String(), e.To.String(), strings.Join(edgeAttrs(e), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func houseLabel(h int, s astro.Sign) string {
	return fmt.Sprintf("H%d %s", h, s)
}

func nodeAttrs(p astro.Position, detailed bool) []string {
	label := p.Graha.String()
	if p.Retrograde {
		label += " (R)"
	}
	if detailed {
		label += fmt.Sprintf("\n%s %s\n%s %d", p.Sign, astro.FormatDMS(p.Degree), p.Nakshatra, p.Pada)
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if fill, ok := dignityFill[p.Dignity]; ok {
		attrs = append(attrs, "fillcolor="+fill)
	}
	if p.Combust {
		attrs = append(attrs, "fontcolor=dimgrey")
	}
	return attrs
}

func edgeAttrs(e house.Aspect) []string {
	attrs := []string{
		fmt.Sprintf("label=\"%d\"", e.Offset),
		"penwidth=" + strconv.FormatFloat(1+2*e.Strength/house.Full, 'f', 2, 64),
	}
	if !e.IsFull() {
		attrs = append(attrs, "style=dashed", "color=grey50")
	}
	return attrs
}

// RenderSVG renders DOT source to SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := render(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders DOT source to PNG.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the diagram scales from a
// zero origin.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
