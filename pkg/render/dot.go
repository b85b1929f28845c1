// Package render exports graphs as Graphviz DOT and raster images.
//
// Node positions are pinned, so the drawing reproduces the map geometry
// instead of letting a layout engine rearrange it. A computed route can be
// overlaid on top of the map with highlighted nodes and edges.
package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/wayfinder/wayfinder/pkg/graph"
)

// Options configures map rendering.
type Options struct {
	// Path is an optional route to highlight, as returned by the
	// pathfinder. Nodes and edges along it are drawn emphasized.
	Path []int

	// Weights includes edge weights as labels.
	Weights bool
}

// ToDOT converts a graph to Graphviz DOT format. Inactive nodes and edges
// are skipped. Positions are emitted as pinned pos attributes, so the
// output should be laid out with neato ([RenderSVG] and [RenderPNG] do
// this automatically).
func ToDOT(g *graph.Graph, opts Options) string {
	onPath := make(map[int]bool, len(opts.Path))
	pathEdge := make(map[[2]int]bool, len(opts.Path))
	for i, id := range opts.Path {
		onPath[id] = true
		if i > 0 {
			pathEdge[[2]int{opts.Path[i-1], id}] = true
		}
	}

	var buf bytes.Buffer
	buf.WriteString("graph city {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=10];\n")
	buf.WriteString("  edge [color=grey50, fontsize=8];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		if !n.Active {
			continue
		}
		attrs := fmt.Sprintf("label=%q, pos=\"%g,%g!\"", n.Name, n.Pos.X()/72, -n.Pos.Y()/72)
		if onPath[n.ID] {
			attrs += ", fillcolor=gold, penwidth=2"
		}
		fmt.Fprintf(&buf, "  n%d [%s];\n", n.ID, attrs)
	}

	buf.WriteString("\n")
	seen := make(map[[2]int]bool)
	for _, n := range g.Nodes() {
		for _, e := range g.OutEdges(n.ID) {
			// Draw each bidirectional pair once.
			key := [2]int{e.From, e.To}
			if e.To < e.From {
				key = [2]int{e.To, e.From}
			}
			if seen[key] || !g.Active(e.To) {
				continue
			}
			seen[key] = true

			var attrs []byte
			if pathEdge[[2]int{e.From, e.To}] || pathEdge[[2]int{e.To, e.From}] {
				attrs = append(attrs, `color=red, penwidth=2`...)
			}
			if opts.Weights {
				if len(attrs) > 0 {
					attrs = append(attrs, ", "...)
				}
				attrs = append(attrs, fmt.Sprintf("label=\"%.1f\"", e.Weight)...)
			}
			if len(attrs) > 0 {
				fmt.Fprintf(&buf, "  n%d -- n%d [%s];\n", e.From, e.To, attrs)
			} else {
				fmt.Fprintf(&buf, "  n%d -- n%d;\n", e.From, e.To)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT map to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return renderFormat(ctx, dot, graphviz.SVG)
}

// RenderPNG renders a DOT map to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderFormat(ctx, dot, graphviz.PNG)
}

func renderFormat(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

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
