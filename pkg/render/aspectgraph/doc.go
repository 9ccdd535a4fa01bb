// Package aspectgraph renders the graha aspect graph of a chart frame as a
// node-link diagram.
//
// # Overview
//
// Each graha is a node, grouped into a cluster per house and filled by
// dignity. Each aspect is a directed edge; full aspects are solid and
// partial aspects are dashed with a width proportional to strength.
//
// # Usage
//
//	dot := aspectgraph.ToDOT(bundle.Natal, bundle.Aspects, aspectgraph.Options{})
//	svg, err := aspectgraph.RenderSVG(ctx, dot)
//
// The DOT source can also be saved and processed with external Graphviz
// tools.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG and
// PNG rendering.
package aspectgraph
