// ABOUTME: Lint rules for container graphs: structural integrity and texturing conventions.
// ABOUTME: Provides a single Lint(c) function returning diagnostics in deterministic order.
package validator

import (
	"fmt"

	"github.com/MrLixm/mari-tools-lxm/graph"
)

// validDepths is the set of channel bit depths the host can bake.
var validDepths = map[int]bool{
	8:  true,
	16: true,
	32: true,
}

// Lint runs all lint rules on the container and returns any diagnostics found.
func Lint(c *graph.Container) []graph.Diagnostic {
	var diags []graph.Diagnostic

	diags = append(diags, checkDeadEnds(c)...)
	diags = append(diags, checkChannelDepth(c)...)
	diags = append(diags, checkChannelSize(c)...)
	diags = append(diags, checkExposedLinks(c)...)
	diags = append(diags, checkExposedUnlinked(c)...)

	return diags
}

// checkDeadEnds flags non-channel nodes whose output feeds nothing.
// Channels are the graph's sinks; anything else dangling is usually a
// leftover from an edit.
func checkDeadEnds(c *graph.Container) []graph.Diagnostic {
	var diags []graph.Diagnostic
	for _, n := range c.Nodes() {
		if n.TypeID() == "channel" {
			continue
		}
		edges, err := c.Edges(n)
		if err != nil {
			continue
		}
		hasOutgoing := false
		for _, e := range edges {
			if e.From.Node == n.Name() {
				hasOutgoing = true
				break
			}
		}
		if !hasOutgoing {
			diags = append(diags, graph.Diagnostic{
				Severity: "warning",
				Message:  fmt.Sprintf("node %q feeds nothing (dead end)", n.Name()),
				Node:     n.Name(),
				Rule:     "dead_end",
			})
		}
	}
	return diags
}

// checkChannelDepth validates channel bit depths against the bakeable set.
func checkChannelDepth(c *graph.Container) []graph.Diagnostic {
	var diags []graph.Diagnostic
	for _, n := range c.Nodes() {
		if n.TypeID() != "channel" {
			continue
		}
		v, err := c.GetAttribute(n, "depth")
		if err != nil {
			continue
		}
		if !validDepths[v.AsInt()] {
			diags = append(diags, graph.Diagnostic{
				Severity: "warning",
				Message:  fmt.Sprintf("channel %q has unsupported bit depth %d", n.Name(), v.AsInt()),
				Node:     n.Name(),
				Rule:     "channel_depth",
			})
		}
	}
	return diags
}

// checkChannelSize validates channel resolutions are positive powers of two.
func checkChannelSize(c *graph.Container) []graph.Diagnostic {
	var diags []graph.Diagnostic
	for _, n := range c.Nodes() {
		if n.TypeID() != "channel" {
			continue
		}
		v, err := c.GetAttribute(n, "size")
		if err != nil {
			continue
		}
		size := v.AsInt()
		if size <= 0 || size&(size-1) != 0 {
			diags = append(diags, graph.Diagnostic{
				Severity: "warning",
				Message:  fmt.Sprintf("channel %q has non-power-of-two resolution %d", n.Name(), size),
				Node:     n.Name(),
				Rule:     "channel_size",
			})
		}
	}
	return diags
}

// checkExposedLinks verifies every exposed-attribute link targets a live
// child with an attribute of matching type.
func checkExposedLinks(c *graph.Container) []graph.Diagnostic {
	var diags []graph.Diagnostic
	for _, exp := range c.ExposedAttributes() {
		for _, link := range exp.Links {
			child := c.FindNode(link.Node)
			if child == nil {
				diags = append(diags, graph.Diagnostic{
					Severity: "error",
					Message:  fmt.Sprintf("exposed %q links to missing node %q", exp.Name, link.Node),
					Node:     link.Node,
					Rule:     "exposed_link_target",
				})
				continue
			}
			spec, ok := child.Type().Attrs[link.Attr]
			if !ok {
				diags = append(diags, graph.Diagnostic{
					Severity: "error",
					Message:  fmt.Sprintf("exposed %q links to missing attribute %s.%s", exp.Name, link.Node, link.Attr),
					Node:     link.Node,
					Rule:     "exposed_link_target",
				})
				continue
			}
			if spec.Type != exp.Type {
				diags = append(diags, graph.Diagnostic{
					Severity: "error",
					Message: fmt.Sprintf("exposed %q is %s but %s.%s is %s",
						exp.Name, exp.Type, link.Node, link.Attr, spec.Type),
					Node: link.Node,
					Rule: "exposed_link_type",
				})
			}
		}
	}
	return diags
}

// checkExposedUnlinked flags exposed attributes that control nothing.
func checkExposedUnlinked(c *graph.Container) []graph.Diagnostic {
	var diags []graph.Diagnostic
	for _, exp := range c.ExposedAttributes() {
		if len(exp.Links) == 0 {
			diags = append(diags, graph.Diagnostic{
				Severity: "warning",
				Message:  fmt.Sprintf("exposed attribute %q has no links", exp.Name),
				Rule:     "exposed_unlinked",
			})
		}
	}
	return diags
}
