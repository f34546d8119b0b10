// ABOUTME: Tests for graph lint rules: dead ends, channel settings,
// ABOUTME: and exposed-attribute link integrity.
package validator

import (
	"testing"

	"github.com/MrLixm/mari-tools-lxm/graph"
)

func countRule(diags []graph.Diagnostic, rule string) int {
	n := 0
	for _, d := range diags {
		if d.Rule == rule {
			n++
		}
	}
	return n
}

func TestLintCleanGraph(t *testing.T) {
	c := graph.NewContainer("main", graph.Builtin())
	if _, err := c.CreateNode("paint", graph.Position{}, "P"); err != nil {
		t.Fatalf("CreateNode failed: %v", err)
	}
	if _, err := c.CreateNode("channel", graph.Position{}, "Ch"); err != nil {
		t.Fatalf("CreateNode failed: %v", err)
	}
	if err := c.Connect(graph.PortRef{Node: "P", Port: "Output"}, graph.PortRef{Node: "Ch", Port: "Input"}); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	if diags := Lint(c); len(diags) != 0 {
		t.Errorf("clean graph produced diagnostics: %+v", diags)
	}
}

func TestLintDeadEnd(t *testing.T) {
	c := graph.NewContainer("main", graph.Builtin())
	if _, err := c.CreateNode("paint", graph.Position{}, "Dangling"); err != nil {
		t.Fatalf("CreateNode failed: %v", err)
	}
	// Channels are sinks and never dead ends.
	if _, err := c.CreateNode("channel", graph.Position{}, "Ch"); err != nil {
		t.Fatalf("CreateNode failed: %v", err)
	}

	diags := Lint(c)
	if countRule(diags, "dead_end") != 1 {
		t.Errorf("dead_end diagnostics = %d, want 1: %+v", countRule(diags, "dead_end"), diags)
	}
	for _, d := range diags {
		if d.Rule == "dead_end" && d.Node != "Dangling" {
			t.Errorf("dead_end flagged %q, want Dangling", d.Node)
		}
	}
}

func TestLintChannelDepth(t *testing.T) {
	c := graph.NewContainer("main", graph.Builtin())
	ch, err := c.CreateNode("channel", graph.Position{}, "Ch")
	if err != nil {
		t.Fatalf("CreateNode failed: %v", err)
	}
	if err := c.SetAttribute(ch, "depth", graph.Int(12)); err != nil {
		t.Fatalf("SetAttribute failed: %v", err)
	}

	diags := Lint(c)
	if countRule(diags, "channel_depth") != 1 {
		t.Errorf("channel_depth diagnostics = %d, want 1: %+v", countRule(diags, "channel_depth"), diags)
	}

	for _, depth := range []int{8, 16, 32} {
		if err := c.SetAttribute(ch, "depth", graph.Int(depth)); err != nil {
			t.Fatalf("SetAttribute failed: %v", err)
		}
		if n := countRule(Lint(c), "channel_depth"); n != 0 {
			t.Errorf("depth %d flagged, want clean", depth)
		}
	}
}

func TestLintChannelSize(t *testing.T) {
	c := graph.NewContainer("main", graph.Builtin())
	ch, err := c.CreateNode("channel", graph.Position{}, "Ch")
	if err != nil {
		t.Fatalf("CreateNode failed: %v", err)
	}

	for size, wantFlag := range map[int]bool{4096: false, 1000: true, 8192: false, 1: false} {
		if err := c.SetAttribute(ch, "size", graph.Int(size)); err != nil {
			t.Fatalf("SetAttribute failed: %v", err)
		}
		got := countRule(Lint(c), "channel_size") > 0
		if got != wantFlag {
			t.Errorf("size %d flagged=%v, want %v", size, got, wantFlag)
		}
	}
}

func TestLintExposedLinks(t *testing.T) {
	c := graph.NewContainer("main", graph.Builtin())
	p, err := c.CreateNode("paint", graph.Position{}, "P")
	if err != nil {
		t.Fatalf("CreateNode failed: %v", err)
	}
	_, err = c.CreateNode("channel", graph.Position{}, "Ch")
	if err != nil {
		t.Fatalf("CreateNode failed: %v", err)
	}
	if err := c.Connect(graph.PortRef{Node: "P", Port: "Output"}, graph.PortRef{Node: "Ch", Port: "Input"}); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	exp, err := c.CreateExposedAttribute("opacity", graph.FloatValue)
	if err != nil {
		t.Fatalf("CreateExposedAttribute failed: %v", err)
	}
	if err := c.LinkAttribute(exp, p, "opacity"); err != nil {
		t.Fatalf("LinkAttribute failed: %v", err)
	}

	if diags := Lint(c); len(diags) != 0 {
		t.Fatalf("linked graph produced diagnostics: %+v", diags)
	}

	// Injecting a stale link simulates a document edited out from under the
	// container; the linter must flag it as an error.
	exp.Links = append(exp.Links, graph.AttrLink{Node: "Ghost", Attr: "opacity"})
	diags := Lint(c)
	if countRule(diags, "exposed_link_target") != 1 {
		t.Errorf("exposed_link_target diagnostics = %d, want 1: %+v", countRule(diags, "exposed_link_target"), diags)
	}

	exp.Links = append(exp.Links[:1], graph.AttrLink{Node: "P", Attr: "size"})
	diags = Lint(c)
	if countRule(diags, "exposed_link_type") != 1 {
		t.Errorf("exposed_link_type diagnostics = %d, want 1: %+v", countRule(diags, "exposed_link_type"), diags)
	}
}

func TestLintExposedUnlinked(t *testing.T) {
	c := graph.NewContainer("main", graph.Builtin())
	if _, err := c.CreateExposedAttribute("floating", graph.FloatValue); err != nil {
		t.Fatalf("CreateExposedAttribute failed: %v", err)
	}

	diags := Lint(c)
	if countRule(diags, "exposed_unlinked") != 1 {
		t.Errorf("exposed_unlinked diagnostics = %d, want 1: %+v", countRule(diags, "exposed_unlinked"), diags)
	}
}
