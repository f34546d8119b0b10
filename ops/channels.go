// ABOUTME: Bulk channel creation: creates one configured channel node per spec entry.
// ABOUTME: Per-item failures are warnings; the remaining channels are still created.
package ops

import (
	"fmt"

	"github.com/MrLixm/mari-tools-lxm/graph"
)

// ChannelSpec configures one channel node to create. A zero Size keeps the
// channel type's default resolution.
type ChannelSpec struct {
	Name   string
	Depth  int
	Scalar bool
	Size   int
}

// channelSpacing is the horizontal canvas distance between created channels.
const channelSpacing = 140.0

// CreateChannels creates one channel node per spec, laid out left to right.
// A spec that cannot be created or configured is skipped with a warning.
func CreateChannels(g *graph.Container, specs []ChannelSpec) ([]*graph.Node, []Warning, error) {
	if len(specs) == 0 {
		return nil, nil, fmt.Errorf("create channels: %w", graph.ErrEmptySelection)
	}

	var nodes []*graph.Node
	var warnings []Warning
	for i, spec := range specs {
		pos := graph.Position{X: float64(i) * channelSpacing}
		node, err := g.CreateNode("channel", pos, spec.Name)
		if err != nil {
			warnings = append(warnings, Warning{Op: "channels", Subject: spec.Name, Detail: err.Error()})
			continue
		}
		settings := map[string]graph.Value{
			"depth":  graph.Int(spec.Depth),
			"scalar": graph.Bool(spec.Scalar),
		}
		if spec.Size > 0 {
			settings["size"] = graph.Int(spec.Size)
		}
		for _, attr := range []string{"depth", "scalar", "size"} {
			v, ok := settings[attr]
			if !ok {
				continue
			}
			if err := g.SetAttribute(node, attr, v); err != nil {
				warnings = append(warnings, Warning{
					Op:      "channels",
					Subject: fmt.Sprintf("%s.%s", spec.Name, attr),
					Detail:  err.Error(),
				})
			}
		}
		nodes = append(nodes, node)
	}
	return nodes, warnings, nil
}
