// ABOUTME: YAML codec for container graph documents using gopkg.in/yaml.v3.
// ABOUTME: Encoding is deterministic; decoding validates types, attributes, and connections while loading.
package graphio

import (
	"fmt"

	"github.com/MrLixm/mari-tools-lxm/graph"
	"gopkg.in/yaml.v3"
)

// document is the on-disk YAML shape of a container graph.
type document struct {
	Name        string          `yaml:"name"`
	Nodes       []docNode       `yaml:"nodes"`
	Connections []docConnection `yaml:"connections,omitempty"`
	Exposed     []docExposed    `yaml:"exposed,omitempty"`
}

type docNode struct {
	Name     string      `yaml:"name"`
	Type     string      `yaml:"type"`
	Position docPosition `yaml:"position"`
	Attrs    []docAttr   `yaml:"attrs,omitempty"`
}

type docPosition struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// docAttr is a name/value pair. A list is used instead of a map so attribute
// order in the output is deterministic.
type docAttr struct {
	Name  string `yaml:"name"`
	Value any    `yaml:"value"`
}

type docPort struct {
	Node string `yaml:"node"`
	Port string `yaml:"port"`
}

type docConnection struct {
	From docPort `yaml:"from"`
	To   docPort `yaml:"to"`
}

type docExposed struct {
	Name  string    `yaml:"name"`
	Type  string    `yaml:"type"`
	Value any       `yaml:"value"`
	Links []docLink `yaml:"links,omitempty"`
}

type docLink struct {
	Node string `yaml:"node"`
	Attr string `yaml:"attr"`
}

// Encode serializes a container graph as YAML. Nodes appear in insertion
// order, attributes sorted by name, connections grouped by destination node.
// Read-only attributes are not configurable settings and are omitted.
func Encode(c *graph.Container) (string, error) {
	doc := document{Name: c.Name()}

	for _, n := range c.Nodes() {
		dn := docNode{
			Name:     n.Name(),
			Type:     n.TypeID(),
			Position: docPosition{X: n.Position().X, Y: n.Position().Y},
		}
		typ := n.Type()
		for _, attrName := range typ.AttrNames() {
			if typ.Attrs[attrName].ReadOnly {
				continue
			}
			v, err := c.GetAttribute(n, attrName)
			if err != nil {
				return "", fmt.Errorf("encode node %q: %w", n.Name(), err)
			}
			dn.Attrs = append(dn.Attrs, docAttr{Name: attrName, Value: encodeValue(v)})
		}
		doc.Nodes = append(doc.Nodes, dn)

		edges, err := c.Edges(n)
		if err != nil {
			return "", fmt.Errorf("encode edges of %q: %w", n.Name(), err)
		}
		for _, e := range edges {
			// Each edge surfaces twice (once per endpoint); keep it only
			// when visiting its destination node.
			if e.To.Node != n.Name() {
				continue
			}
			doc.Connections = append(doc.Connections, docConnection{
				From: docPort{Node: e.From.Node, Port: e.From.Port},
				To:   docPort{Node: e.To.Node, Port: e.To.Port},
			})
		}
	}

	for _, exp := range c.ExposedAttributes() {
		de := docExposed{
			Name:  exp.Name,
			Type:  exp.Type.String(),
			Value: encodeValue(exp.Value),
		}
		for _, l := range exp.Links {
			de.Links = append(de.Links, docLink{Node: l.Node, Attr: l.Attr})
		}
		doc.Exposed = append(doc.Exposed, de)
	}

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return "", fmt.Errorf("yaml marshal: %w", err)
	}
	return string(data), nil
}

// Decode parses a YAML graph document into a live container backed by the
// given type registry. Unknown types, mismatched attribute values, and
// invalid connections fail the load.
func Decode(src string, registry *graph.TypeRegistry) (*graph.Container, error) {
	var doc document
	if err := yaml.Unmarshal([]byte(src), &doc); err != nil {
		return nil, fmt.Errorf("yaml parse: %w", err)
	}
	name := doc.Name
	if name == "" {
		name = "main"
	}
	c := graph.NewContainer(name, registry)

	for _, dn := range doc.Nodes {
		pos := graph.Position{X: dn.Position.X, Y: dn.Position.Y}
		var n *graph.Node
		var err error
		if dn.Type == "group" {
			n, err = c.CreateGroupNode(pos, dn.Name)
		} else {
			n, err = c.CreateNode(dn.Type, pos, dn.Name)
		}
		if err != nil {
			return nil, fmt.Errorf("decode node %q: %w", dn.Name, err)
		}
		for _, attr := range dn.Attrs {
			spec, ok := n.Type().Attrs[attr.Name]
			if !ok {
				return nil, fmt.Errorf("decode node %q: attribute %q: %w",
					dn.Name, attr.Name, graph.ErrAttributeNotFound)
			}
			v, err := decodeValue(spec.Type, attr.Value)
			if err != nil {
				return nil, fmt.Errorf("decode node %q attribute %q: %w", dn.Name, attr.Name, err)
			}
			if err := c.SetAttribute(n, attr.Name, v); err != nil {
				return nil, fmt.Errorf("decode node %q: %w", dn.Name, err)
			}
		}
	}

	for _, conn := range doc.Connections {
		from := graph.PortRef{Node: conn.From.Node, Port: conn.From.Port}
		to := graph.PortRef{Node: conn.To.Node, Port: conn.To.Port}
		if err := c.Connect(from, to); err != nil {
			return nil, fmt.Errorf("decode connection: %w", err)
		}
	}

	for _, de := range doc.Exposed {
		t, ok := graph.ParseValueType(de.Type)
		if !ok {
			return nil, fmt.Errorf("decode exposed %q: unknown value type %q: %w",
				de.Name, de.Type, graph.ErrValidation)
		}
		exp, err := c.CreateExposedAttribute(de.Name, t)
		if err != nil {
			return nil, fmt.Errorf("decode exposed %q: %w", de.Name, err)
		}
		if de.Value != nil {
			v, err := decodeValue(t, de.Value)
			if err != nil {
				return nil, fmt.Errorf("decode exposed %q: %w", de.Name, err)
			}
			exp.Value = v
		}
		for _, l := range de.Links {
			child := c.FindNode(l.Node)
			if child == nil {
				return nil, fmt.Errorf("decode exposed %q link: node %q: %w",
					de.Name, l.Node, graph.ErrNotFound)
			}
			if err := c.LinkAttribute(exp, child, l.Attr); err != nil {
				return nil, fmt.Errorf("decode exposed %q: %w", de.Name, err)
			}
		}
	}

	return c, nil
}
