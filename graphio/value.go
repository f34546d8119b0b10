// ABOUTME: Conversion between graph.Value and the plain YAML scalars used in documents.
// ABOUTME: Colors are encoded as a four-element RGBA list; everything else maps to native scalars.
package graphio

import (
	"fmt"

	"github.com/MrLixm/mari-tools-lxm/graph"
)

// encodeValue renders a typed value as a plain YAML-marshalable value.
func encodeValue(v graph.Value) any {
	switch v.Type {
	case graph.FloatValue:
		return v.AsFloat()
	case graph.IntValue:
		return v.AsInt()
	case graph.BoolValue:
		return v.AsBool()
	case graph.StringValue:
		return v.AsString()
	case graph.ColorValue:
		c := v.AsColor()
		return []float64{c.R, c.G, c.B, c.A}
	default:
		return nil
	}
}

// decodeValue coerces a YAML-decoded scalar into a typed value. The YAML
// library hands back int, float64, bool, string, or []any; integers are
// accepted where floats are declared.
func decodeValue(t graph.ValueType, raw any) (graph.Value, error) {
	switch t {
	case graph.FloatValue:
		f, ok := asFloat(raw)
		if !ok {
			return graph.Value{}, typeErr(t, raw)
		}
		return graph.Float(f), nil
	case graph.IntValue:
		switch n := raw.(type) {
		case int:
			return graph.Int(n), nil
		case int64:
			return graph.Int(int(n)), nil
		}
		return graph.Value{}, typeErr(t, raw)
	case graph.BoolValue:
		b, ok := raw.(bool)
		if !ok {
			return graph.Value{}, typeErr(t, raw)
		}
		return graph.Bool(b), nil
	case graph.StringValue:
		s, ok := raw.(string)
		if !ok {
			return graph.Value{}, typeErr(t, raw)
		}
		return graph.Str(s), nil
	case graph.ColorValue:
		list, ok := raw.([]any)
		if !ok || len(list) != 4 {
			return graph.Value{}, typeErr(t, raw)
		}
		var ch [4]float64
		for i, item := range list {
			f, ok := asFloat(item)
			if !ok {
				return graph.Value{}, typeErr(t, raw)
			}
			ch[i] = f
		}
		return graph.RGBA(ch[0], ch[1], ch[2], ch[3]), nil
	default:
		return graph.Value{}, typeErr(t, raw)
	}
}

func asFloat(raw any) (float64, bool) {
	switch n := raw.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func typeErr(t graph.ValueType, raw any) error {
	return fmt.Errorf("value %v does not decode as %s: %w", raw, t, graph.ErrTypeMismatch)
}
