package confmap

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML decodes a YAML mapping while keeping the authored key order.
func (m *Map) UnmarshalYAML(node *yaml.Node) error {
	v, err := newNodeDecoder().decode(node)
	if err != nil {
		return err
	}
	decoded, ok := v.(*Map)
	if !ok {
		return fmt.Errorf("%w: got %s", ErrNotMapping, describe(v))
	}
	*m = *decoded
	return nil
}

// UnmarshalJSON decodes a JSON object while keeping the authored key order.
func (m *Map) UnmarshalJSON(data []byte) error {
	v, err := DecodeJSON(data)
	if err != nil {
		return err
	}
	decoded, ok := v.(*Map)
	if !ok {
		return fmt.Errorf("%w: got %s", ErrNotMapping, describe(v))
	}
	*m = *decoded
	return nil
}

// DecodeYAML decodes any YAML document into ordered values.
func DecodeYAML(data []byte) (any, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, errors.Join(ErrDecode, err)
	}
	if root.Kind == 0 {
		return nil, nil
	}
	return newNodeDecoder().decode(&root)
}

// DecodeJSON decodes any JSON document into ordered values.
func DecodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := readJSON(dec)
	if err != nil {
		return nil, errors.Join(ErrDecode, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after document", ErrDecode)
	}
	return v, nil
}

// Decode picks the decoder from the file extension, defaulting to YAML
// (which also accepts JSON documents).
func Decode(name string, data []byte) (any, error) {
	if strings.HasSuffix(strings.ToLower(name), ".json") {
		return DecodeJSON(data)
	}
	return DecodeYAML(data)
}

// maxAliasNodes caps how many nodes may be produced through alias
// expansion in one document.
const maxAliasNodes = 10000

// nodeDecoder converts a yaml.Node tree into ordered values. Aliases are
// expanded in place; recursive aliases and runaway expansion are rejected.
type nodeDecoder struct {
	expanding map[*yaml.Node]bool
	depth     int
	expanded  int
}

func newNodeDecoder() *nodeDecoder {
	return &nodeDecoder{expanding: make(map[*yaml.Node]bool)}
}

func (d *nodeDecoder) decode(node *yaml.Node) (any, error) {
	if d.depth > 0 {
		d.expanded++
		if d.expanded > maxAliasNodes {
			return nil, fmt.Errorf("%w: line %d: alias expansion exceeds %d nodes", ErrDecode, node.Line, maxAliasNodes)
		}
	}
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return d.decode(node.Content[0])
	case yaml.AliasNode:
		target := node.Alias
		if target == nil {
			return nil, fmt.Errorf("%w: line %d: unknown alias %q", ErrDecode, node.Line, node.Value)
		}
		if d.expanding[target] {
			return nil, fmt.Errorf("%w: line %d: alias %q refers to itself", ErrDecode, node.Line, node.Value)
		}
		d.expanding[target] = true
		d.depth++
		v, err := d.decode(target)
		d.depth--
		delete(d.expanding, target)
		return v, err
	case yaml.MappingNode:
		m := New()
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode, valNode := node.Content[i], node.Content[i+1]
			if keyNode.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("%w: line %d: mapping keys must be scalars", ErrDecode, keyNode.Line)
			}
			v, err := d.decode(valNode)
			if err != nil {
				return nil, err
			}
			m.Set(keyNode.Value, v)
		}
		return m, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(node.Content))
		for _, item := range node.Content {
			v, err := d.decode(item)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.ScalarNode:
		var v any
		if err := node.Decode(&v); err != nil {
			return nil, errors.Join(ErrDecode, err)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("%w: unsupported yaml node kind %d", ErrDecode, node.Kind)
	}
}

func readJSON(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			m := New()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("unexpected object key %v", keyTok)
				}
				v, err := readJSON(dec)
				if err != nil {
					return nil, err
				}
				m.Set(key, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return m, nil
		case '[':
			out := []any{}
			for dec.More() {
				v, err := readJSON(dec)
				if err != nil {
					return nil, err
				}
				out = append(out, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return out, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", t)
		}
	case json.Number:
		return jsonNumber(t), nil
	default:
		return tok, nil
	}
}

// jsonNumber mirrors the YAML decoder: integral literals become int.
func jsonNumber(n json.Number) any {
	if i, err := strconv.Atoi(n.String()); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}

func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "sequence"
	case *Map:
		return "mapping"
	default:
		return fmt.Sprintf("%T", v)
	}
}
