// Package yaml bridges YAML documents and jsonurl.Value using gopkg.in/yaml.v3.
// Mapping order is preserved by walking the node tree rather than decoding
// into Go maps.
package yaml

import (
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"

	jsonurl "github.com/jsonurl/jsonurl-go"
)

// maxAliasDepth bounds alias expansion.
const maxAliasDepth = 64

// Unmarshal decodes the first document in b. An empty document yields null.
func Unmarshal(b []byte) (jsonurl.Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return jsonurl.Value{}, err
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return jsonurl.Null(), nil
	}
	return FromNode(&doc)
}

// FromNode converts a YAML node tree into a Value.
func FromNode(n *yaml.Node) (jsonurl.Value, error) { return fromNode(n, 0) }

func fromNode(n *yaml.Node, aliases int) (jsonurl.Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return jsonurl.Null(), nil
		}
		return fromNode(n.Content[0], aliases)
	case yaml.AliasNode:
		if aliases >= maxAliasDepth {
			return jsonurl.Value{}, fmt.Errorf("line %d: alias nesting too deep", n.Line)
		}
		return fromNode(n.Alias, aliases+1)
	case yaml.SequenceNode:
		a := jsonurl.NewArray()
		for _, c := range n.Content {
			v, err := fromNode(c, aliases)
			if err != nil {
				return jsonurl.Value{}, err
			}
			a.Append(v)
		}
		return jsonurl.ArrayValue(a), nil
	case yaml.MappingNode:
		o := jsonurl.NewObject()
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, vn := n.Content[i], n.Content[i+1]
			if k.Kind != yaml.ScalarNode {
				return jsonurl.Value{}, fmt.Errorf("line %d: mapping keys must be scalars", k.Line)
			}
			v, err := fromNode(vn, aliases)
			if err != nil {
				return jsonurl.Value{}, err
			}
			o.Set(k.Value, v)
		}
		return jsonurl.ObjectValue(o), nil
	case yaml.ScalarNode:
		return scalar(n)
	}
	return jsonurl.Value{}, fmt.Errorf("line %d: unsupported node kind %d", n.Line, n.Kind)
}

func scalar(n *yaml.Node) (jsonurl.Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return jsonurl.Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return jsonurl.Value{}, err
		}
		return jsonurl.Bool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return jsonurl.Int(i), nil
		}
		var u uint64
		if err := n.Decode(&u); err != nil {
			return jsonurl.Value{}, err
		}
		return jsonurl.Number(strconv.FormatUint(u, 10)), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return jsonurl.Value{}, err
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return jsonurl.Value{}, fmt.Errorf("line %d: %s is not a JSON number", n.Line, n.Value)
		}
		return jsonurl.Float(f), nil
	}
	return jsonurl.String(n.Value), nil
}

// Marshal renders v as a YAML document.
func Marshal(v jsonurl.Value) ([]byte, error) {
	n, err := ToNode(v)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(n)
}

// ToNode converts a Value into a YAML node tree.
func ToNode(v jsonurl.Value) (*yaml.Node, error) {
	v = v.Resolve()
	switch v.Kind() {
	case jsonurl.KindUndefined, jsonurl.KindNull:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case jsonurl.KindBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v.AsBool())}, nil
	case jsonurl.KindNumber:
		if _, ok := v.Int64(); ok {
			if i, err := strconv.ParseInt(v.NumberText(), 10, 64); err == nil {
				return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(i, 10)}, nil
			}
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: strconv.FormatFloat(v.Float64(), 'g', -1, 64)}, nil
	case jsonurl.KindString:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.AsString()}, nil
	case jsonurl.KindArray:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, e := range v.Array().All() {
			c, err := ToNode(e)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, c)
		}
		return n, nil
	case jsonurl.KindObject:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for k, e := range v.Object().All() {
			c, err := ToNode(e)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}, c)
		}
		return n, nil
	}
	return nil, fmt.Errorf("cannot convert %s to YAML", v.Kind())
}
