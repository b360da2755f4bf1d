package config

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// GameList is the ordered contents of the games object.
// Object key order in the file is the run order, so it is decoded from the
// token stream instead of into a map.
type GameList []Task

// Keys returns the game keys in configured order
func (l GameList) Keys() []string {
	keys := make([]string, 0, len(l))
	for _, g := range l {
		keys = append(keys, g.Key)
	}
	return keys
}

// UnmarshalJSON decodes a JSON object into an ordered list, keeping key order
func (l *GameList) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*l = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("games must be an object, got %v", tok)
	}

	var out GameList
	seen := make(map[string]bool)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v in games", tok)
		}
		if seen[key] {
			return fmt.Errorf("duplicate game key '%s'", key)
		}
		seen[key] = true

		var t Task
		if err := dec.Decode(&t); err != nil {
			return fmt.Errorf("game '%s': %w", key, err)
		}
		t.Key = key
		out = append(out, t)
	}

	// closing brace
	if _, err := dec.Token(); err != nil {
		return err
	}

	*l = out
	return nil
}

// MarshalJSON encodes the list as an object in list order
func (l GameList) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, t := range l {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(t.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		val, err := json.Marshal(t)
		if err != nil {
			return nil, fmt.Errorf("game '%s': %w", t.Key, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalYAML decodes a YAML mapping into an ordered list
func (l *GameList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: games must be a mapping", node.Line)
	}

	var out GameList
	seen := make(map[string]bool)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]
		key := keyNode.Value
		if seen[key] {
			return fmt.Errorf("line %d: duplicate game key '%s'", keyNode.Line, key)
		}
		seen[key] = true

		var t Task
		if err := valNode.Decode(&t); err != nil {
			return fmt.Errorf("game '%s': %w", key, err)
		}
		t.Key = key
		out = append(out, t)
	}

	*l = out
	return nil
}

// MarshalYAML encodes the list as a mapping node in list order
func (l GameList) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, t := range l {
		var val yaml.Node
		if err := val.Encode(t); err != nil {
			return nil, fmt.Errorf("game '%s': %w", t.Key, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: t.Key},
			&val,
		)
	}
	return node, nil
}
