package specdoc

import (
	"fmt"

	"github.com/segmentio/encoding/json"
	yaml "go.yaml.in/yaml/v4"
)

// Paths is the specification's paths map with declaration order preserved.
// Route matching is order-sensitive (the first declared template wins ties
// under the default policy), and neither YAML nor JSON map decoding keeps
// key order, so the type carries its own order slice.
type Paths struct {
	items map[string]*PathItem
	order []string
}

// Get returns the path item for an exact template, or nil.
func (p *Paths) Get(template string) *PathItem {
	if p == nil {
		return nil
	}
	return p.items[template]
}

// Set adds or replaces a path item. New templates append to the
// declaration order; replacing an existing template keeps its position.
func (p *Paths) Set(template string, item *PathItem) {
	if p.items == nil {
		p.items = make(map[string]*PathItem)
	}
	if _, exists := p.items[template]; !exists {
		p.order = append(p.order, template)
	}
	p.items[template] = item
}

// Len returns the number of declared path templates.
func (p *Paths) Len() int {
	if p == nil {
		return 0
	}
	return len(p.order)
}

// Templates returns the path templates in declaration order.
func (p *Paths) Templates() []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.order...)
}

// UnmarshalYAML decodes a paths mapping node, recording key order.
func (p *Paths) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("paths: expected mapping, got %v", node.Kind)
	}
	p.items = make(map[string]*PathItem, len(node.Content)/2)
	p.order = p.order[:0]
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode := node.Content[i]
		valueNode := node.Content[i+1]
		var item PathItem
		if err := valueNode.Decode(&item); err != nil {
			return fmt.Errorf("paths: decoding %q: %w", keyNode.Value, err)
		}
		p.Set(keyNode.Value, &item)
	}
	return nil
}

// MarshalYAML emits the mapping in declaration order.
func (p *Paths) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, template := range p.order {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Value: template}
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(p.items[template]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, keyNode, valueNode)
	}
	return node, nil
}

// UnmarshalJSON decodes a paths object, recovering key order with a raw
// scan of the object text before unmarshaling the items.
func (p *Paths) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("paths: %w", err)
	}
	keys, err := objectKeyOrder(data)
	if err != nil {
		return fmt.Errorf("paths: %w", err)
	}
	p.items = make(map[string]*PathItem, len(raw))
	p.order = p.order[:0]
	for _, key := range keys {
		msg, ok := raw[key]
		if !ok {
			continue
		}
		var item PathItem
		if err := json.Unmarshal(msg, &item); err != nil {
			return fmt.Errorf("paths: decoding %q: %w", key, err)
		}
		p.Set(key, &item)
	}
	return nil
}

// MarshalJSON emits the object in declaration order.
func (p *Paths) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	for i, template := range p.order {
		if i > 0 {
			buf = append(buf, ',')
		}
		key, err := json.Marshal(template)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(p.items[template])
		if err != nil {
			return nil, err
		}
		buf = append(buf, key...)
		buf = append(buf, ':')
		buf = append(buf, value...)
	}
	return append(buf, '}'), nil
}

// objectKeyOrder scans a JSON object's text and returns its top-level keys
// in source order. Nested objects, arrays, and escaped strings are skipped
// without being decoded.
func objectKeyOrder(data []byte) ([]string, error) {
	i := skipSpace(data, 0)
	if i >= len(data) || data[i] != '{' {
		return nil, fmt.Errorf("expected object")
	}
	i++
	var keys []string
	for {
		i = skipSpace(data, i)
		if i >= len(data) {
			return nil, fmt.Errorf("unexpected end of object")
		}
		if data[i] == '}' {
			return keys, nil
		}
		if data[i] == ',' {
			i++
			continue
		}
		if data[i] != '"' {
			return nil, fmt.Errorf("expected key at offset %d", i)
		}
		start := i
		end, err := scanString(data, i)
		if err != nil {
			return nil, err
		}
		var key string
		if err := json.Unmarshal(data[start:end], &key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
		i = skipSpace(data, end)
		if i >= len(data) || data[i] != ':' {
			return nil, fmt.Errorf("expected ':' after key %q", key)
		}
		i, err = scanValue(data, i+1)
		if err != nil {
			return nil, err
		}
	}
}

func skipSpace(data []byte, i int) int {
	for i < len(data) {
		switch data[i] {
		case ' ', '\t', '\n', '\r':
			i++
		default:
			return i
		}
	}
	return i
}

// scanString returns the index just past the closing quote.
func scanString(data []byte, i int) (int, error) {
	i++ // opening quote
	for i < len(data) {
		switch data[i] {
		case '\\':
			i += 2
		case '"':
			return i + 1, nil
		default:
			i++
		}
	}
	return 0, fmt.Errorf("unterminated string")
}

// scanValue returns the index just past a JSON value starting at or after i.
func scanValue(data []byte, i int) (int, error) {
	i = skipSpace(data, i)
	if i >= len(data) {
		return 0, fmt.Errorf("unexpected end of value")
	}
	switch data[i] {
	case '"':
		return scanString(data, i)
	case '{', '[':
		open, close := data[i], byte('}')
		if open == '[' {
			close = ']'
		}
		depth := 0
		for ; i < len(data); i++ {
			switch data[i] {
			case '"':
				end, err := scanString(data, i)
				if err != nil {
					return 0, err
				}
				i = end - 1
			case open:
				depth++
			case close:
				depth--
				if depth == 0 {
					return i + 1, nil
				}
			}
		}
		return 0, fmt.Errorf("unterminated %c", open)
	default:
		// number, true, false, null
		for ; i < len(data); i++ {
			switch data[i] {
			case ',', '}', ']', ' ', '\t', '\n', '\r':
				return i, nil
			}
		}
		return i, nil
	}
}
