package scan

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Mapping is the date -> description view of a pair sequence.
// Keys keep the position of their first occurrence; a repeated key takes the later description.
type Mapping struct {
	keys   []string
	values map[string]string
}

// NewMapping collapses pairs into a Mapping
func NewMapping(pairs []DatePair) *Mapping {
	m := &Mapping{
		keys:   make([]string, 0, len(pairs)),
		values: make(map[string]string, len(pairs)),
	}
	for _, p := range pairs {
		m.Set(p.Date.Text, p.Description)
	}
	return m
}

// Set stores description under date, overwriting any earlier value.
// The zero Mapping is ready to use.
func (m *Mapping) Set(date, description string) {
	if m.values == nil {
		m.values = make(map[string]string)
	}
	if _, exists := m.values[date]; !exists {
		m.keys = append(m.keys, date)
	}
	m.values[date] = description
}

// Get returns the description stored for date
func (m *Mapping) Get(date string) (string, bool) {
	v, ok := m.values[date]
	return v, ok
}

// Keys returns the dates in first-seen order
func (m *Mapping) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of distinct dates
func (m *Mapping) Len() int {
	return len(m.keys)
}

// MarshalJSON writes the mapping as an object with keys in first-seen order
func (m *Mapping) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	out := []byte{'{'}
	for i, k := range m.keys {
		if i > 0 {
			out = append(out, ',')
		}
		for j, v := range []string{k, m.values[k]} {
			buf.Reset()
			if err := enc.Encode(v); err != nil {
				return nil, err
			}
			out = append(out, bytes.TrimRight(buf.Bytes(), "\n")...)
			if j == 0 {
				out = append(out, ':')
			}
		}
	}
	out = append(out, '}')
	return out, nil
}

// MarshalYAML renders the mapping as an ordered YAML mapping node
func (m *Mapping) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range m.keys {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: m.values[k]},
		)
	}
	return node, nil
}
