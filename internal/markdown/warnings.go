package markdown

import (
	"slices"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"
)

// Warnings collects diagnostics about constructs that could not be rendered
// faithfully. Messages are grouped by construct kind; kinds and messages keep
// the order in which they were first recorded, and each message is stored at
// most once per kind.
//
// A nil *Warnings is valid and empty; Record on it is a no-op.
type Warnings struct {
	kinds *orderedmap.OrderedMap[string, []string]
}

// NewWarnings returns an empty registry.
func NewWarnings() *Warnings {
	return &Warnings{kinds: orderedmap.New[string, []string]()}
}

// Record adds message under kind unless it is already present.
func (w *Warnings) Record(kind, message string) {
	if w == nil {
		return
	}
	messages, _ := w.kinds.Get(kind)
	if slices.Contains(messages, message) {
		return
	}
	w.kinds.Set(kind, append(messages, message))
}

// Get returns the messages recorded under kind.
func (w *Warnings) Get(kind string) []string {
	if w == nil {
		return nil
	}
	messages, _ := w.kinds.Get(kind)
	return messages
}

// Len returns the number of distinct kinds with at least one message.
func (w *Warnings) Len() int {
	if w == nil {
		return 0
	}
	return w.kinds.Len()
}

// Kinds returns the recorded kinds in first-seen order.
func (w *Warnings) Kinds() []string {
	if w == nil {
		return nil
	}
	kinds := make([]string, 0, w.kinds.Len())
	for pair := w.kinds.Oldest(); pair != nil; pair = pair.Next() {
		kinds = append(kinds, pair.Key)
	}
	return kinds
}

// Map returns a copy of the registry as a plain map. It is never nil.
func (w *Warnings) Map() map[string][]string {
	m := make(map[string][]string, w.Len())
	for _, kind := range w.Kinds() {
		m[kind] = slices.Clone(w.Get(kind))
	}
	return m
}

// MarshalJSON encodes the registry as an object keyed by kind, in first-seen
// order.
func (w *Warnings) MarshalJSON() ([]byte, error) {
	if w == nil {
		return []byte("{}"), nil
	}
	return w.kinds.MarshalJSON()
}

// MarshalYAML encodes the registry as a mapping keyed by kind, in first-seen
// order.
func (w *Warnings) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, kind := range w.Kinds() {
		messages := &yaml.Node{Kind: yaml.SequenceNode}
		for _, msg := range w.Get(kind) {
			messages.Content = append(messages.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: msg})
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: kind},
			messages,
		)
	}
	return node, nil
}
