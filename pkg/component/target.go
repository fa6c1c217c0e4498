package component

import (
	"github.com/vango-dev/quoteboard/pkg/node"
)

// RenderTarget receives the trees a component renders. Applying a tree
// equal to the previous one must not produce an observable change.
type RenderTarget interface {
	Apply(c *Component, tree *node.Node) error
}

// Detacher is implemented by targets that want to know when a component
// unmounts.
type Detacher interface {
	Detach(c *Component)
}

// TargetFunc adapts a function to RenderTarget.
type TargetFunc func(c *Component, tree *node.Node) error

// Apply calls f.
func (f TargetFunc) Apply(c *Component, tree *node.Node) error {
	return f(c, tree)
}

// ErrorSink receives isolated failures: render errors, hook and handler
// panics, failed channel subscribers. c is nil when no single component
// is responsible.
type ErrorSink interface {
	Report(c *Component, err error)
}

// ErrorSinkFunc adapts a function to ErrorSink.
type ErrorSinkFunc func(c *Component, err error)

// Report calls f.
func (f ErrorSinkFunc) Report(c *Component, err error) {
	f(c, err)
}

// Memory is a RenderTarget keeping the latest tree of each component.
// Applying a tree equal to the current one is not counted as a change.
// It must be used from the host loop.
type Memory struct {
	trees   map[uint64]*node.Node
	applies map[uint64]int
	changes map[uint64]int
}

// NewMemory creates an empty in-memory target.
func NewMemory() *Memory {
	return &Memory{
		trees:   make(map[uint64]*node.Node),
		applies: make(map[uint64]int),
		changes: make(map[uint64]int),
	}
}

// Apply implements RenderTarget.
func (m *Memory) Apply(c *Component, tree *node.Node) error {
	m.applies[c.id]++
	if prev, ok := m.trees[c.id]; ok && node.Equal(prev, tree) {
		return nil
	}
	m.trees[c.id] = tree
	m.changes[c.id]++
	return nil
}

// Detach implements Detacher.
func (m *Memory) Detach(c *Component) {
	delete(m.trees, c.id)
}

// Tree returns the current tree of c, or nil.
func (m *Memory) Tree(c *Component) *node.Node {
	return m.trees[c.id]
}

// HTML returns the current tree of c as HTML.
func (m *Memory) HTML(c *Component) string {
	t := m.trees[c.id]
	if t == nil {
		return ""
	}
	return node.HTML(t)
}

// Applies returns how many trees were applied for c.
func (m *Memory) Applies(c *Component) int {
	return m.applies[c.id]
}

// Changes returns how many applied trees differed from the previous one.
func (m *Memory) Changes(c *Component) int {
	return m.changes[c.id]
}
