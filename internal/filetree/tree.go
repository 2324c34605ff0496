// Package filetree builds a folder hierarchy from flat object keys.
//
// Keys are '/'-delimited paths in a flat bucket namespace. Each path segment
// becomes a node; a node with children renders as a folder, anything else as
// a file. Children keep the order their segments were first seen in, the
// same way the listing returned them.
package filetree

import "strings"

// Node is one segment of the tree. The root node has an empty name and
// holds the top-level entries.
type Node struct {
	Name     string
	Children []*Node

	index map[string]*Node
}

// Build constructs a tree from a flat key list. The tree is rebuilt from
// scratch on every refresh; there is no incremental update.
func Build(keys []string) *Node {
	root := &Node{}
	for _, key := range keys {
		cur := root
		for _, part := range strings.Split(key, "/") {
			cur = cur.ensureChild(part)
		}
	}
	return root
}

// IsDir reports whether the node has children, i.e. renders as a folder.
func (n *Node) IsDir() bool {
	return len(n.Children) > 0
}

// Child returns the named child, or nil.
func (n *Node) Child(name string) *Node {
	return n.index[name]
}

func (n *Node) ensureChild(name string) *Node {
	if c, ok := n.index[name]; ok {
		return c
	}
	c := &Node{Name: name}
	if n.index == nil {
		n.index = make(map[string]*Node)
	}
	n.index[name] = c
	n.Children = append(n.Children, c)
	return c
}

// Leaves returns the full keys of all file nodes in tree order.
func (n *Node) Leaves() []string {
	var out []string
	n.walk("", func(path string, node *Node) {
		if !node.IsDir() {
			out = append(out, path)
		}
	})
	return out
}

// Dirs returns the full paths of all folder nodes in tree order.
func (n *Node) Dirs() []string {
	var out []string
	n.walk("", func(path string, node *Node) {
		if node.IsDir() {
			out = append(out, path)
		}
	})
	return out
}

func (n *Node) walk(prefix string, fn func(path string, node *Node)) {
	for _, c := range n.Children {
		path := c.Name
		if prefix != "" {
			path = prefix + "/" + c.Name
		}
		fn(path, c)
		c.walk(path, fn)
	}
}

// ExpandedSet tracks which folder paths are open in the panel. Folders
// default to collapsed; state lives for the process lifetime only.
type ExpandedSet map[string]struct{}

// NewExpandedSet returns an empty set.
func NewExpandedSet() ExpandedSet {
	return make(ExpandedSet)
}

// Toggle flips the folder's membership and returns the new state.
func (s ExpandedSet) Toggle(path string) bool {
	if _, ok := s[path]; ok {
		delete(s, path)
		return false
	}
	s[path] = struct{}{}
	return true
}

// IsExpanded reports whether the folder is open.
func (s ExpandedSet) IsExpanded(path string) bool {
	_, ok := s[path]
	return ok
}
