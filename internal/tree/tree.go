// Package tree reconstructs the branch forest implied by conversation
// parent links. It is a pure read-side utility: callers hand it a flat
// snapshot of conversations in any order and get back structure.
package tree

import (
	"errors"

	"github.com/loomhq/loom/internal/domain"
)

// ErrCyclicParent reports a conversation that is its own transitive ancestor.
var ErrCyclicParent = errors.New("cyclic parent chain")

// Node is one conversation in the reconstructed forest.
type Node struct {
	Conversation *domain.Conversation
	Children     []*Node
	Depth        int
}

// Build produces one node per conversation and returns the forest roots.
// A conversation whose parent id does not resolve (deleted parent, stale
// reference) is promoted to a root rather than dropped, so every input
// conversation appears in the output exactly once.
func Build(conversations []*domain.Conversation) []*Node {
	nodes := make(map[string]*Node, len(conversations))
	for _, c := range conversations {
		nodes[c.ID] = &Node{Conversation: c}
	}

	var roots []*Node
	for _, c := range conversations {
		n := nodes[c.ID]
		if c.ParentID == "" {
			roots = append(roots, n)
			continue
		}
		parent, ok := nodes[c.ParentID]
		if !ok || c.ParentID == c.ID {
			roots = append(roots, n)
			continue
		}
		parent.Children = append(parent.Children, n)
	}

	// Depth is assigned top-down from the roots so it never depends on the
	// order conversations were linked in. Nodes trapped in a parent cycle are
	// unreachable from any root and keep depth 0.
	var walk func(n *Node, depth int)
	walk = func(n *Node, depth int) {
		n.Depth = depth
		for _, child := range n.Children {
			walk(child, depth+1)
		}
	}
	for _, r := range roots {
		walk(r, 0)
	}
	return roots
}

// Flatten returns every node in the forest, depth-first, pre-order.
func Flatten(roots []*Node) []*Node {
	var out []*Node
	var walk func(n *Node)
	walk = func(n *Node) {
		out = append(out, n)
		for _, child := range n.Children {
			walk(child)
		}
	}
	for _, r := range roots {
		walk(r)
	}
	return out
}

// Ancestors walks parent links upward from the given conversation and returns
// the chain ordered root-first (nearest ancestor last). The walk stops at the
// first root or unresolved link. The number of steps is bounded by the total
// conversation count; exceeding it means the parent links form a cycle.
func Ancestors(id string, conversations []*domain.Conversation) ([]*domain.Conversation, error) {
	byID := make(map[string]*domain.Conversation, len(conversations))
	for _, c := range conversations {
		byID[c.ID] = c
	}

	current, ok := byID[id]
	if !ok {
		return nil, nil
	}

	var chain []*domain.Conversation
	for steps := 0; current.ParentID != ""; steps++ {
		if steps >= len(conversations) {
			return nil, ErrCyclicParent
		}
		parent, ok := byID[current.ParentID]
		if !ok {
			break
		}
		chain = append(chain, parent)
		current = parent
	}

	// Collected nearest-first; reverse to root-first.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

// Descendants returns every conversation whose parent chain reaches the given
// id, depth-first, pre-order: a conversation appears before its own children.
func Descendants(id string, conversations []*domain.Conversation) []*domain.Conversation {
	children := make(map[string][]*domain.Conversation, len(conversations))
	for _, c := range conversations {
		if c.ParentID != "" {
			children[c.ParentID] = append(children[c.ParentID], c)
		}
	}

	seen := make(map[string]bool, len(conversations))
	var out []*domain.Conversation
	var walk func(parentID string)
	walk = func(parentID string) {
		for _, c := range children[parentID] {
			if seen[c.ID] {
				continue
			}
			seen[c.ID] = true
			out = append(out, c)
			walk(c.ID)
		}
	}
	walk(id)
	return out
}

// CountMessages returns the message count of the conversation plus all of its
// descendants. An unresolved id counts zero.
func CountMessages(id string, conversations []*domain.Conversation) int {
	var root *domain.Conversation
	for _, c := range conversations {
		if c.ID == id {
			root = c
			break
		}
	}
	if root == nil {
		return 0
	}

	total := len(root.Messages)
	for _, d := range Descendants(id, conversations) {
		total += len(d.Messages)
	}
	return total
}
