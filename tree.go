// This is free and unencumbered software released into the public domain.
//
// Anyone is free to copy, modify, publish, use, compile, sell, or
// distribute this software, either in source code form or as a compiled
// binary, for any purpose, commercial or non-commercial, and by any
// means.
//
// In jurisdictions that recognize copyright laws, the author or authors
// of this software dedicate any and all copyright interest in the
// software to the public domain. We make this dedication for the benefit
// of the public at large and to the detriment of our heirs and
// successors. We intend this dedication to be an overt act of
// relinquishment in perpetuity of all present and future rights to this
// software under copyright law.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
// EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
// MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.
// IN NO EVENT SHALL THE AUTHORS BE LIABLE FOR ANY CLAIM, DAMAGES OR
// OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE,
// ARISING FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR
// OTHER DEALINGS IN THE SOFTWARE.
//
// For more information, please refer to <https://unlicense.org>

package cmt

import (
	"fmt"

	"github.com/ametel01/cartesian-merkle-tree/field"
)

// Tree is a Cartesian Merkle Tree: simultaneously BST-ordered on key,
// max-heap-ordered on a key-derived priority, and Merkle-committed on
// every subtree. The zero value is a valid empty tree.
//
// The tree is single-threaded and synchronous, per the data model: no
// operation suspends, and each call is atomic from the caller's point of
// view. Concurrent mutation of one Tree must be serialized by the caller;
// concurrent readers are safe only against a frozen snapshot.
type Tree struct {
	root *Node
}

// New returns an empty tree.
func New() *Tree {
	return &Tree{}
}

// RootHash returns the Merkle commitment of the whole tree, or the empty
// sentinel field.Zero() when the tree has no nodes.
func (t *Tree) RootHash() field.Element {
	return hashOf(t.root)
}

// Search reports whether key is present in the tree. With duplicate keys,
// the shallowest matching node along the BST descent answers the query;
// which occurrence that is doesn't matter since Search only reports
// presence.
func (t *Tree) Search(key field.Element) bool {
	n := t.root
	for n != nil {
		switch {
		case key.Less(n.Key):
			n = n.Left
		case n.Key.Less(key):
			n = n.Right
		default:
			return true
		}
	}
	return false
}

// Insert adds key to the tree. Insertion never fails: it is total over
// the field. Duplicate keys are not deduplicated — inserting an already
// present key creates a second, independent node for it, changing the root
// hash.
func (t *Tree) Insert(key field.Element) {
	t.root = insert(t.root, key)
}

// insert descends by key comparison (duplicates tie-break right, per the
// BST invariant's `>=`), attaches a fresh node on the nil slot it finds,
// then on the way back up refreshes each visited node's hash and restores
// the heap property with at most one rotation per level: since the
// subtree was a valid treap before this insert, only the node on the
// descent path can have just gained a child whose priority outranks it.
func insert(n *Node, key field.Element) *Node {
	if n == nil {
		return newNode(key)
	}

	if key.Less(n.Key) {
		n.Left = insert(n.Left, key)
		n.refreshHash()
		if n.Priority.Less(n.Left.Priority) {
			n = rotateRight(n)
		}
	} else {
		n.Right = insert(n.Right, key)
		n.refreshHash()
		if n.Priority.Less(n.Right.Priority) {
			n = rotateLeft(n)
		}
	}
	return n
}

// Remove deletes one node with the given key, if any is present, and
// reports whether it found one. A key absent from the tree is a no-op
// returning false, leaving the tree byte-identical (same root hash, same
// shape).
func (t *Tree) Remove(key field.Element) bool {
	newRoot, removed := remove(t.root, key)
	t.root = newRoot
	return removed
}

// remove descends to the target node and, once found, either detaches it
// (0 or 1 child) or rotates the higher-priority child up and recurses one
// level deeper (2 children) until it becomes one of those simpler cases —
// "rotate-to-leaf" deletion. Every node whose subtree actually changed has
// its hash refreshed on the way back up; nodes on a no-op path are left
// untouched so an absent key truly leaves the tree byte-identical.
func remove(n *Node, key field.Element) (*Node, bool) {
	if n == nil {
		return nil, false
	}

	switch {
	case key.Less(n.Key):
		child, ok := remove(n.Left, key)
		if !ok {
			return n, false
		}
		n.Left = child
		n.refreshHash()
		return n, true

	case n.Key.Less(key):
		child, ok := remove(n.Right, key)
		if !ok {
			return n, false
		}
		n.Right = child
		n.refreshHash()
		return n, true

	default:
		return removeHere(n), true
	}
}

// removeHere removes n itself, which is known to hold the target key.
func removeHere(n *Node) *Node {
	switch {
	case n.Left == nil && n.Right == nil:
		return nil
	case n.Left == nil:
		return n.Right
	case n.Right == nil:
		return n.Left
	default:
		if n.Right.Priority.Less(n.Left.Priority) {
			n = rotateRight(n)
			n.Right = removeHere(n.Right)
			n.refreshHash()
			return n
		}
		n = rotateLeft(n)
		n.Left = removeHere(n.Left)
		n.refreshHash()
		return n
	}
}

func (t *Tree) String() string {
	return fmt.Sprintf("Tree{root: %s}", t.root)
}
