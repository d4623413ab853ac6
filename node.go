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

// Package cmt implements a Cartesian Merkle Tree: a treap ordered by key
// on one axis and by a key-derived priority on the other, with every
// subtree committed to by a Poseidon-based Merkle hash.
package cmt

import (
	"fmt"

	"github.com/ametel01/cartesian-merkle-tree/field"
)

// Node is a single element of the treap. Its two children are exclusively
// owned by it; no sharing and no cycles are possible because rotations
// only ever move a node to an adjacent position within the same subtree.
type Node struct {
	Key      field.Element
	Priority field.Element
	hash     field.Element

	Left, Right *Node
}

// newNode creates a childless node for key, with its priority and hash
// already populated. It is not yet linked into any tree.
func newNode(key field.Element) *Node {
	n := &Node{
		Key:      key,
		Priority: field.Priority(key),
	}
	n.refreshHash()
	return n
}

// hashOf returns n's subtree hash, or the empty sentinel if n is nil.
func hashOf(n *Node) field.Element {
	if n == nil {
		return field.Zero()
	}
	return n.hash
}

// Hash returns the node's cached Merkle commitment.
func (n *Node) Hash() field.Element {
	return n.hash
}

// refreshHash recomputes n.hash from n.Key and the current children's
// hashes. It must be called after any change to n.Left, n.Right or their
// subtrees, bottom-up.
func (n *Node) refreshHash() {
	n.hash = field.NodeHash(n.Key, hashOf(n.Left), hashOf(n.Right))
}

func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	return fmt.Sprintf("Node{key: %s, priority: %s, hash: %s}", n.Key, n.Priority, n.hash)
}
