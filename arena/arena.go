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

// Package arena re-implements the Cartesian Merkle Tree engine over an
// index-addressed node table instead of pointers, so that its state can be
// persisted by a host storage layer (on disk, in a KV store, ...) one scalar
// slot and one map entry at a time. Root hash and shape are bit-identical to
// the pointer-based tree in the parent package given the same key sequence.
package arena

import (
	"fmt"

	"github.com/ametel01/cartesian-merkle-tree/field"
	"github.com/ethereum/go-ethereum/log"
)

// noChild is the sentinel index meaning "no child here", mirroring the
// pointer variant's nil. Index 0 is never allocated to a real node because
// nextNodeIndex starts at 1.
const noChild uint64 = 0

// node is the arena-resident counterpart of cmt.Node: the same three
// invariants (BST on Key, max-heap on Priority, Merkle commitment in Hash),
// but children are referenced by table index rather than pointer.
type node struct {
	Key      field.Element
	Priority field.Element
	Hash     field.Element

	Left, Right uint64
}

// Storage is the persistent backing described in spec.md §4.7 / §6: a root
// index, a monotonically-allocated next-index counter, the node table
// itself, and a free list of reclaimed indices. Use New to obtain an empty
// arena; the zero value has no node table and cannot accept inserts.
type Storage struct {
	rootIndex     uint64
	nextNodeIndex uint64
	nodes         map[uint64]node

	deletedHead uint64
	deleted     map[uint64]uint64
}

// New returns an empty arena-backed tree.
func New() *Storage {
	return &Storage{
		nextNodeIndex: 1,
		nodes:         make(map[uint64]node),
		deleted:       make(map[uint64]uint64),
	}
}

// alloc reserves an index for a new node, preferring a reclaimed slot from
// the free list over growing the table, so the backing map stays dense
// across churn (spec §4.7).
func (s *Storage) alloc(key field.Element) uint64 {
	var idx uint64
	if s.deletedHead != noChild {
		idx = s.deletedHead
		s.deletedHead = s.deleted[idx]
		delete(s.deleted, idx)
		log.Debug("arena: reused freed index", "index", idx, "key", key)
	} else {
		idx = s.nextNodeIndex
		s.nextNodeIndex++
		log.Debug("arena: allocated fresh index", "index", idx, "key", key)
	}
	s.nodes[idx] = node{Key: key, Priority: field.Priority(key)}
	n := s.nodes[idx]
	n.Hash = s.nodeHashAt(idx)
	s.nodes[idx] = n
	return idx
}

// free reclaims idx onto the free list. The reclaimed slot is deleted from
// the live table outright (not merely unlinked) so a stale Left/Right in it
// can never be read back after reuse (spec §5's "clear the reused slot's
// backward pointer on pop").
func (s *Storage) free(idx uint64) {
	delete(s.nodes, idx)
	s.deleted[idx] = s.deletedHead
	s.deletedHead = idx
	log.Debug("arena: freed index", "index", idx)
}

// hashAt returns the committed hash of the subtree rooted at idx, or the
// empty sentinel for noChild.
func (s *Storage) hashAt(idx uint64) field.Element {
	if idx == noChild {
		return field.Zero()
	}
	return s.nodes[idx].Hash
}

// nodeHashAt recomputes node_hash for the node currently stored at idx from
// its key and its children's current hashes.
func (s *Storage) nodeHashAt(idx uint64) field.Element {
	n := s.nodes[idx]
	return field.NodeHash(n.Key, s.hashAt(n.Left), s.hashAt(n.Right))
}

// refresh recomputes and stores idx's hash from its current children.
func (s *Storage) refresh(idx uint64) {
	n := s.nodes[idx]
	n.Hash = s.nodeHashAt(idx)
	s.nodes[idx] = n
}

// RootHash returns the Merkle commitment of the whole arena, or the empty
// sentinel when it holds no nodes.
func (s *Storage) RootHash() field.Element {
	return s.hashAt(s.rootIndex)
}

// Search reports whether key is present.
func (s *Storage) Search(key field.Element) bool {
	idx := s.rootIndex
	for idx != noChild {
		n := s.nodes[idx]
		switch {
		case key.Less(n.Key):
			idx = n.Left
		case n.Key.Less(key):
			idx = n.Right
		default:
			return true
		}
	}
	return false
}

// Insert adds key to the arena. Like the transient tree, this is total and
// does not deduplicate: inserting an already-present key allocates a second,
// independent node.
func (s *Storage) Insert(key field.Element) {
	s.rootIndex = s.insert(s.rootIndex, key)
}

// insert mirrors cmt.insert exactly, but over indices: descend by key,
// allocate on the nil slot found, then on the way back up refresh hashes and
// restore the heap property with at most one rotation per level.
func (s *Storage) insert(idx uint64, key field.Element) uint64 {
	if idx == noChild {
		return s.alloc(key)
	}

	n := s.nodes[idx]
	if key.Less(n.Key) {
		n.Left = s.insert(n.Left, key)
		s.nodes[idx] = n
		s.refresh(idx)
		if s.nodes[idx].Priority.Less(s.nodes[n.Left].Priority) {
			idx = s.rotateRight(idx)
		}
	} else {
		n.Right = s.insert(n.Right, key)
		s.nodes[idx] = n
		s.refresh(idx)
		if s.nodes[idx].Priority.Less(s.nodes[n.Right].Priority) {
			idx = s.rotateLeft(idx)
		}
	}
	return idx
}

// Remove deletes one node with the given key, if present, reporting whether
// it found one. Its backing slot is returned to the free list.
func (s *Storage) Remove(key field.Element) bool {
	newRoot, removed := s.remove(s.rootIndex, key)
	s.rootIndex = newRoot
	return removed
}

func (s *Storage) remove(idx uint64, key field.Element) (uint64, bool) {
	if idx == noChild {
		return noChild, false
	}

	n := s.nodes[idx]
	switch {
	case key.Less(n.Key):
		child, ok := s.remove(n.Left, key)
		if !ok {
			return idx, false
		}
		n.Left = child
		s.nodes[idx] = n
		s.refresh(idx)
		return idx, true

	case n.Key.Less(key):
		child, ok := s.remove(n.Right, key)
		if !ok {
			return idx, false
		}
		n.Right = child
		s.nodes[idx] = n
		s.refresh(idx)
		return idx, true

	default:
		return s.removeHere(idx), true
	}
}

// removeHere removes the node at idx itself, which is known to hold the
// target key, freeing its slot once it has no children left to rotate down.
func (s *Storage) removeHere(idx uint64) uint64 {
	n := s.nodes[idx]
	switch {
	case n.Left == noChild && n.Right == noChild:
		s.free(idx)
		return noChild
	case n.Left == noChild:
		s.free(idx)
		return n.Right
	case n.Right == noChild:
		s.free(idx)
		return n.Left
	default:
		right, left := s.nodes[n.Right], s.nodes[n.Left]
		if right.Priority.Less(left.Priority) {
			idx = s.rotateRight(idx)
			n = s.nodes[idx]
			n.Right = s.removeHere(n.Right)
			s.nodes[idx] = n
			s.refresh(idx)
			return idx
		}
		idx = s.rotateLeft(idx)
		n = s.nodes[idx]
		n.Left = s.removeHere(n.Left)
		s.nodes[idx] = n
		s.refresh(idx)
		return idx
	}
}

// errMissingChild mirrors cmt's caller-bug panic: rotating a node lacking
// the child the rotation pivots on is a programming error, never something
// the engine triggers on its own since it only rotates on a heap violation
// against a child it has already confirmed exists.
var errMissingChild = fmt.Errorf("arena: rotation requires the pivot child to be present")

// rotateRight is the index-addressed twin of cmt.rotateRight.
func (s *Storage) rotateRight(xIdx uint64) uint64 {
	x := s.nodes[xIdx]
	if x.Left == noChild {
		panic(errMissingChild)
	}
	yIdx := x.Left
	y := s.nodes[yIdx]

	x.Left = y.Right
	y.Right = xIdx
	s.nodes[xIdx] = x
	s.nodes[yIdx] = y

	s.refresh(xIdx)
	s.refresh(yIdx)
	return yIdx
}

// rotateLeft is the index-addressed twin of cmt.rotateLeft.
func (s *Storage) rotateLeft(xIdx uint64) uint64 {
	x := s.nodes[xIdx]
	if x.Right == noChild {
		panic(errMissingChild)
	}
	yIdx := x.Right
	y := s.nodes[yIdx]

	x.Right = y.Left
	y.Left = xIdx
	s.nodes[xIdx] = x
	s.nodes[yIdx] = y

	s.refresh(xIdx)
	s.refresh(yIdx)
	return yIdx
}

func (s *Storage) String() string {
	return fmt.Sprintf("arena.Storage{root: %d, live: %d, nextIndex: %d}", s.rootIndex, len(s.nodes), s.nextNodeIndex)
}
