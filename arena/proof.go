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

package arena

import (
	cmt "github.com/ametel01/cartesian-merkle-tree"
	"github.com/ametel01/cartesian-merkle-tree/field"
)

// Prove builds a membership or non-membership proof for key against the
// arena's current root, in the same wire shape the transient tree produces
// (spec §4.7: "root and hash semantics are bit-identical to the transient
// variant"). Verification is shared, not reimplemented: cmt.Verify is a pure
// function of the proof alone and has no notion of which backing produced
// it.
func (s *Storage) Prove(key field.Element) *cmt.Proof {
	root := s.RootHash()
	if s.rootIndex == noChild {
		return &cmt.Proof{Root: root, Existence: false, Key: key, NonExistenceKey: field.Zero()}
	}

	siblings, dirBits, existence, nonExistenceKey := s.buildProof(s.rootIndex, key)
	return &cmt.Proof{
		Root:            root,
		Existence:       existence,
		Key:             key,
		NonExistenceKey: nonExistenceKey,
		DirectionBits:   dirBits,
		Siblings:        siblings,
	}
}

// buildProof is the index-addressed twin of the transient package's
// buildProof, descending the same way and producing the same sibling
// layout.
func (s *Storage) buildProof(idx uint64, key field.Element) (siblings []field.Element, dirBits field.Element, existence bool, nonExistenceKey field.Element) {
	n := s.nodes[idx]
	switch {
	case n.Key.Equal(key):
		lh, rh := s.hashAt(n.Left), s.hashAt(n.Right)
		return []field.Element{lh, rh}, field.Zero().PushBit(field.Swapped(lh, rh)), true, field.Zero()

	case key.Less(n.Key):
		if n.Left == noChild {
			lh, rh := s.hashAt(n.Left), s.hashAt(n.Right)
			return []field.Element{lh, rh}, field.Zero().PushBit(field.Swapped(lh, rh)), false, n.Key
		}
		childSiblings, childBits, existence, nonExistenceKey := s.buildProof(n.Left, key)
		ascending, sibling := s.hashAt(n.Left), s.hashAt(n.Right)
		siblings = append(childSiblings, n.Key, sibling)
		dirBits = childBits.PushBit(field.Swapped(ascending, sibling))
		return siblings, dirBits, existence, nonExistenceKey

	default:
		if n.Right == noChild {
			lh, rh := s.hashAt(n.Left), s.hashAt(n.Right)
			return []field.Element{lh, rh}, field.Zero().PushBit(field.Swapped(lh, rh)), false, n.Key
		}
		childSiblings, childBits, existence, nonExistenceKey := s.buildProof(n.Right, key)
		ascending, sibling := s.hashAt(n.Right), s.hashAt(n.Left)
		siblings = append(childSiblings, n.Key, sibling)
		dirBits = childBits.PushBit(field.Swapped(ascending, sibling))
		return siblings, dirBits, existence, nonExistenceKey
	}
}
