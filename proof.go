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
	"context"
	"errors"

	"github.com/ametel01/cartesian-merkle-tree/field"
	"golang.org/x/sync/errgroup"
)

// errMalformedProof is the caller-bug panic for a Proof whose Siblings
// shape can't possibly have come out of Prove: an odd length, or a
// nonzero length below 2 (spec §4.6 step 3's precondition).
var errMalformedProof = errors.New("cmt: malformed proof: siblings length must be 0 or an even number >= 2")

// Proof is a succinct membership or non-membership witness for a single
// key against a single root hash. Siblings is laid out
// [leaf_left_h, leaf_right_h, anc1_key, anc1_sib_h, anc2_key, anc2_sib_h, ...],
// leaf-side first. Proofs reveal sibling keys by design; they are not a
// privacy mechanism.
type Proof struct {
	Root            field.Element
	Existence       bool
	Key             field.Element
	NonExistenceKey field.Element // zero unless this is a non-existence proof
	DirectionBits   field.Element
	Siblings        []field.Element
}

// Prove builds a proof for key against the tree's current root hash. For
// an empty tree it returns a non-existence proof with no siblings and
// root 0 (spec §4.5, empty-tree case).
func (t *Tree) Prove(key field.Element) *Proof {
	root := t.RootHash()
	if t.root == nil {
		return &Proof{Root: root, Existence: false, Key: key, NonExistenceKey: field.Zero()}
	}

	siblings, dirBits, existence, nonExistenceKey := buildProof(t.root, key)
	return &Proof{
		Root:            root,
		Existence:       existence,
		Key:             key,
		NonExistenceKey: nonExistenceKey,
		DirectionBits:   dirBits,
		Siblings:        siblings,
	}
}

// buildProof performs the single descent described in spec §4.5. It
// returns the proof's sibling sequence, its packed direction word, whether
// key was found, and (for non-existence) the key of the vantage node whose
// required child was missing.
func buildProof(n *Node, key field.Element) (siblings []field.Element, dirBits field.Element, existence bool, nonExistenceKey field.Element) {
	switch {
	case n.Key.Equal(key):
		lh, rh := hashOf(n.Left), hashOf(n.Right)
		return []field.Element{lh, rh}, field.Zero().PushBit(field.Swapped(lh, rh)), true, field.Zero()

	case key.Less(n.Key):
		if n.Left == nil {
			lh, rh := hashOf(n.Left), hashOf(n.Right)
			return []field.Element{lh, rh}, field.Zero().PushBit(field.Swapped(lh, rh)), false, n.Key
		}
		childSiblings, childBits, existence, nonExistenceKey := buildProof(n.Left, key)
		ascending, sibling := n.Left.Hash(), hashOf(n.Right)
		siblings = append(childSiblings, n.Key, sibling)
		dirBits = childBits.PushBit(field.Swapped(ascending, sibling))
		return siblings, dirBits, existence, nonExistenceKey

	default: // n.Key < key
		if n.Right == nil {
			lh, rh := hashOf(n.Left), hashOf(n.Right)
			return []field.Element{lh, rh}, field.Zero().PushBit(field.Swapped(lh, rh)), false, n.Key
		}
		childSiblings, childBits, existence, nonExistenceKey := buildProof(n.Right, key)
		ascending, sibling := n.Right.Hash(), hashOf(n.Left)
		siblings = append(childSiblings, n.Key, sibling)
		dirBits = childBits.PushBit(field.Swapped(ascending, sibling))
		return siblings, dirBits, existence, nonExistenceKey
	}
}

// Verify reconstructs the root hash implied by proof and reports whether
// it matches expectedRoot for the given key. It panics on a malformed
// proof shape (spec §7); any other rejection is reported as a plain
// `false`, never a panic.
func Verify(proof *Proof, expectedRoot, key field.Element) bool {
	if !proof.Root.Equal(expectedRoot) {
		return false
	}

	if len(proof.Siblings) == 0 {
		return !proof.Existence
	}
	if len(proof.Siblings) < 2 || len(proof.Siblings)%2 != 0 {
		panic(errMalformedProof)
	}

	leafKey := proof.NonExistenceKey
	if proof.Existence {
		leafKey = key
	}
	h := field.NodeHash(leafKey, proof.Siblings[0], proof.Siblings[1])

	bits := proof.DirectionBits
	for i := 2; i < len(proof.Siblings); i += 2 {
		ancestorKey, siblingHash := proof.Siblings[i], proof.Siblings[i+1]
		var bit bool
		bit, bits = bits.PopBit()
		if bit {
			h = field.NodeHash(ancestorKey, siblingHash, h)
		} else {
			h = field.NodeHash(ancestorKey, h, siblingHash)
		}
	}

	return h.Equal(expectedRoot)
}

// VerifyRequest bundles the three arguments Verify needs, for batched
// verification.
type VerifyRequest struct {
	Proof        *Proof
	ExpectedRoot field.Element
	Key          field.Element
}

// BatchVerify verifies many independent proofs concurrently. This is safe
// precisely because Verify is a pure function with no shared mutable
// state — it never touches a Tree — unlike the engine's mutating
// operations, which the data model requires callers to serialize
// themselves (spec §5). The result slice is indexed the same as reqs.
func BatchVerify(ctx context.Context, reqs []VerifyRequest) []bool {
	results := make([]bool, len(reqs))
	g, _ := errgroup.WithContext(ctx)
	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			results[i] = Verify(req.Proof, req.ExpectedRoot, req.Key)
			return nil
		})
	}
	_ = g.Wait()
	return results
}
