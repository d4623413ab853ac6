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

// Package field implements the prime-field element type `F` that keys,
// priorities, hashes and direction words of a Cartesian Merkle Tree are
// drawn from, and the Poseidon-based hasher used to derive priorities and
// node hashes from it.
package field

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/iden3/go-iden3-crypto/constants"
	"github.com/iden3/go-iden3-crypto/poseidon"
	"github.com/iden3/go-iden3-crypto/utils"
)

// Element is a canonicalized, nonnegative value modulo constants.Q, the
// BabyJubJub scalar field prime that go-iden3-crypto's Poseidon permutation
// is defined over. Every key, priority, node hash and direction word in
// this package is an Element, so that a single `<` (Cmp) is used
// everywhere the data model calls for magnitude comparison.
type Element struct {
	v big.Int
}

// Zero is the distinguished sentinel for "hash of an empty subtree". It
// never coincides with the hash of a real node with overwhelming
// probability (Poseidon is collision resistant and node_hash never outputs
// exactly 0 except by negligible chance).
func Zero() Element {
	return Element{}
}

// IsZero reports whether e is the empty-subtree sentinel.
func (e Element) IsZero() bool {
	return e.v.Sign() == 0
}

// FromUint64 builds an Element from a small nonnegative integer, useful for
// tests and for keys chosen by callers that don't otherwise care about the
// field's internal representation.
func FromUint64(n uint64) Element {
	var e Element
	e.v.SetUint64(n)
	return e
}

// FromBigInt reduces bi modulo Q and wraps the result. Reduction is total:
// insertion never rejects a key (spec's "insertion is total over F"), so
// out-of-range inputs are silently canonicalized rather than rejected. Use
// InField first if a caller wants to reject rather than wrap.
func FromBigInt(bi *big.Int) Element {
	var e Element
	e.v.Mod(bi, constants.Q)
	return e
}

// InField reports whether bi is already a canonical representative, i.e.
// FromBigInt(bi) would be a no-op reduction. Mirrors the validate-before-use
// check other field-element libraries in the ecosystem run on caller input
// before wrapping it.
func InField(bi *big.Int) bool {
	return utils.CheckBigIntInField(bi)
}

// FromBytes interprets data as a big-endian integer and reduces it modulo Q.
func FromBytes(data []byte) Element {
	return FromBigInt(new(big.Int).SetBytes(data))
}

// BigInt returns the canonical representative as a new *big.Int; mutating
// the result does not affect e.
func (e Element) BigInt() *big.Int {
	return new(big.Int).Set(&e.v)
}

// Bytes returns the big-endian, 32-byte canonical encoding of e.
func (e Element) Bytes() [32]byte {
	var out [32]byte
	e.v.FillBytes(out[:])
	return out
}

// Hash reinterprets e's canonical encoding as a common.Hash, the form used
// by the RLP wire codec and by debug output.
func (e Element) Hash() common.Hash {
	return common.Hash(e.Bytes())
}

// FromHash builds an Element from a 32-byte common.Hash.
func FromHash(h common.Hash) Element {
	return FromBytes(h[:])
}

// Cmp compares the raw magnitude of the canonical representatives of e and
// other. It is the single `<` used throughout the tree, the proof builder
// and the proof verifier for BST ordering, heap ordering, and sibling
// comparisons alike (spec data-model invariant: one consistent order,
// never field-arithmetic order).
func (e Element) Cmp(other Element) int {
	return e.v.Cmp(&other.v)
}

// Less reports whether e < other by magnitude.
func (e Element) Less(other Element) bool {
	return e.Cmp(other) < 0
}

// Equal reports whether e == other.
func (e Element) Equal(other Element) bool {
	return e.Cmp(other) == 0
}

// Min and Max order a pair of Elements by magnitude, used by node_hash's
// canonical (min, max) reordering of its two hash arguments.
func Min(a, b Element) Element {
	if b.Less(a) {
		return b
	}
	return a
}

func Max(a, b Element) Element {
	if b.Less(a) {
		return a
	}
	return b
}

func (e Element) String() string {
	return fmt.Sprintf("%#x", e.v.Bytes())
}

// Priority computes H_prio(key) = H(key), the field-element priority that
// makes the tree's shape a deterministic, collision-resistant function of
// its key set.
func Priority(key Element) Element {
	out, err := poseidon.HashFixed([]*big.Int{key.BigInt()})
	if err != nil {
		// HashFixed only fails on out-of-field inputs or unsupported
		// arity; key is already canonicalized to < Q and arity 1 is
		// always supported, so this is unreachable.
		panic(fmt.Sprintf("field: priority hash failed: %v", err))
	}
	return FromBigInt(out)
}

// NodeHash computes node_hash(key, lh, rh) = H(key, min(lh,rh), max(lh,rh)).
// The symmetric reordering of the two hash arguments is what makes a
// node's hash independent of which side its (at most one, post-rotation)
// child hangs from. The root hash still depends on the tree's shape; it is
// independent of insertion order because the key set, through the
// key-derived priorities, fixes that shape.
func NodeHash(key, lh, rh Element) Element {
	a, b := Min(lh, rh), Max(lh, rh)
	out, err := poseidon.HashFixed([]*big.Int{key.BigInt(), a.BigInt(), b.BigInt()})
	if err != nil {
		panic(fmt.Sprintf("field: node hash failed: %v", err))
	}
	return FromBigInt(out)
}

// PushBit shifts e left by one bit and sets the new low bit to 1 iff set is
// true. Used by the proof builder to accumulate direction_bits level by
// level, in traversal order, per spec §4.5.
func (e Element) PushBit(set bool) Element {
	var out Element
	out.v.Lsh(&e.v, 1)
	if set {
		out.v.SetBit(&out.v, 0, 1)
	}
	return out
}

// PopBit reads the low bit of e and returns the remaining bits shifted
// right by one. It undoes PushBit, so bits come back out in the reverse of
// the order they were pushed: the most recently pushed bit first.
func (e Element) PopBit() (bit bool, rest Element) {
	bit = e.v.Bit(0) == 1
	rest.v.Rsh(&e.v, 1)
	return bit, rest
}

// Swapped reports whether ordering lh and rh into (min, max) swapped them,
// i.e. whether rh < lh. The proof builder records one such bit per
// recorded pair, leaf-context pair included. The verifier pops them from
// the low end, so it reads the ancestor bits in the reverse of the order
// they were pushed and never reads the leaf-context bit; because NodeHash
// is symmetric, the bit it uses at a level does not change the result.
func Swapped(lh, rh Element) bool {
	return rh.Less(lh)
}
