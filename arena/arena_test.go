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
	"testing"

	cmt "github.com/ametel01/cartesian-merkle-tree"
	"github.com/ametel01/cartesian-merkle-tree/field"
)

func keys(ints ...uint64) []field.Element {
	out := make([]field.Element, len(ints))
	for i, n := range ints {
		out[i] = field.FromUint64(n)
	}
	return out
}

// TestArenaMatchesTransientRootHash is the core bit-identical claim of spec
// §4.7: the same key sequence, inserted into both backings, must commit to
// the same root hash.
func TestArenaMatchesTransientRootHash(t *testing.T) {
	seq := []uint64{50, 30, 70, 10, 40, 60, 80, 35}

	tr := cmt.New()
	ar := New()
	for _, k := range seq {
		tr.Insert(field.FromUint64(k))
		ar.Insert(field.FromUint64(k))
	}

	if !tr.RootHash().Equal(ar.RootHash()) {
		t.Fatalf("arena root hash diverged from transient: %s != %s", ar.RootHash(), tr.RootHash())
	}
}

func TestArenaSearchAndRemove(t *testing.T) {
	ar := New()
	for _, k := range keys(1, 2, 3, 4, 5) {
		ar.Insert(k)
	}
	for _, k := range []uint64{1, 2, 3, 4, 5} {
		if !ar.Search(field.FromUint64(k)) {
			t.Fatalf("expected %d present", k)
		}
	}
	if ar.Search(field.FromUint64(99)) {
		t.Fatal("99 should not be present")
	}

	if !ar.Remove(field.FromUint64(3)) {
		t.Fatal("Remove(3) should report true")
	}
	if ar.Search(field.FromUint64(3)) {
		t.Fatal("3 should be gone")
	}
	if ar.Remove(field.FromUint64(3)) {
		t.Fatal("second Remove(3) should report false")
	}
}

// TestArenaReclaimsFreedIndices exercises the free-list path directly:
// after removing every node, the next insert must reuse a freed index
// rather than growing nextNodeIndex unboundedly.
func TestArenaReclaimsFreedIndices(t *testing.T) {
	ar := New()
	for _, k := range keys(1, 2, 3) {
		ar.Insert(k)
	}
	highWaterMark := ar.nextNodeIndex

	for _, k := range []uint64{1, 2, 3} {
		ar.Remove(field.FromUint64(k))
	}
	if ar.deletedHead == noChild {
		t.Fatal("expected the free list to hold reclaimed indices after removing every node")
	}

	ar.Insert(field.FromUint64(4))
	if ar.nextNodeIndex > highWaterMark {
		t.Fatalf("expected the new node to reuse a freed index, but nextNodeIndex grew to %d (was %d)", ar.nextNodeIndex, highWaterMark)
	}
}

func TestArenaProveAndVerify(t *testing.T) {
	ar := New()
	for _, k := range keys(10, 20, 30, 40, 50) {
		ar.Insert(k)
	}

	for _, k := range []uint64{10, 30, 50} {
		proof := ar.Prove(field.FromUint64(k))
		if !proof.Existence {
			t.Fatalf("key %d should produce an existence proof", k)
		}
		if !cmt.Verify(proof, ar.RootHash(), field.FromUint64(k)) {
			t.Fatalf("existence proof for %d should verify", k)
		}
	}

	nonExistent := ar.Prove(field.FromUint64(25))
	if nonExistent.Existence {
		t.Fatal("25 should not exist")
	}
	if !cmt.Verify(nonExistent, ar.RootHash(), field.FromUint64(25)) {
		t.Fatal("non-existence proof should verify")
	}
}

func TestArenaEmpty(t *testing.T) {
	ar := New()
	if !ar.RootHash().IsZero() {
		t.Fatal("empty arena root hash should be zero")
	}
	if ar.Search(field.FromUint64(1)) {
		t.Fatal("search on empty arena should be false")
	}
	if ar.Remove(field.FromUint64(1)) {
		t.Fatal("remove on empty arena should be false")
	}
	proof := ar.Prove(field.FromUint64(1))
	if proof.Existence || len(proof.Siblings) != 0 {
		t.Fatal("empty arena proof should be a siblings-free non-existence proof")
	}
}

func TestArenaDuplicateInsertAllocatesSecondNode(t *testing.T) {
	ar := New()
	ar.Insert(field.FromUint64(5))
	before := len(ar.nodes)
	ar.Insert(field.FromUint64(5))
	after := len(ar.nodes)

	if after != before+1 {
		t.Fatalf("expected a duplicate insert to allocate a second node: %d -> %d", before, after)
	}
	if !ar.Remove(field.FromUint64(5)) || !ar.Search(field.FromUint64(5)) {
		t.Fatal("one occurrence of the duplicated key should remain after removing the other")
	}
}

func TestStorageString(t *testing.T) {
	ar := New()
	if ar.String() == "" {
		t.Fatal("String() should not be empty even for an empty arena")
	}
}
