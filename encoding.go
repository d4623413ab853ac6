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
	"errors"
	"io"

	"github.com/ametel01/cartesian-merkle-tree/field"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
)

// ErrInvalidProofEncoding is returned by DecodeRLP when the wire bytes
// don't describe a well-formed Proof (spec §6's wire format).
var ErrInvalidProofEncoding = errors.New("cmt: invalid proof encoding")

// wireProof is the RLP-visible shape of a Proof, field-for-field as laid
// out in spec §6: fixed scalars, then an explicit length, then the
// variable-length siblings list. go-ethereum's rlp package self-delimits
// lists, so SiblingsLength is redundant for decoding, but it is kept on
// the wire (and cross-checked against len(Siblings) on decode) because
// it's part of the documented format other implementations serialize
// against.
type wireProof struct {
	Root            common.Hash
	Existence       bool
	Key             common.Hash
	NonExistenceKey common.Hash
	DirectionBits   common.Hash
	SiblingsLength  uint32
	Siblings        []common.Hash
}

// EncodeRLP implements rlp.Encoder.
func (p *Proof) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &wireProof{
		Root:            p.Root.Hash(),
		Existence:       p.Existence,
		Key:             p.Key.Hash(),
		NonExistenceKey: p.NonExistenceKey.Hash(),
		DirectionBits:   p.DirectionBits.Hash(),
		SiblingsLength:  uint32(len(p.Siblings)),
		Siblings:        toHashes(p.Siblings),
	})
}

// DecodeRLP implements rlp.Decoder.
func (p *Proof) DecodeRLP(s *rlp.Stream) error {
	var w wireProof
	if err := s.Decode(&w); err != nil {
		return err
	}
	if int(w.SiblingsLength) != len(w.Siblings) {
		return ErrInvalidProofEncoding
	}

	p.Root = field.FromHash(w.Root)
	p.Existence = w.Existence
	p.Key = field.FromHash(w.Key)
	p.NonExistenceKey = field.FromHash(w.NonExistenceKey)
	p.DirectionBits = field.FromHash(w.DirectionBits)
	p.Siblings = fromHashes(w.Siblings)
	return nil
}

func toHashes(elems []field.Element) []common.Hash {
	out := make([]common.Hash, len(elems))
	for i, e := range elems {
		out[i] = e.Hash()
	}
	return out
}

func fromHashes(hashes []common.Hash) []field.Element {
	out := make([]field.Element, len(hashes))
	for i, h := range hashes {
		out[i] = field.FromHash(h)
	}
	return out
}
