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

// Command cmtbench times a batch of inserts into a Cartesian Merkle Tree
// built from randomly generated keys, cross-checks the pointer-based engine
// against the arena-backed one on the same key sequence, and verifies one
// sample proof.
package main

import (
	"crypto/rand"
	"flag"
	"math/big"
	"os"
	"runtime/pprof"
	"time"

	cmt "github.com/ametel01/cartesian-merkle-tree"
	"github.com/ametel01/cartesian-merkle-tree/arena"
	"github.com/ametel01/cartesian-merkle-tree/field"
	"github.com/ethereum/go-ethereum/log"
)

func main() {
	n := flag.Int("n", 100000, "number of keys to insert")
	toInsert := flag.Int("insert", 10000, "number of additional keys to insert and time")
	cpuProfile := flag.String("cpuprofile", "", "write a CPU profile to this path")
	flag.Parse()

	log.SetDefault(log.NewLogger(log.NewTerminalHandlerWithLevel(os.Stderr, log.LevelInfo, true)))

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			log.Error("could not create CPU profile", "err", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Error("could not start CPU profile", "err", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	total := *n + *toInsert
	keys := make([]field.Element, total)
	for i := range keys {
		keys[i] = randomKey()
	}

	log.Info("building baseline tree", "keys", *n)
	tr := cmt.New()
	for _, k := range keys[:*n] {
		tr.Insert(k)
	}
	log.Info("baseline tree built", "root", tr.RootHash())

	start := time.Now()
	for _, k := range keys[*n:] {
		tr.Insert(k)
	}
	elapsed := time.Since(start)
	log.Info("timed insert batch", "count", *toInsert, "elapsed", elapsed, "per_op", elapsed/time.Duration(*toInsert))

	log.Info("building arena tree over the same key sequence", "keys", total)
	ar := arena.New()
	for _, k := range keys {
		ar.Insert(k)
	}

	if !tr.RootHash().Equal(ar.RootHash()) {
		log.Error("arena and transient root hashes diverged", "transient", tr.RootHash(), "arena", ar.RootHash())
		os.Exit(1)
	}
	log.Info("arena and transient roots agree", "root", ar.RootHash())

	sampleKey := keys[0]
	proof := tr.Prove(sampleKey)
	ok := cmt.Verify(proof, tr.RootHash(), sampleKey)
	log.Info("sample proof verified", "key", sampleKey, "existence", proof.Existence, "ok", ok)
}

func randomKey() field.Element {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return field.FromBigInt(new(big.Int).SetBytes(buf))
}
