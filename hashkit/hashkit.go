// Package hashkit adapts a named or caller-supplied hash algorithm to the
// single shape every Merkle container needs: digest(bytes) -> bytes.
package hashkit

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"

	"github.com/Badcat330/HashBaseStructs/container"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/blake2s"
	"golang.org/x/crypto/sha3"
	"lukechampine.com/blake3"
)

// HashFunc digests an arbitrary byte slice. Implementations must be pure
// and safe to share across goroutines — the container only ever reads
// through this value, never mutates it.
type HashFunc func([]byte) []byte

// Resolve maps a selector name to its HashFunc. Unknown names return
// container.ErrUnsupportedHash.
func Resolve(name string) (HashFunc, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", container.ErrUnsupportedHash, name)
	}
	return ctor, nil
}

// New resolves the hash constructor argument accepted by every container's
// constructor: either a selector name or an already-built HashFunc (or any
// func([]byte) []byte value). Anything else is container.ErrInvalidHashArg.
func New(arg any) (HashFunc, error) {
	switch v := arg.(type) {
	case string:
		return Resolve(v)
	case HashFunc:
		return v, nil
	case func([]byte) []byte:
		return v, nil
	default:
		return nil, fmt.Errorf("%w: %T", container.ErrInvalidHashArg, arg)
	}
}

var registry = map[string]HashFunc{
	"sha1":      sumFunc(sha1.New),
	"sha224":    sumFunc(sha256.New224),
	"sha256":    sumFunc(sha256.New),
	"sha384":    sumFunc(sha512.New384),
	"sha512":    sumFunc(sha512.New),
	"sha3_224":  sumFunc(sha3.New224),
	"sha3_256":  sumFunc(sha3.New256),
	"sha3_384":  sumFunc(sha3.New384),
	"sha3_512":  sumFunc(sha3.New512),
	"blake2b":   blake2bFunc,
	"blake2s":   blake2sFunc,
	"blake3":    blake3Func,
}

// sumFunc adapts any hash.Hash constructor to a HashFunc.
func sumFunc(newHash func() hash.Hash) HashFunc {
	return func(b []byte) []byte {
		h := newHash()
		h.Write(b)
		return h.Sum(nil)
	}
}

func blake2bFunc(b []byte) []byte {
	sum := blake2b.Sum512(b)
	return sum[:]
}

func blake2sFunc(b []byte) []byte {
	sum := blake2s.Sum256(b)
	return sum[:]
}

func blake3Func(b []byte) []byte {
	sum := blake3.Sum256(b)
	return sum[:]
}
