// Package container defines the surface shared by every ordered Merkle
// container in this module (mbt.Tree and mhg.Grid): the sentinel errors
// they raise and the cross-variant equality rule.
package container

import (
	"bytes"
	"errors"
	"reflect"
)

// ErrKeyNotFound is returned by Get/Delete when the key is absent.
var ErrKeyNotFound = errors.New("container: key not found")

// ErrUnsupportedHash is returned when a hash selector name is not one of
// the known algorithms.
var ErrUnsupportedHash = errors.New("container: unsupported hash")

// ErrInvalidHashArg is returned when the hash constructor argument is
// neither a known selector name nor a callable digest function.
var ErrInvalidHashArg = errors.New("container: invalid hash argument")

// RootHasher is implemented by every container variant (mbt.Tree,
// mhg.Grid) so that Eq can compare them without either package importing
// the other.
type RootHasher interface {
	RootHash() []byte
	Len() int
}

// Eq reports whether a and b are the same concrete container variant with
// byte-equal root hashes. A type mismatch (e.g. comparing a Tree to a
// Grid, or containers over different K/V type parameters) returns false
// rather than raising an error — the TypeMismatch case is intentionally
// not an error (spec: "this is intentional").
func Eq(a, b RootHasher) bool {
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	return bytes.Equal(a.RootHash(), b.RootHash())
}
