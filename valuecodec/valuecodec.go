// Package valuecodec deterministically encodes arbitrary leaf values to
// bytes for hashing. Distinct values must map to distinct byte sequences;
// this encoding is part of the container's hashing contract, not an
// internal detail (spec C2).
package valuecodec

import (
	"encoding/hex"
	"fmt"
)

// Encode produces a deterministic UTF-8 byte representation of v, tagged
// with v's dynamic type so that values of different Go types never
// collide on the same textual form (e.g. int64(5) and the string "5"
// would otherwise both render as "5").
func Encode(v any) []byte {
	return []byte(fmt.Sprintf("%T|%s", v, render(v)))
}

func render(v any) string {
	switch x := v.(type) {
	case nil:
		return "<nil>"
	case []byte:
		return hex.EncodeToString(x)
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprintf("%v", x)
	}
}
