// Package vector serializes embeddings into the pgvector text literal.
package vector

import (
	"strconv"
	"strings"
)

// Format renders an embedding as a pgvector literal, e.g. [0.1,0.2,0.3].
// The empty vector yields "[]". Ordering is preserved and each element
// uses the shortest representation that round-trips the float32 exactly,
// so the mapping is referentially transparent: equal inputs always
// produce byte-identical literals.
func Format(v []float32) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, f := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(f), 'g', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}
