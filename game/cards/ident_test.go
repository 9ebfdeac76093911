package cards

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdent_Recurrence(t *testing.T) {
	id := NewIdent(5)

	assert.Equal(t, NewIdent(10), id.Expand())
	assert.Equal(t, NewIdent(11), id.Interleave())
	assert.Equal(t, uint64(22), id.Interleave().Expand().Uint64())
	assert.Equal(t, "5", id.String())
}

func TestIdent_DescendIsCollisionFree(t *testing.T) {
	root := NewIdent(1)
	seen := make(map[Ident]uint64)

	for v := uint64(0); v < 256; v++ {
		id := root.Descend(v, 8)
		if prev, ok := seen[id]; ok {
			t.Fatalf("values %d and %d share ident %v", prev, v, id)
		}
		seen[id] = v
	}

	// width 8 below root 1 lands in [256, 511]
	assert.Equal(t, NewIdent(256), root.Descend(0, 8))
	assert.Equal(t, NewIdent(511), root.Descend(255, 8))
}
