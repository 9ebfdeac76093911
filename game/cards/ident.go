package cards

import "strconv"

// Ident is an opaque identity token. Expand and Interleave walk an implicit
// binary tree (2n and 2n+1), so a host can mint child identities for
// derived visuals without a registry.
type Ident uint64

// NewIdent wraps x as an identity.
func NewIdent(x uint64) Ident {
	return Ident(x)
}

// Expand returns the left child, 2n.
func (i Ident) Expand() Ident {
	return i * 2
}

// Interleave returns the right child, 2n+1.
func (i Ident) Interleave() Ident {
	return i*2 + 1
}

// Descend walks width levels down the tree, taking the right child for each
// set bit of value from most to least significant. Distinct values of the
// same width always land on distinct nodes.
func (i Ident) Descend(value uint64, width int) Ident {
	out := i
	for b := width - 1; b >= 0; b-- {
		if value&(1<<uint(b)) != 0 {
			out = out.Interleave()
		} else {
			out = out.Expand()
		}
	}
	return out
}

// Uint64 returns the underlying integer.
func (i Ident) Uint64() uint64 {
	return uint64(i)
}

func (i Ident) String() string {
	return strconv.FormatUint(uint64(i), 10)
}
