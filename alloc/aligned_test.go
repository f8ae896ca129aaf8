package alloc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAlignedReturnsAlignedAddresses(t *testing.T) {
	for _, alignment := range []int{1, 2, 3, 4, 8, 16, 24, 64, 100, 256, 4096} {
		for _, n := range []int{1, 7, 8, 63, 1024} {
			counted := NewCountedDefault()
			a := NewAligned(counted, alignment)

			b := Allocate(n, a)
			require.False(t, b.IsZero(), "alignment=%d n=%d", alignment, n)
			require.Zero(t, b.Addr()%uintptr(alignment), "alignment=%d n=%d", alignment, n)
			require.Equal(t, n, b.Len())
			require.Equal(t, n+alignment+WordSize, counted.Current())

			// User bytes must not overlap the back-pointer.
			for i := range b.Bytes() {
				b.Bytes()[i] = 0xff
			}

			Release(b, a)
			require.Zero(t, counted.Current(), "alignment=%d n=%d", alignment, n)
		}
	}
}

func TestAlignedStoresParentAddressBeforeBlock(t *testing.T) {
	var parentBlock Block
	parent := Funcs{
		AllocateFunc: func(n int) Block {
			parentBlock = Default().Allocate(n)
			return parentBlock
		},
	}
	a := NewAligned(parent, 32)
	b := Allocate(100, a)
	require.False(t, b.IsZero())

	stored, ok := b.word(-WordSize)
	require.True(t, ok)
	require.Equal(t, uint64(parentBlock.Addr()), stored)
	require.Equal(t, 100+32+WordSize, parentBlock.Len())
	require.GreaterOrEqual(t, b.Addr(), parentBlock.Addr()+WordSize)
	require.LessOrEqual(t, b.Addr()+100, parentBlock.Addr()+uintptr(parentBlock.Len()))
}

func TestAlignedZeroForwardsVerbatim(t *testing.T) {
	counted := NewCountedDefault()
	a := NewAligned(counted, 0)

	b := Allocate(128, a)
	require.Equal(t, 128, counted.Current())
	Release(b, a)
	require.Zero(t, counted.Current())
}

func TestAlignedPropagatesParentFailure(t *testing.T) {
	require.True(t, Allocate(1024, NewAligned(AlwaysFail(), 16)).IsZero())
	require.True(t, Allocate(1024, NewAligned(nil, 16)).IsZero())
}

func TestAlignedOverflowFails(t *testing.T) {
	counted := NewCountedDefault()
	a := NewAligned(counted, 64)
	require.True(t, Allocate(math.MaxInt-10, a).IsZero())
	require.Zero(t, counted.Peak())
}

func TestAlignedIgnoresForeignBlocks(t *testing.T) {
	counted := NewCountedDefault()
	a := NewAligned(counted, 16)
	keep := Allocate(32, a)

	Release(Wrap(make([]byte, 64)).Sub(16, 8), a)
	Release(Wrap(make([]byte, 4)), a)
	require.Equal(t, 32+16+WordSize, counted.Current())

	Release(keep, a)
	require.Zero(t, counted.Current())
}

func TestAlignedAccessors(t *testing.T) {
	a := NewAlignedDefault(64)
	require.Equal(t, Default(), a.Parent())
	require.Equal(t, 64, a.Alignment())
	require.Zero(t, NewAligned(Default(), -8).Alignment())
}
