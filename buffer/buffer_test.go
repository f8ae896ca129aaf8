package buffer

import (
	"encoding/binary"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/memkit/alloc"
)

// limited fails any single allocation larger than limit bytes.
func limited(limit int) alloc.Allocator {
	return alloc.Funcs{
		AllocateFunc: func(n int) alloc.Block {
			if n > limit {
				return alloc.Block{}
			}
			return alloc.Allocate(n, alloc.Default())
		},
		ReleaseFunc: func(b alloc.Block) { alloc.Release(b, alloc.Default()) },
	}
}

func initCounted(t *testing.T) (*Buffer, *alloc.Counted) {
	t.Helper()
	counted := alloc.NewCountedDefault()
	var b Buffer
	b.Init(counted)
	return &b, counted
}

func TestNewFailures(t *testing.T) {
	b, err := New(nil)
	require.Nil(t, b)
	require.ErrorIs(t, err, alloc.ErrNilAllocator)

	b, err = New(alloc.AlwaysFail())
	require.Nil(t, b)
	require.ErrorIs(t, err, alloc.ErrNoMemory)
}

func TestNewInitialisesEmptyBuffer(t *testing.T) {
	b, err := New(alloc.Default())
	require.NoError(t, err)
	require.Zero(t, b.Capacity())
	require.Zero(t, b.DataLength())
	require.Nil(t, b.Bytes())
	b.Delete()
}

func TestDeleteReleasesAllMemory(t *testing.T) {
	counted := alloc.NewCountedDefault()
	b, err := New(counted)
	require.NoError(t, err)
	require.Equal(t, handleSize, counted.Current())

	require.Equal(t, 4, b.Append([]byte{1, 2, 3, 4}))
	b.Delete()
	require.Zero(t, counted.Current())

	// Deleting a cleaned-up buffer is fine too.
	b, err = New(counted)
	require.NoError(t, err)
	b.Grow(64)
	b.Cleanup()
	b.Delete()
	require.Zero(t, counted.Current())
}

func TestNilBufferIsInert(t *testing.T) {
	var b *Buffer
	b.Init(alloc.Default())
	b.Cleanup()
	b.Delete()
	b.Rewind()
	require.Zero(t, b.Grow(256))
	require.Zero(t, b.Capacity())
	require.Zero(t, b.DataLength())
	require.Nil(t, b.Bytes())
	require.Nil(t, b.Reserve(1024))
	require.Zero(t, b.Append([]byte{1}))
}

func TestInitWithNilAllocator(t *testing.T) {
	var b Buffer
	b.Init(nil)
	require.Zero(t, b.Grow(64))
	require.Nil(t, b.Reserve(8))
	require.Zero(t, b.Capacity())
}

func TestInitWithFailingAllocator(t *testing.T) {
	var b Buffer
	b.Init(alloc.AlwaysFail())
	require.Zero(t, b.Grow(64))
	require.Zero(t, b.Capacity())
	require.Zero(t, b.Append([]byte{1, 2}))
}

func TestCleanupReleasesStorageAndIsIdempotent(t *testing.T) {
	b, counted := initCounted(t)
	b.Grow(512)
	require.Equal(t, 512, counted.Current())

	b.Cleanup()
	require.Zero(t, counted.Current())
	b.Cleanup()
	require.Zero(t, counted.Current())
	require.Zero(t, b.Capacity())
}

func TestGrow(t *testing.T) {
	b, counted := initCounted(t)
	defer b.Cleanup()

	require.Zero(t, b.Grow(0), "grow(0) on empty buffer")
	require.Equal(t, 256, b.Grow(256))
	require.Equal(t, 256, counted.Current())

	require.Equal(t, 256, b.Grow(0))
	require.Equal(t, 256, counted.Current())
	require.Equal(t, 256, counted.Peak())

	require.Equal(t, 384, b.Grow(128))
	require.Equal(t, 384, b.Capacity())
	require.Equal(t, 384, counted.Current())
}

func TestGrowPreservesData(t *testing.T) {
	b, _ := initCounted(t)
	defer b.Cleanup()

	b.Append([]byte("hello"))
	b.Grow(1024)
	require.Equal(t, "hello", string(b.Bytes()))
	require.Equal(t, 5, b.DataLength())
}

func TestGrowFailureLeavesBufferUnchanged(t *testing.T) {
	var b Buffer
	b.Init(limited(64))
	defer b.Cleanup()

	require.Equal(t, 32, b.Append(make([]byte, 32)))
	before := b

	require.Zero(t, b.Grow(64))
	require.Equal(t, before, b)
	require.Equal(t, 32, b.DataLength())

	require.Equal(t, 32, b.Grow(math.MaxInt), "overflow returns the unchanged capacity")
}

func TestGrowAfterCleanupReinitialises(t *testing.T) {
	b, counted := initCounted(t)
	b.Grow(256)
	b.Cleanup()

	require.Equal(t, 128, b.Grow(128))
	b.Cleanup()
	require.Zero(t, counted.Current())
}

func TestDataLengthCountsAppendedBytes(t *testing.T) {
	b, _ := initCounted(t)
	defer b.Cleanup()

	data := make([]byte, 4)
	for i := 0; i < 3; i++ {
		require.Equal(t, 4, b.Append(data))
	}
	require.Equal(t, 12, b.DataLength())

	b.Cleanup()
	require.Zero(t, b.DataLength())
	require.Nil(t, b.Bytes())
}

func TestRewindReusesCapacity(t *testing.T) {
	b, counted := initCounted(t)
	defer b.Cleanup()

	data := make([]byte, 16)
	b.Append(data)
	require.Equal(t, 16, b.Capacity())
	require.Equal(t, 16, counted.Current())
	require.Equal(t, 16, counted.Peak())

	for i := 0; i < 2; i++ {
		b.Rewind()
		require.Zero(t, b.DataLength())
		b.Append(data)
		require.Equal(t, 16, b.Capacity())
		require.Equal(t, 16, counted.Current())
		require.Equal(t, 16, counted.Peak())
	}
}

func TestRewindOnEmptyBuffer(t *testing.T) {
	var b Buffer
	b.Init(alloc.Default())
	b.Rewind()
	require.Zero(t, b.DataLength())
	b.Cleanup()
	b.Rewind()
}

func TestAppendCopiesData(t *testing.T) {
	b, _ := initCounted(t)
	defer b.Cleanup()

	var data [8]byte
	binary.LittleEndian.PutUint32(data[0:], 123)
	binary.LittleEndian.PutUint32(data[4:], 456)
	require.Equal(t, 8, b.Append(data[:]))

	got := b.Bytes()
	require.Equal(t, uint32(123), binary.LittleEndian.Uint32(got[0:]))
	require.Equal(t, uint32(456), binary.LittleEndian.Uint32(got[4:]))
}

func TestAppendAfterCleanup(t *testing.T) {
	b, counted := initCounted(t)
	data := []byte{1, 2, 3, 4}

	require.Equal(t, 4, b.Append(data))
	b.Cleanup()
	require.Equal(t, 4, b.Append(data))
	b.Cleanup()
	require.Zero(t, counted.Current())
}

func TestAppendEmptyDoesNotMutate(t *testing.T) {
	b, _ := initCounted(t)
	defer b.Cleanup()
	b.Append([]byte{9})
	snapshot := *b

	require.Zero(t, b.Append(nil))
	require.Zero(t, b.Append([]byte{}))
	require.Equal(t, snapshot, *b)
}

func TestReserve(t *testing.T) {
	b, _ := initCounted(t)
	defer b.Cleanup()

	snapshot := *b
	require.Nil(t, b.Reserve(0))
	require.Equal(t, snapshot, *b)

	p := b.Reserve(1024)
	require.Len(t, p, 1024)
	require.Equal(t, 1024, b.DataLength())

	copy(p, "abc")
	require.Equal(t, "abc", string(b.Bytes()[:3]))
}

func TestReserveAfterCleanup(t *testing.T) {
	b, counted := initCounted(t)
	b.Grow(16)
	b.Cleanup()
	require.NotNil(t, b.Reserve(1024))
	b.Cleanup()
	require.Zero(t, counted.Current())
}

func TestReserveOverflowDoesNotMutate(t *testing.T) {
	b, _ := initCounted(t)
	defer b.Cleanup()
	b.Append(make([]byte, 8))
	snapshot := *b

	require.Nil(t, b.Reserve(math.MaxInt))
	require.Equal(t, snapshot, *b)
}

func TestReserveGrowsByShortfall(t *testing.T) {
	b, _ := initCounted(t)
	defer b.Cleanup()

	b.Grow(10)
	b.Append(make([]byte, 6))
	b.Reserve(10)
	require.Equal(t, 16, b.Capacity())
	require.Equal(t, 16, b.DataLength())
}

func TestWriter(t *testing.T) {
	b, _ := initCounted(t)
	defer b.Cleanup()

	fmt.Fprintf(b, "hello %d", 42)
	_, err := b.WriteString(", world")
	require.NoError(t, err)
	require.NoError(t, b.WriteByte('!'))
	require.Equal(t, "hello 42, world!", string(b.Bytes()))

	var failing Buffer
	failing.Init(alloc.AlwaysFail())
	_, err = failing.Write([]byte("x"))
	require.ErrorIs(t, err, alloc.ErrNoMemory)
	_, err = failing.WriteString("x")
	require.ErrorIs(t, err, alloc.ErrNoMemory)
	require.ErrorIs(t, failing.WriteByte('x'), alloc.ErrNoMemory)

	n, err := failing.Write(nil)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestBufferOverGuardedAllocator(t *testing.T) {
	counted := alloc.NewCountedDefault()
	guarded := alloc.NewGuarded(counted)

	var b Buffer
	b.Init(guarded)
	for i := 0; i < 100; i++ {
		b.Append([]byte{byte(i)})
	}
	require.Equal(t, 100, b.DataLength())
	b.Cleanup()
	require.Zero(t, counted.Current(), "every grow released a valid guarded block")
}
