package blockalloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arrayguard/parityscan/lib/block"
	"github.com/arrayguard/parityscan/lib/hash"
)

func TestInsertBlocksFillsEmptyArray(t *testing.T) {
	arr := block.NewArray()
	var firstFree uint64
	blocks := make([]block.Block, 3)

	allocated := InsertBlocks(arr, &firstFree, blocks, false)

	require.True(t, allocated)
	assert.Equal(t, uint64(3), firstFree)
	for i, b := range blocks {
		assert.Equal(t, uint64(i), b.ParityPos)
		assert.Equal(t, block.NEW, b.State)
	}
}

func TestInsertBlocksReusesDeletedSlot(t *testing.T) {
	arr := block.NewArray()
	h := hash.Hash{0xAA}
	d := &block.Deleted{ParityPos: 0, Hash: h}
	arr.Set(0, block.DeletedSlot(d))
	var firstFree uint64

	blocks := make([]block.Block, 1)
	InsertBlocks(arr, &firstFree, blocks, false)

	assert.Equal(t, uint64(0), blocks[0].ParityPos)
	assert.Equal(t, block.CHG, blocks[0].State)
	assert.Equal(t, h, blocks[0].Hash)
	assert.Equal(t, hash.Hash{}, d.Hash, "deleted record's hash should be zeroed when clearUndeterminateHash is false")
}

func TestInsertBlocksKeepsDeletedHashWhenCleared(t *testing.T) {
	arr := block.NewArray()
	h := hash.Hash{0xBB}
	d := &block.Deleted{ParityPos: 0, Hash: h}
	arr.Set(0, block.DeletedSlot(d))
	var firstFree uint64

	blocks := make([]block.Block, 1)
	InsertBlocks(arr, &firstFree, blocks, true)

	assert.Equal(t, h, blocks[0].Hash)
	assert.Equal(t, h, d.Hash)
}

func TestInsertBlocksSkipsLiveSlots(t *testing.T) {
	arr := block.NewArray()
	live := &block.Block{ParityPos: 0, State: block.BLK}
	arr.Set(0, block.Live(live))
	var firstFree uint64

	blocks := make([]block.Block, 1)
	InsertBlocks(arr, &firstFree, blocks, false)

	assert.Equal(t, uint64(1), blocks[0].ParityPos)
	assert.Equal(t, uint64(2), firstFree)
}

func TestRemoveBlocksTransitionsAndLowersFirstFree(t *testing.T) {
	arr := block.NewArray()
	blk := block.Block{ParityPos: 2, State: block.BLK, Hash: hash.Hash{0xCC}}
	arr.Set(2, block.Live(&blk))
	firstFree := uint64(5)

	deleted, err := RemoveBlocks(arr, &firstFree, []block.Block{blk}, false)

	require.NoError(t, err)
	require.Len(t, deleted, 1)
	assert.Equal(t, blk.Hash, deleted[0].Hash, "BLK hash is preserved into the DeletedBlock")
	assert.Equal(t, uint64(2), firstFree, "first_free_block lowers to the freed slot")
	d, ok := block.AsDeleted(arr.At(2))
	require.True(t, ok)
	assert.Equal(t, deleted[0], d)
}

func TestRemoveBlocksZeroesUndeterminateHash(t *testing.T) {
	arr := block.NewArray()
	blk := block.Block{ParityPos: 0, State: block.CHG, Hash: hash.Hash{0xDD}}
	arr.Set(0, block.Live(&blk))
	var firstFree uint64

	deleted, err := RemoveBlocks(arr, &firstFree, []block.Block{blk}, false)

	require.NoError(t, err)
	assert.Equal(t, hash.Hash{}, deleted[0].Hash)
}

func TestRemoveBlocksRejectsUnremovableState(t *testing.T) {
	arr := block.NewArray()
	blk := block.Block{ParityPos: 0, State: block.REP}
	var firstFree uint64

	_, err := RemoveBlocks(arr, &firstFree, []block.Block{blk}, false)

	assert.Error(t, err)
}
