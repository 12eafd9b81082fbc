package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTabularBlock_HeterogeneousRecords(t *testing.T) {
	b := NewTabularBlock(BlockSheet, "Calls", []string{"vessel", "hours"}, []map[string]any{
		{"vessel": "A", "hours": 12},
		{"vessel": "B"},
		{"vessel": "C", "hours": 3.5, "extra": true},
	})

	require.Len(t, b.Rows, 3)
	assert.Equal(t, []string{"vessel", "hours"}, b.Columns)

	assert.False(t, b.Rows[0].Partial)
	assert.Equal(t, 12.0, b.Rows[0].Get("hours"))

	assert.True(t, b.Rows[1].Partial)
	assert.Nil(t, b.Rows[1].Get("hours"))

	assert.True(t, b.Rows[2].Partial)
	_, hasExtra := b.Rows[2].Values["extra"]
	assert.False(t, hasExtra)
	assert.Equal(t, 2, b.PartialRows())
}

func TestNormalizeValue(t *testing.T) {
	assert.Nil(t, NormalizeValue(nil))
	assert.Nil(t, NormalizeValue(math.NaN()))
	assert.Nil(t, NormalizeValue(math.Inf(1)))
	assert.Equal(t, 7.0, NormalizeValue(int64(7)))
	assert.Equal(t, 7.0, NormalizeValue(uint8(7)))
	assert.Equal(t, "x", NormalizeValue("x"))
	assert.Equal(t, true, NormalizeValue(true))
	assert.Equal(t, "[1 2]", NormalizeValue([]int{1, 2}))
}

func TestTabularBlockClone_Independent(t *testing.T) {
	b := NewTabularBlock(BlockVisual, VisualName("Ops", "Berth"), []string{"x"}, []map[string]any{{"x": 1}})
	c := b.Clone()
	c.Rows[0].Values["x"] = 99.0
	c.Columns[0] = "y"

	assert.Equal(t, 1.0, b.Rows[0].Get("x"))
	assert.Equal(t, "x", b.Columns[0])
	assert.Equal(t, "Ops / Berth", b.Name)
}

func TestVisualName_Defaults(t *testing.T) {
	assert.Equal(t, "Page / Visual", VisualName("", ""))
}

func TestSnapshotClone(t *testing.T) {
	var nilSnap *Snapshot
	assert.Nil(t, nilSnap.Clone())
	assert.Equal(t, 0, nilSnap.RowCount())

	s := &Snapshot{SourceKey: "r1", Blocks: []TabularBlock{
		NewTabularBlock(BlockSheet, "S", []string{"a"}, []map[string]any{{"a": 1}, {"a": 2}}),
	}}
	c := s.Clone()
	c.Blocks[0].Rows = nil
	assert.Equal(t, 2, s.RowCount())
	assert.Equal(t, 0, c.RowCount())
}
