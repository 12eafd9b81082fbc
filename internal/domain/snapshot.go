package domain

import "time"

// Snapshot is the set of blocks received from one source at one point in time.
// A stored snapshot is never mutated; ingestion replaces it wholesale.
type Snapshot struct {
	ID         string
	SourceKey  string
	Workspace  string
	CapturedAt time.Time
	Blocks     []TabularBlock
}

// Clone returns a deep copy so the caller's slices cannot alias stored data.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	out := &Snapshot{
		ID:         s.ID,
		SourceKey:  s.SourceKey,
		Workspace:  s.Workspace,
		CapturedAt: s.CapturedAt,
		Blocks:     make([]TabularBlock, len(s.Blocks)),
	}
	for i, b := range s.Blocks {
		out.Blocks[i] = b.Clone()
	}
	return out
}

// RowCount is the total number of rows across all blocks.
func (s *Snapshot) RowCount() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, b := range s.Blocks {
		n += len(b.Rows)
	}
	return n
}

// PartialRows counts rows across all blocks whose source record did not line
// up with the block's columns.
func (s *Snapshot) PartialRows() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, b := range s.Blocks {
		n += b.PartialRows()
	}
	return n
}
