package domain

type BlockKind string

const (
	BlockSheet  BlockKind = "sheet"
	BlockVisual BlockKind = "visual"
)

// Label returns the header prefix used when a block is rendered as a card.
func (k BlockKind) Label() string {
	switch k {
	case BlockVisual:
		return "Visual"
	default:
		return "Sheet"
	}
}

// SnapshotKeyWorkbook is the cache key under which the configured workbook
// is stored.
const SnapshotKeyWorkbook = "workbook"
