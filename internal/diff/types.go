package diff

// BlockData is the comparable state of one block
type BlockData struct {
	// Position is the index of the block in its document
	Position  int
	Tag       string
	Text      string
	ListDepth int
	Numbered  bool
	Collapsed bool
}

// DiffResult contains the analysis of changes between two documents.
// Blocks are listed in document order.
type DiffResult struct {
	NewBlocks      []*BlockData
	DeletedBlocks  []*BlockData
	ModifiedBlocks []*BlockChange
	Unchanged      int
}

// Empty reports whether the documents have the same blocks
func (r *DiffResult) Empty() bool {
	return len(r.NewBlocks) == 0 && len(r.DeletedBlocks) == 0 && len(r.ModifiedBlocks) == 0
}

// BlockChange describes what changed for a block that exists in both
// documents
type BlockChange struct {
	Block            *BlockData
	OldBlock         *BlockData
	TextChanged      bool
	KindChanged      bool
	ListChanged      bool
	CollapsedChanged bool
	Moved            bool
}

// DiffLineType indicates the type of diff line for rendering
type DiffLineType int

const (
	DiffTypeHeader DiffLineType = iota
	DiffTypeNewSection
	DiffTypeDeletedSection
	DiffTypeModifiedSection
	DiffTypeNewItem
	DiffTypeDeletedItem
	DiffTypeModifiedItem
	DiffTypeItemDetail
	DiffTypeSummary
	DiffTypeBlank
)

// DiffLine represents a rendered line in diff output
type DiffLine struct {
	Type    DiffLineType
	Content string
	Indent  int // Indentation level
}
