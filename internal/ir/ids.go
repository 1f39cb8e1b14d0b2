package ir

// ValueID indexes the value table of the Block that issued it.
// IDs are not globally unique; they are meaningful only relative to
// their owning block.
type ValueID int32

// BlockID indexes either a Function's block list or a Block's nested
// block list, depending on which container issued it.
type BlockID int32

const (
	NoValueID ValueID = -1
	NoBlockID BlockID = -1
)
