package ir

import (
	"fmt"

	"fortio.org/safecast"
)

// BlockKind distinguishes plain blocks from conditional ones.
type BlockKind uint8

const (
	// BlockBasic is an unconditional block.
	BlockBasic BlockKind = iota
	// BlockIf is a conditional block guarded by a value from the parent
	// block's table.
	BlockIf
)

// Block owns an append-only value table, an instruction sequence, a
// deduplicated set of required imports and any nested blocks created
// through it. Construction only ever appends; handles issued earlier
// stay valid for the lifetime of the block.
type Block struct {
	Kind BlockKind

	// Cond guards a BlockIf; it indexes the parent block's value table.
	Cond ValueID

	Values  []ValueInfo
	Instrs  []Instr
	Imports []string

	// Nested structure for conditional lowering. Blocks are held by
	// pointer so handles stay valid across later appends.
	Blocks []*Block
	Elses  []*Block
	Else   *Block
}

// CreateValue appends an entry to the value table and returns its handle.
func (b *Block) CreateValue(v ValueInfo) ValueID {
	id, err := safecast.Conv[int32](len(b.Values))
	if err != nil {
		panic(fmt.Errorf("value table overflow: %w", err))
	}
	b.Values = append(b.Values, v)
	return ValueID(id)
}

// CreateInst appends an instruction to the statement list.
func (b *Block) CreateInst(inst Instr) {
	b.Instrs = append(b.Instrs, inst)
}

// CreateBlock appends a nested basic block and returns its handle.
func (b *Block) CreateBlock() BlockID {
	return b.appendNested(&Block{Kind: BlockBasic, Cond: NoValueID})
}

// CreateIf appends a nested conditional block guarded by cond, a value
// in this block's table, and returns its handle.
func (b *Block) CreateIf(cond ValueID) BlockID {
	return b.appendNested(&Block{Kind: BlockIf, Cond: cond})
}

func (b *Block) appendNested(nb *Block) BlockID {
	id, err := safecast.Conv[int32](len(b.Blocks))
	if err != nil {
		panic(fmt.Errorf("block table overflow: %w", err))
	}
	b.Blocks = append(b.Blocks, nb)
	return BlockID(id)
}

// Nested returns the nested block for the given handle.
func (b *Block) Nested(id BlockID) (*Block, error) {
	if id < 0 || int(id) >= len(b.Blocks) {
		return nil, fmt.Errorf("nested block %d out of range (have %d)", id, len(b.Blocks))
	}
	return b.Blocks[id], nil
}

// CreateElseIf appends an else-if arm to a conditional block. The
// condition indexes the same table the block's own condition does.
func (b *Block) CreateElseIf(cond ValueID) *Block {
	arm := &Block{Kind: BlockIf, Cond: cond}
	b.Elses = append(b.Elses, arm)
	return arm
}

// CreateElse sets the trailing else arm of a conditional block.
func (b *Block) CreateElse() *Block {
	b.Else = &Block{Kind: BlockBasic, Cond: NoValueID}
	return b.Else
}

// RequireImport records an import needed by code in this block. Names
// already recorded are not duplicated.
func (b *Block) RequireImport(name string) {
	for _, have := range b.Imports {
		if have == name {
			return
		}
	}
	b.Imports = append(b.Imports, name)
}
