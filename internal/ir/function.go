package ir

import (
	"fmt"

	"fortio.org/safecast"
)

// Function owns its declared variables and an ordered list of blocks.
// A function with no blocks is a prototype.
type Function struct {
	Name      string
	Signature Signature

	// VarOrder preserves declaration order so emitted declarations are
	// deterministic; VarTypes is the name-keyed lookup.
	VarOrder []string
	VarTypes map[string]AbiType

	// Blocks are held by pointer so handles returned by UseBlock stay
	// valid across later CreateBlock calls.
	Blocks []*Block
}

// NewFunction returns an empty function with the given name and signature.
func NewFunction(name string, sig Signature) *Function {
	return &Function{
		Name:      name,
		Signature: sig,
		VarTypes:  make(map[string]AbiType),
	}
}

// DeclareVar declares a variable hoisted to the top of the function
// body. Redeclaring a name overwrites its type without duplicating the
// declaration.
func (f *Function) DeclareVar(name string, t AbiType) Variable {
	if _, ok := f.VarTypes[name]; !ok {
		f.VarOrder = append(f.VarOrder, name)
	}
	f.VarTypes[name] = t
	return Variable{Name: name}
}

// CreateBlock appends an empty block and returns its handle.
func (f *Function) CreateBlock() BlockID {
	id, err := safecast.Conv[int32](len(f.Blocks))
	if err != nil {
		panic(fmt.Errorf("block list overflow: %w", err))
	}
	f.Blocks = append(f.Blocks, &Block{Kind: BlockBasic, Cond: NoValueID})
	return BlockID(id)
}

// UseBlock re-enters a block for further building.
func (f *Function) UseBlock(id BlockID) (*Block, error) {
	if id < 0 || int(id) >= len(f.Blocks) {
		return nil, fmt.Errorf("function %s: block %d out of range (have %d)", f.Name, id, len(f.Blocks))
	}
	return f.Blocks[id], nil
}
