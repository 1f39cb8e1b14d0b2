package ir

// Module aggregates functions and global data declarations. Functions
// keep their declaration order so emission is deterministic; defining a
// name twice replaces the earlier definition in place.
type Module struct {
	Funcs  []*Function
	byName map[string]int

	DataOrder []string
	Data      map[string]AbiType
}

// NewModule returns an empty module.
func NewModule() *Module {
	return &Module{
		byName: make(map[string]int),
		Data:   make(map[string]AbiType),
	}
}

// DeclareFunction records a prototype with an empty signature under the
// given name.
func (m *Module) DeclareFunction(name string) {
	m.DefineFunction(NewFunction(name, NewSignature()))
}

// DefineFunction records a function under its name. Last write wins.
func (m *Module) DefineFunction(f *Function) {
	if i, ok := m.byName[f.Name]; ok {
		m.Funcs[i] = f
		return
	}
	m.byName[f.Name] = len(m.Funcs)
	m.Funcs = append(m.Funcs, f)
}

// Function looks up a function by name.
func (m *Module) Function(name string) (*Function, bool) {
	i, ok := m.byName[name]
	if !ok {
		return nil, false
	}
	return m.Funcs[i], true
}

// DeclareData declares a module-level data variable.
func (m *Module) DeclareData(name string, t AbiType) GlobalVariable {
	if _, ok := m.Data[name]; !ok {
		m.DataOrder = append(m.DataOrder, name)
	}
	m.Data[name] = t
	return GlobalVariable{Name: name}
}
