package ir

// NamedPropKind enumerates the accessor kinds a Named reference may chain.
type NamedPropKind uint8

const (
	// NamedPropBasic is a plain field access, `name.field`.
	NamedPropBasic NamedPropKind = iota
	// NamedPropStatic is a static-scope access, `name::field`. Backends
	// without a static-scope construct must reject it.
	NamedPropStatic
	// NamedPropPointer is an access through a pointer, `name->field`.
	NamedPropPointer
	// NamedPropIndex is a subscript access, `name[value]`; the index is a
	// value in the owning block's table.
	NamedPropIndex
)

// NamedProp is one accessor applied to a Named reference.
type NamedProp struct {
	Kind  NamedPropKind
	Name  string
	Index ValueID
}

// Named is a symbol reference: a root name plus an ordered accessor
// chain applied left to right.
type Named struct {
	Name  string
	Props []NamedProp
}

// NewNamed returns a Named reference with no accessors.
func NewNamed(name string) Named {
	return Named{Name: name}
}

// NewNamedProps returns a Named reference with the given accessor chain.
func NewNamedProps(name string, props []NamedProp) Named {
	return Named{Name: name, Props: props}
}

// TypeShape enumerates how an ABI type is laid out at the target boundary.
type TypeShape uint8

const (
	ShapePlain TypeShape = iota
	ShapeArray
	ShapePointer
)

// ArrayImplicitSize marks an array whose size is declared implicitly,
// rendering as `name[]` instead of `name[N]`.
const ArrayImplicitSize = -1

// AbiType describes how a value's type renders at the target-language
// boundary: a type name plus a shape. ArraySize is consulted only when
// Shape is ShapeArray.
type AbiType struct {
	Name      Named
	Shape     TypeShape
	ArraySize int
}

// PlainType returns a plain ABI type with the given name.
func PlainType(name string) AbiType {
	return AbiType{Name: NewNamed(name), Shape: ShapePlain}
}

// PointerType returns a pointer ABI type with the given name.
func PointerType(name string) AbiType {
	return AbiType{Name: NewNamed(name), Shape: ShapePointer}
}

// ArrayType returns an array ABI type. Pass ArrayImplicitSize to declare
// the size implicitly.
func ArrayType(name string, size int) AbiType {
	return AbiType{Name: NewNamed(name), Shape: ShapeArray, ArraySize: size}
}

// Param is one named argument in a function signature.
type Param struct {
	Name string
	Type AbiType
}

// Signature carries a function's ordered argument types and its return
// type. The zero return type is `void`.
type Signature struct {
	Params  []Param
	Returns AbiType
}

// NewSignature returns a signature with no parameters and a void return.
func NewSignature() Signature {
	return Signature{Returns: PlainType("void")}
}

// AddParam appends a named parameter to the signature.
func (s *Signature) AddParam(name string, t AbiType) {
	s.Params = append(s.Params, Param{Name: name, Type: t})
}

// Variable is a handle to a function-local variable.
type Variable struct {
	Name string
}

// Named converts the variable into a property-less Named reference.
func (v Variable) Named() Named {
	return NewNamed(v.Name)
}

// GlobalVariable is a handle to a module-level data declaration.
type GlobalVariable struct {
	Name string
}

// Named converts the global into a property-less Named reference.
func (v GlobalVariable) Named() Named {
	return NewNamed(v.Name)
}
