package ast

// TypeKind tags the structural types used by the (best-effort) type
// checker. Evaluation never consults these — they exist purely for tooling.
type TypeKind uint8

const (
	TNumber TypeKind = iota
	TString
	TBoolean
	TNull
	TAny
	TNever
	TArray
	TObject
	TFunction
)

// Type is a structural type. Only the fields relevant to its Kind are set.
type Type struct {
	Kind TypeKind

	// Primitive: an optional known constant value narrows the type.
	Constant *Value

	// Array: Positional gives element types by index, Rest (may be nil)
	// gives the type of any further elements.
	Positional []Type
	Rest       *Type

	// Object: field name -> field type.
	Fields map[string]Type

	// Function: parameter types and a callback computing the return type
	// from the actual call (so e.g. `map` can report its lambda's return
	// type as the array's element type).
	Args       []Type
	ReturnFunc func(env TypeEnv, call *Call) Type
}

func Primitive(k TypeKind) Type       { return Type{Kind: k} }
func ConstPrimitive(k TypeKind, v *Value) Type {
	return Type{Kind: k, Constant: v}
}
func AnyType() Type   { return Type{Kind: TAny} }
func NeverType() Type { return Type{Kind: TNever} }

func ArrayType(positional []Type, rest *Type) Type {
	return Type{Kind: TArray, Positional: positional, Rest: rest}
}

func ObjectType(fields map[string]Type) Type {
	return Type{Kind: TObject, Fields: fields}
}

func FunctionType(args []Type, ret func(env TypeEnv, call *Call) Type) Type {
	return Type{Kind: TFunction, Args: args, ReturnFunc: ret}
}

// TypeEnv is the environment a type-check pass threads: the currently
// known variable types plus the type of the current value (`_`).
type TypeEnv interface {
	VarType(name string) (Type, bool)
	DataType() Type
	WithDataType(t Type) TypeEnv
	WithVar(name string, t Type) TypeEnv
}

// UnionType merges two types: never absorbs into the other side,
// two objects merge field-by-field, two arrays merge positionally, anything
// else that disagrees in Kind collapses to `any`.
func UnionType(a, b Type) Type {
	if a.Kind == TNever {
		return b
	}
	if b.Kind == TNever {
		return a
	}
	if a.Kind != b.Kind {
		return AnyType()
	}
	switch a.Kind {
	case TObject:
		fields := make(map[string]Type, len(a.Fields)+len(b.Fields))
		for k, t := range a.Fields {
			fields[k] = t
		}
		for k, t := range b.Fields {
			if existing, ok := fields[k]; ok {
				fields[k] = UnionType(existing, t)
			} else {
				fields[k] = t
			}
		}
		return ObjectType(fields)
	case TArray:
		n := len(a.Positional)
		if len(b.Positional) > n {
			n = len(b.Positional)
		}
		positional := make([]Type, n)
		for i := 0; i < n; i++ {
			pa := elementAt(a, i)
			pb := elementAt(b, i)
			positional[i] = UnionType(pa, pb)
		}
		var rest *Type
		if a.Rest != nil || b.Rest != nil {
			ra, rb := AnyType(), AnyType()
			if a.Rest != nil {
				ra = *a.Rest
			}
			if b.Rest != nil {
				rb = *b.Rest
			}
			u := UnionType(ra, rb)
			rest = &u
		}
		return ArrayType(positional, rest)
	default:
		if a.Constant != nil && b.Constant != nil && a.Constant.Equal(b.Constant) {
			return a
		}
		return Primitive(a.Kind)
	}
}

func elementAt(t Type, i int) Type {
	if i < len(t.Positional) {
		return t.Positional[i]
	}
	if t.Rest != nil {
		return *t.Rest
	}
	return AnyType()
}

// GetElementType returns the union of an array type's positional element
// types and its rest type — the type any single `elem`/`[`/map callback
// argument can have.
func GetElementType(t Type) Type {
	if t.Kind != TArray {
		return AnyType()
	}
	result := NeverType()
	for _, p := range t.Positional {
		result = UnionType(result, p)
	}
	if t.Rest != nil {
		result = UnionType(result, *t.Rest)
	}
	if result.Kind == TNever {
		return AnyType()
	}
	return result
}

// NativeType returns the most specific type describing v, with v itself
// carried as the type's known constant when that's unambiguous.
func NativeType(v *Value) Type {
	switch v.Kind() {
	case KindNull:
		return ConstPrimitive(TNull, v)
	case KindBool:
		return ConstPrimitive(TBoolean, v)
	case KindNumber:
		return ConstPrimitive(TNumber, v)
	case KindString:
		return ConstPrimitive(TString, v)
	case KindArray:
		elems, _ := v.ArrayVal()
		positional := make([]Type, len(elems))
		for i, e := range elems {
			positional[i] = NativeType(e)
		}
		return ArrayType(positional, nil)
	case KindObject:
		obj, _ := v.ObjectVal()
		fields := make(map[string]Type, obj.Len())
		for _, k := range obj.Keys() {
			fields[k] = NativeType(obj.Get(k))
		}
		return ObjectType(fields)
	default:
		return AnyType()
	}
}
