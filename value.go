package sapling

// Kind distinguishes the three shapes of a parsed value.
type Kind uint8

const (
	KindPrimitive Kind = iota // raw token text
	KindArray                 // ordered values
	KindObject                // ordered name/value pairs
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a node of the intermediate tree produced by the parser. A single
// flat struct covers all three kinds; only the fields for Kind are set.
// Text is a substring of the parsed source.
type Value struct {
	Kind   Kind
	Text   string   // KindPrimitive
	Items  []*Value // KindArray, source order
	Fields []Field  // KindObject, source order
}

// Field is one name/value pair of an object. Names are not required to be
// unique; lookups return the first match.
type Field struct {
	Name  string
	Value *Value
}

// Get returns the value of the first field called name, or nil.
// Returns nil when v is not an object.
func (v *Value) Get(name string) *Value {
	if v == nil || v.Kind != KindObject {
		return nil
	}
	for i := range v.Fields {
		if v.Fields[i].Name == name {
			return v.Fields[i].Value
		}
	}
	return nil
}

// Len returns the number of entries of an array or object, and 0 for primitives.
func (v *Value) Len() int {
	switch v.Kind {
	case KindArray:
		return len(v.Items)
	case KindObject:
		return len(v.Fields)
	}
	return 0
}

// Equal reports whether v and other have the same shape, texts and names,
// in the same order.
func (v *Value) Equal(other *Value) bool {
	if v == nil || other == nil {
		return v == other
	}
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindPrimitive:
		return v.Text == other.Text
	case KindArray:
		if len(v.Items) != len(other.Items) {
			return false
		}
		for i := range v.Items {
			if !v.Items[i].Equal(other.Items[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(v.Fields) != len(other.Fields) {
			return false
		}
		for i := range v.Fields {
			if v.Fields[i].Name != other.Fields[i].Name {
				return false
			}
			if !v.Fields[i].Value.Equal(other.Fields[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}

func newPrimitive(a *Arena, text string) *Value {
	v := Alloc[Value](a)
	if v == nil {
		return nil
	}
	v.Kind = KindPrimitive
	v.Text = text
	return v
}

func newArray(a *Arena) *Value {
	v := Alloc[Value](a)
	if v == nil {
		return nil
	}
	v.Kind = KindArray
	return v
}

func newObject(a *Arena) *Value {
	v := Alloc[Value](a)
	if v == nil {
		return nil
	}
	v.Kind = KindObject
	return v
}
