package sapling

import (
	"io"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Encoder writes components back in the text form the parser accepts,
// indenting two spaces per level. Encoding cannot fail.
type Encoder struct {
	b     strings.Builder
	depth int // indent level of the object being written
}

// Int writes an integer field.
func (e *Encoder) Int(name string, v int) {
	e.key(name)
	e.b.WriteString(strconv.Itoa(v))
}

// Float writes a floating point field in shortest decimal form.
func (e *Encoder) Float(name string, v float32) {
	e.key(name)
	e.b.WriteString(formatFloat(v))
}

// String writes a primitive field verbatim. The text must not contain
// whitespace or delimiters.
func (e *Encoder) String(name, v string) {
	e.key(name)
	e.b.WriteString(v)
}

// Bool writes true or false.
func (e *Encoder) Bool(name string, v bool) {
	e.key(name)
	e.b.WriteString(strconv.FormatBool(v))
}

// Vec3 writes a 3-vector as [x, y, z].
func (e *Encoder) Vec3(name string, v mgl32.Vec3) {
	e.key(name)
	e.b.WriteByte('[')
	for i := range 3 {
		if i > 0 {
			e.b.WriteString(", ")
		}
		e.b.WriteString(formatFloat(v[i]))
	}
	e.b.WriteByte(']')
}

// Ints writes an array of integers; an empty slice is written as [].
func (e *Encoder) Ints(name string, v []int) {
	e.key(name)
	e.b.WriteByte('[')
	for i, n := range v {
		if i > 0 {
			e.b.WriteString(", ")
		}
		e.b.WriteString(strconv.Itoa(n))
	}
	e.b.WriteByte(']')
}

// NodeRef writes the ID of the referenced node, or -1 when n is nil.
func (e *Encoder) NodeRef(name string, n *Node) {
	id := -1
	if n != nil {
		id = n.ID
	}
	e.Int(name, id)
}

// EncodeEmbed writes v as a nested object tagged with T's type. T must be a
// registered type.
func EncodeEmbed[T any](e *Encoder, name string, v *T) {
	t, ok := TypeOf[T]()
	if !ok {
		panic("sapling: EncodeEmbed of unregistered type")
	}
	e.key(name)
	e.depth++
	e.open(types[t].tag)
	types[t].encode(e, v)
	e.close()
	e.depth--
}

func (e *Encoder) indent(level int) {
	for range level {
		e.b.WriteString("  ")
	}
}

// open starts an object and writes its type attribute.
func (e *Encoder) open(tag string) {
	e.b.WriteString("{\n")
	e.indent(e.depth + 1)
	e.b.WriteString("type: ")
	e.b.WriteString(tag)
}

func (e *Encoder) key(name string) {
	e.b.WriteString(",\n")
	e.indent(e.depth + 1)
	e.b.WriteString(name)
	e.b.WriteString(": ")
}

func (e *Encoder) close() {
	e.b.WriteByte('\n')
	e.indent(e.depth)
	e.b.WriteByte('}')
}

// node writes n, its component fields and its children.
func (e *Encoder) node(n *Node) {
	e.open(n.Type.String())
	e.Int("id", n.ID)
	if n.Name != "" {
		e.String("name", n.Name)
	}
	if n.Type != ComponentEmpty && n.Component != nil {
		types[n.Type].encode(e, n.Component)
	}

	e.key("children")
	if len(n.children) == 0 {
		e.b.WriteString("[]")
	} else {
		e.b.WriteString("[\n")
		for i, child := range n.children {
			if i > 0 {
				e.b.WriteString(",\n")
			}
			e.indent(e.depth + 2)
			e.depth += 2
			e.node(child)
			e.depth -= 2
		}
		e.b.WriteByte('\n')
		e.indent(e.depth + 1)
		e.b.WriteByte(']')
	}
	e.close()
}

func formatFloat(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', -1, 32)
}

// MarshalNode returns the text form of n and its subtree.
func MarshalNode(n *Node) []byte {
	var e Encoder
	e.node(n)
	e.b.WriteByte('\n')
	return []byte(e.b.String())
}

// MarshalScene returns the text form of the scene's tree. A nil or closed
// scene marshals to nil.
func MarshalScene(s *Scene) []byte {
	root := s.Root()
	if root == nil {
		return nil
	}
	return MarshalNode(root)
}

// SerializeScene writes the text form of the scene to w. The only possible
// error is the one returned by w.
func SerializeScene(w io.Writer, s *Scene) error {
	data := MarshalScene(s)
	if data == nil {
		return nil
	}
	_, err := w.Write(data)
	return err
}

// --- Value trees ---

// MarshalValue returns v in the text form Parse accepts. Arrays of
// primitives stay on one line.
func MarshalValue(v *Value) string {
	var b strings.Builder
	writeValue(&b, v, 0)
	return b.String()
}

func writeValue(b *strings.Builder, v *Value, depth int) {
	pad := func(level int) {
		for range level {
			b.WriteString("  ")
		}
	}
	switch v.Kind {
	case KindPrimitive:
		b.WriteString(v.Text)
	case KindArray:
		if len(v.Items) == 0 {
			b.WriteString("[]")
			return
		}
		flat := true
		for _, item := range v.Items {
			if item.Kind != KindPrimitive {
				flat = false
				break
			}
		}
		if flat {
			b.WriteByte('[')
			for i, item := range v.Items {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(item.Text)
			}
			b.WriteByte(']')
			return
		}
		b.WriteString("[\n")
		for i, item := range v.Items {
			if i > 0 {
				b.WriteString(",\n")
			}
			pad(depth + 1)
			writeValue(b, item, depth+1)
		}
		b.WriteByte('\n')
		pad(depth)
		b.WriteByte(']')
	case KindObject:
		if len(v.Fields) == 0 {
			b.WriteString("{}")
			return
		}
		b.WriteString("{\n")
		for i, f := range v.Fields {
			if i > 0 {
				b.WriteString(",\n")
			}
			pad(depth + 1)
			b.WriteString(f.Name)
			b.WriteString(": ")
			writeValue(b, f.Value, depth+1)
		}
		b.WriteByte('\n')
		pad(depth)
		b.WriteByte('}')
	}
}
