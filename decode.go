package sapling

import (
	"strconv"

	"fortio.org/safecast"
	"github.com/go-gl/mathgl/mgl32"
)

// Decoder reads the fields of one object of the value tree into a component.
// Every accessor looks the field up by name and fails with a schema error if
// it is missing or has the wrong shape.
type Decoder struct {
	b    *builder
	obj  *Value
	node *Node // scene node being built; embedded values share their owner's
	tag  string
}

// Node returns the scene node being built.
func (d *Decoder) Node() *Node {
	return d.node
}

// Has reports whether the object has a field called name.
func (d *Decoder) Has(name string) bool {
	return d.obj.Get(name) != nil
}

// Field returns the raw value of the field called name.
func (d *Decoder) Field(name string) (*Value, error) {
	v := d.obj.Get(name)
	if v == nil {
		return nil, schemaErrorf("%s: unable to find field %q", d.tag, name)
	}
	return v, nil
}

func (d *Decoder) primitive(name string) (*Value, error) {
	v, err := d.Field(name)
	if err != nil {
		return nil, err
	}
	if v.Kind != KindPrimitive {
		return nil, schemaErrorf("%s: field %q: expected a primitive, got %s", d.tag, name, v.Kind)
	}
	return v, nil
}

func (d *Decoder) array(name string) (*Value, error) {
	v, err := d.Field(name)
	if err != nil {
		return nil, err
	}
	if v.Kind != KindArray {
		return nil, schemaErrorf("%s: field %q: expected an array, got %s", d.tag, name, v.Kind)
	}
	return v, nil
}

// Int reads an integer field.
func (d *Decoder) Int(name string, dst *int) error {
	v, err := d.primitive(name)
	if err != nil {
		return err
	}
	n, err := parseInt(v.Text)
	if err != nil {
		return schemaErrorf("%s: field %q: %v", d.tag, name, err)
	}
	*dst = n
	return nil
}

// Float reads a floating point field.
func (d *Decoder) Float(name string, dst *float32) error {
	v, err := d.primitive(name)
	if err != nil {
		return err
	}
	f, err := parseFloat(v.Text)
	if err != nil {
		return schemaErrorf("%s: field %q: %v", d.tag, name, err)
	}
	*dst = f
	return nil
}

// String reads a primitive field verbatim.
func (d *Decoder) String(name string, dst *string) error {
	v, err := d.primitive(name)
	if err != nil {
		return err
	}
	*dst = v.Text
	return nil
}

// Bool reads a field written as true or false.
func (d *Decoder) Bool(name string, dst *bool) error {
	v, err := d.primitive(name)
	if err != nil {
		return err
	}
	switch v.Text {
	case "true":
		*dst = true
	case "false":
		*dst = false
	default:
		return schemaErrorf("%s: field %q: expected true or false, got %q", d.tag, name, v.Text)
	}
	return nil
}

// Vec3 reads a 3-vector written as an array of exactly three numbers.
func (d *Decoder) Vec3(name string, dst *mgl32.Vec3) error {
	v, err := d.array(name)
	if err != nil {
		return err
	}
	if len(v.Items) != 3 {
		return schemaErrorf("%s: field %q: 3-vector does not contain three entries (got %d)", d.tag, name, len(v.Items))
	}
	var out mgl32.Vec3
	for i, item := range v.Items {
		if item.Kind != KindPrimitive {
			return schemaErrorf("%s: field %q: entry %d: expected a number, got %s", d.tag, name, i, item.Kind)
		}
		f, err := parseFloat(item.Text)
		if err != nil {
			return schemaErrorf("%s: field %q: entry %d: %v", d.tag, name, i, err)
		}
		out[i] = f
	}
	*dst = out
	return nil
}

// Ints reads an array of integers. An empty array yields an empty, non-nil slice.
func (d *Decoder) Ints(name string, dst *[]int) error {
	v, err := d.array(name)
	if err != nil {
		return err
	}
	out := make([]int, 0, len(v.Items))
	for i, item := range v.Items {
		if item.Kind != KindPrimitive {
			return schemaErrorf("%s: field %q: entry %d: expected an integer, got %s", d.tag, name, i, item.Kind)
		}
		n, err := parseInt(item.Text)
		if err != nil {
			return schemaErrorf("%s: field %q: entry %d: %v", d.tag, name, i, err)
		}
		out = append(out, n)
	}
	*dst = out
	return nil
}

// NodeRef reads a field holding another node's ID. The reference is resolved
// after the whole tree has been built, so it may point forwards or backwards
// in the file. dst stays nil until then.
func (d *Decoder) NodeRef(name string, dst **Node) error {
	var id int
	if err := d.Int(name, &id); err != nil {
		return err
	}
	d.b.fixups = append(d.b.fixups, fixup{id: id, dst: dst, from: d.node, field: name})
	return nil
}

// Embed decodes the object held by field name into dst. T must be a
// registered type; a "type" attribute inside the object, when present, must
// name it.
func Embed[T any](d *Decoder, name string, dst *T) error {
	t, ok := TypeOf[T]()
	if !ok {
		panic("sapling: Embed of unregistered type")
	}
	v, err := d.Field(name)
	if err != nil {
		return err
	}
	tag := types[t].tag
	if v.Kind != KindObject {
		return schemaErrorf("%s: field %q: expected a %s object, got %s", d.tag, name, tag, v.Kind)
	}
	if tv := v.Get("type"); tv != nil && (tv.Kind != KindPrimitive || tv.Text != tag) {
		return schemaErrorf("%s: field %q: expected type %s", d.tag, name, tag)
	}
	sub := &Decoder{b: d.b, obj: v, node: d.node, tag: tag}
	return types[t].decodeInto(sub, dst)
}

func parseInt(text string) (int, error) {
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, err
	}
	return safecast.Conv[int](n)
}

func parseFloat(text string) (float32, error) {
	f, err := strconv.ParseFloat(text, 32)
	if err != nil {
		return 0, err
	}
	return float32(f), nil
}

// --- Scene graph builder ---

// fixup is a node reference waiting for the ID index.
type fixup struct {
	id    int
	dst   **Node
	from  *Node
	field string
}

// builder turns a value tree into scene nodes allocated from one arena.
type builder struct {
	scene  *Scene
	arena  *Arena
	fixups []fixup
	nodes  int
	nextID int // one past the largest ID seen
}

// node builds the scene node described by v and, recursively, its children.
// Any error aborts the whole build.
func (b *builder) node(v *Value) (*Node, error) {
	if v.Kind != KindObject {
		return nil, schemaErrorf("scene node: expected an object, got %s", v.Kind)
	}
	tv := v.Get("type")
	if tv == nil {
		return nil, schemaErrorf("scene node: unable to find field %q", "type")
	}
	if tv.Kind != KindPrimitive {
		return nil, schemaErrorf("scene node: field %q: expected a primitive, got %s", "type", tv.Kind)
	}
	t, ok := typeTags[tv.Text]
	if !ok {
		return nil, schemaErrorf("unknown type %q", tv.Text)
	}
	if types[t].embedOnly {
		return nil, schemaErrorf("type %q cannot be used as a scene node", tv.Text)
	}

	n := Alloc[Node](b.arena)
	if n == nil {
		return nil, capacityError("scene node", b.arena)
	}
	b.nodes++

	d := &Decoder{b: b, obj: v, node: n, tag: tv.Text}
	if d.Has("id") {
		if err := d.Int("id", &n.ID); err != nil {
			return nil, err
		}
		if n.ID >= b.nextID {
			b.nextID = n.ID + 1
		}
	}
	if d.Has("name") {
		if err := d.String("name", &n.Name); err != nil {
			return nil, err
		}
	}
	if t != ComponentEmpty {
		c, err := types[t].decode(d)
		if err != nil {
			return nil, err
		}
		n.bind(t, c)
	}

	if cv := v.Get("children"); cv != nil {
		if cv.Kind != KindArray {
			return nil, schemaErrorf("%s: field %q: expected an array, got %s", tv.Text, "children", cv.Kind)
		}
		n.children = make([]*Node, 0, len(cv.Items))
		for _, item := range cv.Items {
			child, err := b.node(item)
			if err != nil {
				return nil, err
			}
			n.AddChild(child)
		}
	}
	return n, nil
}

// resolve points every recorded reference at its target. IDs are indexed once;
// an ID that is referenced must belong to exactly one node.
func (b *builder) resolve(root *Node) error {
	if len(b.fixups) == 0 {
		return nil
	}
	index := make(map[int]*Node)
	dup := make(map[int]bool)
	root.Walk(func(n *Node) bool {
		if n.ID >= 0 {
			if _, ok := index[n.ID]; ok {
				dup[n.ID] = true
			}
			index[n.ID] = n
		}
		return true
	})
	for _, f := range b.fixups {
		if dup[f.id] {
			return referenceErrorf("%s: field %q: node ID %d is not unique", f.from, f.field, f.id)
		}
		target, ok := index[f.id]
		if !ok {
			if f.from != nil {
				f.from.Valid = false
			}
			return referenceErrorf("%s: field %q: unable to find node with ID %d", f.from, f.field, f.id)
		}
		*f.dst = target
	}
	return nil
}
