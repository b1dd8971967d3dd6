package sapling

import (
	"fmt"
	"strings"

	"fortio.org/safecast"
)

// ComponentType identifies the registered type a node wraps.
type ComponentType uint16

// Built-in component types. Values are stable; types added with Register
// are numbered after ComponentTween.
const (
	ComponentEmpty ComponentType = iota
	ComponentTransform
	ComponentCamera
	ComponentLight
	ComponentDirectionalLight
	ComponentPointLight
	ComponentRenderer
	ComponentScript
	ComponentTween
)

// String returns the type tag used in scene files.
func (t ComponentType) String() string {
	if int(t) < len(types) {
		return types[t].tag
	}
	return fmt.Sprintf("ComponentType(%d)", uint16(t))
}

// EmbedOnly reports whether t can only appear nested inside another value,
// never as the type of a scene node.
func (t ComponentType) EmbedOnly() bool {
	return int(t) < len(types) && types[t].embedOnly
}

// Loadable is implemented by components that acquire resources once the
// whole scene has been built.
type Loadable interface {
	Load(app App, s *Scene, n *Node) error
}

// Runnable is implemented by components that update once per frame.
type Runnable interface {
	Run(app App, s *Scene, n *Node)
}

// Renderable is implemented by components that emit draw state per frame.
type Renderable interface {
	Render(app App, s *Scene, n *Node, p Pipeline)
}

// TypeOption configures a registered type.
type TypeOption func(*typeEntry)

// EmbedOnly marks a type as usable only as a nested field value.
func EmbedOnly() TypeOption {
	return func(e *typeEntry) { e.embedOnly = true }
}

// typeEntry is one row of the dispatch table.
type typeEntry struct {
	tag       string
	embedOnly bool
	// decode allocates a record from the decoder's arena and fills it.
	decode func(d *Decoder) (any, error)
	// decodeInto fills an existing record (embedded values).
	decodeInto func(d *Decoder, dst any) error
	encode     func(e *Encoder, c any)
}

var (
	types    = []typeEntry{{tag: "empty"}}
	typeTags = map[string]ComponentType{"empty": ComponentEmpty}
	typeKeys = map[any]ComponentType{} // key: (*T)(nil)
)

func init() {
	builtin(ComponentTransform, Register("transform", decodeTransform, encodeTransform))
	builtin(ComponentCamera, Register("camera", decodeCamera, encodeCamera))
	builtin(ComponentLight, Register("light", decodeLight, encodeLight, EmbedOnly()))
	builtin(ComponentDirectionalLight, Register("directional_light", decodeDirectionalLight, encodeDirectionalLight))
	builtin(ComponentPointLight, Register("point_light", decodePointLight, encodePointLight))
	builtin(ComponentRenderer, Register("renderer", decodeRenderer, encodeRenderer))
	builtin(ComponentScript, Register("script", decodeScript, encodeScript))
	builtin(ComponentTween, Register("tween", decodeTween, encodeTween))
}

func builtin(want, got ComponentType) {
	if want != got {
		panic(fmt.Sprintf("sapling: built-in type registered as %d, want %d", got, want))
	}
}

// Register adds a component type under tag and returns its ComponentType.
// decode fills a default-constructed *T from the object the Decoder is
// positioned on; encode writes the fields of a *T. Either may be nil for a
// type without fields. Nothing else needs to change for a scene file to use
// the new tag.
//
// Register is meant to be called from init functions. It panics if tag is
// empty, contains a delimiter, or is already taken, or if T is already
// registered.
func Register[T any](tag string, decode func(d *Decoder, c *T) error, encode func(e *Encoder, c *T), opts ...TypeOption) ComponentType {
	if tag == "" || strings.ContainsAny(tag, delimiters) || strings.TrimSpace(tag) != tag {
		panic(fmt.Sprintf("sapling: invalid type tag %q", tag))
	}
	if _, ok := typeTags[tag]; ok {
		panic(fmt.Sprintf("sapling: type %q already registered", tag))
	}
	key := any((*T)(nil))
	if prev, ok := typeKeys[key]; ok {
		panic(fmt.Sprintf("sapling: Go type already registered as %q", types[prev].tag))
	}
	idx, err := safecast.Conv[uint16](len(types))
	if err != nil {
		panic("sapling: too many registered types")
	}
	t := ComponentType(idx)

	into := func(d *Decoder, dst any) error {
		if decode == nil {
			return nil
		}
		return decode(d, dst.(*T))
	}
	e := typeEntry{
		tag:        tag,
		decodeInto: into,
		decode: func(d *Decoder) (any, error) {
			c := Alloc[T](d.b.arena)
			if c == nil {
				return nil, capacityError(tag, d.b.arena)
			}
			if err := into(d, c); err != nil {
				return nil, err
			}
			return c, nil
		},
		encode: func(e *Encoder, c any) {
			if encode != nil {
				encode(e, c.(*T))
			}
		},
	}
	for _, opt := range opts {
		opt(&e)
	}

	types = append(types, e)
	typeTags[tag] = t
	typeKeys[key] = t
	return t
}

// LookupType returns the ComponentType registered under tag.
func LookupType(tag string) (ComponentType, bool) {
	t, ok := typeTags[tag]
	return t, ok
}

// TypeOf returns the ComponentType registered for T.
func TypeOf[T any]() (ComponentType, bool) {
	t, ok := typeKeys[any((*T)(nil))]
	return t, ok
}

// ComponentOf returns n's component as a *T, or nil if n wraps another type.
func ComponentOf[T any](n *Node) *T {
	if n == nil {
		return nil
	}
	c, _ := n.Component.(*T)
	return c
}

// bind attaches component c of type t to n and fills the dispatch slots from
// the capabilities c implements. Slots c does not implement stay no-ops.
func (n *Node) bind(t ComponentType, c any) {
	n.Type = t
	n.Component = c
	n.load, n.run, n.render = noopLoad, noopRun, noopRender
	if l, ok := c.(Loadable); ok {
		n.load = l.Load
	}
	if r, ok := c.(Runnable); ok {
		n.run = r.Run
	}
	if r, ok := c.(Renderable); ok {
		n.render = r.Render
	}
}

func noopLoad(App, *Scene, *Node) error       { return nil }
func noopRun(App, *Scene, *Node)              {}
func noopRender(App, *Scene, *Node, Pipeline) {}
