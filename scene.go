package sapling

import (
	"time"

	"github.com/google/uuid"
)

// App is the application context handed to component callbacks.
type App interface {
	Time() float64  // seconds since the application started
	Delta() float64 // seconds since the previous frame
	Aspect() float32
}

// EntityStore is the interface for optional ECS integration.
// When set on a Scene, node lifecycle events are forwarded to the ECS.
type EntityStore interface {
	EmitEvent(event NodeEvent)
}

// NodeEventType identifies a node lifecycle event.
type NodeEventType uint8

const (
	EventNodeLoaded   NodeEventType = iota // Load succeeded for the node
	EventNodeDisposed                      // the scene owning the node was closed
)

// NodeEvent carries node lifecycle data for the ECS bridge.
type NodeEvent struct {
	Type      NodeEventType
	Scene     uuid.UUID
	NodeID    int
	Name      string
	Component ComponentType
	Node      *Node // nil for EventNodeDisposed
}

// LoadOptions configures the arenas used by a load. Zero values select
// DefaultArenaSize and DefaultParseArenaSize.
type LoadOptions struct {
	ArenaSize      int // bytes for the scene arena
	ParseArenaSize int // bytes for the transient value-tree arena
}

// Scene owns one arena and the node tree allocated from it.
type Scene struct {
	// ID identifies this scene instance. Two loads of the same file get
	// different IDs.
	ID uuid.UUID
	// Path is the file the scene was read from, used by Save.
	Path string
	// AutoSave makes Close write the scene back to Path first.
	AutoSave bool

	arena  *Arena
	root   *Node
	store  EntityStore
	debug  bool
	nextID int // ID handed to the next node built in code
}

// NewScene creates an empty scene with a default-capacity arena and an
// empty root node named "Root" with ID 0.
func NewScene() *Scene {
	s := newScene(DefaultArenaSize)
	root := Alloc[Node](s.arena)
	root.ID = 0
	root.Name = "Root"
	s.root = root
	s.nextID = 1
	return s
}

func newScene(arenaSize int) *Scene {
	return &Scene{
		ID:    uuid.New(),
		arena: NewArena(arenaSize),
	}
}

// LoadScene parses text and builds a scene from it.
func LoadScene(text string) (*Scene, error) {
	return LoadSceneWithOptions(text, LoadOptions{})
}

// LoadSceneWithOptions parses text and builds a scene using arenas of the
// given sizes. On failure no scene is returned and everything allocated so
// far is released.
func LoadSceneWithOptions(text string, opts LoadOptions) (*Scene, error) {
	var stats loadStats
	var t0 time.Time

	if globalDebug {
		t0 = time.Now()
	}

	values := NewArena(opts.ParseArenaSize)
	defer values.Release()

	doc, err := ParseDocument(values, text)
	if err != nil {
		return nil, err
	}

	if globalDebug {
		stats.parseTime = time.Since(t0)
		stats.values = values.Allocations()
		t0 = time.Now()
	}

	s := newScene(opts.ArenaSize)
	b := &builder{scene: s, arena: s.arena}
	root, err := b.node(doc)
	if err != nil {
		s.arena.Release()
		return nil, err
	}

	if globalDebug {
		stats.buildTime = time.Since(t0)
		t0 = time.Now()
	}

	if err := b.resolve(root); err != nil {
		s.arena.Release()
		return nil, err
	}
	s.root = root
	s.nextID = b.nextID

	if globalDebug {
		stats.resolveTime = time.Since(t0)
		stats.nodes = b.nodes
		stats.refs = len(b.fixups)
		s.debugLogLoad(stats)
	}
	return s, nil
}

// Root returns the scene's root node, or nil once the scene is closed.
func (s *Scene) Root() *Node {
	if s == nil {
		return nil
	}
	return s.root
}

// Arena returns the arena that owns every node of the scene.
func (s *Scene) Arena() *Arena {
	return s.arena
}

// NewNode allocates an empty node from the scene's arena. The node is not
// attached to the tree. It gets an ID above every ID the scene has loaded
// or handed out, so references to it survive a save and reload.
func (s *Scene) NewNode(name string) (*Node, error) {
	n := Alloc[Node](s.arena)
	if n == nil {
		return nil, capacityError("scene node", s.arena)
	}
	n.Name = name
	n.ID = s.nextID
	s.nextID++
	return n, nil
}

// NewComponentNode allocates a node wrapping a default-constructed T from the
// scene's arena. T must be a registered type that is not embed-only.
func NewComponentNode[T any](s *Scene, name string) (*Node, *T, error) {
	t, ok := TypeOf[T]()
	if !ok || t.EmbedOnly() {
		panic("sapling: NewComponentNode of a type that cannot be a scene node")
	}
	n, err := s.NewNode(name)
	if err != nil {
		return nil, nil, err
	}
	c := Alloc[T](s.arena)
	if c == nil {
		return nil, nil, capacityError(t.String(), s.arena)
	}
	n.bind(t, c)
	return n, c, nil
}

// Find returns the first node named name, or nil.
func (s *Scene) Find(name string) *Node {
	if s.Root() == nil {
		return nil
	}
	return s.root.Find(name)
}

// FindID returns the first node with the given ID, or nil.
func (s *Scene) FindID(id int) *Node {
	if s.Root() == nil {
		return nil
	}
	return s.root.FindID(id)
}

// NumNodes returns the number of nodes in the tree.
func (s *Scene) NumNodes() int {
	count := 0
	s.Root().Walk(func(*Node) bool {
		count++
		return true
	})
	return count
}

// --- Per-frame traversal ---

// Load calls every valid node's load hook, parents before children, and stops
// at the first error. A nil or closed scene loads nothing.
func (s *Scene) Load(app App) error {
	if s.Root() == nil {
		return nil
	}
	var err error
	s.root.Walk(func(n *Node) bool {
		if err != nil {
			return false
		}
		if !n.Valid {
			return true
		}
		if err = n.load(app, s, n); err != nil {
			return false
		}
		if s.store != nil {
			s.store.EmitEvent(s.nodeEvent(EventNodeLoaded, n))
		}
		return true
	})
	return err
}

// Run calls every valid node's run hook, depth-first, parents before
// children. A nil or closed scene does nothing.
func (s *Scene) Run(app App) {
	if s.Root() == nil {
		return
	}
	var stats frameStats
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}
	s.root.Walk(func(n *Node) bool {
		if !n.Valid {
			stats.skipped++
			return true
		}
		stats.visited++
		n.run(app, s, n)
		return true
	})
	if s.debug {
		stats.runTime = time.Since(t0)
		s.debugLogFrame(stats)
	}
}

// Render calls every valid node's render hook in the same order as Run.
// A nil or closed scene draws nothing.
func (s *Scene) Render(app App, p Pipeline) {
	if s.Root() == nil {
		return
	}
	var stats frameStats
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}
	s.root.Walk(func(n *Node) bool {
		if !n.Valid {
			stats.skipped++
			return true
		}
		stats.visited++
		n.render(app, s, n, p)
		return true
	})
	if s.debug {
		stats.renderTime = time.Since(t0)
		s.debugLogFrame(stats)
	}
}

// Close saves the scene first when AutoSave is set, then releases its arena.
// The returned error comes from the save; the arena is released regardless.
// Closing twice is a no-op.
func (s *Scene) Close() error {
	if s == nil || s.arena.Released() {
		return nil
	}
	var err error
	if s.AutoSave && s.Path != "" {
		err = s.Save()
	}
	if s.store != nil && s.root != nil {
		s.root.Walk(func(n *Node) bool {
			ev := s.nodeEvent(EventNodeDisposed, n)
			ev.Node = nil
			s.store.EmitEvent(ev)
			return true
		})
	}
	debugf("scene %s closed (%d bytes released)", s.ID, s.arena.SizeInUse())
	s.arena.Release()
	s.root = nil
	return err
}

func (s *Scene) nodeEvent(typ NodeEventType, n *Node) NodeEvent {
	return NodeEvent{
		Type:      typ,
		Scene:     s.ID,
		NodeID:    n.ID,
		Name:      n.Name,
		Component: n.Type,
		Node:      n,
	}
}

// SetEntityStore sets the optional ECS bridge.
func (s *Scene) SetEntityStore(store EntityStore) {
	s.store = store
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-node
// access panics, tree depth and child count warnings are printed, and load
// and per-frame timing stats are logged to stderr.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
}

// SetDebugMode toggles debug mode for code that has no Scene yet, such as
// the load functions.
func SetDebugMode(enabled bool) {
	globalDebug = enabled
}

// globalDebug mirrors the most recently set debug flag so that node
// operations (which lack a Scene pointer) can check it cheaply. Only valid
// with a single Scene; multiple Scenes with differing debug modes will
// reflect whichever called SetDebugMode last.
var globalDebug bool
