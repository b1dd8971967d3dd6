package ecs

import (
	"github.com/google/uuid"
	"github.com/phanxgames/sapling"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"
)

// NodeEventType is the Donburi event type for sapling node lifecycle events.
var NodeEventType = events.NewEventType[sapling.NodeEvent]()

// NodeData is the component attached to entities that stand for scene nodes.
type NodeData struct {
	Scene  uuid.UUID
	NodeID int
	Name   string
	Type   sapling.ComponentType
	Node   *sapling.Node
}

// NodeComponent holds the NodeData of a mirrored node.
var NodeComponent = donburi.NewComponentType[NodeData]()

var nodeQuery = donburi.NewQuery(filter.Contains(NodeComponent))

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EntityStore backed by a Donburi world.
// Node events are published to NodeEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) sapling.EntityStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event sapling.NodeEvent) {
	NodeEventType.Publish(s.world, event)
}

// Mirror creates one entity per valid node of s and returns the mapping.
func Mirror(world donburi.World, s *sapling.Scene) map[*sapling.Node]donburi.Entity {
	out := make(map[*sapling.Node]donburi.Entity)
	s.Root().Walk(func(n *sapling.Node) bool {
		if !n.Valid {
			return true
		}
		out[n] = create(world, NodeData{
			Scene:  s.ID,
			NodeID: n.ID,
			Name:   n.Name,
			Type:   n.Type,
			Node:   n,
		})
		return true
	})
	return out
}

func create(world donburi.World, data NodeData) donburi.Entity {
	e := world.Create(NodeComponent)
	NodeComponent.SetValue(world.Entry(e), data)
	return e
}

// Nodes returns the data of every mirrored node wrapping typ.
func Nodes(world donburi.World, typ sapling.ComponentType) []NodeData {
	var out []NodeData
	nodeQuery.Each(world, func(entry *donburi.Entry) {
		if d := NodeComponent.Get(entry); d.Type == typ {
			out = append(out, *d)
		}
	})
	return out
}

// Count returns the number of entities standing for scene nodes.
func Count(world donburi.World) int {
	return nodeQuery.Count(world)
}

type nodeKey struct {
	scene uuid.UUID
	id    int
	name  string
}

// Tracker keeps one entity per loaded node, creating it on EventNodeLoaded
// and removing it on EventNodeDisposed. Events are applied when the world's
// events are processed.
type Tracker struct {
	world    donburi.World
	entities map[nodeKey][]donburi.Entity
}

// NewTracker creates a Tracker subscribed to NodeEventType on world.
func NewTracker(world donburi.World) *Tracker {
	t := &Tracker{
		world:    world,
		entities: make(map[nodeKey][]donburi.Entity),
	}
	NodeEventType.Subscribe(world, t.handle)
	return t
}

func (t *Tracker) handle(w donburi.World, ev sapling.NodeEvent) {
	key := nodeKey{scene: ev.Scene, id: ev.NodeID, name: ev.Name}
	switch ev.Type {
	case sapling.EventNodeLoaded:
		e := create(w, NodeData{
			Scene:  ev.Scene,
			NodeID: ev.NodeID,
			Name:   ev.Name,
			Type:   ev.Component,
			Node:   ev.Node,
		})
		t.entities[key] = append(t.entities[key], e)
	case sapling.EventNodeDisposed:
		list := t.entities[key]
		if len(list) == 0 {
			return
		}
		e := list[len(list)-1]
		if len(list) == 1 {
			delete(t.entities, key)
		} else {
			t.entities[key] = list[:len(list)-1]
		}
		if w.Valid(e) {
			w.Remove(e)
		}
	}
}

// Entity returns the entity tracking the node with the given ID in scene.
func (t *Tracker) Entity(scene uuid.UUID, id int, name string) (donburi.Entity, bool) {
	list := t.entities[nodeKey{scene: scene, id: id, name: name}]
	if len(list) == 0 {
		return 0, false
	}
	return list[0], true
}
