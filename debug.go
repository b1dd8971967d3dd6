package sapling

import (
	"fmt"
	"os"
	"time"
)

// loadStats holds timing and size metrics for one scene load.
// Only populated when debug mode is on.
type loadStats struct {
	parseTime   time.Duration
	buildTime   time.Duration
	resolveTime time.Duration
	values      int // value-tree records
	nodes       int
	refs        int
}

// debugLogLoad prints load timing and arena usage to stderr.
func (s *Scene) debugLogLoad(stats loadStats) {
	if !globalDebug {
		return
	}
	total := stats.parseTime + stats.buildTime + stats.resolveTime
	_, _ = fmt.Fprintf(os.Stderr,
		"[sapling] scene %s: parse: %v | build: %v | resolve: %v | total: %v\n",
		s.ID, stats.parseTime, stats.buildTime, stats.resolveTime, total)
	m := s.arena.Metrics()
	_, _ = fmt.Fprintf(os.Stderr,
		"[sapling] values: %d | nodes: %d | refs: %d | arena: %d/%d bytes (%.1f%%)\n",
		stats.values, stats.nodes, stats.refs, m.SizeInUse, m.Capacity, m.Utilization*100)
}

// frameStats holds per-frame timing for Run and Render.
type frameStats struct {
	runTime    time.Duration
	renderTime time.Duration
	visited    int
	skipped    int // invalid nodes
}

func (s *Scene) debugLogFrame(stats frameStats) {
	if !s.debug {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr,
		"[sapling] run: %v | render: %v | nodes: %d | skipped: %d\n",
		stats.runTime, stats.renderTime, stats.visited, stats.skipped)
}

// debugf prints a single debug line to stderr when debug mode is on.
func debugf(format string, args ...any) {
	if !globalDebug {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "[sapling] "+format+"\n", args...)
}

// Limits past which debug mode warns while linking nodes. WorldMatrix walks
// every ancestor of a node; Find and FindID scan every child.
const (
	debugMaxDepth    = 64
	debugMaxChildren = 4096
)

// debugCheckDisposed panics when op is applied to a node whose scene was
// closed or that was disposed on its own.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("sapling: %s: %v is disposed", op, n))
	}
}

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxDepth {
		debugf("warning: %v is %d levels deep (limit %d)", n, depth, debugMaxDepth)
	}
}

func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildren {
		debugf("warning: %v has %d children (limit %d)", n, len(n.children), debugMaxChildren)
	}
}
