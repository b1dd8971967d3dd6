// Command sapling inspects, formats and views scene files.
//
// Usage:
//
//	sapling check [-debug] [-arena bytes] <file>
//	sapling fmt [-w] [-o out] <file>
//	sapling tree [-ids] <file>
//	sapling view [-width 800] [-height 600] [-fps] [-autosave] <file>
//
// Files ending in .zst are zstd compressed. Any load error is logged and the
// command exits with status 1.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/phanxgames/sapling"
	"github.com/phanxgames/sapling/viewer"
)

const usage = `usage: sapling <command> [flags] <file>

commands:
  check   load the scene and verify it survives a round trip
  fmt     print the scene in canonical form
  tree    print the node hierarchy
  view    open the scene in a window`

var errUsage = errors.New(usage)

func main() {
	log.SetFlags(0)
	log.SetPrefix("sapling: ")
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, usage)
			os.Exit(2)
		}
		log.Fatal(err)
	}
}

// run executes one subcommand, writing its output to out.
func run(args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "check":
		return runCheck(args[1:], out)
	case "fmt":
		return runFmt(args[1:], out)
	case "tree":
		return runTree(args[1:], out)
	case "view":
		return runView(args[1:])
	case "help", "-h", "-help", "--help":
		fmt.Fprintln(out, usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q: %w", args[0], errUsage)
	}
}

// loadFlags are shared by every subcommand that reads a scene.
type loadFlags struct {
	debug bool
	arena int
}

func (lf *loadFlags) register(fs *flag.FlagSet) {
	fs.BoolVar(&lf.debug, "debug", false, "log load statistics to stderr")
	fs.IntVar(&lf.arena, "arena", sapling.DefaultArenaSize, "scene arena size in bytes")
}

func (lf *loadFlags) load(fs *flag.FlagSet) (*sapling.Scene, error) {
	if fs.NArg() != 1 {
		return nil, fmt.Errorf("%s: expected exactly one file: %w", fs.Name(), errUsage)
	}
	sapling.SetDebugMode(lf.debug)
	s, err := sapling.ReadSceneFromFileWithOptions(fs.Arg(0), sapling.LoadOptions{ArenaSize: lf.arena})
	if err != nil {
		return nil, fmt.Errorf("load scene: %w", err)
	}
	return s, nil
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// staticApp is the App used outside the viewer: time stands still.
type staticApp struct{}

func (staticApp) Time() float64   { return 0 }
func (staticApp) Delta() float64  { return 0 }
func (staticApp) Aspect() float32 { return 1 }

func runCheck(args []string, out io.Writer) error {
	fs := newFlagSet("check")
	var lf loadFlags
	lf.register(fs)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("check: %v: %w", err, errUsage)
	}
	s, err := lf.load(fs)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Load(staticApp{}); err != nil {
		return fmt.Errorf("load resources: %w", err)
	}

	first := sapling.MarshalScene(s)
	again, err := sapling.LoadScene(string(first))
	if err != nil {
		return fmt.Errorf("reload serialized scene: %w", err)
	}
	defer again.Close()
	if string(sapling.MarshalScene(again)) != string(first) {
		return errors.New("round trip is not stable")
	}

	canonical, err := sameTree(s, first)
	if err != nil {
		return err
	}

	m := s.Arena().Metrics()
	fmt.Fprintf(out, "%s: ok, %d nodes, arena %d/%d bytes (%.1f%%)\n",
		fs.Arg(0), s.NumNodes(), m.SizeInUse, m.Capacity, m.Utilization*100)
	if !canonical {
		fmt.Fprintf(out, "%s: not in canonical form (run sapling fmt -w)\n", fs.Arg(0))
	}
	return nil
}

// sameTree reports whether the file behind s parses to the same value tree
// as its serialized form.
func sameTree(s *sapling.Scene, serialized []byte) (bool, error) {
	text, err := sapling.ReadText(s.Path)
	if err != nil {
		return false, err
	}
	a := sapling.NewArena(sapling.DefaultParseArenaSize)
	defer a.Release()
	orig, err := sapling.ParseDocument(a, text)
	if err != nil {
		return false, err
	}
	b := sapling.NewArena(sapling.DefaultParseArenaSize)
	defer b.Release()
	out, err := sapling.ParseDocument(b, string(serialized))
	if err != nil {
		return false, err
	}
	return orig.Equal(out), nil
}

func runFmt(args []string, out io.Writer) error {
	fs := newFlagSet("fmt")
	var lf loadFlags
	lf.register(fs)
	write := fs.Bool("w", false, "write the result back to the source file")
	output := fs.String("o", "", "write the result to this file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("fmt: %v: %w", err, errUsage)
	}
	s, err := lf.load(fs)
	if err != nil {
		return err
	}
	defer s.Close()

	switch {
	case *write:
		return s.Save()
	case *output != "":
		return sapling.WriteSceneFile(*output, s)
	default:
		return sapling.SerializeScene(out, s)
	}
}

func runTree(args []string, out io.Writer) error {
	fs := newFlagSet("tree")
	var lf loadFlags
	lf.register(fs)
	ids := fs.Bool("ids", false, "show node IDs")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("tree: %v: %w", err, errUsage)
	}
	s, err := lf.load(fs)
	if err != nil {
		return err
	}
	defer s.Close()

	printTree(out, s.Root(), 0, *ids)
	return nil
}

func printTree(out io.Writer, n *sapling.Node, depth int, ids bool) {
	for range depth {
		fmt.Fprint(out, "  ")
	}
	if ids {
		fmt.Fprintf(out, "%s [%s] #%d\n", n.Name, n.Type, n.ID)
	} else {
		fmt.Fprintf(out, "%s [%s]\n", n.Name, n.Type)
	}
	for _, c := range n.Children() {
		printTree(out, c, depth+1, ids)
	}
}

func runView(args []string) error {
	fs := newFlagSet("view")
	var lf loadFlags
	lf.register(fs)
	width := fs.Int("width", 800, "window width")
	height := fs.Int("height", 600, "window height")
	showFPS := fs.Bool("fps", false, "show the FPS overlay")
	autoSave := fs.Bool("autosave", false, "write the scene back to its file on exit")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("view: %v: %w", err, errUsage)
	}
	s, err := lf.load(fs)
	if err != nil {
		return err
	}
	log.Printf("viewing %s (%d nodes)", s.Path, s.NumNodes())
	return viewer.Run(s, viewer.RunConfig{
		Title:    "sapling - " + s.Path,
		Width:    *width,
		Height:   *height,
		ShowFPS:  *showFPS,
		AutoSave: *autoSave,
	})
}
