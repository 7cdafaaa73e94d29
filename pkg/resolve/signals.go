package resolve

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/OpenTraceLab/aldnet/pkg/diag"
	"github.com/OpenTraceLab/aldnet/pkg/machine"
)

// Target is one thing a signal name stands for: a concrete pin, or another
// signal name that is expanded when the name is resolved.
type Target struct {
	Pin    machine.PinLocation
	Signal string
}

// IsSignal reports whether the target refers to another signal name.
func (t Target) IsSignal() bool { return t.Signal != "" }

func (t Target) String() string {
	if t.IsSignal() {
		return t.Signal
	}
	return t.Pin.String()
}

// SignalTable maps signal names to their targets. A name may have several
// targets; a net driven from several places is a DOT-OR bus.
type SignalTable struct {
	names map[string][]Target
	seen  map[string]map[Target]struct{}
}

// NewSignalTable returns an empty table.
func NewSignalTable() *SignalTable {
	return &SignalTable{
		names: make(map[string][]Target),
		seen:  make(map[string]map[Target]struct{}),
	}
}

func (t *SignalTable) add(name string, target Target) {
	set, ok := t.seen[name]
	if !ok {
		set = make(map[Target]struct{})
		t.seen[name] = set
	}
	if _, dup := set[target]; dup {
		return
	}
	set[target] = struct{}{}
	t.names[name] = append(t.names[name], target)
}

// AddPin registers loc as a target of name.
func (t *SignalTable) AddPin(name string, loc machine.PinLocation) {
	t.add(name, Target{Pin: loc})
}

// AddReference registers the signal other as a target of name.
func (t *SignalTable) AddReference(name, other string) {
	t.add(name, Target{Signal: other})
}

// Has reports whether name has at least one target.
func (t *SignalTable) Has(name string) bool { return len(t.names[name]) > 0 }

// Targets returns the direct targets of name in registration order.
func (t *SignalTable) Targets(name string) []Target {
	out := make([]Target, len(t.names[name]))
	copy(out, t.names[name])
	return out
}

// Names returns every registered name, sorted.
func (t *SignalTable) Names() []string {
	names := make([]string, 0, len(t.names))
	for n := range t.names {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered names.
func (t *SignalTable) Len() int { return len(t.names) }

// Resolve expands name to the concrete pins it stands for, following signal
// references recursively. Each pin appears once, in first-seen order.
func (t *SignalTable) Resolve(name string) ([]machine.PinLocation, error) {
	var out []machine.PinLocation
	found := make(map[machine.PinLocation]struct{})
	done := make(map[string]struct{})
	if err := t.expand(name, nil, done, found, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (t *SignalTable) expand(name string, path []string, done map[string]struct{},
	found map[machine.PinLocation]struct{}, out *[]machine.PinLocation) error {
	for i, p := range path {
		if p == name {
			cycle := append(append([]string{}, path[i:]...), name)
			return diag.Newf(diag.KindAliasCycle, name, "%s", strings.Join(cycle, " -> "))
		}
	}
	if _, ok := done[name]; ok {
		return nil
	}
	targets, ok := t.names[name]
	if !ok || len(targets) == 0 {
		if len(path) > 0 {
			return diag.Newf(diag.KindUnknownSignal, name, "referenced by %q", path[len(path)-1])
		}
		return diag.New(diag.KindUnknownSignal, name)
	}
	path = append(path, name)
	for _, target := range targets {
		if target.IsSignal() {
			if err := t.expand(target.Signal, path, done, found, out); err != nil {
				return err
			}
			continue
		}
		if _, dup := found[target.Pin]; dup {
			continue
		}
		found[target.Pin] = struct{}{}
		*out = append(*out, target.Pin)
	}
	done[name] = struct{}{}
	return nil
}

// CheckCycles reports the first alias cycle in the table, if any. Names are
// visited in sorted order so the reported cycle is stable.
func (t *SignalTable) CheckCycles() error {
	names := t.Names()
	ids := make(map[string]int64, len(names))
	g := simple.NewDirectedGraph()
	for i, n := range names {
		ids[n] = int64(i)
		g.AddNode(simple.Node(i))
	}
	for _, n := range names {
		for _, target := range t.names[n] {
			if !target.IsSignal() {
				continue
			}
			if target.Signal == n {
				return diag.Newf(diag.KindAliasCycle, n, "%s -> %s", n, n)
			}
			to, ok := ids[target.Signal]
			if !ok {
				// unknown names are reported when they are resolved
				continue
			}
			g.SetEdge(g.NewEdge(simple.Node(ids[n]), simple.Node(to)))
		}
	}

	var cycles [][]string
	for _, scc := range topo.TarjanSCC(g) {
		if len(scc) < 2 {
			continue
		}
		cycles = append(cycles, sccNames(scc, names))
	}
	if len(cycles) == 0 {
		return nil
	}
	sort.Slice(cycles, func(i, j int) bool { return cycles[i][0] < cycles[j][0] })
	first := cycles[0]
	return diag.Newf(diag.KindAliasCycle, first[0], "names refer to each other: %s",
		strings.Join(first, ", "))
}

func sccNames(scc []graph.Node, names []string) []string {
	out := make([]string, len(scc))
	for i, n := range scc {
		out[i] = names[n.ID()]
	}
	sort.Strings(out)
	return out
}

// Report writes one line per name, sorted: "name -> target target ...".
func (t *SignalTable) Report(w io.Writer) error {
	var sb strings.Builder
	for _, n := range t.Names() {
		sb.WriteString(n)
		sb.WriteString(" ->")
		for _, target := range t.names[n] {
			sb.WriteString(" ")
			sb.WriteString(target.String())
		}
		sb.WriteString("\n")
	}
	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("resolve: write signal report: %w", err)
	}
	return nil
}
