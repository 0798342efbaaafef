// Package geometry provides the volume tree and material database the
// transport engine steps through. Volumes are placed by translation
// inside a mother volume; the world is the single root.
package geometry

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/nkrah/opengate-nils/internal/engine"
)

// WorldName is the reserved name of the root volume.
const WorldName = "world"

var (
	// ErrDuplicateVolume indicates a volume name used twice.
	ErrDuplicateVolume = errors.New("geometry: duplicate volume name")

	// ErrUnknownVolume indicates a lookup for a name never placed.
	ErrUnknownVolume = errors.New("geometry: unknown volume")
)

// Volume is a placed solid. Translation is relative to the world frame;
// nesting is positional only (a child must lie inside its mother).
type Volume struct {
	Name        string
	Shape       Shape
	Translation engine.Vec3
	Material    string

	mother   *Volume
	children []*Volume
}

// Contains reports whether the world-frame point lies in the volume.
func (v *Volume) Contains(p engine.Vec3) bool {
	return v.Shape.Contains(p.Sub(v.Translation))
}

// Children returns the daughter volumes in placement order.
func (v *Volume) Children() []*Volume { return v.children }

// Mother returns the containing volume, nil for the world.
func (v *Volume) Mother() *Volume { return v.mother }

// World is the volume tree with name-keyed lookup.
type World struct {
	root   *Volume
	byName map[string]*Volume
}

// NewWorld builds a world box with the given half-length per axis.
func NewWorld(halfSize float64, material string) *World {
	root := &Volume{
		Name:     WorldName,
		Shape:    Box{HalfX: halfSize, HalfY: halfSize, HalfZ: halfSize},
		Material: material,
	}
	return &World{
		root:   root,
		byName: map[string]*Volume{WorldName: root},
	}
}

// Root returns the world volume.
func (w *World) Root() *Volume { return w.root }

// Add places a volume inside the named mother.
func (w *World) Add(v *Volume, mother string) error {
	if _, exists := w.byName[v.Name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateVolume, v.Name)
	}
	m, ok := w.byName[mother]
	if !ok {
		return fmt.Errorf("%w: mother %q", ErrUnknownVolume, mother)
	}
	v.mother = m
	m.children = append(m.children, v)
	w.byName[v.Name] = v
	return nil
}

// Find returns the volume with the given name.
func (w *World) Find(name string) (*Volume, error) {
	v, ok := w.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVolume, name)
	}
	return v, nil
}

// Names returns all placed volume names, sorted.
func (w *World) Names() []string {
	names := make([]string, 0, len(w.byName))
	for name := range w.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LocateVolume returns the innermost volume containing p, ok=false when
// p lies outside the world. Implements engine.Navigator.
func (w *World) LocateVolume(p engine.Vec3) (string, bool) {
	if !w.root.Contains(p) {
		return "", false
	}
	v := w.root
descend:
	for {
		for _, c := range v.children {
			if c.Contains(p) {
				v = c
				continue descend
			}
		}
		return v.Name, true
	}
}

// DistanceToBoundary returns the distance from p along dir to the next
// volume boundary: leaving the current volume or entering one of its
// daughters, whichever comes first.
func (w *World) DistanceToBoundary(p, dir engine.Vec3) float64 {
	name, ok := w.LocateVolume(p)
	if !ok {
		return 0
	}
	v := w.byName[name]

	dist := math.Inf(1)
	if _, tout, ok := v.Shape.Intersect(p.Sub(v.Translation), dir); ok && tout > 0 {
		dist = tout
	}
	for _, c := range v.children {
		tin, _, ok := c.Shape.Intersect(p.Sub(c.Translation), dir)
		if ok && tin > 0 && tin < dist {
			dist = tin
		}
	}
	return dist
}

// Dump renders the volume tree, one volume per line.
func (w *World) Dump() string {
	var sb strings.Builder
	w.dumpVolume(&sb, w.root, 0)
	return sb.String()
}

func (w *World) dumpVolume(sb *strings.Builder, v *Volume, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(fmt.Sprintf("%s [%s]\n", v.Name, v.Material))
	for _, c := range v.children {
		w.dumpVolume(sb, c, depth+1)
	}
}
