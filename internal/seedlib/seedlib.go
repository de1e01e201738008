// Package seedlib is a fixed catalog of hand-tuned starting genomes. Every
// constructor is a pure function of no inputs; callers enumerate the catalog
// to build a diverse initial population.
package seedlib

import (
	"fmt"

	"github.com/JDerekLomas/fractalviewer/internal/model"
)

// Entry names one catalog genome and how to build it.
type Entry struct {
	Name        string
	Description string
	Build       func() model.Genome
}

// Catalog returns every library entry in a stable order.
func Catalog() []Entry {
	return []Entry{
		{"sierpinski", "tetrahedral gasket, four half-scale corner maps", Sierpinski},
		{"octahedron", "six-pointed crystal along the coordinate axes", Octahedron},
		{"fern", "botanical frond with a slight twist out of plane", Fern},
		{"spiral", "logarithmic spiral staircase", Spiral},
		{"tree", "branching structure with a shrinking trunk", Tree},
		{"dust", "sparse three-corner cantor dust", Dust},
	}
}

// Lookup finds a catalog entry by name.
func Lookup(name string) (Entry, error) {
	for _, e := range Catalog() {
		if e.Name == name {
			return e, nil
		}
	}
	return Entry{}, fmt.Errorf("seedlib: unknown seed genome %q", name)
}

func wrap(name string, transforms []model.Transform) model.Genome {
	return model.Genome{
		VersionedRecord: model.CurrentVersion(),
		ID:              "seed:" + name,
		Transforms:      transforms,
	}
}

func uniformScale(s float64) [9]float64 {
	return [9]float64{s, 0, 0, 0, s, 0, 0, 0, s}
}

// Sierpinski contracts by half toward the four vertices of a tetrahedron.
func Sierpinski() model.Genome {
	vertices := [][3]float64{
		{1, 1, 1}, {1, -1, -1}, {-1, 1, -1}, {-1, -1, 1},
	}
	colors := [][3]uint8{
		{230, 80, 80}, {80, 200, 120}, {90, 130, 230}, {230, 200, 90},
	}
	transforms := make([]model.Transform, 0, len(vertices))
	for i, v := range vertices {
		transforms = append(transforms, model.Transform{
			M:           uniformScale(0.5),
			TX:          v[0] * 0.5,
			TY:          v[1] * 0.5,
			TZ:          v[2] * 0.5,
			Probability: 1,
			Color:       colors[i],
		})
	}
	return wrap("sierpinski", transforms)
}

// Octahedron contracts toward the six unit-axis vertices.
func Octahedron() model.Genome {
	vertices := [][3]float64{
		{1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}, {0, 0, 1}, {0, 0, -1},
	}
	transforms := make([]model.Transform, 0, len(vertices))
	for i, v := range vertices {
		hue := uint8(40 * i)
		transforms = append(transforms, model.Transform{
			M:           uniformScale(0.48),
			TX:          v[0] * 0.52,
			TY:          v[1] * 0.52,
			TZ:          v[2] * 0.52,
			Probability: 1,
			Color:       [3]uint8{120 + hue/2, 80 + hue/3, 220 - hue/2},
		})
	}
	return wrap("octahedron", transforms)
}

// Fern is the classic four-map frond lifted into 3D with a gentle twist in
// the dominant map so the leaf curls out of plane.
func Fern() model.Genome {
	return wrap("fern", []model.Transform{
		{
			M:           [9]float64{0, 0, 0, 0, 0.16, 0, 0, 0, 0.05},
			Probability: 0.1,
			Color:       [3]uint8{60, 110, 40},
		},
		{
			M:           [9]float64{0.85, 0.04, 0, -0.04, 0.85, 0.06, 0, -0.06, 0.82},
			TY:          1.6,
			Probability: 0.85,
			Color:       [3]uint8{70, 160, 60},
		},
		{
			M:           [9]float64{0.2, -0.26, 0, 0.23, 0.22, 0, 0, 0, 0.3},
			TY:          1.6,
			Probability: 0.07,
			Color:       [3]uint8{110, 190, 80},
		},
		{
			M:           [9]float64{-0.15, 0.28, 0, 0.26, 0.24, 0, 0, 0, 0.3},
			TY:          0.44,
			Probability: 0.07,
			Color:       [3]uint8{150, 210, 100},
		},
	})
}

// Spiral pairs a rotate-and-shrink map with a small off-axis stamp, giving a
// logarithmic spiral that climbs in z.
func Spiral() model.Genome {
	// cos/sin of 0.45 rad scaled by 0.82.
	c, s := 0.7378*0.82, 0.4350*0.82
	return wrap("spiral", []model.Transform{
		{
			M:           [9]float64{c, -s, 0, s, c, 0, 0, 0, 0.82},
			TZ:          0.12,
			Probability: 0.9,
			Color:       [3]uint8{200, 120, 220},
		},
		{
			M:           uniformScale(0.18),
			TX:          0.9,
			Probability: 0.1,
			Color:       [3]uint8{240, 220, 120},
		},
	})
}

// Tree combines a shrinking trunk with two tilted branch maps.
func Tree() model.Genome {
	return wrap("tree", []model.Transform{
		{
			M:           [9]float64{0.05, 0, 0, 0, 0.6, 0, 0, 0, 0.05},
			TY:          -0.6,
			Probability: 0.2,
			Color:       [3]uint8{130, 90, 50},
		},
		{
			M:           [9]float64{0.46, -0.32, 0, 0.32, 0.46, 0, 0, 0, 0.5},
			TX:          0.35,
			TY:          0.45,
			Probability: 0.4,
			Color:       [3]uint8{90, 180, 70},
		},
		{
			M:           [9]float64{0.46, 0.32, 0, -0.32, 0.46, 0, 0, 0, 0.5},
			TX:          -0.35,
			TY:          0.45,
			Probability: 0.4,
			Color:       [3]uint8{70, 160, 90},
		},
	})
}

// Dust scatters points toward three distant corners at a small scale,
// producing disconnected cantor-style clusters.
func Dust() model.Genome {
	corners := [][3]float64{
		{0.9, 0.9, -0.9}, {-0.9, 0.2, 0.9}, {0.1, -0.9, -0.2},
	}
	colors := [][3]uint8{
		{220, 220, 240}, {180, 190, 230}, {140, 150, 210},
	}
	transforms := make([]model.Transform, 0, len(corners))
	for i, v := range corners {
		transforms = append(transforms, model.Transform{
			M:           uniformScale(0.33),
			TX:          v[0],
			TY:          v[1],
			TZ:          v[2],
			Probability: 1,
			Color:       colors[i],
		})
	}
	return wrap("dust", transforms)
}
