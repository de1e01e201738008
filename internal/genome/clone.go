package genome

import "github.com/JDerekLomas/fractalviewer/internal/model"

// CloneTransform returns an independent copy. Transform holds only fixed-size
// value fields, so the assignment copy is already deep; the function exists so
// call sites state the copy explicitly.
func CloneTransform(t model.Transform) model.Transform {
	return t
}

// CloneTransforms copies a transform list into fresh backing storage.
func CloneTransforms(transforms []model.Transform) []model.Transform {
	if transforms == nil {
		return nil
	}
	out := make([]model.Transform, len(transforms))
	copy(out, transforms)
	return out
}

// CloneGenome deep-copies a genome so operators never alias their inputs.
func CloneGenome(g model.Genome) model.Genome {
	cloned := g
	cloned.Transforms = CloneTransforms(g.Transforms)
	cloned.ParentIDs = append([]string(nil), g.ParentIDs...)
	return cloned
}
