// Package affine provides the numeric algebra for 3x3 row-major transform
// matrices: contractivity analysis and enforcement, and the approximate
// decomposition/reconstruction used by the structured mutation operators.
package affine

import "math"

const (
	// ContractivityThreshold gates the contractivity check.
	ContractivityThreshold = 0.95
	// MaxContractivity is the ceiling enforced on mutated matrices.
	MaxContractivity = 0.85
)

// Components is the approximate scale/rotation/shear factorization of a
// matrix. The decomposition is deliberately not a full SVD: shear leaks into
// the rotation estimate and the round trip through Reconstruct is only
// approximately faithful.
type Components struct {
	ScaleX float64 `json:"scale_x"`
	ScaleY float64 `json:"scale_y"`
	ScaleZ float64 `json:"scale_z"`

	RotationX float64 `json:"rotation_x"`
	RotationY float64 `json:"rotation_y"`
	RotationZ float64 `json:"rotation_z"`

	ShearXY float64 `json:"shear_xy"`
	ShearXZ float64 `json:"shear_xz"`
	ShearYZ float64 `json:"shear_yz"`
}

// SpectralRadius approximates the spectral radius via the scaled Frobenius
// norm sqrt(sum(m[i]^2)/3). Exact eigenvalues of a general 3x3 matrix need a
// cubic solve; this proxy is conservative enough to gate divergence.
func SpectralRadius(m [9]float64) float64 {
	sum := 0.0
	for _, v := range m {
		sum += v * v
	}
	return math.Sqrt(sum / 3)
}

// Determinant computes the 3x3 determinant by cofactor expansion.
func Determinant(m [9]float64) float64 {
	return m[0]*(m[4]*m[8]-m[5]*m[7]) -
		m[1]*(m[3]*m[8]-m[5]*m[6]) +
		m[2]*(m[3]*m[7]-m[4]*m[6])
}

// IsContractive reports whether both the spectral-radius proxy and the
// absolute determinant fall below threshold.
func IsContractive(m [9]float64, threshold float64) bool {
	return SpectralRadius(m) < threshold && math.Abs(Determinant(m)) < threshold
}

// EnforceContractivity rescales m uniformly so its spectral-radius proxy does
// not exceed maxContractivity. Matrices already inside the bound are returned
// unchanged, bit for bit.
func EnforceContractivity(m [9]float64, maxContractivity float64) [9]float64 {
	radius := SpectralRadius(m)
	if radius <= maxContractivity {
		return m
	}
	factor := maxContractivity / radius
	for i := range m {
		m[i] *= factor
	}
	return m
}

// Decompose estimates per-column scales, X-Y-Z Euler angles, and residual
// shear terms. Zero-norm columns fall back to a denominator of 1.
func Decompose(m [9]float64) Components {
	scaleX := columnNorm(m, 0)
	scaleY := columnNorm(m, 1)
	scaleZ := columnNorm(m, 2)

	dx := nonZero(scaleX)
	dy := nonZero(scaleY)
	dz := nonZero(scaleZ)

	// Column-normalized entries used for the angle estimate.
	n00 := m[0] / dx
	n01 := m[1] / dy
	n02 := m[2] / dz
	n12 := m[5] / dz
	n22 := m[8] / dz

	rotY := math.Asin(clamp(n02, -1, 1))
	rotX := math.Atan2(-n12, n22)
	rotZ := math.Atan2(-n01, n00)

	r := rotationMatrix(rotX, rotY, rotZ)

	return Components{
		ScaleX:    scaleX,
		ScaleY:    scaleY,
		ScaleZ:    scaleZ,
		RotationX: rotX,
		RotationY: rotY,
		RotationZ: rotZ,
		ShearXY:   m[1] - r[1]*scaleY,
		ShearXZ:   m[2] - r[2]*scaleZ,
		ShearYZ:   m[5] - r[5]*scaleZ,
	}
}

// Reconstruct rebuilds a matrix from components: the combined Rx*Ry*Rz
// rotation, scale applied per column, and shear added to the upper
// off-diagonal entries.
func Reconstruct(c Components) [9]float64 {
	m := rotationMatrix(c.RotationX, c.RotationY, c.RotationZ)
	scales := [3]float64{c.ScaleX, c.ScaleY, c.ScaleZ}
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			m[row*3+col] *= scales[col]
		}
	}
	m[1] += c.ShearXY
	m[2] += c.ShearXZ
	m[5] += c.ShearYZ
	return m
}

// rotationMatrix composes Rx(rx)*Ry(ry)*Rz(rz) in row-major order.
func rotationMatrix(rx, ry, rz float64) [9]float64 {
	sx, cx := math.Sincos(rx)
	sy, cy := math.Sincos(ry)
	sz, cz := math.Sincos(rz)
	return [9]float64{
		cy * cz, -cy * sz, sy,
		sx*sy*cz + cx*sz, -sx*sy*sz + cx*cz, -sx * cy,
		-cx*sy*cz + sx*sz, cx*sy*sz + sx*cz, cx * cy,
	}
}

func columnNorm(m [9]float64, col int) float64 {
	a, b, c := m[col], m[col+3], m[col+6]
	return math.Sqrt(a*a + b*b + c*c)
}

func nonZero(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
