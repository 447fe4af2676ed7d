package geometry

// Matrix4 is a 4x4 transform in row-vector convention: a point p is
// transformed as p*M, so the translation lives in the last row.
type Matrix4 [4][4]float64

// Identity returns the identity transform
func Identity() Matrix4 {
	return Matrix4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// MatrixFromRows builds a matrix from four rows
func MatrixFromRows(r0, r1, r2, r3 [4]float64) Matrix4 {
	return Matrix4{r0, r1, r2, r3}
}

// TransformPoint applies the full transform including translation
func (m Matrix4) TransformPoint(p Vector3) Vector3 {
	return Vector3{
		X: p.X*m[0][0] + p.Y*m[1][0] + p.Z*m[2][0] + m[3][0],
		Y: p.X*m[0][1] + p.Y*m[1][1] + p.Z*m[2][1] + m[3][1],
		Z: p.X*m[0][2] + p.Y*m[1][2] + p.Z*m[2][2] + m[3][2],
	}
}

// TransformDirection applies only the linear part, ignoring translation
func (m Matrix4) TransformDirection(d Vector3) Vector3 {
	return Vector3{
		X: d.X*m[0][0] + d.Y*m[1][0] + d.Z*m[2][0],
		Y: d.X*m[0][1] + d.Y*m[1][1] + d.Z*m[2][1],
		Z: d.X*m[0][2] + d.Y*m[1][2] + d.Z*m[2][2],
	}
}

// Translation returns the translation row as a vector
func (m Matrix4) Translation() Vector3 {
	return Vector3{X: m[3][0], Y: m[3][1], Z: m[3][2]}
}

// WithTranslation returns a copy with the translation row replaced
func (m Matrix4) WithTranslation(t Vector3) Matrix4 {
	m[3][0], m[3][1], m[3][2] = t.X, t.Y, t.Z
	return m
}
