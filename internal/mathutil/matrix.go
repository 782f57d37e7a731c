package mathutil

// Vec is a float64 vector.
type Vec = []float64

// Mat is a 2D float64 matrix stored as row-major [][]float64.
type Mat = [][]float64

// NewMat creates a rows x cols matrix initialized to zero.
func NewMat(rows, cols int) Mat {
	m := make(Mat, rows)
	data := make([]float64, rows*cols)
	for i := range m {
		m[i] = data[i*cols : (i+1)*cols]
	}
	return m
}

// NewVecFill creates a vector of length n filled with val.
func NewVecFill(n int, val float64) Vec {
	v := make(Vec, n)
	FillVec(v, val)
	return v
}

// FillVec fills all elements of an existing vector with val.
func FillVec(v Vec, val float64) {
	for i := range v {
		v[i] = val
	}
}

// Affine stores W*x + b in dst, where W is [len(dst) × len(x)] row-major.
func Affine(dst Vec, w []float64, x, b Vec) {
	in := len(x)
	for i := range dst {
		row := w[i*in : (i+1)*in]
		sum := b[i]
		for j, xv := range x {
			sum += row[j] * xv
		}
		dst[i] = sum
	}
}
