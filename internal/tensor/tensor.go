// Package tensor provides the float32 CPU tensors used throughout bitgate.
//
// The pipeline runs offline on the CPU, so the package deliberately stays
// small: dense row-major float32 storage, 1-D and 2-D shapes, plus the
// handful of operations the classifier and the export adapter need.
//
// Example:
//
//	w := tensor.Zeros(tensor.Shape{64, 593})
//	x, err := tensor.FromSlice(bits, tensor.Shape{1, 593})
//	y := x.MatMul(w.Transpose())
package tensor

import "fmt"

// Tensor is a dense row-major float32 tensor.
//
// Every Tensor owns its backing slice; Clone always copies. Operations
// return new tensors and never mutate their receivers unless the method
// name says so (Set).
type Tensor struct {
	data  []float32
	shape Shape
}

// Zeros creates a tensor of the given shape filled with zeros.
//
// Panics if the shape is invalid; shapes are build-time constants in this
// codebase, not user input.
func Zeros(shape Shape) *Tensor {
	if err := shape.Validate(); err != nil {
		panic(fmt.Sprintf("tensor.Zeros: %v", err))
	}
	return &Tensor{
		data:  make([]float32, shape.NumElements()),
		shape: shape.Clone(),
	}
}

// Full creates a tensor of the given shape with every element set to value.
func Full(shape Shape, value float32) *Tensor {
	t := Zeros(shape)
	for i := range t.data {
		t.data[i] = value
	}
	return t
}

// FromSlice creates a tensor from a Go slice.
//
// The slice is copied, so the caller keeps ownership of data.
func FromSlice(data []float32, shape Shape) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	if len(data) != shape.NumElements() {
		return nil, fmt.Errorf("data length %d does not match shape %v (%d elements)",
			len(data), shape, shape.NumElements())
	}
	t := &Tensor{
		data:  make([]float32, len(data)),
		shape: shape.Clone(),
	}
	copy(t.data, data)
	return t, nil
}

// Shape returns the tensor's shape.
func (t *Tensor) Shape() Shape {
	return t.shape
}

// NumElements returns the total number of elements.
func (t *Tensor) NumElements() int {
	return t.shape.NumElements()
}

// Data returns the underlying float32 slice.
//
// Direct access to backing memory; mutations are visible to every holder
// of the tensor.
func (t *Tensor) Data() []float32 {
	return t.data
}

// Clone returns a deep copy of the tensor.
func (t *Tensor) Clone() *Tensor {
	c := &Tensor{
		data:  make([]float32, len(t.data)),
		shape: t.shape.Clone(),
	}
	copy(c.data, t.data)
	return c
}

// At returns the element at row i, column j of a 2-D tensor.
func (t *Tensor) At(i, j int) float32 {
	t.check2D("At")
	return t.data[i*t.shape[1]+j]
}

// Set writes the element at row i, column j of a 2-D tensor.
func (t *Tensor) Set(i, j int, v float32) {
	t.check2D("Set")
	t.data[i*t.shape[1]+j] = v
}

// Row returns a copy of row i of a 2-D tensor.
func (t *Tensor) Row(i int) []float32 {
	t.check2D("Row")
	cols := t.shape[1]
	row := make([]float32, cols)
	copy(row, t.data[i*cols:(i+1)*cols])
	return row
}

// MatMul computes the matrix product of two 2-D tensors.
//
// [m, k] @ [k, n] = [m, n]. Panics on rank or inner-dimension mismatch;
// the nn layers validate shapes before calling.
func (t *Tensor) MatMul(other *Tensor) *Tensor {
	t.check2D("MatMul")
	other.check2D("MatMul")
	m, k := t.shape[0], t.shape[1]
	if other.shape[0] != k {
		panic(fmt.Sprintf("tensor.MatMul: inner dimensions do not match: %v @ %v", t.shape, other.shape))
	}
	n := other.shape[1]

	out := Zeros(Shape{m, n})
	for i := 0; i < m; i++ {
		for p := 0; p < k; p++ {
			a := t.data[i*k+p]
			if a == 0 {
				continue
			}
			rowOther := other.data[p*n : (p+1)*n]
			rowOut := out.data[i*n : (i+1)*n]
			for j := 0; j < n; j++ {
				rowOut[j] += a * rowOther[j]
			}
		}
	}
	return out
}

// Transpose returns the transpose of a 2-D tensor.
func (t *Tensor) Transpose() *Tensor {
	t.check2D("Transpose")
	rows, cols := t.shape[0], t.shape[1]
	out := Zeros(Shape{cols, rows})
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out.data[j*rows+i] = t.data[i*cols+j]
		}
	}
	return out
}

// AddRowVector adds a 1-D tensor of length [cols] to every row of a
// 2-D tensor [rows, cols], returning a new tensor.
func (t *Tensor) AddRowVector(v *Tensor) *Tensor {
	t.check2D("AddRowVector")
	if len(v.shape) != 1 || v.shape[0] != t.shape[1] {
		panic(fmt.Sprintf("tensor.AddRowVector: vector shape %v does not match columns of %v", v.shape, t.shape))
	}
	out := t.Clone()
	cols := t.shape[1]
	for i := 0; i < t.shape[0]; i++ {
		row := out.data[i*cols : (i+1)*cols]
		for j := range row {
			row[j] += v.data[j]
		}
	}
	return out
}

func (t *Tensor) check2D(op string) {
	if len(t.shape) != 2 {
		panic(fmt.Sprintf("tensor.%s: expected 2D tensor, got shape %v", op, t.shape))
	}
}
