// Package quant constrains model weights to low-bit-width values during
// training.
//
// The quantizer projects weights onto a uniform symmetric grid after
// every optimizer step, so the exported model only ever contains values
// a low-precision hardware datapath can hold. Gradients themselves flow
// through the unmodified backward pass; custom gradient estimators are
// out of scope.
package quant

import (
	"fmt"
	"math"

	"github.com/bitgate-ml/bitgate/internal/nn"
	"github.com/bitgate-ml/bitgate/internal/tensor"
)

// Quantizer snaps tensors onto a symmetric uniform grid with 2^bits - 1
// levels centered on zero.
type Quantizer struct {
	bits   int
	levels int // positive levels per side: 2^(bits-1) - 1
}

// New creates a Quantizer for the given bit width. Width must be at
// least 2: one bit leaves no room for a zero level in a symmetric grid.
func New(bits int) (*Quantizer, error) {
	if bits < 2 || bits > 16 {
		return nil, fmt.Errorf("quantizer bits must be in [2, 16], got %d", bits)
	}
	return &Quantizer{
		bits:   bits,
		levels: 1<<(bits-1) - 1,
	}, nil
}

// Bits returns the configured bit width.
func (q *Quantizer) Bits() int {
	return q.bits
}

// Apply snaps every element of t onto the grid in place.
//
// The per-tensor scale is maxAbs/levels, so the grid always covers the
// current weight range. An all-zero tensor is left untouched.
func (q *Quantizer) Apply(t *tensor.Tensor) {
	data := t.Data()

	var maxAbs float32
	for _, v := range data {
		if a := float32(math.Abs(float64(v))); a > maxAbs {
			maxAbs = a
		}
	}
	if maxAbs == 0 {
		return
	}

	scale := maxAbs / float32(q.levels)
	for i, v := range data {
		level := math.Round(float64(v / scale))
		if level > float64(q.levels) {
			level = float64(q.levels)
		} else if level < -float64(q.levels) {
			level = -float64(q.levels)
		}
		data[i] = float32(level) * scale
	}
}

// ApplyToModel quantizes every weight matrix of the model in place.
// Biases stay full precision; they fold into threshold logic downstream.
func (q *Quantizer) ApplyToModel(model *nn.MLP) {
	for i := 0; i < model.NumLayers(); i++ {
		q.Apply(model.Layer(i).Weight().Tensor())
	}
}
