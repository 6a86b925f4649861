package nn

import (
	"github.com/bitgate-ml/bitgate/internal/tensor"
)

// Parameter represents a trainable parameter in the classifier.
//
// Parameters are tensors with an associated gradient slot that the
// backward pass fills in and the optimizer consumes.
//
// Example:
//
//	weight := nn.NewParameter("fc1.weight", weightTensor)
//	w := weight.Tensor()
//	grad := weight.Grad() // nil until a backward pass ran
type Parameter struct {
	name   string
	tensor *tensor.Tensor
	grad   *tensor.Tensor
}

// NewParameter creates a new trainable parameter.
//
// The tensor should be initialized before wrapping; the gradient is
// allocated by the first backward pass.
func NewParameter(name string, t *tensor.Tensor) *Parameter {
	return &Parameter{
		name:   name,
		tensor: t,
	}
}

// Name returns the parameter name (e.g. "fc1.weight").
func (p *Parameter) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter) Tensor() *tensor.Tensor {
	return p.tensor
}

// Grad returns the gradient tensor, or nil before the first backward pass.
func (p *Parameter) Grad() *tensor.Tensor {
	return p.grad
}

// SetGrad sets the gradient tensor. Called during the backward pass.
func (p *Parameter) SetGrad(grad *tensor.Tensor) {
	p.grad = grad
}

// ZeroGrad clears the gradient.
//
// Call before each training iteration to avoid stale gradients from the
// previous batch.
func (p *Parameter) ZeroGrad() {
	p.grad = nil
}
