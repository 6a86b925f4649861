package nn

import (
	"fmt"
	"math/rand"

	"github.com/bitgate-ml/bitgate/internal/tensor"
)

// Linear implements a fully connected (dense) layer.
//
// Performs the transformation: y = x @ W.T + b
// where:
//   - x is the input tensor with shape [batch_size, in_features]
//   - W is the weight matrix with shape [out_features, in_features]
//   - b is the bias vector with shape [out_features]
//   - y is the output tensor with shape [batch_size, out_features]
//
// Weights are initialized with Xavier/Glorot uniform values, biases with
// zeros.
type Linear struct {
	inFeatures  int
	outFeatures int
	weight      *Parameter // [out_features, in_features]
	bias        *Parameter // [out_features]
}

// NewLinear creates a new Linear layer.
//
// name prefixes the parameter names ("fc1" yields "fc1.weight" and
// "fc1.bias"); rng drives the weight initialization.
func NewLinear(name string, inFeatures, outFeatures int, rng *rand.Rand) *Linear {
	weightShape := tensor.Shape{outFeatures, inFeatures}
	weight := NewParameter(name+".weight", Xavier(inFeatures, outFeatures, weightShape, rng))
	bias := NewParameter(name+".bias", tensor.Zeros(tensor.Shape{outFeatures}))

	return &Linear{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight:      weight,
		bias:        bias,
	}
}

// Forward computes y = x @ W.T + b.
//
// Input shape: [batch_size, in_features].
// Output shape: [batch_size, out_features].
func (l *Linear) Forward(input *tensor.Tensor) *tensor.Tensor {
	inputShape := input.Shape()
	if len(inputShape) != 2 {
		panic(fmt.Sprintf("Linear.Forward: expected 2D input [batch, features], got shape %v", inputShape))
	}
	if inputShape[1] != l.inFeatures {
		panic(fmt.Sprintf("Linear.Forward: expected input with %d features, got %d", l.inFeatures, inputShape[1]))
	}

	// [batch, in] @ [in, out] = [batch, out]
	output := input.MatMul(l.weight.Tensor().Transpose())
	return output.AddRowVector(l.bias.Tensor())
}

// Parameters returns [weight, bias].
func (l *Linear) Parameters() []*Parameter {
	return []*Parameter{l.weight, l.bias}
}

// Weight returns the weight parameter.
func (l *Linear) Weight() *Parameter {
	return l.weight
}

// Bias returns the bias parameter.
func (l *Linear) Bias() *Parameter {
	return l.bias
}

// InFeatures returns the number of input features.
func (l *Linear) InFeatures() int {
	return l.inFeatures
}

// OutFeatures returns the number of output features.
func (l *Linear) OutFeatures() int {
	return l.outFeatures
}

// SetWeight replaces the weight tensor.
//
// Used by the export adapter after padding the input layer; the new
// weight changes the layer's input width to the new column count.
func (l *Linear) SetWeight(w *tensor.Tensor) error {
	shape := w.Shape()
	if len(shape) != 2 || shape[0] != l.outFeatures {
		return fmt.Errorf("weight shape mismatch: expected [%d, *], got %v", l.outFeatures, shape)
	}
	l.weight = NewParameter(l.weight.Name(), w)
	l.inFeatures = shape[1]
	return nil
}

// clone returns a deep copy of the layer, gradients excluded.
func (l *Linear) clone() *Linear {
	return &Linear{
		inFeatures:  l.inFeatures,
		outFeatures: l.outFeatures,
		weight:      NewParameter(l.weight.Name(), l.weight.Tensor().Clone()),
		bias:        NewParameter(l.bias.Name(), l.bias.Tensor().Clone()),
	}
}
