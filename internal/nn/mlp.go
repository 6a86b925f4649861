// Package nn implements the compact feed-forward classifier trained on
// encoded binary feature vectors.
//
// The package provides:
//   - Parameter: trainable tensors with gradient slots
//   - Linear: fully connected layer
//   - ReLU / Sigmoid: activations
//   - MLP: multilayer perceptron with a single-logit binary head and a
//     hand-derived backward pass (linear -> ReLU chains with a
//     sigmoid/BCE head have closed-form gradients, so no tape is needed)
//
// Design inspired by PyTorch's nn.Module, adapted for plain Go.
package nn

import (
	"fmt"
	"math/rand"

	"github.com/bitgate-ml/bitgate/internal/tensor"
)

// MLP is a multilayer perceptron for binary classification.
//
// Architecture: inFeatures -> hidden[0] -> ... -> hidden[n-1] -> 1,
// with ReLU after every hidden layer and a raw logit output. The logit
// feeds a sigmoid/BCE loss during training and a zero-threshold
// quantizer after export.
type MLP struct {
	layers []*Linear
}

// NewMLP creates a new MLP with the given hidden layer sizes and a
// single-logit output head.
//
// seed drives weight initialization so runs are reproducible.
func NewMLP(inFeatures int, hidden []int, seed int64) *MLP {
	rng := rand.New(rand.NewSource(seed))

	sizes := append([]int{inFeatures}, hidden...)
	sizes = append(sizes, 1)

	layers := make([]*Linear, 0, len(sizes)-1)
	for i := 0; i < len(sizes)-1; i++ {
		name := fmt.Sprintf("fc%d", i+1)
		layers = append(layers, NewLinear(name, sizes[i], sizes[i+1], rng))
	}
	return &MLP{layers: layers}
}

// Forward computes logits for a batch.
//
// Input shape: [batch_size, in_features].
// Output shape: [batch_size, 1] (raw logits, no sigmoid).
func (m *MLP) Forward(input *tensor.Tensor) *tensor.Tensor {
	x := input
	last := len(m.layers) - 1
	for i, layer := range m.layers {
		x = layer.Forward(x)
		if i != last {
			x = ReLU(x)
		}
	}
	return x
}

// Backward runs a forward pass with cached activations, computes the
// mean binary-cross-entropy-with-logits loss against targets, and fills
// every parameter's gradient.
//
// Input shape: [batch_size, in_features]; targets shape: [batch_size]
// with values 0 or 1. Returns the mean loss.
func (m *MLP) Backward(input, targets *tensor.Tensor) float32 {
	batch := input.Shape()[0]
	if targets.NumElements() != batch {
		panic(fmt.Sprintf("MLP.Backward: %d targets for batch of %d", targets.NumElements(), batch))
	}

	// Forward with caches. acts[l] is the input to layer l; preacts[l]
	// is layer l's pre-activation output.
	acts := make([]*tensor.Tensor, len(m.layers))
	preacts := make([]*tensor.Tensor, len(m.layers))
	x := input
	last := len(m.layers) - 1
	for i, layer := range m.layers {
		acts[i] = x
		z := layer.Forward(x)
		preacts[i] = z
		if i != last {
			x = ReLU(z)
		} else {
			x = z
		}
	}

	logits := preacts[last].Data()
	y := targets.Data()

	// Loss and head gradient. For y in {0,1}:
	//   loss = softplus(z) - y*z
	//   dloss/dz = sigmoid(z) - y
	var lossSum float64
	delta := tensor.Zeros(tensor.Shape{batch, 1})
	dd := delta.Data()
	for i := 0; i < batch; i++ {
		z := float64(logits[i])
		lossSum += softplus(z) - float64(y[i])*z
		dd[i] = (sigmoid32(logits[i]) - y[i]) / float32(batch)
	}

	// Backpropagate through the linear/ReLU chain.
	for l := last; l >= 0; l-- {
		layer := m.layers[l]

		// gradW = delta.T @ input_l, gradB = column sums of delta.
		gradW := delta.Transpose().MatMul(acts[l])
		gradB := tensor.Zeros(tensor.Shape{layer.OutFeatures()})
		gb := gradB.Data()
		for i := 0; i < batch; i++ {
			for j := 0; j < layer.OutFeatures(); j++ {
				gb[j] += delta.At(i, j)
			}
		}
		layer.Weight().SetGrad(gradW)
		layer.Bias().SetGrad(gradB)

		if l == 0 {
			break
		}

		// delta_{l-1} = (delta_l @ W_l) masked by ReLU'(z_{l-1}).
		delta = delta.MatMul(layer.Weight().Tensor())
		mask := preacts[l-1].Data()
		dd := delta.Data()
		for i, z := range mask {
			if z <= 0 {
				dd[i] = 0
			}
		}
	}

	return float32(lossSum / float64(batch))
}

// Parameters returns all trainable parameters, input layer first.
func (m *MLP) Parameters() []*Parameter {
	params := make([]*Parameter, 0, 2*len(m.layers))
	for _, layer := range m.layers {
		params = append(params, layer.Parameters()...)
	}
	return params
}

// ZeroGrad clears all parameter gradients.
func (m *MLP) ZeroGrad() {
	for _, p := range m.Parameters() {
		p.ZeroGrad()
	}
}

// InFeatures returns the model's input width.
func (m *MLP) InFeatures() int {
	return m.layers[0].InFeatures()
}

// NumLayers returns the number of linear layers.
func (m *MLP) NumLayers() int {
	return len(m.layers)
}

// Layer returns the linear layer at the given index.
//
// Panics if index is out of bounds.
func (m *MLP) Layer(index int) *Linear {
	if index < 0 || index >= len(m.layers) {
		panic("MLP.Layer: index out of bounds")
	}
	return m.layers[index]
}

// InputLayer returns the first linear layer. The export adapter pads
// this layer's weight columns.
func (m *MLP) InputLayer() *Linear {
	return m.layers[0]
}

// Clone returns a deep copy of the model. Gradients are not copied;
// the clone starts out clean.
func (m *MLP) Clone() *MLP {
	layers := make([]*Linear, len(m.layers))
	for i, l := range m.layers {
		layers[i] = l.clone()
	}
	return &MLP{layers: layers}
}

// StateDict returns a map of parameter names to tensors.
//
// Names follow the "fc<N>.weight" / "fc<N>.bias" convention. The
// returned tensors are the live parameters, not copies.
func (m *MLP) StateDict() map[string]*tensor.Tensor {
	stateDict := make(map[string]*tensor.Tensor, 2*len(m.layers))
	for _, p := range m.Parameters() {
		stateDict[p.Name()] = p.Tensor()
	}
	return stateDict
}

// LoadStateDict copies parameter values from a state dictionary.
//
// Every parameter of the model must be present with a matching shape.
func (m *MLP) LoadStateDict(stateDict map[string]*tensor.Tensor) error {
	for _, p := range m.Parameters() {
		src, ok := stateDict[p.Name()]
		if !ok {
			return fmt.Errorf("missing %s in state dict", p.Name())
		}
		if !src.Shape().Equal(p.Tensor().Shape()) {
			return fmt.Errorf("%s shape mismatch: expected %v, got %v",
				p.Name(), p.Tensor().Shape(), src.Shape())
		}
		copy(p.Tensor().Data(), src.Data())
	}
	return nil
}
