package nn

import (
	"math"

	"github.com/bitgate-ml/bitgate/internal/tensor"
)

// ReLU applies f(x) = max(0, x) element-wise, returning a new tensor.
func ReLU(input *tensor.Tensor) *tensor.Tensor {
	out := input.Clone()
	data := out.Data()
	for i, v := range data {
		if v < 0 {
			data[i] = 0
		}
	}
	return out
}

// Sigmoid applies σ(x) = 1 / (1 + exp(-x)) element-wise, returning a
// new tensor. Usable for turning logits into probabilities at inference
// time; the training loss works on raw logits for numerical stability.
func Sigmoid(input *tensor.Tensor) *tensor.Tensor {
	out := input.Clone()
	data := out.Data()
	for i, v := range data {
		data[i] = sigmoid32(v)
	}
	return out
}

func sigmoid32(x float32) float32 {
	return float32(1.0 / (1.0 + math.Exp(-float64(x))))
}

// softplus computes log(1 + exp(x)) without overflowing for large |x|.
func softplus(x float64) float64 {
	if x > 0 {
		return x + math.Log1p(math.Exp(-x))
	}
	return math.Log1p(math.Exp(x))
}
