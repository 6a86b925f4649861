package export

import (
	"github.com/bitgate-ml/bitgate/internal/nn"
	"github.com/bitgate-ml/bitgate/internal/tensor"
)

// QuantizeBipolar maps a real-valued logit to the bipolar domain:
// +1 for v >= 0, -1 otherwise.
//
// The boundary is inclusive toward +1 at exactly zero, which reproduces
// thresholding the sigmoid probability at 0.5.
func QuantizeBipolar(v float32) float32 {
	if v >= 0 {
		return 1
	}
	return -1
}

// BipolarModel composes a trained classifier with bipolar {-1,+1} I/O:
//
//	f(x) = QuantizeBipolar(logit((x + 1) / 2))
//
// The wrapper owns a deep copy of the classifier's parameters, so later
// mutation of either side never affects the other.
type BipolarModel struct {
	model *nn.MLP
}

// Wrap builds a BipolarModel around a deep copy of model. The input
// model stays usable standalone.
func Wrap(model *nn.MLP) *BipolarModel {
	return &BipolarModel{model: model.Clone()}
}

// Predict runs bipolar inputs through the wrapped classifier and
// quantizes the logits back to {-1,+1}.
//
// Input shape: [batch_size, in_features] with values in {-1,+1}.
// Output shape: [batch_size, 1] with values in {-1,+1}.
func (b *BipolarModel) Predict(x *tensor.Tensor) *tensor.Tensor {
	// Affine remap {-1,+1} -> {0,1}.
	native := x.Clone()
	data := native.Data()
	for i, v := range data {
		data[i] = (v + 1) / 2
	}

	logits := b.model.Forward(native)
	out := logits.Clone()
	for i, v := range out.Data() {
		out.Data()[i] = QuantizeBipolar(v)
	}
	return out
}

// Model returns the wrapped classifier copy. The serialization writer
// reads its parameters when exporting.
func (b *BipolarModel) Model() *nn.MLP {
	return b.model
}

// InFeatures returns the wrapped classifier's input width.
func (b *BipolarModel) InFeatures() int {
	return b.model.InFeatures()
}
