// Copyright 2026 bitgate. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package export provides the public API for preparing a trained
// classifier for hardware compilation: input-layer padding and the
// bipolar {-1,+1} I/O wrapper.
//
// Example:
//
//	padded, err := export.PadModel(trained, 600)
//	wrapped := export.Wrap(padded)
//	out := wrapped.Predict(bipolarInputs) // values in {-1,+1}
package export

import (
	"github.com/bitgate-ml/bitgate/internal/encoding"
	"github.com/bitgate-ml/bitgate/internal/export"
	"github.com/bitgate-ml/bitgate/internal/nn"
	"github.com/bitgate-ml/bitgate/internal/tensor"
)

// ErrInvalidPadding reports a target width smaller than the source width.
var ErrInvalidPadding = export.ErrInvalidPadding

// BipolarModel composes a trained classifier with bipolar {-1,+1} I/O.
type BipolarModel = export.BipolarModel

// PadInputLayer returns a copy of a 2-D weight matrix widened with
// trailing zero columns to toWidth. Fails with ErrInvalidPadding when
// toWidth is smaller than the matrix's column count.
func PadInputLayer(w *tensor.Tensor, toWidth int) (*tensor.Tensor, error) {
	return export.PadInputLayer(w, toWidth)
}

// PadModel returns a deep copy of the model with its input layer
// widened to toWidth.
func PadModel(model *nn.MLP, toWidth int) (*nn.MLP, error) {
	return export.PadModel(model, toWidth)
}

// PadVector extends an encoded feature vector with trailing zero bits
// in the raw {0,1} domain.
func PadVector(vec encoding.BitVector, toWidth int) (encoding.BitVector, error) {
	return export.PadVector(vec, toWidth)
}

// Wrap builds a BipolarModel around a deep copy of model.
func Wrap(model *nn.MLP) *BipolarModel {
	return export.Wrap(model)
}

// QuantizeBipolar maps a logit to +1 for v >= 0 and -1 otherwise.
func QuantizeBipolar(v float32) float32 {
	return export.QuantizeBipolar(v)
}
