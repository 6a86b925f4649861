// Package export prepares a trained classifier for the downstream
// hardware-compilation toolchain.
//
// Two single-shot, stateless transformations:
//
//   - PadInputLayer widens the input weight matrix with trailing zero
//     columns so the input width folds conveniently in hardware (600
//     instead of the encoder's 593 in the default pipeline).
//   - Wrap composes the classifier with an input remap from bipolar
//     {-1,+1} to its native {0,1} domain and a zero-threshold output
//     quantizer back to {-1,+1}.
//
// Both operate on copies: the original trained model stays usable and
// unmodified. Shape mismatches fail immediately; nothing here retries.
package export

import (
	"errors"
	"fmt"

	"github.com/bitgate-ml/bitgate/internal/encoding"
	"github.com/bitgate-ml/bitgate/internal/nn"
	"github.com/bitgate-ml/bitgate/internal/tensor"
)

// ErrInvalidPadding reports a target width smaller than the source width.
var ErrInvalidPadding = errors.New("target width smaller than source width")

// PaddingError carries the offending widths.
type PaddingError struct {
	From int
	To   int
}

// Error implements the error interface.
func (e *PaddingError) Error() string {
	return fmt.Sprintf("cannot pad width %d down to %d", e.From, e.To)
}

// Unwrap makes errors.Is(err, ErrInvalidPadding) work.
func (e *PaddingError) Unwrap() error {
	return ErrInvalidPadding
}

// PadInputLayer returns a copy of a 2-D weight matrix
// [outFeatures, fromWidth] widened to [outFeatures, toWidth] with zero
// columns appended after the last real column.
//
// Zero columns make the padding a structural no-op for inference as
// long as the padded input positions are fed 0 in the raw {0,1} domain
// (see PadVector) rather than the remapped bipolar zero point. The
// input tensor is never mutated.
func PadInputLayer(w *tensor.Tensor, toWidth int) (*tensor.Tensor, error) {
	shape := w.Shape()
	if len(shape) != 2 {
		return nil, fmt.Errorf("expected 2D weight matrix, got shape %v", shape)
	}
	fromWidth := shape[1]
	if toWidth < fromWidth {
		return nil, &PaddingError{From: fromWidth, To: toWidth}
	}
	if toWidth == fromWidth {
		return w.Clone(), nil
	}

	out := tensor.Zeros(tensor.Shape{shape[0], toWidth})
	for i := 0; i < shape[0]; i++ {
		copy(out.Data()[i*toWidth:i*toWidth+fromWidth], w.Data()[i*fromWidth:(i+1)*fromWidth])
	}
	return out, nil
}

// PadModel returns a deep copy of the model whose input layer accepts
// toWidth features, the extra columns zeroed. The original model is
// untouched.
func PadModel(model *nn.MLP, toWidth int) (*nn.MLP, error) {
	padded := model.Clone()
	layer := padded.InputLayer()

	w, err := PadInputLayer(layer.Weight().Tensor(), toWidth)
	if err != nil {
		return nil, err
	}
	if err := layer.SetWeight(w); err != nil {
		return nil, err
	}
	return padded, nil
}

// PadVector extends an encoded feature vector with trailing zero bits to
// match a padded model's input width. Padding happens in the raw {0,1}
// domain, before any bipolar remap, so the zero weight columns see
// exactly 0.
func PadVector(vec encoding.BitVector, toWidth int) (encoding.BitVector, error) {
	if toWidth < len(vec) {
		return nil, &PaddingError{From: len(vec), To: toWidth}
	}
	out := make(encoding.BitVector, toWidth)
	copy(out, vec)
	return out, nil
}
