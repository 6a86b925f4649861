package nn

import (
	"fmt"

	"github.com/bitgate-ml/bitgate/internal/tensor"
)

// BCEWithLogits computes mean binary cross-entropy directly from raw
// logits:
//
//	loss = mean(softplus(z) - y*z)   for targets y in {0, 1}
//
// Working on logits instead of sigmoid outputs avoids log(0) blowups
// for confident predictions. MLP.Backward uses the same formulation, so
// evaluation losses are directly comparable to training losses.
//
// logits shape: [batch_size, 1]; targets shape: [batch_size].
func BCEWithLogits(logits, targets *tensor.Tensor) float32 {
	if logits.NumElements() != targets.NumElements() {
		panic(fmt.Sprintf("BCEWithLogits: %d logits vs %d targets",
			logits.NumElements(), targets.NumElements()))
	}

	z := logits.Data()
	y := targets.Data()
	var sum float64
	for i := range z {
		zf := float64(z[i])
		sum += softplus(zf) - float64(y[i])*zf
	}
	return float32(sum / float64(len(z)))
}
