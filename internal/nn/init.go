package nn

import (
	"math"
	"math/rand"

	"github.com/bitgate-ml/bitgate/internal/tensor"
)

// Xavier initializes a weight tensor with Glorot uniform values.
//
// Values are drawn from U(-sqrt(6/(fanIn+fanOut)), +sqrt(6/(fanIn+fanOut))),
// which keeps activation variance roughly constant across layers.
//
// The caller supplies the random source so model construction is
// reproducible from a seed.
func Xavier(fanIn, fanOut int, shape tensor.Shape, rng *rand.Rand) *tensor.Tensor {
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))

	t := tensor.Zeros(shape)
	data := t.Data()
	for i := range data {
		data[i] = float32((rng.Float64()*2.0 - 1.0) * bound)
	}
	return t
}
