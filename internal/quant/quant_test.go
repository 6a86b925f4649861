package quant_test

import (
	"testing"

	"github.com/bitgate-ml/bitgate/internal/nn"
	"github.com/bitgate-ml/bitgate/internal/quant"
	"github.com/bitgate-ml/bitgate/internal/tensor"
)

// TestNew tests bit-width validation.
func TestNew(t *testing.T) {
	if _, err := quant.New(1); err == nil {
		t.Error("New(1) should fail: no symmetric grid in one bit")
	}
	if _, err := quant.New(17); err == nil {
		t.Error("New(17) should fail")
	}
	q, err := quant.New(2)
	if err != nil {
		t.Fatalf("New(2) failed: %v", err)
	}
	if q.Bits() != 2 {
		t.Errorf("Bits() = %d, want 2", q.Bits())
	}
}

// TestApply_TwoBit tests the coarsest grid: levels {-maxAbs, 0, +maxAbs}.
func TestApply_TwoBit(t *testing.T) {
	q, _ := quant.New(2)

	x, _ := tensor.FromSlice([]float32{1.0, 0.4, -0.6, 0.0}, tensor.Shape{4})
	q.Apply(x)

	want := []float32{1.0, 0.0, -1.0, 0.0}
	for i, w := range want {
		if x.Data()[i] != w {
			t.Errorf("Apply[%d] = %f, want %f", i, x.Data()[i], w)
		}
	}
}

// TestApply_Idempotent tests that quantizing twice changes nothing.
func TestApply_Idempotent(t *testing.T) {
	q, _ := quant.New(4)

	x, _ := tensor.FromSlice([]float32{0.93, -0.27, 0.11, -0.85, 0.5}, tensor.Shape{5})
	q.Apply(x)
	once := x.Clone()
	q.Apply(x)

	for i := range once.Data() {
		if x.Data()[i] != once.Data()[i] {
			t.Errorf("element %d drifted on second pass: %f -> %f", i, once.Data()[i], x.Data()[i])
		}
	}
}

// TestApply_LevelCount tests that a quantized tensor holds at most
// 2^bits - 1 distinct values.
func TestApply_LevelCount(t *testing.T) {
	q, _ := quant.New(3)

	x := tensor.Zeros(tensor.Shape{101})
	for i := range x.Data() {
		x.Data()[i] = float32(i-50) / 50.0
	}
	q.Apply(x)

	distinct := make(map[float32]bool)
	for _, v := range x.Data() {
		distinct[v] = true
	}
	if len(distinct) > 7 {
		t.Errorf("3-bit grid produced %d distinct values, want <= 7", len(distinct))
	}
}

// TestApply_AllZero tests that zero tensors pass through.
func TestApply_AllZero(t *testing.T) {
	q, _ := quant.New(4)
	x := tensor.Zeros(tensor.Shape{8})
	q.Apply(x)
	for i, v := range x.Data() {
		if v != 0 {
			t.Errorf("element %d = %f, want 0", i, v)
		}
	}
}

// TestApplyToModel tests that weights are snapped and biases untouched.
func TestApplyToModel(t *testing.T) {
	model := nn.NewMLP(4, []int{3}, 42)
	bias := model.InputLayer().Bias().Tensor()
	bias.Data()[0] = 0.123456

	q, _ := quant.New(2)
	q.ApplyToModel(model)

	w := model.InputLayer().Weight().Tensor()
	distinct := make(map[float32]bool)
	for _, v := range w.Data() {
		distinct[v] = true
	}
	if len(distinct) > 3 {
		t.Errorf("2-bit weights hold %d distinct values, want <= 3", len(distinct))
	}

	if bias.Data()[0] != 0.123456 {
		t.Error("biases should stay full precision")
	}
}
