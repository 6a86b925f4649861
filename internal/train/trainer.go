// Package train runs the quantization-aware training loop for the
// binary classifier.
package train

import (
	"fmt"

	"github.com/bitgate-ml/bitgate/internal/dataset"
	"github.com/bitgate-ml/bitgate/internal/nn"
	"github.com/bitgate-ml/bitgate/internal/quant"
)

// Config holds the training hyperparameters.
type Config struct {
	Epochs     int
	BatchSize  int
	LR         float32
	Momentum   float32
	Shuffle    bool
	Seed       int64
	WeightBits int // 0 disables weight quantization
}

// EpochStats reports one epoch of training progress.
type EpochStats struct {
	Epoch    int
	Loss     float32
	TrainAcc float32
	ValLoss  float32
	ValAcc   float32
}

// Trainer drives epochs of SGD over encoded batches, snapping weights
// onto the quantization grid after every optimizer step when weight
// quantization is enabled.
type Trainer struct {
	model     *nn.MLP
	optimizer *SGD
	quantizer *quant.Quantizer
	config    Config
}

// NewTrainer creates a Trainer for the model.
func NewTrainer(model *nn.MLP, config Config) (*Trainer, error) {
	if config.Epochs < 1 {
		return nil, fmt.Errorf("epochs must be >= 1, got %d", config.Epochs)
	}
	if config.BatchSize < 1 {
		return nil, fmt.Errorf("batch size must be >= 1, got %d", config.BatchSize)
	}

	var quantizer *quant.Quantizer
	if config.WeightBits > 0 {
		var err error
		quantizer, err = quant.New(config.WeightBits)
		if err != nil {
			return nil, err
		}
	}

	return &Trainer{
		model: model,
		optimizer: NewSGD(model.Parameters(), SGDConfig{
			LR:       config.LR,
			Momentum: config.Momentum,
		}),
		quantizer: quantizer,
		config:    config,
	}, nil
}

// Fit trains on trainData for the configured number of epochs,
// evaluating against valData after each one. Returns per-epoch stats.
//
// Batches are rebuilt every epoch; with shuffling enabled each epoch
// uses a different (but seed-derived) permutation.
func (t *Trainer) Fit(trainData, valData *dataset.Dataset) ([]EpochStats, error) {
	stats := make([]EpochStats, 0, t.config.Epochs)

	for epoch := 0; epoch < t.config.Epochs; epoch++ {
		batches, err := trainData.Batches(t.config.BatchSize, t.config.Shuffle, t.config.Seed+int64(epoch))
		if err != nil {
			return nil, fmt.Errorf("epoch %d: %w", epoch+1, err)
		}

		loss, acc := t.trainEpoch(batches)

		valBatches, err := valData.Batches(t.config.BatchSize, false, 0)
		if err != nil {
			return nil, fmt.Errorf("epoch %d: %w", epoch+1, err)
		}
		valLoss, valAcc := Evaluate(t.model, valBatches)

		stats = append(stats, EpochStats{
			Epoch:    epoch + 1,
			Loss:     loss,
			TrainAcc: acc,
			ValLoss:  valLoss,
			ValAcc:   valAcc,
		})
	}

	return stats, nil
}

// TrainStep runs one batch: backward pass, optimizer step, and weight
// re-quantization. Returns the batch loss.
func (t *Trainer) TrainStep(batch *dataset.Batch) float32 {
	t.optimizer.ZeroGrad()
	loss := t.model.Backward(batch.Inputs, batch.Targets)
	t.optimizer.Step()
	if t.quantizer != nil {
		t.quantizer.ApplyToModel(t.model)
	}
	return loss
}

// trainEpoch trains over all batches and returns mean loss and accuracy.
func (t *Trainer) trainEpoch(batches []*dataset.Batch) (avgLoss, accuracy float32) {
	var totalLoss float64
	totalCorrect := 0
	totalSamples := 0

	for _, batch := range batches {
		loss := t.TrainStep(batch)
		totalLoss += float64(loss) * float64(batch.Size)
		totalCorrect += countCorrect(t.model, batch)
		totalSamples += batch.Size
	}

	if totalSamples == 0 {
		return 0, 0
	}
	return float32(totalLoss / float64(totalSamples)), float32(totalCorrect) / float32(totalSamples)
}

// Evaluate computes mean loss and accuracy over batches without
// touching gradients or weights.
func Evaluate(model *nn.MLP, batches []*dataset.Batch) (avgLoss, accuracy float32) {
	var totalLoss float64
	totalCorrect := 0
	totalSamples := 0

	for _, batch := range batches {
		logits := model.Forward(batch.Inputs)
		loss := nn.BCEWithLogits(logits, batch.Targets)
		totalLoss += float64(loss) * float64(batch.Size)

		for i, z := range logits.Data() {
			if predict(z) == batch.Targets.Data()[i] {
				totalCorrect++
			}
		}
		totalSamples += batch.Size
	}

	if totalSamples == 0 {
		return 0, 0
	}
	return float32(totalLoss / float64(totalSamples)), float32(totalCorrect) / float32(totalSamples)
}

// predict thresholds a logit at zero, matching the exported bipolar
// quantizer's decision boundary.
func predict(logit float32) float32 {
	if logit >= 0 {
		return 1
	}
	return 0
}

func countCorrect(model *nn.MLP, batch *dataset.Batch) int {
	logits := model.Forward(batch.Inputs)
	correct := 0
	for i, z := range logits.Data() {
		if predict(z) == batch.Targets.Data()[i] {
			correct++
		}
	}
	return correct
}
