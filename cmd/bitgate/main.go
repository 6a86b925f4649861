// Package main provides the bitgate CLI: encode a tabular dataset into
// binary feature vectors, train a quantized MLP classifier, pad and
// wrap it for bipolar hardware I/O, and export the result.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/bitgate-ml/bitgate/internal/config"
	"github.com/bitgate-ml/bitgate/internal/dataset"
	"github.com/bitgate-ml/bitgate/internal/encoding"
	"github.com/bitgate-ml/bitgate/internal/export"
	"github.com/bitgate-ml/bitgate/internal/nn"
	"github.com/bitgate-ml/bitgate/internal/serialization"
	"github.com/bitgate-ml/bitgate/internal/train"
)

const version = "v0.1.0"

func main() {
	configPath := flag.String("config", "pipeline.yaml", "Path to the YAML pipeline config")
	epochs := flag.Int("epochs", 0, "Override training epochs (0 = use config)")
	batchSize := flag.Int("batch", 0, "Override batch size (0 = use config)")
	lr := flag.Float64("lr", 0, "Override learning rate (0 = use config)")
	output := flag.String("out", "", "Override output file (empty = use config)")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("bitgate %s\n", version)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *epochs > 0 {
		cfg.Training.Epochs = *epochs
	}
	if *batchSize > 0 {
		cfg.Training.BatchSize = *batchSize
	}
	if *lr > 0 {
		cfg.Training.LR = *lr
	}
	if *output != "" {
		cfg.Export.Output = *output
	}

	if err := run(cfg); err != nil {
		log.Fatalf("Pipeline failed: %v", err)
	}
}

func run(cfg *config.Config) error {
	schema, err := cfg.BuildSchema()
	if err != nil {
		return fmt.Errorf("failed to build schema: %w", err)
	}

	// Load both splits up front: the bit allocation table is fitted
	// over their union so widths and category indices agree.
	fmt.Printf("Loading training data from: %s\n", cfg.Dataset.TrainFile)
	trainSamples, err := dataset.Load(cfg.Dataset.TrainFile, schema, cfg.Dataset.LabelColumn, cfg.DelimiterRune())
	if err != nil {
		return fmt.Errorf("failed to load training data: %w", err)
	}
	fmt.Printf("Loading test data from: %s\n", cfg.Dataset.TestFile)
	testSamples, err := dataset.Load(cfg.Dataset.TestFile, schema, cfg.Dataset.LabelColumn, cfg.DelimiterRune())
	if err != nil {
		return fmt.Errorf("failed to load test data: %w", err)
	}
	fmt.Printf("  Train: %d samples, Test: %d samples\n", trainSamples.NumSamples(), testSamples.NumSamples())

	fmt.Println("Fitting bit allocation table over train+test...")
	table, err := encoding.Fit(schema, trainSamples.Records, testSamples.Records)
	if err != nil {
		return fmt.Errorf("failed to fit bit allocation table: %w", err)
	}
	fmt.Printf("  Feature vector width: %d bits\n", table.TotalBits())

	trainSplit, valSplit := trainSamples.Split(float32(cfg.Training.ValRatio))
	fmt.Printf("Encoding feature vectors (train %d, val %d, test %d)...\n",
		trainSplit.NumSamples(), valSplit.NumSamples(), testSamples.NumSamples())

	trainData, err := dataset.Encode(trainSplit, table, cfg.Dataset.Workers)
	if err != nil {
		return fmt.Errorf("failed to encode training data: %w", err)
	}
	valData, err := dataset.Encode(valSplit, table, cfg.Dataset.Workers)
	if err != nil {
		return fmt.Errorf("failed to encode validation data: %w", err)
	}
	testData, err := dataset.Encode(testSamples, table, cfg.Dataset.Workers)
	if err != nil {
		return fmt.Errorf("failed to encode test data: %w", err)
	}

	model, err := trainModel(cfg, trainData, valData, testData)
	if err != nil {
		return err
	}

	return exportModel(cfg, model, table.TotalBits())
}

func trainModel(cfg *config.Config, trainData, valData, testData *dataset.Dataset) (*nn.MLP, error) {
	fmt.Printf("Creating MLP model: %d -> %v -> 1\n", trainData.Width, cfg.Training.Hidden)
	model := nn.NewMLP(trainData.Width, cfg.Training.Hidden, cfg.Training.Seed)

	trainer, err := train.NewTrainer(model, train.Config{
		Epochs:     cfg.Training.Epochs,
		BatchSize:  cfg.Training.BatchSize,
		LR:         float32(cfg.Training.LR),
		Momentum:   float32(cfg.Training.Momentum),
		Shuffle:    cfg.Training.Shuffle,
		Seed:       cfg.Training.Seed,
		WeightBits: cfg.Training.WeightBits,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create trainer: %w", err)
	}

	fmt.Printf("Training: %d epochs, batch %d, lr %.4f, weight bits %d\n",
		cfg.Training.Epochs, cfg.Training.BatchSize, cfg.Training.LR, cfg.Training.WeightBits)

	stats, err := trainer.Fit(trainData, valData)
	if err != nil {
		return nil, fmt.Errorf("training failed: %w", err)
	}
	for _, s := range stats {
		fmt.Printf("Epoch %2d/%d: Loss=%.4f, Train Acc=%.2f%%, Val Loss=%.4f, Val Acc=%.2f%%\n",
			s.Epoch, cfg.Training.Epochs, s.Loss, s.TrainAcc*100, s.ValLoss, s.ValAcc*100)
	}

	testBatches, err := testData.Batches(cfg.Training.BatchSize, false, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to batch test data: %w", err)
	}
	testLoss, testAcc := train.Evaluate(model, testBatches)
	fmt.Printf("Test: Loss=%.4f, Acc=%.2f%%\n", testLoss, testAcc*100)

	return model, nil
}

func exportModel(cfg *config.Config, model *nn.MLP, encoderBits int) error {
	paddedWidth := cfg.Export.PaddedWidth
	if paddedWidth == 0 {
		paddedWidth = encoderBits
	}

	padded := model
	if paddedWidth != encoderBits {
		fmt.Printf("Padding input layer: %d -> %d columns\n", encoderBits, paddedWidth)
		var err error
		padded, err = export.PadModel(model, paddedWidth)
		if err != nil {
			return fmt.Errorf("failed to pad model: %w", err)
		}
	}

	bipolar := export.Wrap(padded)

	meta := serialization.ModelMeta{
		InputWidth:  bipolar.InFeatures(),
		Hidden:      cfg.Training.Hidden,
		WeightBits:  cfg.Training.WeightBits,
		Bipolar:     true,
		EncoderBits: encoderBits,
	}
	if err := serialization.WriteModel(cfg.Export.Output, bipolar.Model(), meta); err != nil {
		return fmt.Errorf("failed to write model: %w", err)
	}

	info, err := os.Stat(cfg.Export.Output)
	if err != nil {
		return err
	}
	fmt.Printf("Exported bipolar model to %s (%d bytes)\n", cfg.Export.Output, info.Size())
	return nil
}
