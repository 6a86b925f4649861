// Copyright 2026 bitgate. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the public API for bitgate's MLP classifier.
//
// Example:
//
//	model := nn.NewMLP(593, []int{64, 64}, 42)
//	logits := model.Forward(inputs)
package nn

import (
	"math/rand"

	"github.com/bitgate-ml/bitgate/internal/nn"
)

// MLP is a fully connected binary classifier: ReLU hidden layers and a
// single-logit output.
type MLP = nn.MLP

// Parameter is a named trainable tensor with a gradient slot.
type Parameter = nn.Parameter

// Linear is a fully connected layer computing x @ W.T + b.
type Linear = nn.Linear

// NewMLP creates an MLP with Xavier-initialized weights.
func NewMLP(inFeatures int, hidden []int, seed int64) *MLP {
	return nn.NewMLP(inFeatures, hidden, seed)
}

// NewLinear creates a linear layer with Xavier-initialized weights.
func NewLinear(name string, inFeatures, outFeatures int, rng *rand.Rand) *Linear {
	return nn.NewLinear(name, inFeatures, outFeatures, rng)
}
