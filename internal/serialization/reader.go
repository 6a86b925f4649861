package serialization

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/bitgate-ml/bitgate/internal/nn"
	"github.com/bitgate-ml/bitgate/internal/tensor"
)

// ReadModel loads a .bgx file, validates the checksum, and rebuilds the
// model from its recorded topology and tensors.
func ReadModel(path string) (*nn.MLP, *Header, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	header, data, err := parse(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	// Rebuild topology; the seed is irrelevant since every parameter is
	// overwritten by the state dict.
	model := nn.NewMLP(header.Model.InputWidth, header.Model.Hidden, 0)

	stateDict := make(map[string]*tensor.Tensor, len(header.Tensors))
	for _, tm := range header.Tensors {
		if tm.Offset < 0 || tm.Offset+tm.Size > int64(len(data)) {
			return nil, nil, fmt.Errorf("tensor %q: %w", tm.Name, ErrTensorOutOfBounds)
		}
		values := make([]float32, tm.Size/4)
		for i := range values {
			bits := binary.LittleEndian.Uint32(data[tm.Offset+int64(i*4):])
			values[i] = math.Float32frombits(bits)
		}
		t, err := tensor.FromSlice(values, tensor.Shape(tm.Shape))
		if err != nil {
			return nil, nil, fmt.Errorf("tensor %q: %w", tm.Name, err)
		}
		stateDict[tm.Name] = t
	}

	if err := model.LoadStateDict(stateDict); err != nil {
		return nil, nil, fmt.Errorf("failed to load state dict: %w", err)
	}
	return model, header, nil
}

// parse splits a .bgx byte stream into a validated header and the
// checksum-verified data section.
func parse(raw []byte) (*Header, []byte, error) {
	minLen := len(MagicBytes) + 4 + 8
	if len(raw) < minLen {
		return nil, nil, ErrInvalidMagic
	}
	if string(raw[:4]) != MagicBytes {
		return nil, nil, ErrInvalidMagic
	}

	version := binary.LittleEndian.Uint32(raw[4:8])
	if version != FormatVersion {
		return nil, nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	headerSize := binary.LittleEndian.Uint64(raw[8:16])
	if headerSize > maxHeaderSize {
		return nil, nil, ErrHeaderTooLarge
	}
	headerEnd := 16 + int(headerSize)
	if headerEnd > len(raw) {
		return nil, nil, fmt.Errorf("truncated header: %d bytes declared, %d available", headerSize, len(raw)-16)
	}

	var header Header
	if err := json.Unmarshal(raw[16:headerEnd], &header); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal header: %w", err)
	}

	dataStart := headerEnd
	if padding := (HeaderAlignment - dataStart%HeaderAlignment) % HeaderAlignment; padding > 0 {
		dataStart += padding
	}
	if dataStart+ChecksumSize > len(raw) {
		return nil, nil, fmt.Errorf("truncated data section")
	}

	data := raw[dataStart : len(raw)-ChecksumSize]
	var stored [32]byte
	copy(stored[:], raw[len(raw)-ChecksumSize:])
	if err := ValidateChecksum(ComputeChecksum(data), stored); err != nil {
		return nil, nil, err
	}

	return &header, data, nil
}
