package serialization

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"time"

	"github.com/bitgate-ml/bitgate/internal/nn"
)

// WriteModel serializes a model and its metadata to a .bgx file.
//
// Tensors are laid out in sorted name order so identical models always
// produce an identical data section and checksum. The whole file is
// assembled in memory before the single write; exported models are
// small.
func WriteModel(path string, model *nn.MLP, meta ModelMeta) error {
	header := Header{
		FormatVersion: FormatVersion,
		CreatedAt:     time.Now().UTC(),
		Model:         meta,
	}

	stateDict := model.StateDict()
	names := make([]string, 0, len(stateDict))
	for name := range stateDict {
		names = append(names, name)
	}
	sort.Strings(names)

	var data bytes.Buffer
	for _, name := range names {
		t := stateDict[name]
		offset := int64(data.Len())
		for _, v := range t.Data() {
			var buf [4]byte
			binary.LittleEndian.PutUint32(buf[:], math.Float32bits(v))
			data.Write(buf[:])
		}
		header.Tensors = append(header.Tensors, TensorMeta{
			Name:   name,
			Shape:  []int(t.Shape()),
			Offset: offset,
			Size:   int64(data.Len()) - offset,
		})
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}

	var file bytes.Buffer
	file.WriteString(MagicBytes)
	if err := binary.Write(&file, binary.LittleEndian, uint32(FormatVersion)); err != nil {
		return fmt.Errorf("failed to write version: %w", err)
	}
	if err := binary.Write(&file, binary.LittleEndian, uint64(len(headerJSON))); err != nil {
		return fmt.Errorf("failed to write header size: %w", err)
	}
	file.Write(headerJSON)

	// Pad so the data section starts on a 64-byte boundary.
	if padding := (HeaderAlignment - file.Len()%HeaderAlignment) % HeaderAlignment; padding > 0 {
		file.Write(make([]byte, padding))
	}

	file.Write(data.Bytes())

	checksum := ComputeChecksum(data.Bytes())
	file.Write(checksum[:])

	if err := os.WriteFile(path, file.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
