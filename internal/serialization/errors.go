package serialization

import "errors"

// Common errors.
var (
	ErrInvalidMagic       = errors.New("invalid magic bytes")
	ErrUnsupportedVersion = errors.New("unsupported format version")
	ErrChecksumMismatch   = errors.New("checksum mismatch: file may be corrupted")
	ErrHeaderTooLarge     = errors.New("header exceeds maximum size")
	ErrTensorOutOfBounds  = errors.New("tensor extends beyond data section")
)

// maxHeaderSize bounds header allocation when reading untrusted files.
const maxHeaderSize = 16 << 20
