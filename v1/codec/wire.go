package codec

import (
	"encoding/binary"
	"fmt"
)

const (
	magicByte  = 0x0
	headerSize = 5
)

// EncodeSchemaID encodes a schema ID in the Confluent wire format
// Format: [magic_byte][schema_id]
//   - magic_byte: 0x0 (1 byte)
//   - schema_id: 4 bytes (big-endian)
func EncodeSchemaID(schemaID int) []byte {
	return appendHeader(make([]byte, 0, headerSize), schemaID)
}

// DecodeSchemaID decodes a schema ID from the Confluent wire format.
// Returns the schema ID and the remaining payload (after the 5-byte header).
func DecodeSchemaID(data []byte) (int, []byte, error) {
	if len(data) < headerSize {
		return 0, nil, fmt.Errorf("%w: expected at least %d bytes, got %d", ErrInvalidFrame, headerSize, len(data))
	}
	if data[0] != magicByte {
		return 0, nil, fmt.Errorf("%w: invalid magic byte: expected 0x0, got 0x%x", ErrInvalidFrame, data[0])
	}
	return int(binary.BigEndian.Uint32(data[1:headerSize])), data[headerSize:], nil
}

func appendHeader(buf []byte, schemaID int) []byte {
	buf = append(buf, magicByte)
	return binary.BigEndian.AppendUint32(buf, uint32(schemaID))
}
