package codec

import "errors"

var (
	// ErrUnsupportedFormat is returned when no binder exists for a schema type.
	ErrUnsupportedFormat = errors.New("unsupported schema format")

	// ErrInvalidFrame is returned for data without a valid wire header.
	ErrInvalidFrame = errors.New("invalid wire frame")

	// ErrUnknownSchemaID is returned when a frame names a schema id the codec
	// cannot resolve.
	ErrUnknownSchemaID = errors.New("unknown schema id")

	// ErrSubjectMismatch is returned when data is decoded for a topic and
	// role that belong to another subject.
	ErrSubjectMismatch = errors.New("subject mismatch")
)

// IsUnsupportedFormatError reports whether err is ErrUnsupportedFormat.
func IsUnsupportedFormatError(err error) bool {
	return errors.Is(err, ErrUnsupportedFormat)
}
