package kafka

import (
	"context"
	"strconv"

	"github.com/Aleph-Alpha/schemasync/v1/codec"
)

// Message headers attached by CodecSerde.
const (
	HeaderSubject       = "schemasync-subject"
	HeaderSchemaID      = "schemasync-schema-id"
	HeaderSchemaVersion = "schemasync-schema-version"
)

// Serializer encodes a record into a message value.
type Serializer interface {
	Serialize(record any) ([]byte, error)
}

// Deserializer decodes a message value.
type Deserializer interface {
	Deserialize(ctx context.Context, data []byte, sctx codec.SerializationContext) (any, error)
}

// headerSource is implemented by serializers that describe their output in
// message headers.
type headerSource interface {
	Headers() map[string]string
}

// CodecSerde adapts a reconciled codec to Serializer and Deserializer.
type CodecSerde struct {
	codec *codec.Codec
}

// NewCodecSerde returns a serde that writes and reads with c.
func NewCodecSerde(c *codec.Codec) *CodecSerde {
	return &CodecSerde{codec: c}
}

// Serialize encodes record in the Confluent wire format.
func (s *CodecSerde) Serialize(record any) ([]byte, error) {
	return s.codec.Encode(record)
}

// Deserialize decodes data, resolving its writer schema when it differs
// from the codec's.
func (s *CodecSerde) Deserialize(ctx context.Context, data []byte, sctx codec.SerializationContext) (any, error) {
	return s.codec.Decode(ctx, data, sctx)
}

// Headers names the schema a serialized value was written with.
func (s *CodecSerde) Headers() map[string]string {
	return map[string]string{
		HeaderSubject:       s.codec.Subject(),
		HeaderSchemaID:      strconv.Itoa(s.codec.ID()),
		HeaderSchemaVersion: strconv.Itoa(s.codec.Version()),
	}
}
