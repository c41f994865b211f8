// Package codec builds encoders and decoders for registered schemas.
//
// Every encoded message is a self-describing frame:
//
//	0x00 | schema id (4 bytes, big-endian) | payload
//
// A Factory maps schema types to Binders; AVRO (binary Avro) and JSON (JSON
// Schema validated JSON) are built in. Frames written under another id of
// the same subject are decoded by resolving the writer schema through a
// SchemaResolver, usually the registry client:
//
//	factory := codec.NewFactory(codec.WithResolver(client))
//	c, err := factory.Build(*registered)
//	data, err := c.Encode(record)
//	rec, err := c.Decode(ctx, data, codec.SerializationContext{
//	    Topic: "customer_events",
//	    Field: schema_registry.RoleValue,
//	})
package codec
