package codec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	registry "github.com/Aleph-Alpha/schemasync/v1/schema_registry"
)

const (
	userV1 = `{"type":"record","name":"User","namespace":"test","fields":[{"name":"id","type":"long"},{"name":"name","type":"string"}]}`
	userV2 = `{"type":"record","name":"User","namespace":"test","fields":[{"name":"id","type":"long"},{"name":"name","type":"string"},{"name":"age","type":"int","default":0}]}`

	orderJSONSchema = `{"type":"object","properties":{"id":{"type":"integer"},"item":{"type":"string"}},"required":["id","item"]}`
)

var valueCtx = SerializationContext{Topic: "users", Field: registry.RoleValue}

func register(t *testing.T, client registry.Client, subject, schema string, schemaType registry.SchemaType) *registry.RegisteredSchema {
	t.Helper()
	rs, err := client.Register(context.Background(), subject, registry.Schema{Schema: schema, SchemaType: schemaType})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return rs
}

func TestWireHeader(t *testing.T) {
	header := EncodeSchemaID(258)
	if !bytes.Equal(header, []byte{0x0, 0x0, 0x0, 0x1, 0x2}) {
		t.Fatalf("header = %x", header)
	}

	id, payload, err := DecodeSchemaID(append(header, 0xAA))
	if err != nil {
		t.Fatalf("DecodeSchemaID: %v", err)
	}
	if id != 258 || !bytes.Equal(payload, []byte{0xAA}) {
		t.Fatalf("got id %d payload %x", id, payload)
	}

	for _, data := range [][]byte{nil, {0x0, 0x1}, {0x1, 0x0, 0x0, 0x0, 0x1}} {
		if _, _, err := DecodeSchemaID(data); !errors.Is(err, ErrInvalidFrame) {
			t.Errorf("DecodeSchemaID(%x) error = %v, want ErrInvalidFrame", data, err)
		}
	}
}

func TestAvroRoundTrip(t *testing.T) {
	client := registry.NewMemoryClient()
	rs := register(t, client, "users-value", userV1, registry.SchemaTypeAvro)

	c, err := NewFactory().Build(*rs)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if c.ID() != rs.ID || c.Subject() != "users-value" || c.Version() != 1 || c.Format() != registry.SchemaTypeAvro {
		t.Fatalf("codec metadata = %d %s %d %s", c.ID(), c.Subject(), c.Version(), c.Format())
	}

	data, err := c.Encode(map[string]any{"id": int64(7), "name": "ada"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if data[0] != 0x0 {
		t.Fatalf("missing magic byte: %x", data)
	}
	id, _, _ := DecodeSchemaID(data)
	if id != rs.ID {
		t.Fatalf("frame id = %d, want %d", id, rs.ID)
	}

	rec, err := c.Decode(context.Background(), data, valueCtx)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	m, ok := rec.(map[string]any)
	if !ok {
		t.Fatalf("record = %T", rec)
	}
	if m["id"] != int64(7) || m["name"] != "ada" {
		t.Fatalf("record = %v", m)
	}
}

func TestAvroStructRecord(t *testing.T) {
	type user struct {
		ID   int64  `avro:"id"`
		Name string `avro:"name"`
	}
	c, err := NewFactory().Build(registry.RegisteredSchema{Subject: "users-value", ID: 3, Version: 1, Schema: userV1})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	data, err := c.Encode(user{ID: 1, Name: "grace"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	rec, err := c.Decode(context.Background(), data, SerializationContext{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if rec.(map[string]any)["name"] != "grace" {
		t.Fatalf("record = %v", rec)
	}
}

func TestAvroEncodeInvalidRecord(t *testing.T) {
	c, err := NewFactory().Build(registry.RegisteredSchema{Subject: "users-value", ID: 1, Schema: userV1})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, err := c.Encode(map[string]any{"id": "not a long", "name": "x"}); err == nil {
		t.Fatal("expected encode error")
	}
}

func TestDecodeOlderWriterSchema(t *testing.T) {
	client := registry.NewMemoryClient()
	v1 := register(t, client, "users-value", userV1, registry.SchemaTypeAvro)
	v2 := register(t, client, "users-value", userV2, registry.SchemaTypeAvro)

	factory := NewFactory(WithResolver(client))
	old, err := factory.Build(*v1)
	if err != nil {
		t.Fatalf("Build v1: %v", err)
	}
	current, err := factory.Build(*v2)
	if err != nil {
		t.Fatalf("Build v2: %v", err)
	}

	data, err := old.Encode(map[string]any{"id": int64(1), "name": "ada"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	for i := 0; i < 2; i++ {
		rec, err := current.Decode(context.Background(), data, valueCtx)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		m := rec.(map[string]any)
		if m["name"] != "ada" || fmt.Sprint(m["age"]) != "0" {
			t.Fatalf("record = %v, want age defaulted to 0", m)
		}
	}
}

func TestDecodeUnknownSchemaID(t *testing.T) {
	rs := registry.RegisteredSchema{Subject: "users-value", ID: 1, Version: 1, Schema: userV1}

	c, err := NewFactory().Build(rs)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	frame := append(EncodeSchemaID(99), 0x0)
	if _, err := c.Decode(context.Background(), frame, valueCtx); !errors.Is(err, ErrUnknownSchemaID) {
		t.Fatalf("without resolver: error = %v, want ErrUnknownSchemaID", err)
	}

	c, err = NewFactory(WithResolver(registry.NewMemoryClient())).Build(rs)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	_, err = c.Decode(context.Background(), frame, valueCtx)
	if !errors.Is(err, ErrUnknownSchemaID) || !registry.IsNotFoundError(err) {
		t.Fatalf("with resolver: error = %v, want ErrUnknownSchemaID wrapping not found", err)
	}
}

func TestDecodeSubjectMismatch(t *testing.T) {
	c, err := NewFactory().Build(registry.RegisteredSchema{Subject: "users-value", ID: 1, Schema: userV1})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	data, err := c.Encode(map[string]any{"id": int64(1), "name": "x"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	for _, sctx := range []SerializationContext{
		{Topic: "users", Field: registry.RoleKey},
		{Topic: "orders", Field: registry.RoleValue},
	} {
		if _, err := c.Decode(context.Background(), data, sctx); !errors.Is(err, ErrSubjectMismatch) {
			t.Errorf("Decode(%+v) error = %v, want ErrSubjectMismatch", sctx, err)
		}
	}

	// An empty role is the value role.
	if _, err := c.Decode(context.Background(), data, SerializationContext{Topic: "users"}); err != nil {
		t.Errorf("Decode with default role: %v", err)
	}
}

func TestFixedSubjectStrategy(t *testing.T) {
	c, err := NewFactory(WithSubjectNameStrategy(FixedSubject("custom"))).
		Build(registry.RegisteredSchema{Subject: "custom", ID: 1, Schema: userV1})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	data, err := c.Encode(map[string]any{"id": int64(1), "name": "x"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, err := c.Decode(context.Background(), data, valueCtx); err != nil {
		t.Fatalf("Decode: %v", err)
	}
}

func TestBuildUnsupportedFormat(t *testing.T) {
	_, err := NewFactory().Build(registry.RegisteredSchema{
		Subject:    "users-value",
		ID:         1,
		Schema:     `syntax = "proto3"; message User {}`,
		SchemaType: registry.SchemaTypeProtobuf,
	})
	if !IsUnsupportedFormatError(err) {
		t.Fatalf("error = %v, want ErrUnsupportedFormat", err)
	}

	_, err = NewFactory().Build(registry.RegisteredSchema{Subject: "x", ID: 1, Schema: "{}", SchemaType: "THRIFT"})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("error = %v, want ErrUnsupportedFormat", err)
	}
}

type stubBinder struct{}

func (stubBinder) Format() registry.SchemaType { return registry.SchemaTypeProtobuf }

func (stubBinder) Bind(string) (Binding, error) { return stubBinding{}, nil }

type stubBinding struct{}

func (stubBinding) Encode(record any) ([]byte, error) { return []byte(record.(string)), nil }

func (stubBinding) Decode(payload []byte) (any, error) { return string(payload), nil }

func (stubBinding) Resolve(string) (Binding, error) { return stubBinding{}, nil }

func TestWithBinder(t *testing.T) {
	c, err := NewFactory(WithBinder(stubBinder{})).Build(registry.RegisteredSchema{
		Subject:    "users-value",
		ID:         5,
		SchemaType: registry.SchemaTypeProtobuf,
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	data, err := c.Encode("hello")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(data, append(EncodeSchemaID(5), "hello"...)) {
		t.Fatalf("frame = %x", data)
	}
	rec, err := c.Decode(context.Background(), data, valueCtx)
	if err != nil || rec != "hello" {
		t.Fatalf("Decode = %v, %v", rec, err)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	c, err := NewFactory().Build(registry.RegisteredSchema{
		Subject:    "orders-value",
		ID:         9,
		Schema:     orderJSONSchema,
		SchemaType: registry.SchemaTypeJSON,
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	type order struct {
		ID   int    `json:"id"`
		Item string `json:"item"`
	}
	data, err := c.Encode(order{ID: 1, Item: "book"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if string(data[headerSize:]) != `{"id":1,"item":"book"}` {
		t.Fatalf("payload = %s", data[headerSize:])
	}

	rec, err := c.Decode(context.Background(), data, SerializationContext{Topic: "orders"})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if rec.(map[string]any)["item"] != "book" {
		t.Fatalf("record = %v", rec)
	}

	if _, err := c.Encode(map[string]any{"id": "one"}); err == nil {
		t.Fatal("expected validation error for invalid record")
	}
	bad := append(EncodeSchemaID(9), []byte(`{"id":1}`)...)
	if _, err := c.Decode(context.Background(), bad, SerializationContext{}); err == nil {
		t.Fatal("expected validation error for invalid payload")
	}
}
