package schema_registry

const (
	userV1 = `{"type":"record","name":"User","namespace":"test","fields":[{"name":"name","type":"string"}]}`

	// userV2 adds a field with a default: compatible in both directions.
	userV2 = `{"type":"record","name":"User","namespace":"test","fields":[{"name":"name","type":"string"},{"name":"age","type":"int","default":0}]}`

	// userV2NoDefault adds a field without a default: forward only.
	userV2NoDefault = `{"type":"record","name":"User","namespace":"test","fields":[{"name":"name","type":"string"},{"name":"age","type":"int"}]}`

	// userBroken changes the type of an existing field.
	userBroken = `{"type":"record","name":"User","namespace":"test","fields":[{"name":"name","type":"int"}]}`
)

func avroSchema(text string) Schema {
	return Schema{Schema: text, SchemaType: SchemaTypeAvro}
}
