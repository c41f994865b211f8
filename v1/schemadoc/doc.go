// Package schemadoc loads locally authored schema documents.
//
// A store holds one document per version. The version is an explicit
// "v<N>" token in the file or object name ("v1.avsc",
// "customer_events_v12.json"); listing order never matters and names
// without a token are ignored. The format follows the suffix: ".avsc" is
// AVRO, ".schema.json" is JSON Schema, and plain ".json" uses the store's
// default format.
//
//	store := schemadoc.NewDirStore(nil, "schemas/customer_events", "")
//	doc, err := store.CurrentAuthoritative(ctx)
//	if schemadoc.IsNoLocalSchemaError(err) {
//	    // nothing to reconcile
//	}
//
// ObjectStore serves the same layout from a MinIO/S3 bucket prefix.
package schemadoc
