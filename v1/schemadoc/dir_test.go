package schemadoc

import (
	"context"
	"errors"
	"testing"

	registry "github.com/Aleph-Alpha/schemasync/v1/schema_registry"
	"github.com/spf13/afero"
)

const userAvroV2 = `{"type":"record","name":"User","fields":[{"name":"id","type":"long"},{"name":"name","type":"string"},{"name":"age","type":"int","default":0}]}`

func writeFiles(t *testing.T, fsys afero.Fs, files map[string]string) {
	t.Helper()
	for name, content := range files {
		if err := afero.WriteFile(fsys, name, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

func TestDirStoreSelectsHighestVersion(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys, map[string]string{
		"schemas/user/v2.avsc":    userAvroV2,
		"schemas/user/v10.avsc":   userAvroV2,
		"schemas/user/v9.avsc":    userAvro,
		"schemas/user/README.md":  "docs",
		"schemas/user/draft.avsc": "not even json",
	})
	if err := fsys.MkdirAll("schemas/user/v11.avsc.d", 0o755); err != nil {
		t.Fatal(err)
	}

	store := NewDirStore(fsys, "schemas/user", "")
	doc, err := store.CurrentAuthoritative(context.Background())
	if err != nil {
		t.Fatalf("CurrentAuthoritative: %v", err)
	}
	// Lexical order would pick v9.
	if doc.Version != 10 {
		t.Fatalf("Version = %d, want 10", doc.Version)
	}
}

func TestDirStoreList(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys, map[string]string{
		"s/v3.json":        userAvroV2,
		"s/v1.avsc":        userAvro,
		"s/v2.schema.json": `{"type":"object"}`,
	})

	docs, err := NewDirStore(fsys, "s", "").List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("got %d documents, want 3", len(docs))
	}
	wantFormats := []Format{registry.SchemaTypeAvro, registry.SchemaTypeJSON, registry.SchemaTypeAvro}
	for i, doc := range docs {
		if doc.Version != int64(i+1) {
			t.Errorf("docs[%d].Version = %d", i, doc.Version)
		}
		if doc.Format != wantFormats[i] {
			t.Errorf("docs[%d].Format = %q, want %q", i, doc.Format, wantFormats[i])
		}
	}
}

func TestDirStoreEmpty(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys, map[string]string{"s/notes.txt": "x"})

	for _, dir := range []string{"s", "missing"} {
		_, err := NewDirStore(fsys, dir, "").CurrentAuthoritative(context.Background())
		if !IsNoLocalSchemaError(err) {
			t.Errorf("dir %s: error = %v, want ErrNoLocalSchema", dir, err)
		}
	}
}

func TestDirStoreDuplicateVersion(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys, map[string]string{
		"s/v1.avsc":      userAvro,
		"s/user_v1.json": userAvro,
	})

	_, err := NewDirStore(fsys, "s", "").CurrentAuthoritative(context.Background())
	if !errors.Is(err, ErrDuplicateVersion) {
		t.Fatalf("error = %v, want ErrDuplicateVersion", err)
	}
}

func TestDirStoreParseError(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys, map[string]string{
		"s/v1.avsc": userAvro,
		"s/v2.avsc": `{"type":`,
	})

	_, err := NewDirStore(fsys, "s", "").CurrentAuthoritative(context.Background())
	if !IsParseError(err) {
		t.Fatalf("error = %v, want ErrParse", err)
	}
}

func TestDirStoreCancelled(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys, map[string]string{"s/v1.avsc": userAvro})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewDirStore(fsys, "s", "").CurrentAuthoritative(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}

func TestNewFromConfig(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys, map[string]string{"schemas/v1.avsc": userAvro})

	store, err := NewFromConfig(context.Background(), Config{}, fsys, nil)
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	if _, err := store.CurrentAuthoritative(context.Background()); err != nil {
		t.Fatalf("CurrentAuthoritative: %v", err)
	}

	if _, err := NewFromConfig(context.Background(), Config{Source: "ftp"}, fsys, nil); err == nil {
		t.Fatal("expected error for unknown source")
	}
}
