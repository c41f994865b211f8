package schemadoc

import (
	"context"
	"fmt"
	"sort"
)

// Store is a source of locally authored schema documents.
type Store interface {
	// CurrentAuthoritative returns the document with the highest version.
	CurrentAuthoritative(ctx context.Context) (*Document, error)

	// List returns every versioned document, lowest version first.
	List(ctx context.Context) ([]*Document, error)
}

// reader loads one named document of a backend.
type reader func(ctx context.Context, name string) ([]byte, error)

// order sorts candidates by version and rejects duplicates. An empty
// listing is ErrNoLocalSchema; where names the location for messages.
func order(where string, candidates []candidate) ([]candidate, error) {
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoLocalSchema, where)
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].version != candidates[j].version {
			return candidates[i].version < candidates[j].version
		}
		return candidates[i].name < candidates[j].name
	})
	for i := 1; i < len(candidates); i++ {
		if candidates[i].version == candidates[i-1].version {
			return nil, fmt.Errorf("%w: v%d in %s and %s", ErrDuplicateVersion,
				candidates[i].version, candidates[i-1].name, candidates[i].name)
		}
	}
	return candidates, nil
}

func latest(ctx context.Context, where string, candidates []candidate, read reader, defaultFormat Format) (*Document, error) {
	ordered, err := order(where, candidates)
	if err != nil {
		return nil, err
	}
	return load(ctx, ordered[len(ordered)-1], read, defaultFormat)
}

func all(ctx context.Context, where string, candidates []candidate, read reader, defaultFormat Format) ([]*Document, error) {
	ordered, err := order(where, candidates)
	if err != nil {
		return nil, err
	}
	docs := make([]*Document, 0, len(ordered))
	for _, c := range ordered {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, err := load(ctx, c, read, defaultFormat)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func load(ctx context.Context, c candidate, read reader, defaultFormat Format) (*Document, error) {
	data, err := read(ctx, c.name)
	if err != nil {
		return nil, fmt.Errorf("read schema document %s: %w", c.name, err)
	}
	return ParseDocument(c.name, data, defaultFormat)
}
