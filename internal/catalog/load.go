package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/devinpereira/Flexin/internal/domain"
)

// ObjectReader fetches a stored object, e.g. a catalog snapshot in S3.
type ObjectReader interface {
	GetObject(ctx context.Context, objectKey string) ([]byte, error)
}

// EntryLister lists all catalog entries from a database in curated order.
type EntryLister interface {
	ListAll(ctx context.Context) ([]domain.CatalogEntry, error)
}

// Parse reads a catalog document. Two shapes are accepted:
//
//	{"<id>": {"name": ..., "body_part": ..., "difficulty": ...}, ...}
//	[{"id": "<id>", "name": ..., ...}, ...]
//
// Entries keep the order they appear in the document.
func Parse(r io.Reader) (*Catalog, error) {
	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return nil, fmt.Errorf("read catalog: unexpected token %v", tok)
	}

	var entries []domain.CatalogEntry
	switch delim {
	case '{':
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, fmt.Errorf("read catalog key: %w", err)
			}
			id, _ := keyTok.(string)
			var entry domain.CatalogEntry
			if err := dec.Decode(&entry); err != nil {
				return nil, fmt.Errorf("decode catalog entry %q: %w", id, err)
			}
			if entry.ID == "" {
				entry.ID = id
			}
			entries = append(entries, entry)
		}
	case '[':
		for dec.More() {
			var entry domain.CatalogEntry
			if err := dec.Decode(&entry); err != nil {
				return nil, fmt.Errorf("decode catalog entry %d: %w", len(entries), err)
			}
			entries = append(entries, entry)
		}
	default:
		return nil, fmt.Errorf("read catalog: unexpected delimiter %v", delim)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	for i := range entries {
		entries[i].Seq = i
	}
	return New(entries)
}

// LoadFile reads a catalog document from disk.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// LoadObject reads a catalog document from object storage.
func LoadObject(ctx context.Context, store ObjectReader, objectKey string) (*Catalog, error) {
	raw, err := store.GetObject(ctx, objectKey)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog object %q: %w", objectKey, err)
	}
	return Parse(bytes.NewReader(raw))
}

// LoadRepository reads the catalog from a database.
func LoadRepository(ctx context.Context, repo EntryLister) (*Catalog, error) {
	entries, err := repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list catalog entries: %w", err)
	}
	return New(entries)
}
