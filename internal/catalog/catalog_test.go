package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/devinpereira/Flexin/internal/domain"
)

func TestParseKeepsDocumentOrder(t *testing.T) {
	doc := `{
		"ex_9":  {"name": "Push Up", "body_part": "chest", "difficulty": "low", "body_part_enc": 2, "difficulty_enc": 0},
		"ex_10": {"name": "Plank", "body_part": "core", "difficulty": "low"},
		"ex_1":  {"name": "Deadlift", "body_part": "back", "difficulty": "high"}
	}`
	c, err := Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	var got []string
	for _, e := range c.Entries() {
		got = append(got, e.ID)
	}
	if diff := cmp.Diff([]string{"ex_9", "ex_10", "ex_1"}, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}

	pushUp, ok := c.Get("ex_9")
	if !ok {
		t.Fatal("ex_9 not found")
	}
	if pushUp.BodyPartEnc == nil || *pushUp.BodyPartEnc != 2 {
		t.Errorf("body_part_enc = %v, want 2", pushUp.BodyPartEnc)
	}
	plank, _ := c.Get("ex_10")
	if plank.BodyPartEnc != nil || plank.DifficultyEnc != nil {
		t.Errorf("plank should have no precomputed codes, got %+v", plank)
	}
}

func TestParseArrayForm(t *testing.T) {
	doc := `[{"id": "b", "name": "Row", "body_part": "back", "difficulty": "medium"},
	         {"id": "a", "name": "Squat", "body_part": "quads", "difficulty": "high"}]`
	c, err := Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	entries := c.Entries()
	if len(entries) != 2 || entries[0].ID != "b" || entries[1].ID != "a" {
		t.Fatalf("unexpected entries %+v", entries)
	}
	if entries[1].Seq != 1 {
		t.Errorf("Seq = %d, want 1", entries[1].Seq)
	}
}

func TestParseRejectsBadDocuments(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{name: "duplicate id", doc: `[{"id": "a"}, {"id": "a"}]`, wantErr: ErrDuplicateID},
		{name: "empty id", doc: `[{"id": " ", "name": "x"}]`, wantErr: ErrEmptyID},
		{name: "not json", doc: `nope`},
		{name: "scalar", doc: `42`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.doc))
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestEntriesReturnsACopy(t *testing.T) {
	c, err := New([]domain.CatalogEntry{{ID: "a", Name: "A"}})
	if err != nil {
		t.Fatal(err)
	}
	c.Entries()[0].Name = "changed"
	if got, _ := c.Get("a"); got.Name != "A" {
		t.Errorf("catalog was mutated through Entries(): %q", got.Name)
	}
}

type fakeStore map[string][]byte

func (s fakeStore) GetObject(_ context.Context, key string) ([]byte, error) {
	raw, ok := s[key]
	if !ok {
		return nil, errors.New("no such key")
	}
	return raw, nil
}

type fakeLister []domain.CatalogEntry

func (l fakeLister) ListAll(context.Context) ([]domain.CatalogEntry, error) { return l, nil }

func TestLoadSources(t *testing.T) {
	ctx := context.Background()
	store := fakeStore{"catalog/exercise_db.json": []byte(`{"x": {"name": "Burpee", "body_part": "cardio", "difficulty": "high"}}`)}

	c, err := LoadObject(ctx, store, "catalog/exercise_db.json")
	if err != nil || c.Len() != 1 {
		t.Fatalf("LoadObject() = %v, %v", c, err)
	}
	if _, err := LoadObject(ctx, store, "missing.json"); err == nil {
		t.Error("expected an error for a missing object")
	}

	c, err = LoadRepository(ctx, fakeLister{{ID: "a"}, {ID: "b"}})
	if err != nil || c.Len() != 2 {
		t.Fatalf("LoadRepository() = %v, %v", c, err)
	}
}
