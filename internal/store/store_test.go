package store

import (
	"sort"
	"testing"

	"github.com/factify-ai/factify/internal/types"
)

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()

	t.Run("get missing", func(t *testing.T) {
		if _, ok := s.Get("nope"); ok {
			t.Error("Get on empty store returned an entry")
		}
	})

	t.Run("put and get round trip", func(t *testing.T) {
		classification := types.ClassificationResult{Type: types.DocTypeInvoice, Confidence: 0.9}
		vendor := "Acme"
		entry := s.Put(classification, &types.InvoiceMetadata{Vendor: &vendor})

		if entry.ID == "" {
			t.Fatal("Put returned empty ID")
		}
		got, ok := s.Get(entry.ID)
		if !ok {
			t.Fatalf("Get(%q) missing", entry.ID)
		}
		if got.Classification.Type != types.DocTypeInvoice {
			t.Errorf("Type = %s", got.Classification.Type)
		}
		inv, ok := got.Metadata.(*types.InvoiceMetadata)
		if !ok || inv.Vendor == nil || *inv.Vendor != "Acme" {
			t.Errorf("Metadata = %+v", got.Metadata)
		}
	})

	t.Run("distinct IDs and ordered list", func(t *testing.T) {
		s := NewMemoryStore()
		seen := map[string]bool{}
		for i := 0; i < 10; i++ {
			entry := s.Put(types.ClassificationResult{Type: types.DocTypeOther}, &types.OtherMetadata{})
			if seen[entry.ID] {
				t.Fatalf("duplicate ID %q", entry.ID)
			}
			seen[entry.ID] = true
		}

		list := s.List()
		if len(list) != 10 {
			t.Fatalf("List() = %d entries", len(list))
		}
		if !sort.SliceIsSorted(list, func(i, j int) bool { return list[i].ID < list[j].ID }) {
			t.Error("List() not ordered by ID")
		}
	})
}
