package partindex

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/hyperjump/katalog/internal/models"
)

func testHierarchy() *models.Hierarchy {
	return &models.Hierarchy{
		SheetNames: []string{"CamA", "CamB", "Empty"},
		Models: map[string]*models.PartNode{
			"CamA": {Name: "CamA", Subparts: []models.SubpartNode{
				{Name: "Lens mount", Subparts: []string{"Bayonet ring", "Bayonet ring"}},
				{Name: "Sensor board", Subparts: []string{"IMX250"}},
			}},
			"CamB": {Name: "CamB", Subparts: []models.SubpartNode{
				{Name: "Lens mount", Subparts: []string{"C-mount adapter"}},
			}},
			"Empty": {Name: "Empty", Subparts: []models.SubpartNode{}},
		},
	}
}

func TestIndex_SearchMergesSheets(t *testing.T) {
	idx, err := New(testHierarchy())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() {
		_ = idx.Close()
	}()

	n, err := idx.DocCount()
	if err != nil {
		t.Fatal(err)
	}
	// Duplicate Bayonet ring under the same parent is indexed once.
	if n != 5 {
		t.Errorf("DocCount = %d, want 5", n)
	}

	hits, err := idx.Search(context.Background(), "lens", 10, nil)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("expected 1 merged hit, got %d", len(hits))
	}
	if hits[0].Name != "Lens mount" || hits[0].Level != LevelNameOne {
		t.Errorf("hit = %+v", hits[0])
	}
	if len(hits[0].Sheets) != 2 {
		t.Errorf("sheets = %v, want CamA and CamB", hits[0].Sheets)
	}
}

func TestIndex_SearchNameTwoHasParent(t *testing.T) {
	idx, err := New(testHierarchy())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer idx.Close()

	hits, err := idx.Search(context.Background(), "imx250", 10, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].Parent != "Sensor board" || hits[0].Level != LevelNameTwo {
		t.Fatalf("hits = %+v", hits)
	}
	if hits[0].Sheets[0] != "CamA" {
		t.Errorf("sheets = %v", hits[0].Sheets)
	}
}

func TestIndex_FuzzySearch(t *testing.T) {
	idx, err := New(testHierarchy())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer idx.Close()

	ctx := context.Background()
	exact, err := idx.Search(ctx, "bayonet rimg", 10, nil)
	if err != nil {
		t.Fatal(err)
	}
	fuzzy, err := idx.Search(ctx, "bayonnet", 10, &SearchOptions{FuzzyEnabled: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(exact) != 1 {
		t.Errorf("match query should find Bayonet ring via the exact term, got %d hits", len(exact))
	}
	if len(fuzzy) != 1 || fuzzy[0].Name != "Bayonet ring" {
		t.Errorf("fuzzy hits = %+v", fuzzy)
	}
}

func TestIndex_EmptyQueryAndNilHierarchy(t *testing.T) {
	idx, err := New(nil)
	if err != nil {
		t.Fatalf("New(nil): %v", err)
	}
	defer idx.Close()
	hits, err := idx.Search(context.Background(), "   ", 10, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 0 {
		t.Errorf("expected no hits, got %v", hits)
	}
}

func TestIndex_SearchAfterClose(t *testing.T) {
	idx, err := New(testHierarchy())
	if err != nil {
		t.Fatal(err)
	}
	if err := idx.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	// Second Close is a no-op.
	if err := idx.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if _, err := idx.Search(context.Background(), "lens", 10, nil); !errors.Is(err, ErrClosed) {
		t.Errorf("Search after Close: err = %v, want ErrClosed", err)
	}
	if _, err := idx.DocCount(); !errors.Is(err, ErrClosed) {
		t.Errorf("DocCount after Close: err = %v, want ErrClosed", err)
	}
}

func TestIndex_CloseWaitsForSearches(t *testing.T) {
	idx, err := New(testHierarchy())
	if err != nil {
		t.Fatal(err)
	}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				_, err := idx.Search(context.Background(), "mount", 10, nil)
				if err != nil && !errors.Is(err, ErrClosed) {
					t.Errorf("Search: %v", err)
					return
				}
			}
		}()
	}
	if err := idx.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	wg.Wait()
}
