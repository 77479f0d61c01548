package match

import (
	"slices"
	"testing"
)

func TestRankCandidates(t *testing.T) {
	candidates := RankCandidates("CustomerID", []string{"Phone", "customer_id", "CustomerName", "CustomerID"})

	if len(candidates) != 4 {
		t.Fatalf("Expected 4 candidates, got %d", len(candidates))
	}

	// exact and folded spellings tie, the name breaks the tie
	if candidates[0].Name != "CustomerID" || candidates[1].Name != "customer_id" {
		t.Errorf("Expected CustomerID then customer_id, got %s then %s", candidates[0].Name, candidates[1].Name)
	}

	if candidates[0].Score < 0.9 {
		t.Errorf("Expected high score for exact match, got %f", candidates[0].Score)
	}

	if last := candidates[len(candidates)-1]; last.Name != "Phone" {
		t.Errorf("Expected Phone to rank last, got %s", last.Name)
	}
}

func TestSuggest(t *testing.T) {
	names := []string{"Discount", "Description", "Total", "CreatedAt"}

	tests := []struct {
		name     string
		expected []string
	}{
		{name: "Discont", expected: []string{"Discount"}},
		{name: "created", expected: []string{"CreatedAt"}},
		{name: "Zzz", expected: nil},
		{name: "Total", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Suggest(tt.name, names, 1)
			if !slices.Equal(got, tt.expected) {
				t.Errorf("Suggest(%q) = %v, want %v", tt.name, got, tt.expected)
			}
		})
	}
}

func TestCandidateList_Top(t *testing.T) {
	candidates := CandidateList{
		{Name: "A", Score: 0.9},
		{Name: "B", Score: 0.8},
		{Name: "C", Score: 0.7},
	}

	top2 := candidates.Top(2)
	if len(top2) != 2 {
		t.Errorf("Expected 2 candidates, got %d", len(top2))
	}

	// Request more than available
	top10 := candidates.Top(10)
	if len(top10) != 3 {
		t.Errorf("Expected 3 candidates (all), got %d", len(top10))
	}
}

func TestCandidateList_AboveThreshold(t *testing.T) {
	candidates := CandidateList{
		{Name: "A", Score: 0.9},
		{Name: "B", Score: 0.7},
		{Name: "C", Score: 0.5},
		{Name: "D", Score: 0.3},
	}

	above := candidates.AboveThreshold(0.6)
	if len(above) != 2 {
		t.Errorf("Expected 2 candidates above 0.6, got %d", len(above))
	}
}
