package duplicate_test

import (
	"testing"
	"time"

	"github.com/civicgrid/triage/internal/domain"
	"github.com/civicgrid/triage/internal/duplicate"
	"github.com/civicgrid/triage/internal/logging"
)

func ptr(v float64) *float64 { return &v }

func recent() string {
	return time.Now().UTC().Add(-48 * time.Hour).Format(time.RFC3339)
}

func TestFindDuplicatesIdenticalText(t *testing.T) {
	d := duplicate.NewDetector(logging.NewNop())

	complaint := duplicate.NewComplaint{
		Title:       "Garbage not collected",
		Description: "Garbage has not been collected on MG Road for one week",
		Category:    domain.CategorySanitation,
		Location:    domain.Location{Latitude: ptr(12.9716), Longitude: ptr(77.5946)},
	}
	candidates := []domain.DuplicateCandidate{
		{
			ID:          "CMP_1",
			Title:       "Garbage not collected",
			Description: "Garbage has not been collected on MG Road for one week",
			Category:    domain.CategorySanitation,
			Status:      domain.StatusTriaged,
			Location:    domain.Location{Latitude: ptr(12.9717), Longitude: ptr(77.5947)},
			CreatedAt:   recent(),
		},
	}

	report := d.FindDuplicates(complaint, candidates, true)
	if !report.IsDuplicate {
		t.Fatal("expected duplicate for identical text and nearby coordinates")
	}
	if report.DuplicateCount != 1 {
		t.Errorf("DuplicateCount = %d, want 1", report.DuplicateCount)
	}
	if report.PrimaryDuplicate == nil || report.PrimaryDuplicate.ID != "CMP_1" {
		t.Errorf("PrimaryDuplicate = %+v, want CMP_1", report.PrimaryDuplicate)
	}
	if report.PrimaryDuplicate.SimilarityScore < 0.99 {
		t.Errorf("SimilarityScore = %f, want ~1.0", report.PrimaryDuplicate.SimilarityScore)
	}
}

func TestFindDuplicatesCrossCategoryExcluded(t *testing.T) {
	d := duplicate.NewDetector(logging.NewNop())

	complaint := duplicate.NewComplaint{
		Title:       "Water pipeline leaking",
		Description: "Water pipeline leaking near the market",
		Category:    domain.CategoryUtilities,
	}
	candidates := []domain.DuplicateCandidate{
		{
			ID:          "CMP_2",
			Title:       "Water pipeline leaking",
			Description: "Water pipeline leaking near the market",
			Category:    domain.CategoryInfrastructure,
			Status:      domain.StatusTriaged,
			CreatedAt:   recent(),
		},
	}

	report := d.FindDuplicates(complaint, candidates, false)
	if report.IsDuplicate {
		t.Error("cross-category candidate must not count as duplicate")
	}
	if report.SimilarComplaints == nil {
		t.Error("SimilarComplaints should be an empty slice, not nil")
	}
}

func TestFindDuplicatesOldCandidateExcluded(t *testing.T) {
	d := duplicate.NewDetector(logging.NewNop())

	complaint := duplicate.NewComplaint{
		Title:       "Street light broken",
		Description: "Street light broken at the crossing",
		Category:    domain.CategoryUtilities,
	}
	candidates := []domain.DuplicateCandidate{
		{
			ID:          "CMP_3",
			Title:       "Street light broken",
			Description: "Street light broken at the crossing",
			Category:    domain.CategoryUtilities,
			Status:      domain.StatusTriaged,
			CreatedAt:   time.Now().UTC().AddDate(0, 0, -45).Format(time.RFC3339),
		},
	}

	if report := d.FindDuplicates(complaint, candidates, false); report.IsDuplicate {
		t.Error("candidate outside the 30-day window must be excluded")
	}
}

func TestFindDuplicatesMalformedTimestampSkipped(t *testing.T) {
	d := duplicate.NewDetector(logging.NewNop())

	complaint := duplicate.NewComplaint{
		Title:       "Sewage overflow",
		Description: "Sewage overflow on station road",
		Category:    domain.CategorySanitation,
	}
	candidates := []domain.DuplicateCandidate{
		{
			ID:          "CMP_4",
			Title:       "Sewage overflow",
			Description: "Sewage overflow on station road",
			Category:    domain.CategorySanitation,
			Status:      domain.StatusTriaged,
			CreatedAt:   "last tuesday",
		},
	}

	if report := d.FindDuplicates(complaint, candidates, false); report.IsDuplicate {
		t.Error("candidate with malformed timestamp must be skipped, not crash")
	}
}

func TestFindDuplicatesLocationGate(t *testing.T) {
	d := duplicate.NewDetector(logging.NewNop())

	complaint := duplicate.NewComplaint{
		Title:       "Pothole near school gate",
		Description: "Huge pothole near the school gate causing accidents",
		Category:    domain.CategoryInfrastructure,
		Location:    domain.Location{Latitude: ptr(12.90), Longitude: ptr(77.50)},
	}
	farAway := domain.DuplicateCandidate{
		ID:          "CMP_5",
		Title:       "Pothole near school gate",
		Description: "Huge pothole near the school gate causing accidents",
		Category:    domain.CategoryInfrastructure,
		Status:      domain.StatusTriaged,
		Location:    domain.Location{Latitude: ptr(13.10), Longitude: ptr(77.80)},
		CreatedAt:   recent(),
	}

	if report := d.FindDuplicates(complaint, []domain.DuplicateCandidate{farAway}, true); report.IsDuplicate {
		t.Error("distant coordinates must fail the location gate")
	}
	// Same candidate with the gate off is a text duplicate.
	if report := d.FindDuplicates(complaint, []domain.DuplicateCandidate{farAway}, false); !report.IsDuplicate {
		t.Error("with the gate off, identical text should match")
	}
}

func TestFindDuplicatesAddressMatch(t *testing.T) {
	d := duplicate.NewDetector(logging.NewNop())

	complaint := duplicate.NewComplaint{
		Title:       "Transformer sparking",
		Description: "Transformer sparking dangerously since last night",
		Category:    domain.CategoryUtilities,
		Location:    domain.Location{Address: "14 MG Road, Indiranagar"},
	}
	candidates := []domain.DuplicateCandidate{
		{
			ID:          "CMP_6",
			Title:       "Transformer sparking",
			Description: "Transformer sparking dangerously since last night",
			Category:    domain.CategoryUtilities,
			Status:      domain.StatusSubmitted,
			Location:    domain.Location{Address: "14 MG Road Indiranagar"},
			CreatedAt:   recent(),
		},
	}

	if report := d.FindDuplicates(complaint, candidates, true); !report.IsDuplicate {
		t.Error("near-identical addresses should pass the location gate")
	}
}

func TestFindDuplicatesDissimilarText(t *testing.T) {
	d := duplicate.NewDetector(logging.NewNop())

	complaint := duplicate.NewComplaint{
		Title:       "Garbage dump near park",
		Description: "A large garbage dump has appeared near the children's park",
		Category:    domain.CategorySanitation,
	}
	candidates := []domain.DuplicateCandidate{
		{
			ID:          "CMP_7",
			Title:       "Drain blocked",
			Description: "The storm drain is clogged with plastic",
			Category:    domain.CategorySanitation,
			Status:      domain.StatusTriaged,
			CreatedAt:   recent(),
		},
	}

	if report := d.FindDuplicates(complaint, candidates, false); report.IsDuplicate {
		t.Error("unrelated text must not count as duplicate")
	}
}

func TestFindDuplicatesTopFiveSortedByScore(t *testing.T) {
	d := duplicate.NewDetector(logging.NewNop())

	complaint := duplicate.NewComplaint{
		Title:       "No water supply",
		Description: "No water supply in block C since yesterday morning",
		Category:    domain.CategoryUtilities,
	}

	var candidates []domain.DuplicateCandidate
	for i := 0; i < 7; i++ {
		candidates = append(candidates, domain.DuplicateCandidate{
			ID:          "CMP_" + string(rune('A'+i)),
			Title:       "No water supply",
			Description: "No water supply in block C since yesterday morning",
			Category:    domain.CategoryUtilities,
			Status:      domain.StatusTriaged,
			CreatedAt:   recent(),
		})
	}

	report := d.FindDuplicates(complaint, candidates, false)
	if !report.IsDuplicate {
		t.Fatal("expected duplicates")
	}
	if report.DuplicateCount != 7 {
		t.Errorf("DuplicateCount = %d, want 7", report.DuplicateCount)
	}
	if len(report.SimilarComplaints) != 5 {
		t.Errorf("SimilarComplaints = %d entries, want cap of 5", len(report.SimilarComplaints))
	}
	for i := 1; i < len(report.SimilarComplaints); i++ {
		if report.SimilarComplaints[i].SimilarityScore > report.SimilarComplaints[i-1].SimilarityScore {
			t.Error("SimilarComplaints not sorted by score descending")
		}
	}
}
