package quality

import (
	"context"
	"math/rand"
	"testing"

	"agrisetu/models"
)

func TestGradeForScore(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{100, "Premium"},
		{90, "Premium"},
		{89, "A"},
		{80, "A"},
		{79, "B"},
		{70, "B"},
		{69, "C"},
		{50, "C"},
		{49, "Rejected"},
		{0, "Rejected"},
	}
	for _, c := range cases {
		if got := GradeForScore(c.score); got != c.want {
			t.Errorf("GradeForScore(%d) = %q, want %q", c.score, got, c.want)
		}
	}
}

func TestMockInspectorDeterministic(t *testing.T) {
	a := &MockInspector{Rand: rand.New(rand.NewSource(42))}
	b := &MockInspector{Rand: rand.New(rand.NewSource(42))}

	resA, err := a.Inspect(context.Background(), "Wheat", nil)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	resB, err := b.Inspect(context.Background(), "Wheat", nil)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if resA.QualityScore != resB.QualityScore || resA.OverallGrade != resB.OverallGrade {
		t.Errorf("same seed produced different results: %d/%s vs %d/%s",
			resA.QualityScore, resA.OverallGrade, resB.QualityScore, resB.OverallGrade)
	}
}

func TestMockInspectorBounds(t *testing.T) {
	insp := &MockInspector{Rand: rand.New(rand.NewSource(7))}
	for i := 0; i < 200; i++ {
		res, err := insp.Inspect(context.Background(), "Rice", []string{"/static/uploads/collection/q.jpg"})
		if err != nil {
			t.Fatalf("Inspect: %v", err)
		}
		if res.QualityScore < 60 || res.QualityScore > 100 {
			t.Fatalf("score %d out of range", res.QualityScore)
		}
		if !models.ValidQualityGrade(res.OverallGrade) {
			t.Fatalf("invalid grade %q", res.OverallGrade)
		}
		if res.OverallGrade != GradeForScore(res.QualityScore) {
			t.Fatalf("grade %q does not match score %d", res.OverallGrade, res.QualityScore)
		}
		if len(res.InspectionImages) != 1 {
			t.Fatalf("expected 1 inspection image, got %d", len(res.InspectionImages))
		}
	}
}

func TestMockInspectorEmitsVariantFindings(t *testing.T) {
	insp := &MockInspector{Rand: rand.New(rand.NewSource(3))}

	var defects, contaminated, pesticides, lowScores int
	for i := 0; i < 500; i++ {
		res, err := insp.Inspect(context.Background(), "Rice", nil)
		if err != nil {
			t.Fatalf("Inspect: %v", err)
		}
		a := res.Analysis
		if len(a.DefectDetection) > 0 {
			defects++
			d := a.DefectDetection[0]
			if d.DefectType == "" || d.Severity == "" {
				t.Fatalf("defect missing type or severity: %+v", d)
			}
			if d.AffectedPercentage < 1 || d.AffectedPercentage > 15 {
				t.Fatalf("affected percentage %d out of range", d.AffectedPercentage)
			}
		}
		if len(a.Contaminants) > 0 {
			contaminated++
		}
		if a.PesticidesDetected {
			pesticides++
			if a.OrganicCompliance {
				t.Fatal("pesticide residue must fail organic compliance")
			}
		}
		if res.QualityScore < 70 {
			lowScores++
		}
	}

	if defects == 0 || contaminated == 0 || pesticides == 0 || lowScores == 0 {
		t.Fatalf("expected all finding kinds over 500 runs: defects=%d contaminants=%d pesticides=%d lowScores=%d",
			defects, contaminated, pesticides, lowScores)
	}
	if defects == 500 || contaminated == 500 || pesticides == 500 {
		t.Fatal("findings should be occasional, not universal")
	}
}

func TestMockInspectorHonorsContext(t *testing.T) {
	insp := NewMockInspector()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := insp.Inspect(ctx, "Maize", nil); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}
