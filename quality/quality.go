package quality

import (
	"context"
	"math/rand"
	"time"

	"agrisetu/models"
)

// Inspector grades produce from its photos. Implementations may call an
// external vision service; the mock below stands in until one exists.
type Inspector interface {
	Inspect(ctx context.Context, cropName string, imagePaths []string) (models.QualityAssessment, error)
}

// MockInspector produces plausible assessments for development. A non-nil
// Rand makes output reproducible in tests.
type MockInspector struct {
	Delay time.Duration
	Rand  *rand.Rand
}

func NewMockInspector() *MockInspector {
	return &MockInspector{Delay: 150 * time.Millisecond}
}

// GradeForScore maps a 0-100 quality score onto its grade.
func GradeForScore(score int) string {
	switch {
	case score >= 90:
		return "Premium"
	case score >= 80:
		return "A"
	case score >= 70:
		return "B"
	case score >= 50:
		return "C"
	default:
		return "Rejected"
	}
}

func (m *MockInspector) Inspect(ctx context.Context, cropName string, imagePaths []string) (models.QualityAssessment, error) {
	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return models.QualityAssessment{}, ctx.Err()
		}
	}

	rnd := m.Rand
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	score := 60 + rnd.Intn(41)
	now := time.Now()

	// Roughly 30% of inspections flag a defect, 20% find contaminants,
	// 10% detect pesticide residue.
	var defects []models.Defect
	if rnd.Float64() < 0.3 {
		defects = append(defects, models.Defect{
			DefectType:         pick(rnd, "Insect Damage", "Discoloration", "Cracks", "Foreign Matter"),
			Severity:           pick(rnd, "Low", "Medium", "High"),
			AffectedPercentage: 1 + rnd.Intn(15),
		})
	}
	var contaminants []string
	if rnd.Float64() < 0.2 {
		contaminants = []string{"Dust", "Stones"}
	}
	pesticides := rnd.Float64() < 0.1

	images := make([]models.InspectionImage, 0, len(imagePaths))
	for _, p := range imagePaths {
		images = append(images, models.InspectionImage{
			URL:       p,
			Type:      "processed",
			Timestamp: now,
		})
	}

	return models.QualityAssessment{
		OverallGrade: GradeForScore(score),
		QualityScore: score,
		Analysis: models.QualityAnalysis{
			VisualInspection: models.VisualInspection{
				Color:      pick(rnd, "vibrant", "good", "acceptable"),
				Texture:    pick(rnd, "firm", "smooth", "slightly soft"),
				Size:       pick(rnd, "uniform", "mixed", "large"),
				Uniformity: 70 + rnd.Intn(31),
			},
			DefectDetection:    defects,
			MoistureContent:    10 + rnd.Intn(11),
			PurityLevel:        80 + rnd.Intn(21),
			Contaminants:       contaminants,
			PesticidesDetected: pesticides,
			OrganicCompliance:  !pesticides && score >= 70,
		},
		InspectionImages: images,
		InspectorNotes:   "Automated inspection of " + cropName,
		AnalyzedAt:       now,
	}, nil
}

func pick(rnd *rand.Rand, options ...string) string {
	return options[rnd.Intn(len(options))]
}
