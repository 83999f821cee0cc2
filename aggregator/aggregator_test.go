package aggregator

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"agrisetu/models"
)

func TestBuildBatchQR(t *testing.T) {
	col := &models.Collection{
		CollectionID:      "AGG-TEST-1",
		SourceCrop:        "CROP-TEST-1",
		CollectionDate:    time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		CollectedQuantity: 120,
		QualityAssessment: models.QualityAssessment{OverallGrade: "A", QualityScore: 84},
	}

	dataURL, err := buildBatchQR(col, "AgroHub", "CC-TEST-1")
	if err != nil {
		t.Fatalf("buildBatchQR: %v", err)
	}
	if !strings.HasPrefix(dataURL, "data:image/png;base64,") {
		t.Fatalf("not a PNG data URL: %.40s", dataURL)
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(dataURL, "data:image/png;base64,"))
	if err != nil {
		t.Fatalf("decode base64: %v", err)
	}
	// PNG magic bytes
	if len(raw) < 8 || raw[1] != 'P' || raw[2] != 'N' || raw[3] != 'G' {
		t.Fatal("payload is not a PNG image")
	}
}

func TestBatchPayloadShape(t *testing.T) {
	data, err := json.Marshal(batchPayload{
		CollectionID:      "AGG-1",
		OriginalCrop:      "CROP-1",
		Aggregator:        "AgroHub",
		QualityGrade:      "A",
		BatchQuantity:     50,
		TraceabilityChain: []string{"CC-1"},
	})
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"collectionId", "originalCrop", "aggregator", "qualityGrade", "batchQuantity", "traceabilityChain"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("payload missing key %q", key)
		}
	}
}

func TestChainEntry(t *testing.T) {
	col := &models.Collection{
		CollectionLocation: models.CollectionLocation{District: "Nashik"},
	}
	entry := chainEntry(col, "AgroHub", "stored", "Moved to warehouse", "bay 4")
	if entry.Stage != "stored" || entry.Actor != "AgroHub" || entry.Location != "Nashik" {
		t.Errorf("unexpected entry %+v", entry)
	}
	if entry.Action != "Moved to warehouse" || entry.Notes != "bay 4" {
		t.Errorf("unexpected entry %+v", entry)
	}
	if entry.Timestamp.IsZero() {
		t.Error("timestamp not set")
	}
}

func TestUpdatesHubBroadcastNoSubscribers(t *testing.T) {
	hub := NewUpdatesHub()
	// Must not panic with no open sockets.
	hub.Broadcast("uAgg", StatusEvent{CollectionID: "AGG-1", Status: "stored", Timestamp: time.Now()})
}
