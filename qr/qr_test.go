package qr

import (
	"encoding/json"
	"os"
	"strings"
	"testing"

	"agrisetu/models"
)

func TestBuildPayload(t *testing.T) {
	os.Setenv("FRONTEND_URL", "https://agrisetu.example")
	defer os.Unsetenv("FRONTEND_URL")

	crop := &models.Crop{
		CropID:         "CROP-ABC-12345",
		TraceabilityID: "CC-ABC-12345",
	}
	p := buildPayload(crop)

	if p.TraceabilityID != "CC-ABC-12345" {
		t.Errorf("traceabilityId = %q", p.TraceabilityID)
	}
	if p.CropID != "CROP-ABC-12345" {
		t.Errorf("cropId = %q", p.CropID)
	}
	if p.Type != "crop" {
		t.Errorf("type = %q", p.Type)
	}
	if p.URL != "https://agrisetu.example/trace/CC-ABC-12345" {
		t.Errorf("url = %q", p.URL)
	}
}

func TestBuildPayloadDefaultFrontend(t *testing.T) {
	os.Unsetenv("FRONTEND_URL")
	p := buildPayload(&models.Crop{TraceabilityID: "CC-X-Y"})
	if !strings.HasPrefix(p.URL, "http://localhost:3000/trace/") {
		t.Errorf("url = %q", p.URL)
	}
}

func TestPayloadJSONShape(t *testing.T) {
	data, err := json.Marshal(Payload{
		TraceabilityID: "CC-1",
		CropID:         "CROP-1",
		Type:           "crop",
		URL:            "http://localhost:3000/trace/CC-1",
	})
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]string
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"traceabilityId", "cropId", "type", "url"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("payload missing key %q", key)
		}
	}
}
