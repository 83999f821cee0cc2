package aggregator

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"agrisetu/db"
	"agrisetu/globals"
	"agrisetu/models"
	"agrisetu/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
)

// PrintLabel renders a printable PDF label for a collected batch: lot
// details, quality grade, and the batch QR for downstream scanning.
func (h *Handlers) PrintLabel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	aggregatorID, _ := r.Context().Value(globals.UserIDKey).(string)
	collectionID := ps.ByName("id")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var collection models.Collection
	if err := db.CollectionsCollection.FindOne(ctx, bson.M{"collectionid": collectionID}).Decode(&collection); err != nil {
		utils.Error(w, http.StatusNotFound, "Collection not found")
		return
	}
	if collection.AggregatorID != aggregatorID {
		utils.Error(w, http.StatusForbidden, "Not authorized to print this label")
		return
	}

	var crop models.Crop
	_ = db.CropsCollection.FindOne(ctx, bson.M{"cropid": collection.SourceCrop}).Decode(&crop)

	frontend := utils.Getenv("FRONTEND_URL", "http://localhost:3000")
	qrPNG, err := qrcode.Encode(frontend+"/trace/"+crop.TraceabilityID, qrcode.Medium, 256)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Batch Label")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Batch Number: %s", collection.Traceability.BatchNumber))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Collection ID: %s", collection.CollectionID))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Crop: %s (%s)", crop.Name, crop.Variety))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Quantity: %.2f %s", collection.CollectedQuantity, collection.CollectedUnit))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Quality Grade: %s (%d/100)",
		collection.QualityAssessment.OverallGrade, collection.QualityAssessment.QualityScore))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Collected: %s", collection.CollectionDate.Format("02 Jan 2006")))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Origin: %s, %s", collection.CollectionLocation.District, collection.CollectionLocation.State))
	pdf.Ln(12)

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 40, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=label-"+collection.Traceability.BatchNumber+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
