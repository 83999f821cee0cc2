package qr

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"path/filepath"
	"time"

	"agrisetu/db"
	"agrisetu/models"
	"agrisetu/utils"

	"github.com/julienschmidt/httprouter"
	qrcode "github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
)

const imageSize = 512

// Payload is what gets encoded into a crop's QR image. Scanners either
// parse the JSON or follow the embedded trace URL.
type Payload struct {
	TraceabilityID string `json:"traceabilityId"`
	CropID         string `json:"cropId"`
	Type           string `json:"type"`
	URL            string `json:"url"`
}

func buildPayload(crop *models.Crop) Payload {
	frontend := utils.Getenv("FRONTEND_URL", "http://localhost:3000")
	return Payload{
		TraceabilityID: crop.TraceabilityID,
		CropID:         crop.CropID,
		Type:           "crop",
		URL:            frontend + "/trace/" + crop.TraceabilityID,
	}
}

// GenerateQR writes the crop's QR image and records its metadata.
// Idempotent: the filename derives from the traceability id, so repeat
// calls overwrite the same file and refresh the metadata.
func GenerateQR(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	cropID := ps.ByName("cropId")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var crop models.Crop
	if err := db.CropsCollection.FindOne(ctx, bson.M{"cropid": cropID}).Decode(&crop); err != nil {
		utils.Error(w, http.StatusNotFound, "Crop not found")
		return
	}

	payload := buildPayload(&crop)
	data, err := json.Marshal(payload)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}

	dir := filepath.Join("static", "uploads", "qr")
	if err := utils.EnsureDir(dir); err != nil {
		log.Printf("qr: mkdir %s: %v", dir, err)
		utils.Error(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}

	fileName := "crop-" + crop.TraceabilityID + ".png"
	if err := qrcode.WriteFile(string(data), qrcode.Medium, imageSize, filepath.Join(dir, fileName)); err != nil {
		log.Printf("qr: write %s: %v", fileName, err)
		utils.Error(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}

	meta := models.QRCodeMeta{
		Code:        payload.TraceabilityID,
		ImageURL:    "/static/uploads/qr/" + fileName,
		GeneratedAt: time.Now(),
	}
	_, err = db.CropsCollection.UpdateOne(ctx,
		bson.M{"cropid": crop.CropID},
		bson.M{"$set": bson.M{"qrcode": meta, "updatedat": time.Now()}},
	)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"message": "QR code generated",
		"qr": utils.M{
			"imageUrl": meta.ImageURL,
			"code":     meta.Code,
			"payload":  payload,
		},
	})
}

// VerifyQR resolves a scanned code to its crop without the full chain.
func VerifyQR(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	code := ps.ByName("code")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var crop models.Crop
	err := db.CropsCollection.FindOne(ctx, bson.M{
		"$or": bson.A{bson.M{"traceabilityid": code}, bson.M{"cropid": code}},
	}).Decode(&crop)
	if err != nil {
		utils.Error(w, http.StatusNotFound, "QR not found")
		return
	}

	var farmer models.User
	_ = db.UserCollection.FindOne(ctx, bson.M{"userid": crop.FarmerID}).Decode(&farmer)

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"data": utils.M{
			"crop": utils.M{
				"id":             crop.CropID,
				"traceabilityId": crop.TraceabilityID,
				"name":           crop.Name,
				"variety":        crop.Variety,
				"farmer": utils.M{
					"userid":        farmer.UserID,
					"name":          farmer.Name,
					"phone":         farmer.Phone,
					"address":       farmer.Address,
					"farmerDetails": farmer.FarmerDetails,
				},
				"status": crop.Status,
				"qrCode": crop.QRCode,
			},
		},
	})
}
