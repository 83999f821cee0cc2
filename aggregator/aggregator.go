package aggregator

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"agrisetu/db"
	"agrisetu/filemgr"
	"agrisetu/globals"
	"agrisetu/ledger"
	"agrisetu/models"
	"agrisetu/mq"
	"agrisetu/quality"
	"agrisetu/rdx"
	"agrisetu/trace"
	"agrisetu/users"
	"agrisetu/utils"

	"github.com/julienschmidt/httprouter"
	qrcode "github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
)

// Handlers carries the quality and ledger backends so the HTTP layer
// never touches a concrete implementation. main wires the mocks today;
// a real inference service or chain client slots in unchanged.
type Handlers struct {
	Inspector quality.Inspector
	Ledger    ledger.Writer
	Updates   *UpdatesHub
}

func NewHandlers(inspector quality.Inspector, writer ledger.Writer) *Handlers {
	return &Handlers{
		Inspector: inspector,
		Ledger:    writer,
		Updates:   NewUpdatesHub(),
	}
}

type scanRequest struct {
	QRCode          string           `json:"qrCode"`
	ScannedLocation *models.GeoPoint `json:"scannedLocation"`
}

// ScanQR resolves a scanned QR payload (or bare traceability id) to the
// crop and farmer an aggregator is about to collect from.
func (h *Handlers) ScanQR(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req scanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.QRCode) == "" {
		utils.ValidationError(w, "Validation failed", []string{"qrCode"})
		return
	}

	// The scanner hands us either the JSON payload baked into the QR
	// image or the raw traceability id printed beneath it.
	traceID := req.QRCode
	var payload struct {
		TraceabilityID string `json:"traceabilityId"`
		CropID         string `json:"cropId"`
	}
	if err := json.Unmarshal([]byte(req.QRCode), &payload); err == nil && payload.TraceabilityID != "" {
		traceID = payload.TraceabilityID
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var crop models.Crop
	err := db.CropsCollection.FindOne(ctx, bson.M{
		"$or": bson.A{bson.M{"traceabilityid": traceID}, bson.M{"cropid": traceID}},
	}).Decode(&crop)
	if err != nil {
		utils.Error(w, http.StatusNotFound, "Invalid QR code or crop not found")
		return
	}

	if crop.Status != models.CropStatusListed {
		utils.Error(w, http.StatusBadRequest, "Crop is not available for collection")
		return
	}

	farmer, _ := users.Summary(ctx, crop.FarmerID)

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"message": "QR code scanned successfully",
		"data": utils.M{
			"crop": utils.M{
				"id":             crop.CropID,
				"name":           crop.Name,
				"variety":        crop.Variety,
				"category":       crop.Category,
				"quantity":       crop.Quantity,
				"unit":           crop.Unit,
				"pricePerUnit":   crop.PricePerUnit,
				"harvestDate":    crop.HarvestDate,
				"farmLocation":   crop.FarmLocation,
				"quality":        crop.Quality,
				"isOrganic":      crop.IsOrganic,
				"certifications": crop.Certifications,
				"images":         crop.Images,
				"traceabilityId": crop.TraceabilityID,
			},
			"farmer":          farmer,
			"scannedAt":       time.Now(),
			"scannedLocation": req.ScannedLocation,
		},
	})
}

// CollectCrop records an aggregator taking custody of a listed crop:
// quality inspection over the uploaded photos, a batch QR for the new
// lot, the collection record, a ledger receipt, and the crop flipped
// to sold. The record insert and crop flip commit together.
func (h *Handlers) CollectCrop(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	aggregatorID, _ := r.Context().Value(globals.UserIDKey).(string)

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	cropID := r.FormValue("cropId")
	quantity := utils.ParseFloat(r.FormValue("collectedQuantity"))
	unit := r.FormValue("collectedUnit")
	price := utils.ParseFloat(r.FormValue("purchasePrice"))

	var missing []string
	if cropID == "" {
		missing = append(missing, "cropId")
	}
	if quantity <= 0 {
		missing = append(missing, "collectedQuantity")
	}
	if !models.ValidCollectionUnit(unit) {
		missing = append(missing, "collectedUnit")
	}
	if price <= 0 {
		missing = append(missing, "purchasePrice")
	}

	var location models.CollectionLocation
	if raw := r.FormValue("collectionLocation"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &location); err != nil {
			utils.ValidationError(w, "Invalid collection location", []string{"collectionLocation"})
			return
		}
	}
	if location.FarmAddress == "" {
		missing = append(missing, "collectionLocation.farmAddress")
	}
	if location.District == "" {
		missing = append(missing, "collectionLocation.district")
	}
	if location.State == "" {
		missing = append(missing, "collectionLocation.state")
	}
	if len(missing) > 0 {
		utils.ValidationError(w, "Validation failed", missing)
		return
	}

	var storage models.StorageDetails
	if raw := r.FormValue("storageDetails"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &storage); err != nil {
			utils.ValidationError(w, "Invalid storage details", []string{"storageDetails"})
			return
		}
	}
	notes := r.FormValue("notes")

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	var aggregatorUser models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"userid": aggregatorID}).Decode(&aggregatorUser); err != nil {
		utils.Error(w, http.StatusForbidden, "Only aggregators can collect crops")
		return
	}

	var crop models.Crop
	if err := db.CropsCollection.FindOne(ctx, bson.M{"cropid": cropID, "isactive": true}).Decode(&crop); err != nil {
		utils.Error(w, http.StatusNotFound, "Crop not found")
		return
	}
	if crop.Status != models.CropStatusListed {
		utils.Error(w, http.StatusBadRequest, "Crop is not available for collection")
		return
	}

	imagePaths, err := filemgr.SaveQualityImages(r.MultipartForm, "qualityImages", filemgr.EntityCollection)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Failed to save quality images: "+err.Error())
		return
	}

	inspectCtx, inspectCancel := context.WithTimeout(ctx, 10*time.Second)
	assessment, err := h.Inspector.Inspect(inspectCtx, crop.Name, imagePaths)
	inspectCancel()
	if err != nil {
		log.Printf("aggregator: quality inspection: %v", err)
		utils.Error(w, http.StatusBadGateway, "Quality inspection failed")
		return
	}

	now := time.Now()
	collection := models.Collection{
		CollectionID:       utils.GenerateCollectionID(),
		AggregatorID:       aggregatorID,
		SourceCrop:         crop.CropID,
		FarmerID:           crop.FarmerID,
		CollectedQuantity:  quantity,
		CollectedUnit:      unit,
		CollectionDate:     now,
		CollectionLocation: location,
		QualityAssessment:  assessment,
		Storage:            storage,
		MarketInfo: models.MarketInfo{
			PurchasePrice: price,
			PricePerUnit:  price / quantity,
			TotalValue:    price * quantity,
		},
		Status:    models.CollectionStatusCollected,
		IsActive:  true,
		Notes:     notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	batchQR, err := buildBatchQR(&collection, aggregatorUser.Name, crop.TraceabilityID)
	if err != nil {
		log.Printf("aggregator: batch qr: %v", err)
		utils.Error(w, http.StatusInternalServerError, "Server error while collecting crop")
		return
	}

	originalCode := crop.TraceabilityID
	if crop.QRCode != nil && crop.QRCode.Code != "" {
		originalCode = crop.QRCode.Code
	}
	collection.Traceability = models.Traceability{
		OriginalQRCode:   originalCode,
		AggregatorQRCode: batchQR,
		BatchNumber:      utils.GenerateBatchNumber(),
		Chain: []models.ChainEntry{{
			Stage:     "collection",
			Actor:     aggregatorUser.Name,
			Timestamp: now,
			Location:  location.District,
			Action:    "Crop collected from farmer",
			Notes:     notes,
		}},
	}

	err = db.WithTransaction(ctx, func(txCtx context.Context) error {
		if _, err := db.CollectionsCollection.InsertOne(txCtx, collection); err != nil {
			return err
		}
		_, err := db.CropsCollection.UpdateOne(txCtx,
			bson.M{"cropid": crop.CropID},
			bson.M{"$set": bson.M{
				"status":       models.CropStatusSold,
				"availability": models.AvailabilitySoldOut,
				"updatedat":    time.Now(),
			}},
		)
		return err
	})
	if err != nil {
		log.Printf("aggregator: collect transaction: %v", err)
		utils.Error(w, http.StatusInternalServerError, "Server error while collecting crop")
		return
	}

	// Ledger anchoring is best effort. A nil receipt leaves the record
	// eligible for re-anchoring later.
	ledgerCtx, ledgerCancel := context.WithTimeout(ctx, 10*time.Second)
	receipt, err := h.Ledger.RegisterProduce(ledgerCtx, &collection)
	ledgerCancel()
	if err != nil {
		log.Printf("aggregator: ledger registration failed for %s: %v", collection.CollectionID, err)
		receipt = nil
	}
	if receipt != nil {
		collection.Ledger = receipt
		if _, err := db.CollectionsCollection.UpdateOne(ctx,
			bson.M{"collectionid": collection.CollectionID},
			bson.M{"$set": bson.M{"blockchain": receipt}},
		); err != nil {
			log.Printf("aggregator: persist ledger receipt: %v", err)
		}
	}

	entry := chainEntry(&collection, aggregatorUser.Name, "quality_checked",
		"AI quality analysis completed",
		assessment.GradeSummary())
	if err := appendChainEntry(ctx, collection.CollectionID, entry); err != nil {
		log.Printf("aggregator: append quality entry: %v", err)
	} else {
		collection.Traceability.Chain = append(collection.Traceability.Chain, entry)
	}

	go mq.Emit(globals.Ctx, "collection-created", models.Index{
		EntityType: "collection", EntityId: collection.CollectionID, Method: "POST",
		ItemId: crop.CropID, ItemType: "crop",
	})
	rdx.Del("marketplace:firstpage")
	trace.InvalidateCache(crop.TraceabilityID, crop.CropID,
		collection.Traceability.OriginalQRCode,
		collection.Traceability.BatchNumber,
		collection.CollectionID)
	h.Updates.Broadcast(aggregatorID, StatusEvent{
		CollectionID: collection.CollectionID,
		Status:       collection.Status,
		Timestamp:    now,
	})

	farmer, _ := users.Summary(ctx, crop.FarmerID)

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"success": true,
		"message": "Crop collected and quality checked successfully",
		"data": utils.M{
			"collection": collection,
			"sourceCrop": utils.M{"name": crop.Name, "variety": crop.Variety, "category": crop.Category},
			"farmer":     farmer,
			"qualityReport": utils.M{
				"grade":      assessment.OverallGrade,
				"score":      assessment.QualityScore,
				"aiAnalysis": assessment.Analysis,
				"defects":    assessment.Analysis.DefectDetection,
				"compliance": utils.M{
					"organic":    assessment.Analysis.OrganicCompliance,
					"pesticides": !assessment.Analysis.PesticidesDetected,
					"purity":     assessment.Analysis.PurityLevel,
				},
			},
			"blockchain": receipt,
			"newQRCode":  batchQR,
		},
	})
}

// batchPayload is what gets baked into the aggregated lot's QR image.
type batchPayload struct {
	CollectionID      string    `json:"collectionId"`
	OriginalCrop      string    `json:"originalCrop"`
	Aggregator        string    `json:"aggregator"`
	CollectionDate    time.Time `json:"collectionDate"`
	QualityGrade      string    `json:"qualityGrade"`
	BatchQuantity     float64   `json:"batchQuantity"`
	TraceabilityChain []string  `json:"traceabilityChain"`
}

// buildBatchQR encodes the batch payload into a PNG data URL so the
// client can render or print it without another round trip.
func buildBatchQR(col *models.Collection, aggregatorName, cropTraceID string) (string, error) {
	payload := batchPayload{
		CollectionID:      col.CollectionID,
		OriginalCrop:      col.SourceCrop,
		Aggregator:        aggregatorName,
		CollectionDate:    col.CollectionDate,
		QualityGrade:      col.QualityAssessment.OverallGrade,
		BatchQuantity:     col.CollectedQuantity,
		TraceabilityChain: []string{cropTraceID},
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	png, err := qrcode.Encode(string(data), qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

func chainEntry(col *models.Collection, actor, stage, action, notes string) models.ChainEntry {
	return models.ChainEntry{
		Stage:     stage,
		Actor:     actor,
		Timestamp: time.Now(),
		Location:  col.CollectionLocation.District,
		Action:    action,
		Notes:     notes,
	}
}

func appendChainEntry(ctx context.Context, collectionID string, entry models.ChainEntry) error {
	_, err := db.CollectionsCollection.UpdateOne(ctx,
		bson.M{"collectionid": collectionID},
		bson.M{
			"$push": bson.M{"traceability.traceabilitychain": entry},
			"$set":  bson.M{"updatedat": time.Now()},
		},
	)
	return err
}
