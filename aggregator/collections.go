package aggregator

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"agrisetu/db"
	"agrisetu/globals"
	"agrisetu/models"
	"agrisetu/trace"
	"agrisetu/users"
	"agrisetu/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetCollections lists the caller's collections, newest first.
func (h *Handlers) GetCollections(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	aggregatorID, _ := r.Context().Value(globals.UserIDKey).(string)
	opts := utils.ParseQueryOptions(r)

	query := bson.M{"aggregatorid": aggregatorID, "isactive": true}
	if opts.Status != "" {
		query["status"] = opts.Status
	}

	sortBy := "collectiondate"
	if opts.SortBy != "" {
		sortBy = strings.ToLower(opts.SortBy)
	}
	order := -1
	if opts.SortOrder == "asc" {
		order = 1
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	findOpts := options.Find().
		SetSort(bson.D{{Key: sortBy, Value: order}}).
		SetSkip(int64((opts.Page - 1) * opts.Limit)).
		SetLimit(int64(opts.Limit))

	cursor, err := db.CollectionsCollection.Find(ctx, query, findOpts)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Server error")
		return
	}
	defer cursor.Close(ctx)

	collections := []models.Collection{}
	if err := cursor.All(ctx, &collections); err != nil {
		utils.Error(w, http.StatusInternalServerError, "Server error")
		return
	}

	total, err := db.CollectionsCollection.CountDocuments(ctx, query)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Server error")
		return
	}

	farmerIDs := make([]string, 0, len(collections))
	for _, col := range collections {
		farmerIDs = append(farmerIDs, col.FarmerID)
	}
	farmers, _ := users.Summaries(ctx, farmerIDs)

	items := make([]utils.M, 0, len(collections))
	for _, col := range collections {
		items = append(items, utils.M{"collection": col, "farmer": farmers[col.FarmerID]})
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"data": utils.M{
			"collections": items,
			"pagination":  utils.Paginate(opts, total),
		},
	})
}

// GetCollection returns a single collection with its actors resolved.
// Only the owning aggregator may view it.
func (h *Handlers) GetCollection(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
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
		utils.Error(w, http.StatusForbidden, "Not authorized to view this collection")
		return
	}

	var crop models.Crop
	_ = db.CropsCollection.FindOne(ctx, bson.M{"cropid": collection.SourceCrop}).Decode(&crop)

	actorIDs := []string{collection.FarmerID, collection.AggregatorID}
	if collection.Buyer.BuyerID != "" {
		actorIDs = append(actorIDs, collection.Buyer.BuyerID)
	}
	actors, _ := users.Summaries(ctx, actorIDs)

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"data": utils.M{
			"collection": collection,
			"sourceCrop": crop,
			"farmer":     actors[collection.FarmerID],
			"aggregator": actors[collection.AggregatorID],
			"buyer":      actors[collection.Buyer.BuyerID],
		},
	})
}

type statusUpdateRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

// UpdateStatus moves a collection to a new workflow status and records
// the change on the custody chain. Every update appends exactly one
// chain entry.
func (h *Handlers) UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	aggregatorID, _ := r.Context().Value(globals.UserIDKey).(string)
	collectionID := ps.ByName("id")

	var req statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !models.ValidCollectionStatus(req.Status) {
		utils.ValidationError(w, "Invalid status", []string{"status"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var collection models.Collection
	if err := db.CollectionsCollection.FindOne(ctx, bson.M{"collectionid": collectionID}).Decode(&collection); err != nil {
		utils.Error(w, http.StatusNotFound, "Collection not found")
		return
	}
	if collection.AggregatorID != aggregatorID {
		utils.Error(w, http.StatusForbidden, "Not authorized to update this collection")
		return
	}

	var actor models.User
	_ = db.UserCollection.FindOne(ctx, bson.M{"userid": aggregatorID}).Decode(&actor)

	now := time.Now()
	entry := models.ChainEntry{
		Stage:     req.Status,
		Actor:     actor.Name,
		Timestamp: now,
		Location:  collection.CollectionLocation.District,
		Action:    "Status changed from " + collection.Status + " to " + req.Status,
		Notes:     req.Notes,
	}

	var updated models.Collection
	err := db.CollectionsCollection.FindOneAndUpdate(ctx,
		bson.M{"collectionid": collectionID},
		bson.M{
			"$set":  bson.M{"status": req.Status, "updatedat": now},
			"$push": bson.M{"traceability.traceabilitychain": entry},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Server error")
		return
	}

	trace.InvalidateCache(updated.SourceCrop,
		updated.Traceability.OriginalQRCode,
		updated.Traceability.BatchNumber,
		updated.CollectionID)
	h.Updates.Broadcast(aggregatorID, StatusEvent{
		CollectionID: collectionID,
		Status:       req.Status,
		Timestamp:    now,
	})

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"message": "Collection status updated successfully",
		"data":    utils.M{"collection": updated},
	})
}

// GetAnalytics aggregates the caller's collection totals, recent
// activity, and quality grade distribution.
func (h *Handlers) GetAnalytics(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	aggregatorID, _ := r.Context().Value(globals.UserIDKey).(string)
	q := r.URL.Query()

	match := bson.M{"aggregatorid": aggregatorID, "isactive": true}
	if start, end := q.Get("startDate"), q.Get("endDate"); start != "" && end != "" {
		startT := utils.ParseDate(start)
		endT := utils.ParseDate(end)
		if startT != nil && endT != nil {
			match["collectiondate"] = bson.M{"$gte": *startT, "$lte": *endT}
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	totalsPipeline := []bson.M{
		{"$match": match},
		{"$group": bson.M{
			"_id":              nil,
			"totalCollections": bson.M{"$sum": 1},
			"totalQuantity":    bson.M{"$sum": "$collectedquantity"},
			"totalValue":       bson.M{"$sum": "$marketinfo.totalvalue"},
			"averageQuality":   bson.M{"$avg": "$qualityassessment.qualityscore"},
		}},
	}
	cursor, err := db.CollectionsCollection.Aggregate(ctx, totalsPipeline)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Server error")
		return
	}
	totals := []bson.M{}
	if err := cursor.All(ctx, &totals); err != nil {
		utils.Error(w, http.StatusInternalServerError, "Server error")
		return
	}
	analytics := bson.M{}
	if len(totals) > 0 {
		analytics = totals[0]
		delete(analytics, "_id")
	}

	gradePipeline := []bson.M{
		{"$match": bson.M{"aggregatorid": aggregatorID, "isactive": true}},
		{"$group": bson.M{
			"_id":      "$qualityassessment.overallgrade",
			"count":    bson.M{"$sum": 1},
			"avgScore": bson.M{"$avg": "$qualityassessment.qualityscore"},
		}},
	}
	cursor, err = db.CollectionsCollection.Aggregate(ctx, gradePipeline)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Server error")
		return
	}
	qualityDistribution := []bson.M{}
	if err := cursor.All(ctx, &qualityDistribution); err != nil {
		utils.Error(w, http.StatusInternalServerError, "Server error")
		return
	}

	recentOpts := options.Find().SetSort(bson.D{{Key: "collectiondate", Value: -1}}).SetLimit(5)
	cursor, err = db.CollectionsCollection.Find(ctx, bson.M{"aggregatorid": aggregatorID, "isactive": true}, recentOpts)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Server error")
		return
	}
	recent := []models.Collection{}
	if err := cursor.All(ctx, &recent); err != nil {
		utils.Error(w, http.StatusInternalServerError, "Server error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"data": utils.M{
			"analytics":           analytics,
			"recentCollections":   recent,
			"qualityDistribution": qualityDistribution,
		},
	})
}
