package trace

import (
	"context"
	"net/http"
	"sort"
	"time"

	"agrisetu/db"
	"agrisetu/models"
	"agrisetu/rdx"
	"agrisetu/users"
	"agrisetu/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

const cacheTTL = 60 * time.Second

func cacheKey(id string) string {
	return "trace:" + id
}

// CacheKeys maps every non-empty identifier a product can be traced by
// onto its cache key, deduplicated.
func CacheKeys(ids ...string) []string {
	seen := make(map[string]bool, len(ids))
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		keys = append(keys, cacheKey(id))
	}
	return keys
}

// InvalidateCache drops cached trace responses for the given
// identifiers. Called after any write that changes a custody chain.
func InvalidateCache(ids ...string) {
	for _, key := range CacheKeys(ids...) {
		rdx.Del(key)
	}
}

// Stage is one link of the public provenance chain, from harvest to sale.
type Stage struct {
	Stage     string    `json:"stage"`
	Actor     string    `json:"actor"`
	Location  any       `json:"location"`
	Timestamp time.Time `json:"timestamp"`
	Details   utils.M   `json:"details"`
}

// BuildChain assembles the consumer-facing provenance chain: the farm
// production stage, then for each collection (oldest first) its quality
// check, every recorded custody entry, and the sale if one happened.
func BuildChain(crop models.Crop, farmer models.UserSummary, collections []models.Collection,
	actors map[string]models.UserSummary) []Stage {

	chain := []Stage{{
		Stage:     "Farm Production",
		Actor:     farmer.Name,
		Location:  crop.FarmLocation,
		Timestamp: crop.HarvestDate,
		Details: utils.M{
			"cropName":  crop.Name,
			"variety":   crop.Variety,
			"category":  crop.Category,
			"quality":   crop.Quality,
			"isOrganic": crop.IsOrganic,
		},
	}}

	sorted := make([]models.Collection, len(collections))
	copy(sorted, collections)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CollectionDate.Before(sorted[j].CollectionDate)
	})

	for _, col := range sorted {
		chain = append(chain, Stage{
			Stage:     "Collection & Quality Check",
			Actor:     actors[col.AggregatorID].Name,
			Location:  col.CollectionLocation,
			Timestamp: col.CollectionDate,
			Details: utils.M{
				"qualityGrade":      col.QualityAssessment.OverallGrade,
				"qualityScore":      col.QualityAssessment.QualityScore,
				"collectedQuantity": col.CollectedQuantity,
				"aiAnalysis":        col.QualityAssessment.Analysis,
			},
		})

		for _, entry := range col.Traceability.Chain {
			chain = append(chain, Stage{
				Stage:     entry.Stage,
				Actor:     entry.Actor,
				Location:  entry.Location,
				Timestamp: entry.Timestamp,
				Details:   utils.M{"action": entry.Action, "notes": entry.Notes},
			})
		}

		if col.Buyer.BuyerID != "" {
			buyer := actors[col.Buyer.BuyerID]
			saleTime := col.UpdatedAt
			if col.Buyer.SaleDate != nil {
				saleTime = *col.Buyer.SaleDate
			}
			chain = append(chain, Stage{
				Stage:     "Sale",
				Actor:     buyer.Name,
				Location:  buyer.Address,
				Timestamp: saleTime,
				Details: utils.M{
					"salePrice":     col.Buyer.SalePrice,
					"paymentStatus": col.Buyer.PaymentStatus,
				},
			})
		}
	}

	return chain
}

// GetTrace returns the full provenance chain for a crop's traceability
// id. Responses are cached briefly; chain writes invalidate them.
func GetTrace(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("traceabilityId")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var cached utils.M
	if rdx.GetJSON(ctx, cacheKey(id), &cached) {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{
			"success": true,
			"data":    cached,
		})
		return
	}

	var crop models.Crop
	err := db.CropsCollection.FindOne(ctx, bson.M{
		"$or": bson.A{bson.M{"traceabilityid": id}, bson.M{"cropid": id}},
	}).Decode(&crop)
	if err != nil {
		utils.Error(w, http.StatusNotFound, "Crop not found")
		return
	}

	cursor, err := db.CollectionsCollection.Find(ctx, bson.M{"sourcecrop": crop.CropID, "isactive": true})
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to fetch traceability chain")
		return
	}
	defer cursor.Close(ctx)

	collections := []models.Collection{}
	if err := cursor.All(ctx, &collections); err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to fetch traceability chain")
		return
	}

	actorIDs := []string{crop.FarmerID}
	for _, col := range collections {
		actorIDs = append(actorIDs, col.AggregatorID)
		if col.Buyer.BuyerID != "" {
			actorIDs = append(actorIDs, col.Buyer.BuyerID)
		}
	}
	actors, err := users.Summaries(ctx, actorIDs)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to fetch traceability chain")
		return
	}

	chain := BuildChain(crop, actors[crop.FarmerID], collections, actors)

	sort.Slice(collections, func(i, j int) bool {
		return collections[i].CollectionDate.Before(collections[j].CollectionDate)
	})

	data := utils.M{
		"product": utils.M{
			"cropId":         crop.CropID,
			"traceabilityId": crop.TraceabilityID,
			"name":           crop.Name,
			"variety":        crop.Variety,
			"category":       crop.Category,
			"status":         crop.Status,
			"qrCode":         crop.QRCode,
		},
		"chain":       chain,
		"collections": collections,
	}
	rdx.SetJSON(ctx, cacheKey(id), data, cacheTTL)

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"data":    data,
	})
}

// CollectionLookupFilter matches a collection by any identifier printed
// on a batch: the crop QR it was collected from, the batch number, or
// the collection id itself.
func CollectionLookupFilter(id string) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"traceability.originalqrcode": id},
		bson.M{"traceability.batchnumber": id},
		bson.M{"collectionid": id},
	}}
}

// GetCollectionTrace is the batch-centric trace: it resolves a single
// collection and returns its product info, chain, ledger receipt, and
// quality report. Consumers scanning a batch QR land here.
func GetCollectionTrace(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("traceabilityId")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var cached utils.M
	if rdx.GetJSON(ctx, cacheKey(id), &cached) {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{
			"success": true,
			"data":    cached,
		})
		return
	}

	var collection models.Collection
	if err := db.CollectionsCollection.FindOne(ctx, CollectionLookupFilter(id)).Decode(&collection); err != nil {
		utils.Error(w, http.StatusNotFound, "Product not found in traceability system")
		return
	}

	var crop models.Crop
	if err := db.CropsCollection.FindOne(ctx, bson.M{"cropid": collection.SourceCrop}).Decode(&crop); err != nil {
		utils.Error(w, http.StatusNotFound, "Product not found in traceability system")
		return
	}

	actorIDs := []string{crop.FarmerID, collection.AggregatorID}
	if collection.Buyer.BuyerID != "" {
		actorIDs = append(actorIDs, collection.Buyer.BuyerID)
	}
	actors, err := users.Summaries(ctx, actorIDs)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to fetch traceability chain")
		return
	}

	chain := BuildChain(crop, actors[crop.FarmerID], []models.Collection{collection}, actors)

	data := utils.M{
		"productInfo": utils.M{
			"collectionId":  collection.CollectionID,
			"batchNumber":   collection.Traceability.BatchNumber,
			"cropName":      crop.Name,
			"variety":       crop.Variety,
			"currentStatus": collection.Status,
			"qualityGrade":  collection.QualityAssessment.OverallGrade,
		},
		"traceabilityChain": chain,
		"blockchain":        collection.Ledger,
		"qualityReport":     collection.QualityAssessment,
	}
	rdx.SetJSON(ctx, cacheKey(id), data, cacheTTL)

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"data":    data,
	})
}
