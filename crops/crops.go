package crops

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"agrisetu/db"
	"agrisetu/filemgr"
	"agrisetu/globals"
	"agrisetu/models"
	"agrisetu/mq"
	"agrisetu/rdx"
	"agrisetu/users"
	"agrisetu/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UploadCrop lists a new crop for the authenticated farmer. Accepts
// multipart form data so listing photos can ride along.
func UploadCrop(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	farmerID, _ := r.Context().Value(globals.UserIDKey).(string)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	quantity := utils.ParseFloat(r.FormValue("quantity"))
	if name == "" || quantity <= 0 {
		utils.Error(w, http.StatusBadRequest, "Name and a positive quantity are required")
		return
	}

	unit := r.FormValue("unit")
	if unit == "" {
		unit = "kg"
	}
	variety := r.FormValue("variety")
	if variety == "" {
		variety = name
	}
	category := r.FormValue("category")
	if !models.ValidCropCategory(category) {
		category = CategoryFromName(name)
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var farmer models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"userid": farmerID}).Decode(&farmer)
	if err != nil || farmer.Role != models.RoleFarmer {
		utils.Error(w, http.StatusNotFound, "Farmer not found")
		return
	}

	imagePaths, err := filemgr.SaveQualityImages(r.MultipartForm, "images", filemgr.EntityCrop)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Failed to save images: "+err.Error())
		return
	}
	images := make([]models.CropImage, 0, len(imagePaths))
	for _, p := range imagePaths {
		images = append(images, models.CropImage{URL: p, UploadedAt: time.Now()})
	}

	harvestDate := time.Now()
	if d := utils.ParseDate(r.FormValue("harvestDate")); d != nil {
		harvestDate = *d
	}

	now := time.Now()
	crop := models.Crop{
		CropID:         utils.GenerateCropID(),
		Name:           name,
		Variety:        variety,
		Category:       category,
		Quantity:       quantity,
		Unit:           unit,
		PricePerUnit:   utils.ParseFloat(r.FormValue("pricePerUnit")),
		FarmerID:       farmer.UserID,
		FarmLocation:   locationFromAddress(farmer.Address),
		IsOrganic:      r.FormValue("isOrganic") == "true",
		HarvestDate:    harvestDate,
		SowingDate:     utils.ParseDate(r.FormValue("sowingDate")),
		Images:         images,
		Description:    r.FormValue("description"),
		TraceabilityID: utils.GenerateTraceabilityID(),
		Status:         models.CropStatusListed,
		Availability:   models.AvailabilityAvailable,
		ListedAt:       now,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if _, err := db.CropsCollection.InsertOne(ctx, crop); err != nil {
		log.Printf("crops: insert: %v", err)
		utils.Error(w, http.StatusInternalServerError, "Failed to upload crop")
		return
	}

	go mq.Emit(globals.Ctx, "crop-listed", models.Index{EntityType: "crop", EntityId: crop.CropID, Method: "POST"})
	rdx.Del(marketplaceCacheKey)

	summary, _ := users.Summary(ctx, farmer.UserID)
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"success": true,
		"message": "Crop uploaded successfully",
		"crop":    crop,
		"farmer":  summary,
	})
}

const marketplaceCacheKey = "marketplace:firstpage"

// GetMarketplace lists active listed crops with filters and pagination.
// The unfiltered first page is cached briefly; it serves every visitor
// landing on the marketplace.
func GetMarketplace(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	opts := utils.ParseQueryOptions(r)
	q := r.URL.Query()
	if q.Get("limit") == "" {
		opts.Limit = 12
	}

	cacheable := len(q) == 0
	if cacheable {
		var cached utils.M
		if rdx.GetJSON(r.Context(), marketplaceCacheKey, &cached) {
			utils.RespondWithJSON(w, http.StatusOK, cached)
			return
		}
	}

	query := bson.M{"status": models.CropStatusListed, "isactive": true}
	if category := q.Get("category"); category != "" {
		query["category"] = category
	}
	if location := q.Get("location"); location != "" {
		re := primitive.Regex{Pattern: location, Options: "i"}
		query["$or"] = bson.A{
			bson.M{"farmlocation.district": re},
			bson.M{"farmlocation.state": re},
		}
	}
	price := bson.M{}
	if min := q.Get("minPrice"); min != "" {
		price["$gte"] = utils.ParseFloat(min)
	}
	if max := q.Get("maxPrice"); max != "" {
		price["$lte"] = utils.ParseFloat(max)
	}
	if len(price) > 0 {
		query["priceperunit"] = price
	}
	if q.Get("isOrganic") == "true" {
		query["isorganic"] = true
	}
	if opts.Search != "" {
		re := primitive.Regex{Pattern: opts.Search, Options: "i"}
		query["$or"] = bson.A{
			bson.M{"name": re},
			bson.M{"variety": re},
			bson.M{"description": re},
		}
	}

	sortBy := "listedat"
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

	cursor, err := db.CropsCollection.Find(ctx, query, findOpts)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Server error")
		return
	}
	defer cursor.Close(ctx)

	crops := []models.Crop{}
	if err := cursor.All(ctx, &crops); err != nil {
		utils.Error(w, http.StatusInternalServerError, "Server error")
		return
	}

	total, err := db.CropsCollection.CountDocuments(ctx, query)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Server error")
		return
	}

	farmerIDs := make([]string, 0, len(crops))
	for _, c := range crops {
		farmerIDs = append(farmerIDs, c.FarmerID)
	}
	farmers, _ := users.Summaries(ctx, farmerIDs)

	items := make([]utils.M, 0, len(crops))
	for _, c := range crops {
		items = append(items, utils.M{"crop": c, "farmer": farmers[c.FarmerID]})
	}

	response := utils.M{
		"success": true,
		"data": utils.M{
			"crops":      items,
			"pagination": utils.Paginate(opts, total),
		},
	}
	if cacheable {
		rdx.SetJSON(ctx, marketplaceCacheKey, response, 30*time.Second)
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// GetCrop returns one active crop and counts the view.
func GetCrop(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	cropID := ps.ByName("id")
	viewerID, _ := r.Context().Value(globals.UserIDKey).(string)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var crop models.Crop
	err := db.CropsCollection.FindOneAndUpdate(ctx,
		ViewCountFilter(cropID, viewerID),
		bson.M{"$inc": bson.M{"views": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&crop)
	if err != nil {
		// No counted view: either the listing is gone or the owner is
		// looking at their own crop.
		if err := db.CropsCollection.FindOne(ctx, bson.M{"cropid": cropID, "isactive": true}).Decode(&crop); err != nil {
			utils.Error(w, http.StatusNotFound, "Crop not found")
			return
		}
	}

	farmer, _ := users.Summary(ctx, crop.FarmerID)

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"data":    utils.M{"crop": crop, "farmer": farmer},
	})
}

// ViewCountFilter matches an active crop for the view-counting update.
// An authenticated owner is excluded so farmers browsing their own
// listings do not inflate the counter.
func ViewCountFilter(cropID, viewerID string) bson.M {
	filter := bson.M{"cropid": cropID, "isactive": true}
	if viewerID != "" {
		filter["farmerid"] = bson.M{"$ne": viewerID}
	}
	return filter
}

// DeleteCrop soft-deletes a listing. Only the owning farmer may remove it.
func DeleteCrop(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	farmerID, _ := r.Context().Value(globals.UserIDKey).(string)
	cropID := ps.ByName("id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.CropsCollection.UpdateOne(ctx,
		bson.M{"cropid": cropID, "farmerid": farmerID, "isactive": true},
		bson.M{"$set": bson.M{"isactive": false, "updatedat": time.Now()}},
	)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to delete crop")
		return
	}
	if res.MatchedCount == 0 {
		utils.Error(w, http.StatusNotFound, "Crop not found")
		return
	}

	go mq.Emit(globals.Ctx, "crop-removed", models.Index{EntityType: "crop", EntityId: cropID, Method: "DELETE"})
	rdx.Del(marketplaceCacheKey)

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"message": "Crop removed from marketplace",
	})
}

// GetFarmerCrops lists one farmer's crops with listing stats.
func GetFarmerCrops(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	email := strings.ToLower(ps.ByName("email"))
	opts := utils.ParseQueryOptions(r)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var farmer models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"email": email}).Decode(&farmer); err != nil {
		utils.Error(w, http.StatusNotFound, "Farmer not found")
		return
	}

	query := bson.M{"farmerid": farmer.UserID, "isactive": true}
	if opts.Status != "" && opts.Status != "all" {
		query["status"] = opts.Status
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "createdat", Value: -1}}).
		SetSkip(int64((opts.Page - 1) * opts.Limit)).
		SetLimit(int64(opts.Limit))

	cursor, err := db.CropsCollection.Find(ctx, query, findOpts)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to get farmer crops")
		return
	}
	defer cursor.Close(ctx)

	crops := []models.Crop{}
	if err := cursor.All(ctx, &crops); err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to get farmer crops")
		return
	}

	total, err := db.CropsCollection.CountDocuments(ctx, query)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to get farmer crops")
		return
	}

	var totalRevenue float64
	activeCrops := 0
	for _, c := range crops {
		switch c.Status {
		case models.CropStatusSold:
			totalRevenue += c.TotalValue()
		case models.CropStatusListed:
			activeCrops++
		}
	}

	totalOrders, _ := db.OrdersCollection.CountDocuments(ctx, bson.M{"farmerid": farmer.UserID})

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"data": utils.M{
			"crops": crops,
			"stats": utils.M{
				"totalCrops":   total,
				"totalOrders":  totalOrders,
				"totalRevenue": totalRevenue,
				"activeCrops":  activeCrops,
			},
			"pagination": utils.Paginate(opts, total),
		},
	})
}

var categoryKeywords = map[string][]string{
	"grains":     {"rice", "wheat", "maize", "corn", "barley", "oats"},
	"vegetables": {"tomato", "potato", "onion", "carrot", "cabbage", "spinach"},
	"fruits":     {"apple", "banana", "orange", "mango", "grapes"},
	"pulses":     {"groundnut", "peanut", "lentil", "chickpea", "bean"},
	"spices":     {"turmeric", "chili", "pepper", "coriander", "cumin"},
	"cash_crops": {"sugarcane", "cotton", "tobacco"},
}

// CategoryFromName infers a marketplace category from a crop's name,
// defaulting to grains for anything unrecognized.
func CategoryFromName(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	for category, names := range categoryKeywords {
		for _, n := range names {
			if n == lower {
				return category
			}
		}
	}
	return "grains"
}

func locationFromAddress(addr models.Address) models.FarmLocation {
	return models.FarmLocation{
		Village:     addr.Village,
		District:    addr.District,
		State:       addr.State,
		Pincode:     addr.Pincode,
		Coordinates: addr.Coordinates,
	}
}
