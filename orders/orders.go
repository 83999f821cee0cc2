package orders

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"agrisetu/db"
	"agrisetu/globals"
	"agrisetu/models"
	"agrisetu/mq"
	"agrisetu/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultDeliveryWindow = 3 * 24 * time.Hour

// TotalAmount computes what the buyer owes. Never trusted from the client.
func TotalAmount(quantity, pricePerUnit float64) float64 {
	return quantity * pricePerUnit
}

// RatingField resolves which rating slot a user may write: the buyer
// rates the farmer, the farmer rates the buyer. Anything else is refused.
func RatingField(userID, farmerID, buyerID, ratingType string) (string, error) {
	switch {
	case userID == farmerID && ratingType == "buyer":
		return "buyerrating", nil
	case userID == buyerID && ratingType == "farmer":
		return "farmerrating", nil
	default:
		return "", errors.New("unauthorized rating")
	}
}

type createOrderRequest struct {
	CropID               string                     `json:"cropId"`
	FarmerEmail          string                     `json:"farmerEmail"`
	Quantity             float64                    `json:"quantity"`
	Unit                 string                     `json:"unit"`
	PricePerUnit         float64                    `json:"pricePerUnit"`
	DeliveryAddress      models.DeliveryAddress     `json:"deliveryAddress"`
	Notes                string                     `json:"notes"`
	QualityRequirements  models.QualityRequirements `json:"qualityRequirements"`
	PaymentMethod        string                     `json:"paymentMethod"`
	ExpectedDeliveryDate *time.Time                 `json:"expectedDeliveryDate"`
}

// CreateOrder places an order for a listed crop on behalf of the
// authenticated buyer. The total is always derived server side.
func CreateOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	buyerID, _ := r.Context().Value(globals.UserIDKey).(string)

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var missing []string
	if req.CropID == "" {
		missing = append(missing, "cropId")
	}
	if req.Quantity <= 0 {
		missing = append(missing, "quantity")
	}
	if len(missing) > 0 {
		utils.ValidationError(w, "Validation failed", missing)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var crop models.Crop
	if err := db.CropsCollection.FindOne(ctx, bson.M{"cropid": req.CropID, "isactive": true}).Decode(&crop); err != nil {
		utils.Error(w, http.StatusNotFound, "Crop not found")
		return
	}

	var farmer, buyer models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"userid": crop.FarmerID}).Decode(&farmer); err != nil {
		utils.Error(w, http.StatusNotFound, "Farmer or buyer not found")
		return
	}
	if err := db.UserCollection.FindOne(ctx, bson.M{"userid": buyerID}).Decode(&buyer); err != nil {
		utils.Error(w, http.StatusNotFound, "Farmer or buyer not found")
		return
	}

	unit := req.Unit
	if unit == "" {
		unit = crop.Unit
	}
	pricePerUnit := req.PricePerUnit
	if pricePerUnit <= 0 {
		pricePerUnit = crop.PricePerUnit
	}

	now := time.Now()
	expected := req.ExpectedDeliveryDate
	if expected == nil {
		d := now.Add(defaultDeliveryWindow)
		expected = &d
	}

	order := models.Order{
		OrderID:              utils.GenerateOrderID(),
		CropID:               crop.CropID,
		CropName:             crop.Name,
		FarmerID:             farmer.UserID,
		FarmerName:           farmer.Name,
		FarmerEmail:          farmer.Email,
		BuyerID:              buyer.UserID,
		BuyerName:            buyer.Name,
		BuyerEmail:           buyer.Email,
		BuyerPhone:           buyer.Phone,
		Quantity:             req.Quantity,
		Unit:                 unit,
		PricePerUnit:         pricePerUnit,
		TotalAmount:          TotalAmount(req.Quantity, pricePerUnit),
		Status:               "pending",
		DeliveryAddress:      req.DeliveryAddress,
		PaymentStatus:        "pending",
		PaymentMethod:        req.PaymentMethod,
		OrderDate:            now,
		ExpectedDeliveryDate: expected,
		Notes:                req.Notes,
		QualityRequirements:  req.QualityRequirements,
		TrackingUpdates: []models.TrackingUpdate{{
			Status:    "pending",
			Message:   "Order placed successfully",
			Timestamp: now,
			Location:  req.DeliveryAddress.District,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := db.OrdersCollection.InsertOne(ctx, order); err != nil {
		log.Printf("orders: insert: %v", err)
		utils.Error(w, http.StatusInternalServerError, "Failed to create order")
		return
	}

	go mq.Emit(globals.Ctx, "order-created", models.Index{
		EntityType: "order", EntityId: order.OrderID, Method: "POST",
		ItemId: crop.CropID, ItemType: "crop",
	})

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"success": true,
		"message": "Order created successfully",
		"order":   order,
	})
}

type statusUpdateRequest struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Location string `json:"location"`
}

// UpdateStatus appends a tracking update and moves the order to the new
// status. Only the order's farmer or buyer may update it.
func UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, _ := r.Context().Value(globals.UserIDKey).(string)
	orderID := ps.ByName("orderId")

	var req statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !models.ValidOrderStatus(req.Status) {
		utils.ValidationError(w, "Invalid status", []string{"status"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var order models.Order
	if err := db.OrdersCollection.FindOne(ctx, bson.M{"orderid": orderID}).Decode(&order); err != nil {
		utils.Error(w, http.StatusNotFound, "Order not found")
		return
	}
	if order.FarmerID != userID && order.BuyerID != userID {
		utils.Error(w, http.StatusForbidden, "Unauthorized to update this order")
		return
	}

	now := time.Now()
	message := req.Message
	if message == "" {
		message = "Status updated to " + req.Status
	}
	update := bson.M{
		"$set": bson.M{"status": req.Status, "updatedat": now},
		"$push": bson.M{"trackingupdates": models.TrackingUpdate{
			Status:    req.Status,
			Message:   message,
			Timestamp: now,
			Location:  req.Location,
		}},
	}
	if req.Status == "delivered" && order.ActualDeliveryDate == nil {
		update["$set"].(bson.M)["actualdeliverydate"] = now
	}

	var updated models.Order
	err := db.OrdersCollection.FindOneAndUpdate(ctx,
		bson.M{"orderid": orderID}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to update order status")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"message": "Order status updated successfully",
		"order":   updated,
	})
}

// GetOrder returns one order. Farmer and buyer identities ride on the
// order document itself, so no joins are needed.
func GetOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	orderID := ps.ByName("orderId")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var order models.Order
	if err := db.OrdersCollection.FindOne(ctx, bson.M{"orderid": orderID}).Decode(&order); err != nil {
		utils.Error(w, http.StatusNotFound, "Order not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"order":   order,
	})
}

type ratingRequest struct {
	Rating     int    `json:"rating"`
	Feedback   string `json:"feedback"`
	RatingType string `json:"ratingType"` // farmer or buyer
}

// AddRating records feedback after delivery: the buyer rates the farmer,
// the farmer rates the buyer.
func AddRating(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, _ := r.Context().Value(globals.UserIDKey).(string)
	orderID := ps.ByName("orderId")

	var req ratingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		utils.ValidationError(w, "Rating must be between 1 and 5", []string{"rating"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var order models.Order
	if err := db.OrdersCollection.FindOne(ctx, bson.M{"orderid": orderID}).Decode(&order); err != nil {
		utils.Error(w, http.StatusNotFound, "Order not found")
		return
	}

	field, err := RatingField(userID, order.FarmerID, order.BuyerID, req.RatingType)
	if err != nil {
		utils.Error(w, http.StatusForbidden, "Unauthorized to rate this order")
		return
	}

	rating := models.OrderRating{Rating: req.Rating, Feedback: req.Feedback}
	var updated models.Order
	err = db.OrdersCollection.FindOneAndUpdate(ctx,
		bson.M{"orderid": orderID},
		bson.M{"$set": bson.M{field: rating, "updatedat": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to add rating")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"message": "Rating added successfully",
		"order":   updated,
	})
}

// GetFarmerOrders lists every order sold by the farmer with that email.
func GetFarmerOrders(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	listOrdersBy(w, r, ps, "farmerid", "Farmer not found")
}

// GetBuyerOrders lists every order placed by the buyer with that email.
func GetBuyerOrders(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	listOrdersBy(w, r, ps, "buyerid", "Buyer not found")
}

func listOrdersBy(w http.ResponseWriter, r *http.Request, ps httprouter.Params, field, notFound string) {
	email := strings.ToLower(ps.ByName("email"))

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var user models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		utils.Error(w, http.StatusNotFound, notFound)
		return
	}

	findOpts := options.Find().SetSort(bson.D{{Key: "orderdate", Value: -1}})
	cursor, err := db.OrdersCollection.Find(ctx, bson.M{field: user.UserID}, findOpts)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"count":   len(orders),
		"orders":  orders,
	})
}

// GetFarmerStats summarizes a farmer's order book for their dashboard.
func GetFarmerStats(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	email := strings.ToLower(ps.ByName("email"))

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	var farmer models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"email": email}).Decode(&farmer); err != nil {
		utils.Error(w, http.StatusNotFound, "Farmer not found")
		return
	}

	base := bson.M{"farmerid": farmer.UserID}
	totalOrders, _ := db.OrdersCollection.CountDocuments(ctx, base)
	pendingOrders, _ := db.OrdersCollection.CountDocuments(ctx, bson.M{"farmerid": farmer.UserID, "status": "pending"})
	completedOrders, _ := db.OrdersCollection.CountDocuments(ctx, bson.M{"farmerid": farmer.UserID, "status": "delivered"})

	pipeline := []bson.M{
		{"$match": bson.M{"farmerid": farmer.UserID, "status": "delivered"}},
		{"$group": bson.M{"_id": nil, "totalRevenue": bson.M{"$sum": "$totalamount"}}},
	}
	cursor, err := db.OrdersCollection.Aggregate(ctx, pipeline)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to fetch statistics")
		return
	}
	revenue := []bson.M{}
	if err := cursor.All(ctx, &revenue); err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to fetch statistics")
		return
	}
	var totalRevenue any = 0.0
	if len(revenue) > 0 {
		totalRevenue = revenue[0]["totalRevenue"]
	}

	recentOpts := options.Find().SetSort(bson.D{{Key: "orderdate", Value: -1}}).SetLimit(5)
	cursor, err = db.OrdersCollection.Find(ctx, base, recentOpts)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to fetch statistics")
		return
	}
	recentOrders := []models.Order{}
	if err := cursor.All(ctx, &recentOrders); err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to fetch statistics")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"stats": utils.M{
			"totalOrders":     totalOrders,
			"pendingOrders":   pendingOrders,
			"completedOrders": completedOrders,
			"totalRevenue":    totalRevenue,
			"recentOrders":    recentOrders,
		},
	})
}
