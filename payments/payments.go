package payments

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"agrisetu/db"
	"agrisetu/globals"
	"agrisetu/models"
	"agrisetu/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type createTransactionRequest struct {
	CropID       string     `json:"cropId"`
	SellerID     string     `json:"sellerId"`
	AggregatorID string     `json:"aggregatorId"`
	Quantity     float64    `json:"quantity"`
	PricePerUnit float64    `json:"pricePerUnit"`
	LedgerTxHash string     `json:"blockchainTxHash"`
	DeliveryDate *time.Time `json:"deliveryDate"`
	Notes        string     `json:"notes"`
}

// CreateTransaction records a payment from the authenticated buyer.
func CreateTransaction(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	buyerID, _ := r.Context().Value(globals.UserIDKey).(string)

	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var missing []string
	if req.CropID == "" {
		missing = append(missing, "cropId")
	}
	if req.SellerID == "" {
		missing = append(missing, "sellerId")
	}
	if req.Quantity <= 0 {
		missing = append(missing, "quantity")
	}
	if req.PricePerUnit <= 0 {
		missing = append(missing, "pricePerUnit")
	}
	if len(missing) > 0 {
		utils.ValidationError(w, "Validation failed", missing)
		return
	}

	now := time.Now()
	txn := models.Transaction{
		TransactionID: utils.GenerateTransactionID(),
		CropID:        req.CropID,
		BuyerID:       buyerID,
		SellerID:      req.SellerID,
		AggregatorID:  req.AggregatorID,
		Quantity:      req.Quantity,
		PricePerUnit:  req.PricePerUnit,
		TotalAmount:   req.Quantity * req.PricePerUnit,
		Status:        "pending",
		PaymentStatus: "pending",
		LedgerTxHash:  req.LedgerTxHash,
		DeliveryDate:  req.DeliveryDate,
		Notes:         req.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := db.TransactionsCollection.InsertOne(ctx, txn); err != nil {
		log.Printf("payments: insert: %v", err)
		utils.Error(w, http.StatusInternalServerError, "Failed to create payment")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"success":     true,
		"message":     "Payment transaction created",
		"transaction": txn,
	})
}

// GetMyTransactions lists transactions where the caller is buyer or seller.
func GetMyTransactions(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, _ := r.Context().Value(globals.UserIDKey).(string)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{"$or": bson.A{
		bson.M{"buyerid": userID},
		bson.M{"sellerid": userID},
	}}
	findOpts := options.Find().SetSort(bson.D{{Key: "createdat", Value: -1}})

	cursor, err := db.TransactionsCollection.Find(ctx, filter, findOpts)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to get transactions")
		return
	}
	defer cursor.Close(ctx)

	transactions := []models.Transaction{}
	if err := cursor.All(ctx, &transactions); err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to get transactions")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success":      true,
		"count":        len(transactions),
		"transactions": transactions,
	})
}
