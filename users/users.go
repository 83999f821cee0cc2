package users

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"agrisetu/db"
	"agrisetu/globals"
	"agrisetu/models"
	"agrisetu/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UpdateLocation replaces the caller's stored address.
func UpdateLocation(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, _ := r.Context().Value(globals.UserIDKey).(string)

	var req struct {
		Address models.Address `json:"address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var user models.User
	err := db.UserCollection.FindOneAndUpdate(ctx,
		bson.M{"userid": userID},
		bson.M{"$set": bson.M{"address": req.Address, "updatedat": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		utils.Error(w, http.StatusNotFound, "User not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"message": "Location updated successfully",
		"user":    user,
	})
}

type profileUpdate struct {
	Name          *string               `json:"name"`
	Phone         *string               `json:"phone"`
	WalletAddress *string               `json:"walletAddress"`
	Address       *models.Address       `json:"address"`
	FarmerDetails *models.FarmerDetails `json:"farmerDetails"`
}

// UpdateProfile applies a partial update to the caller's profile. Email,
// role, and password are not editable here.
func UpdateProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, _ := r.Context().Value(globals.UserIDKey).(string)

	var req profileUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	set := bson.M{"updatedat": time.Now()}
	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		set["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		set["phone"] = *req.Phone
	}
	if req.WalletAddress != nil {
		set["walletaddress"] = *req.WalletAddress
	}
	if req.Address != nil {
		set["address"] = *req.Address
	}
	if req.FarmerDetails != nil {
		set["farmerdetails"] = *req.FarmerDetails
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var user models.User
	err := db.UserCollection.FindOneAndUpdate(ctx,
		bson.M{"userid": userID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		utils.Error(w, http.StatusNotFound, "User not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"message": "Profile updated successfully",
		"user":    user,
	})
}

// Summary fetches the public shape of one user for embedding in crop,
// order, and trace responses.
func Summary(ctx context.Context, userID string) (models.UserSummary, error) {
	var s models.UserSummary
	err := db.UserCollection.FindOne(ctx, bson.M{"userid": userID}).Decode(&s)
	return s, err
}

// Summaries fetches public shapes for a set of user ids, keyed by id.
// Missing users are simply absent from the map.
func Summaries(ctx context.Context, userIDs []string) (map[string]models.UserSummary, error) {
	if len(userIDs) == 0 {
		return map[string]models.UserSummary{}, nil
	}

	cursor, err := db.UserCollection.Find(ctx, bson.M{"userid": bson.M{"$in": userIDs}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	result := make(map[string]models.UserSummary, len(userIDs))
	for cursor.Next(ctx) {
		var s models.UserSummary
		if err := cursor.Decode(&s); err != nil {
			return nil, err
		}
		result[s.UserID] = s
	}
	return result, cursor.Err()
}

// GetProfile returns a user's public profile by email.
func GetProfile(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	email := strings.ToLower(ps.ByName("email"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var user models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		utils.Error(w, http.StatusNotFound, "User not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"user":    user,
	})
}
