package analytics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"agrisetu/db"
	"agrisetu/globals"
	"agrisetu/models"
	"agrisetu/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// GetDashboard returns role-specific dashboard numbers: listing
// performance for farmers, platform totals for admins.
func GetDashboard(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, _ := r.Context().Value(globals.UserIDKey).(string)
	role, _ := r.Context().Value(globals.RoleKey).(string)

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	analytics := utils.M{}

	switch role {
	case models.RoleFarmer:
		totalCrops, _ := db.CropsCollection.CountDocuments(ctx, bson.M{"farmerid": userID})
		soldCrops, _ := db.CropsCollection.CountDocuments(ctx, bson.M{"farmerid": userID, "status": models.CropStatusSold})
		activeCrops, _ := db.CropsCollection.CountDocuments(ctx, bson.M{
			"farmerid": userID,
			"status":   bson.M{"$in": bson.A{models.CropStatusListed, models.CropStatusReserved}},
		})

		analytics = utils.M{
			"totalCrops":  totalCrops,
			"soldCrops":   soldCrops,
			"activeCrops": activeCrops,
			"successRate": SuccessRate(soldCrops, totalCrops),
		}

	case models.RoleAdmin:
		totalUsers, _ := db.UserCollection.CountDocuments(ctx, bson.M{})
		totalCrops, _ := db.CropsCollection.CountDocuments(ctx, bson.M{})
		totalTransactions, _ := db.TransactionsCollection.CountDocuments(ctx, bson.M{})
		activeUsers, _ := db.UserCollection.CountDocuments(ctx, bson.M{"isactive": true})

		analytics = utils.M{
			"totalUsers":        totalUsers,
			"totalCrops":        totalCrops,
			"totalTransactions": totalTransactions,
			"activeUsers":       activeUsers,
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success":   true,
		"analytics": analytics,
	})
}

// SuccessRate is the share of listings that sold, as a percentage with
// one decimal place. Zero listings yields "0".
func SuccessRate(sold, total int64) string {
	if total == 0 {
		return "0"
	}
	return fmt.Sprintf("%.1f", float64(sold)/float64(total)*100)
}
