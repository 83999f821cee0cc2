package auth

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"agrisetu/db"
	"agrisetu/globals"
	"agrisetu/middleware"
	"agrisetu/models"
	"agrisetu/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 12 * time.Hour

type registerRequest struct {
	Name          string                `json:"name"`
	Email         string                `json:"email"`
	Password      string                `json:"password"`
	Phone         string                `json:"phone"`
	Role          string                `json:"role"`
	WalletAddress string                `json:"walletAddress"`
	Address       *models.Address       `json:"address"`
	FarmerDetails *models.FarmerDetails `json:"farmerDetails"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateToken signs a JWT carrying the user's identity and role claims.
func CreateToken(user *models.User) (string, error) {
	claims := &middleware.Claims{
		Name:   user.Name,
		UserID: user.UserID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.UserID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(globals.JwtSecret)
}

// Register creates a user account with a hashed password.
func Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" || req.Password == "" || req.Phone == "" || req.Role == "" {
		utils.Error(w, http.StatusBadRequest, "All fields are required")
		return
	}
	if !models.ValidRole(req.Role) {
		utils.Error(w, http.StatusBadRequest, "Invalid role")
		return
	}
	if len(req.Password) < 6 {
		utils.Error(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	count, err := db.UserCollection.CountDocuments(ctx, bson.M{"email": req.Email})
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Server error during registration")
		return
	}
	if count > 0 {
		utils.Error(w, http.StatusBadRequest, "User already exists with this email")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Server error during registration")
		return
	}

	now := time.Now()
	user := models.User{
		UserID:        utils.GenerateUserID(),
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		Password:      string(hashed),
		Role:          req.Role,
		WalletAddress: req.WalletAddress,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if req.Address != nil {
		user.Address = *req.Address
	}
	if req.Role == models.RoleFarmer && req.FarmerDetails != nil {
		user.FarmerDetails = req.FarmerDetails
	}

	if _, err := db.UserCollection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			utils.Error(w, http.StatusBadRequest, "User already exists with this email")
			return
		}
		log.Printf("auth: insert user: %v", err)
		utils.Error(w, http.StatusInternalServerError, "Server error during registration")
		return
	}

	token, err := CreateToken(&user)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Server error during registration")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"success": true,
		"message": "User registered successfully",
		"token":   token,
		"user":    user,
	})
}

// Login verifies credentials and issues a token.
func Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		utils.Error(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var user models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"email": req.Email}).Decode(&user)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if !user.IsActive {
		utils.Error(w, http.StatusUnauthorized, "Account is deactivated")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		utils.Error(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := CreateToken(&user)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Server error during login")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

// Me returns the authenticated caller's profile.
func Me(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, _ := r.Context().Value(globals.UserIDKey).(string)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var user models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"userid": userID}).Decode(&user); err != nil {
		utils.Error(w, http.StatusNotFound, "User not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"user":    user,
	})
}
