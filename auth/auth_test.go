package auth

import (
	"testing"
	"time"

	"agrisetu/middleware"
	"agrisetu/models"
)

func TestCreateTokenRoundTrip(t *testing.T) {
	user := &models.User{
		UserID: "USR-TEST1",
		Name:   "Asha",
		Email:  "asha@example.com",
		Role:   models.RoleFarmer,
	}

	token, err := CreateToken(user)
	if err != nil {
		t.Fatalf("CreateToken: %v", err)
	}

	claims, err := middleware.ValidateJWT("Bearer " + token)
	if err != nil {
		t.Fatalf("ValidateJWT: %v", err)
	}
	if claims.UserID != user.UserID {
		t.Errorf("userId = %q, want %q", claims.UserID, user.UserID)
	}
	if claims.Role != models.RoleFarmer {
		t.Errorf("role = %q, want %q", claims.Role, models.RoleFarmer)
	}
	if claims.Email != user.Email {
		t.Errorf("email = %q, want %q", claims.Email, user.Email)
	}
}

func TestCreateTokenExpiresInTwelveHours(t *testing.T) {
	token, err := CreateToken(&models.User{UserID: "USR-TEST2", Role: models.RoleConsumer})
	if err != nil {
		t.Fatalf("CreateToken: %v", err)
	}
	claims, err := middleware.ValidateJWT("Bearer " + token)
	if err != nil {
		t.Fatalf("ValidateJWT: %v", err)
	}

	want := time.Now().Add(12 * time.Hour)
	if d := claims.ExpiresAt.Time.Sub(want); d < -time.Minute || d > time.Minute {
		t.Errorf("token expires at %v, want about %v", claims.ExpiresAt.Time, want)
	}
}
