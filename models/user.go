package models

import "time"

const (
	RoleFarmer     = "farmer"
	RoleAggregator = "aggregator"
	RoleRetailer   = "retailer"
	RoleConsumer   = "consumer"
	RoleAdmin      = "admin"
)

var UserRoles = []string{RoleFarmer, RoleAggregator, RoleRetailer, RoleConsumer, RoleAdmin}

type GeoPoint struct {
	Latitude  float64 `json:"latitude" bson:"latitude"`
	Longitude float64 `json:"longitude" bson:"longitude"`
}

type Address struct {
	Village            string    `json:"village,omitempty" bson:"village,omitempty"`
	District           string    `json:"district,omitempty" bson:"district,omitempty"`
	State              string    `json:"state,omitempty" bson:"state,omitempty"`
	Pincode            string    `json:"pincode,omitempty" bson:"pincode,omitempty"`
	Coordinates        *GeoPoint `json:"coordinates,omitempty" bson:"coordinates,omitempty"`
	FullAddress        string    `json:"fullAddress,omitempty" bson:"fulladdress,omitempty"`
	IsLocationDetected bool      `json:"isLocationDetected" bson:"islocationdetected"`
}

type FarmerDetails struct {
	FarmSize         float64  `json:"farmSize,omitempty" bson:"farmsize,omitempty"`
	PrimaryCrops     []string `json:"primaryCrops,omitempty" bson:"primarycrops,omitempty"`
	OrganicCertified bool     `json:"organicCertified" bson:"organiccertified"`
}

type User struct {
	UserID        string         `json:"userid" bson:"userid"`
	Name          string         `json:"name" bson:"name"`
	Email         string         `json:"email" bson:"email"`
	Phone         string         `json:"phone" bson:"phone"`
	Password      string         `json:"-" bson:"password"`
	Role          string         `json:"role" bson:"role"`
	WalletAddress string         `json:"walletAddress,omitempty" bson:"walletaddress,omitempty"`
	Address       Address        `json:"address" bson:"address"`
	FarmerDetails *FarmerDetails `json:"farmerDetails,omitempty" bson:"farmerdetails,omitempty"`
	IsActive      bool           `json:"isActive" bson:"isactive"`
	CreatedAt     time.Time      `json:"createdAt" bson:"createdat"`
	UpdatedAt     time.Time      `json:"updatedAt" bson:"updatedat"`
}

// UserSummary is the public shape embedded in crop, order, and trace responses.
type UserSummary struct {
	UserID  string  `json:"userid" bson:"userid"`
	Name    string  `json:"name" bson:"name"`
	Phone   string  `json:"phone,omitempty" bson:"phone,omitempty"`
	Email   string  `json:"email,omitempty" bson:"email,omitempty"`
	Address Address `json:"address" bson:"address"`
}

func ValidRole(role string) bool {
	for _, r := range UserRoles {
		if r == role {
			return true
		}
	}
	return false
}
