package models

import "time"

const (
	CropStatusDraft    = "draft"
	CropStatusListed   = "listed"
	CropStatusSold     = "sold"
	CropStatusReserved = "reserved"
	CropStatusExpired  = "expired"

	AvailabilityAvailable     = "available"
	AvailabilityPartiallySold = "partially_sold"
	AvailabilitySoldOut       = "sold_out"
)

var CropCategories = []string{"grains", "vegetables", "fruits", "pulses", "spices", "cash_crops"}

type FarmLocation struct {
	Village     string    `json:"village,omitempty" bson:"village,omitempty"`
	District    string    `json:"district,omitempty" bson:"district,omitempty"`
	State       string    `json:"state,omitempty" bson:"state,omitempty"`
	Pincode     string    `json:"pincode,omitempty" bson:"pincode,omitempty"`
	Coordinates *GeoPoint `json:"coordinates,omitempty" bson:"coordinates,omitempty"`
}

type CropQuality struct {
	Grade           string  `json:"grade" bson:"grade"`
	MoistureContent float64 `json:"moistureContent,omitempty" bson:"moisturecontent,omitempty"`
	Purity          float64 `json:"purity,omitempty" bson:"purity,omitempty"`
}

type Certification struct {
	Name       string     `json:"name" bson:"name"`
	IssuedBy   string     `json:"issuedBy" bson:"issuedby"`
	ValidUntil *time.Time `json:"validUntil,omitempty" bson:"validuntil,omitempty"`
}

type CropImage struct {
	URL        string    `json:"url" bson:"url"`
	Caption    string    `json:"caption,omitempty" bson:"caption,omitempty"`
	UploadedAt time.Time `json:"uploadedAt" bson:"uploadedat"`
}

type QRCodeMeta struct {
	Code        string    `json:"code" bson:"code"`
	ImageURL    string    `json:"imageUrl" bson:"imageurl"`
	GeneratedAt time.Time `json:"generatedAt" bson:"generatedat"`
}

type Crop struct {
	CropID         string          `json:"cropId" bson:"cropid"`
	Name           string          `json:"name" bson:"name"`
	Variety        string          `json:"variety" bson:"variety"`
	Category       string          `json:"category" bson:"category"`
	Quantity       float64         `json:"quantity" bson:"quantity"`
	Unit           string          `json:"unit" bson:"unit"`
	PricePerUnit   float64         `json:"pricePerUnit" bson:"priceperunit"`
	FarmerID       string          `json:"farmerId" bson:"farmerid"`
	FarmLocation   FarmLocation    `json:"farmLocation" bson:"farmlocation"`
	Quality        CropQuality     `json:"quality" bson:"quality"`
	IsOrganic      bool            `json:"isOrganic" bson:"isorganic"`
	Certifications []Certification `json:"certifications,omitempty" bson:"certifications,omitempty"`
	HarvestDate    time.Time       `json:"harvestDate" bson:"harvestdate"`
	SowingDate     *time.Time      `json:"sowingDate,omitempty" bson:"sowingdate,omitempty"`
	Images         []CropImage     `json:"images" bson:"images"`
	Description    string          `json:"description,omitempty" bson:"description,omitempty"`
	QRCode         *QRCodeMeta     `json:"qrCode,omitempty" bson:"qrcode,omitempty"`
	TraceabilityID string          `json:"traceabilityId" bson:"traceabilityid"`
	Status         string          `json:"status" bson:"status"`
	Availability   string          `json:"availability" bson:"availability"`
	ListedAt       time.Time       `json:"listedAt" bson:"listedat"`
	Views          int64           `json:"views" bson:"views"`
	IsVerified     bool            `json:"isVerified" bson:"isverified"`
	IsActive       bool            `json:"isActive" bson:"isactive"`
	CreatedAt      time.Time       `json:"createdAt" bson:"createdat"`
	UpdatedAt      time.Time       `json:"updatedAt" bson:"updatedat"`
}

// TotalValue is the listing value at the current quantity and price.
func (c Crop) TotalValue() float64 {
	return c.Quantity * c.PricePerUnit
}

func ValidCropCategory(category string) bool {
	for _, c := range CropCategories {
		if c == category {
			return true
		}
	}
	return false
}
