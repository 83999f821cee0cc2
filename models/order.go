package models

import "time"

var OrderStatuses = []string{"pending", "confirmed", "in_transit", "delivered", "cancelled", "disputed"}

var PaymentStatuses = []string{"pending", "partial", "completed", "refunded"}

var PaymentMethods = []string{"cash", "bank_transfer", "digital_wallet", "blockchain"}

type DeliveryAddress struct {
	FullAddress string    `json:"fullAddress,omitempty" bson:"fulladdress,omitempty"`
	Village     string    `json:"village,omitempty" bson:"village,omitempty"`
	District    string    `json:"district,omitempty" bson:"district,omitempty"`
	State       string    `json:"state,omitempty" bson:"state,omitempty"`
	Pincode     string    `json:"pincode,omitempty" bson:"pincode,omitempty"`
	Coordinates *GeoPoint `json:"coordinates,omitempty" bson:"coordinates,omitempty"`
}

type TrackingUpdate struct {
	Status    string    `json:"status" bson:"status"`
	Message   string    `json:"message" bson:"message"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
	Location  string    `json:"location,omitempty" bson:"location,omitempty"`
}

type QualityRequirements struct {
	Grade           string `json:"grade,omitempty" bson:"grade,omitempty"`
	MoistureContent string `json:"moistureContent,omitempty" bson:"moisturecontent,omitempty"`
	Purity          string `json:"purity,omitempty" bson:"purity,omitempty"`
	SpecialRequests string `json:"specialRequests,omitempty" bson:"specialrequests,omitempty"`
}

type OrderRating struct {
	Rating   int    `json:"rating" bson:"rating"`
	Feedback string `json:"feedback,omitempty" bson:"feedback,omitempty"`
}

type Order struct {
	OrderID  string `json:"orderId" bson:"orderid"`
	CropID   string `json:"cropId" bson:"cropid"`
	CropName string `json:"cropName" bson:"cropname"`

	FarmerID    string `json:"farmerId" bson:"farmerid"`
	FarmerName  string `json:"farmerName" bson:"farmername"`
	FarmerEmail string `json:"farmerEmail" bson:"farmeremail"`

	BuyerID    string `json:"buyerId" bson:"buyerid"`
	BuyerName  string `json:"buyerName" bson:"buyername"`
	BuyerEmail string `json:"buyerEmail" bson:"buyeremail"`
	BuyerPhone string `json:"buyerPhone" bson:"buyerphone"`

	Quantity     float64 `json:"quantity" bson:"quantity"`
	Unit         string  `json:"unit" bson:"unit"`
	PricePerUnit float64 `json:"pricePerUnit" bson:"priceperunit"`
	TotalAmount  float64 `json:"totalAmount" bson:"totalamount"`

	Status          string          `json:"status" bson:"status"`
	DeliveryAddress DeliveryAddress `json:"deliveryAddress" bson:"deliveryaddress"`

	PaymentStatus  string  `json:"paymentStatus" bson:"paymentstatus"`
	PaymentMethod  string  `json:"paymentMethod" bson:"paymentmethod"`
	AdvancePayment float64 `json:"advancePayment" bson:"advancepayment"`

	OrderDate            time.Time  `json:"orderDate" bson:"orderdate"`
	ExpectedDeliveryDate *time.Time `json:"expectedDeliveryDate,omitempty" bson:"expecteddeliverydate,omitempty"`
	ActualDeliveryDate   *time.Time `json:"actualDeliveryDate,omitempty" bson:"actualdeliverydate,omitempty"`

	Notes               string              `json:"notes,omitempty" bson:"notes,omitempty"`
	QualityRequirements QualityRequirements `json:"qualityRequirements" bson:"qualityrequirements"`
	TrackingUpdates     []TrackingUpdate    `json:"trackingUpdates" bson:"trackingupdates"`

	// FarmerRating is the buyer's rating of the farmer, BuyerRating the
	// farmer's rating of the buyer.
	FarmerRating *OrderRating `json:"farmerRating,omitempty" bson:"farmerrating,omitempty"`
	BuyerRating  *OrderRating `json:"buyerRating,omitempty" bson:"buyerrating,omitempty"`

	CreatedAt time.Time `json:"createdAt" bson:"createdat"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedat"`
}

func ValidOrderStatus(status string) bool {
	for _, s := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}
