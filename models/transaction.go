package models

import "time"

var TransactionStatuses = []string{"pending", "confirmed", "in_transit", "delivered", "completed", "cancelled", "disputed"}

type Transaction struct {
	TransactionID string     `json:"transactionId" bson:"transactionid"`
	CropID        string     `json:"cropId" bson:"cropid"`
	BuyerID       string     `json:"buyerId" bson:"buyerid"`
	SellerID      string     `json:"sellerId" bson:"sellerid"`
	AggregatorID  string     `json:"aggregatorId,omitempty" bson:"aggregatorid,omitempty"`
	Quantity      float64    `json:"quantity" bson:"quantity"`
	PricePerUnit  float64    `json:"pricePerUnit" bson:"priceperunit"`
	TotalAmount   float64    `json:"totalAmount" bson:"totalamount"`
	Status        string     `json:"status" bson:"status"`
	PaymentStatus string     `json:"paymentStatus" bson:"paymentstatus"`
	LedgerTxHash  string     `json:"blockchainTxHash,omitempty" bson:"blockchaintxhash,omitempty"`
	DeliveryDate  *time.Time `json:"deliveryDate,omitempty" bson:"deliverydate,omitempty"`
	Notes         string     `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt     time.Time  `json:"createdAt" bson:"createdat"`
	UpdatedAt     time.Time  `json:"updatedAt" bson:"updatedat"`
}
