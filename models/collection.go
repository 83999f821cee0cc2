package models

import (
	"fmt"
	"time"
)

const (
	CollectionStatusCollected      = "collected"
	CollectionStatusQualityChecked = "quality_checked"
	CollectionStatusStored         = "stored"
	CollectionStatusProcessed      = "processed"
	CollectionStatusReadyForSale   = "ready_for_sale"
	CollectionStatusSold           = "sold"
	CollectionStatusInTransit      = "in_transit"
	CollectionStatusDelivered      = "delivered"
	CollectionStatusRejected       = "rejected"
)

// Collection workflow statuses. Any of these may be requested from any
// current status; the handlers validate membership only.
var CollectionStatuses = []string{
	CollectionStatusCollected,
	CollectionStatusQualityChecked,
	CollectionStatusStored,
	CollectionStatusProcessed,
	CollectionStatusReadyForSale,
	CollectionStatusSold,
	CollectionStatusInTransit,
	CollectionStatusDelivered,
	CollectionStatusRejected,
}

var CollectionUnits = []string{"kg", "tons", "bags", "quintal"}

type ChainEntry struct {
	Stage     string    `json:"stage" bson:"stage"`
	Actor     string    `json:"actor" bson:"actor"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
	Location  string    `json:"location" bson:"location"`
	Action    string    `json:"action" bson:"action"`
	Notes     string    `json:"notes,omitempty" bson:"notes,omitempty"`
}

type CollectionLocation struct {
	FarmAddress    string    `json:"farmAddress" bson:"farmaddress"`
	GPSCoordinates *GeoPoint `json:"gpsCoordinates,omitempty" bson:"gpscoordinates,omitempty"`
	District       string    `json:"district" bson:"district"`
	State          string    `json:"state" bson:"state"`
}

type VisualInspection struct {
	Color      string `json:"color" bson:"color"`
	Texture    string `json:"texture" bson:"texture"`
	Size       string `json:"size" bson:"size"`
	Uniformity int    `json:"uniformity" bson:"uniformity"`
}

type Defect struct {
	DefectType         string `json:"defectType" bson:"defecttype"`
	Severity           string `json:"severity" bson:"severity"`
	AffectedPercentage int    `json:"affectedPercentage" bson:"affectedpercentage"`
}

type QualityAnalysis struct {
	VisualInspection   VisualInspection `json:"visualInspection" bson:"visualinspection"`
	DefectDetection    []Defect         `json:"defectDetection" bson:"defectdetection"`
	MoistureContent    int              `json:"moistureContent" bson:"moisturecontent"`
	PurityLevel        int              `json:"purityLevel" bson:"puritylevel"`
	Contaminants       []string         `json:"contaminants" bson:"contaminants"`
	PesticidesDetected bool             `json:"pesticidesDetected" bson:"pesticidesdetected"`
	OrganicCompliance  bool             `json:"organicCompliance" bson:"organiccompliance"`
}

type InspectionImage struct {
	URL       string    `json:"url" bson:"url"`
	Type      string    `json:"type" bson:"type"` // original, processed, defect_highlighted
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// QualityAssessment is the stable output shape of a quality.Inspector.
// A real inference backend must produce the same fields.
type QualityAssessment struct {
	OverallGrade     string            `json:"overallGrade" bson:"overallgrade"`
	QualityScore     int               `json:"qualityScore" bson:"qualityscore"`
	Analysis         QualityAnalysis   `json:"aiAnalysis" bson:"aianalysis"`
	InspectionImages []InspectionImage `json:"inspectionImages" bson:"inspectionimages"`
	InspectorNotes   string            `json:"inspectorNotes,omitempty" bson:"inspectornotes,omitempty"`
	AnalyzedAt       time.Time         `json:"analyzedAt" bson:"analyzedat"`
}

// GradeSummary renders the one-line note recorded on the custody chain
// after inspection.
func (q QualityAssessment) GradeSummary() string {
	return fmt.Sprintf("Quality Grade: %s, Score: %d/100", q.OverallGrade, q.QualityScore)
}

var QualityGrades = []string{"Premium", "A", "B", "C", "Rejected"}

type Traceability struct {
	OriginalQRCode   string       `json:"originalQRCode" bson:"originalqrcode"`
	AggregatorQRCode string       `json:"aggregatorQRCode" bson:"aggregatorqrcode"`
	BatchNumber      string       `json:"batchNumber" bson:"batchnumber"`
	Chain            []ChainEntry `json:"traceabilityChain" bson:"traceabilitychain"`
}

type LedgerReceipt struct {
	TransactionHash string    `json:"transactionHash" bson:"transactionhash"`
	BlockNumber     int64     `json:"blockNumber" bson:"blocknumber"`
	ContractAddress string    `json:"contractAddress" bson:"contractaddress"`
	ProduceID       int64     `json:"produceId" bson:"produceid"`
	GasUsed         int64     `json:"gasUsed" bson:"gasused"`
	Confirmations   int       `json:"confirmations" bson:"confirmations"`
	IsConfirmed     bool      `json:"isConfirmed" bson:"isconfirmed"`
	Timestamp       time.Time `json:"blockchainTimestamp" bson:"blockchaintimestamp"`
}

type StorageConditions struct {
	Temperature float64 `json:"temperature,omitempty" bson:"temperature,omitempty"`
	Humidity    float64 `json:"humidity,omitempty" bson:"humidity,omitempty"`
	Ventilation string  `json:"ventilation,omitempty" bson:"ventilation,omitempty"`
}

type StorageDetails struct {
	FacilityName     string            `json:"facilityName,omitempty" bson:"facilityname,omitempty"`
	FacilityAddress  string            `json:"facilityAddress,omitempty" bson:"facilityaddress,omitempty"`
	StorageType      string            `json:"storageType,omitempty" bson:"storagetype,omitempty"` // warehouse, cold_storage, silo, open_yard
	Conditions       StorageConditions `json:"storageConditions,omitempty" bson:"storageconditions,omitempty"`
	ExpectedDuration int               `json:"expectedStorageDuration,omitempty" bson:"expectedstorageduration,omitempty"` // days
	StartDate        *time.Time        `json:"storageStartDate,omitempty" bson:"storagestartdate,omitempty"`
}

type Processing struct {
	IsProcessed    bool       `json:"isProcessed" bson:"isprocessed"`
	ProcessingType string     `json:"processingType,omitempty" bson:"processingtype,omitempty"`
	ProcessingDate *time.Time `json:"processingDate,omitempty" bson:"processingdate,omitempty"`
	Notes          string     `json:"processingNotes,omitempty" bson:"processingnotes,omitempty"`
	FinalGrade     string     `json:"finalGrade,omitempty" bson:"finalgrade,omitempty"`
	LossPercentage float64    `json:"lossPercentage,omitempty" bson:"losspercentage,omitempty"`
	FinalQuantity  float64    `json:"finalQuantity,omitempty" bson:"finalquantity,omitempty"`
}

type MarketInfo struct {
	PurchasePrice        float64 `json:"purchasePrice" bson:"purchaseprice"`
	MarketPrice          float64 `json:"marketPrice,omitempty" bson:"marketprice,omitempty"`
	ExpectedSellingPrice float64 `json:"expectedSellingPrice,omitempty" bson:"expectedsellingprice,omitempty"`
	PricePerUnit         float64 `json:"pricePerUnit" bson:"priceperunit"`
	TotalValue           float64 `json:"totalValue" bson:"totalvalue"`
	MarketDemand         string  `json:"marketDemand,omitempty" bson:"marketdemand,omitempty"`
}

type Transport struct {
	VehicleType   string     `json:"vehicleType,omitempty" bson:"vehicletype,omitempty"`
	VehicleNumber string     `json:"vehicleNumber,omitempty" bson:"vehiclenumber,omitempty"`
	DriverName    string     `json:"driverName,omitempty" bson:"drivername,omitempty"`
	DriverPhone   string     `json:"driverPhone,omitempty" bson:"driverphone,omitempty"`
	StartTime     *time.Time `json:"transportStartTime,omitempty" bson:"transportstarttime,omitempty"`
	EndTime       *time.Time `json:"transportEndTime,omitempty" bson:"transportendtime,omitempty"`
	Route         string     `json:"route,omitempty" bson:"route,omitempty"`
	Distance      float64    `json:"distance,omitempty" bson:"distance,omitempty"`
	IsDelivered   bool       `json:"isDelivered" bson:"isdelivered"`
}

type BuyerInfo struct {
	BuyerID       string     `json:"buyerId,omitempty" bson:"buyerid,omitempty"`
	BuyerType     string     `json:"buyerType,omitempty" bson:"buyertype,omitempty"` // retailer, processor, exporter, consumer
	SaleDate      *time.Time `json:"saleDate,omitempty" bson:"saledate,omitempty"`
	SalePrice     float64    `json:"salePrice,omitempty" bson:"saleprice,omitempty"`
	PaymentStatus string     `json:"paymentStatus,omitempty" bson:"paymentstatus,omitempty"`
}

// Collection is one aggregator's recorded acquisition of a crop lot.
type Collection struct {
	CollectionID       string             `json:"collectionId" bson:"collectionid"`
	AggregatorID       string             `json:"aggregatorId" bson:"aggregatorid"`
	SourceCrop         string             `json:"sourceCrop" bson:"sourcecrop"`
	FarmerID           string             `json:"farmerId" bson:"farmerid"`
	CollectedQuantity  float64            `json:"collectedQuantity" bson:"collectedquantity"`
	CollectedUnit      string             `json:"collectedUnit" bson:"collectedunit"`
	CollectionDate     time.Time          `json:"collectionDate" bson:"collectiondate"`
	CollectionLocation CollectionLocation `json:"collectionLocation" bson:"collectionlocation"`
	QualityAssessment  QualityAssessment  `json:"qualityAssessment" bson:"qualityassessment"`
	Traceability       Traceability       `json:"traceability" bson:"traceability"`
	Ledger             *LedgerReceipt     `json:"blockchain,omitempty" bson:"blockchain,omitempty"`
	Storage            StorageDetails     `json:"storage" bson:"storage"`
	Processing         Processing         `json:"processing" bson:"processing"`
	MarketInfo         MarketInfo         `json:"marketInfo" bson:"marketinfo"`
	Transport          Transport          `json:"transport" bson:"transport"`
	Buyer              BuyerInfo          `json:"buyer" bson:"buyer"`
	Status             string             `json:"status" bson:"status"`
	IsActive           bool               `json:"isActive" bson:"isactive"`
	Tags               []string           `json:"tags,omitempty" bson:"tags,omitempty"`
	Notes              string             `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt          time.Time          `json:"createdAt" bson:"createdat"`
	UpdatedAt          time.Time          `json:"updatedAt" bson:"updatedat"`
}

func ValidCollectionStatus(status string) bool {
	for _, s := range CollectionStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func ValidCollectionUnit(unit string) bool {
	for _, u := range CollectionUnits {
		if u == unit {
			return true
		}
	}
	return false
}

func ValidQualityGrade(grade string) bool {
	for _, g := range QualityGrades {
		if g == grade {
			return true
		}
	}
	return false
}
