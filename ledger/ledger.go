package ledger

import (
	"context"
	"encoding/hex"
	"math/rand"
	"net/http"
	"time"

	"agrisetu/models"
	"agrisetu/utils"

	"github.com/julienschmidt/httprouter"
)

// Writer anchors a collection record on an external ledger and returns the
// receipt, or nil when the ledger is unavailable. Collections proceed without
// a receipt; the record can be re-anchored later.
type Writer interface {
	RegisterProduce(ctx context.Context, collection *models.Collection) (*models.LedgerReceipt, error)
}

// MockWriter fabricates receipts in the shape a real smart-contract client
// would return. A non-nil Rand makes output reproducible in tests.
type MockWriter struct {
	ContractAddress string
	Delay           time.Duration
	Rand            *rand.Rand
}

func NewMockWriter() *MockWriter {
	return &MockWriter{
		ContractAddress: utils.Getenv("PRODUCE_LEDGER_ADDRESS", "0x1234567890123456789012345678901234567890"),
		Delay:           100 * time.Millisecond,
	}
}

func (m *MockWriter) RegisterProduce(ctx context.Context, _ *models.Collection) (*models.LedgerReceipt, error) {
	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	rnd := m.Rand
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	hash := make([]byte, 32)
	rnd.Read(hash)

	return &models.LedgerReceipt{
		TransactionHash: "0x" + hex.EncodeToString(hash),
		BlockNumber:     1_000_000 + rnd.Int63n(1_000_000),
		ContractAddress: m.ContractAddress,
		ProduceID:       1000 + rnd.Int63n(10_000),
		GasUsed:         50_000 + rnd.Int63n(100_000),
		Confirmations:   1,
		IsConfirmed:     true,
		Timestamp:       time.Now(),
	}, nil
}

// GetNetworkInfo reports the ledger network the service would anchor to.
func GetNetworkInfo(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"network": utils.M{
			"name":        utils.Getenv("BLOCKCHAIN_NETWORK", "localhost"),
			"chainId":     utils.ParseInt(utils.Getenv("BLOCKCHAIN_CHAIN_ID", "1337")),
			"blockNumber": 1_000_000 + rand.Int63n(1_000_000),
		},
	})
}

// GetContractInfo reports the deployed contract addresses.
func GetContractInfo(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"contracts": utils.M{
			"produceLedger":  utils.Getenv("PRODUCE_LEDGER_ADDRESS", "0x1234567890123456789012345678901234567890"),
			"paymentManager": utils.Getenv("PAYMENT_MANAGER_ADDRESS", "0x0987654321098765432109876543210987654321"),
		},
	})
}
