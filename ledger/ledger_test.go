package ledger

import (
	"context"
	"math/rand"
	"strings"
	"testing"

	"agrisetu/models"
)

func TestMockWriterReceiptShape(t *testing.T) {
	w := &MockWriter{
		ContractAddress: "0xabc",
		Rand:            rand.New(rand.NewSource(1)),
	}

	receipt, err := w.RegisterProduce(context.Background(), &models.Collection{CollectionID: "AGG-X-Y"})
	if err != nil {
		t.Fatalf("RegisterProduce: %v", err)
	}
	if !strings.HasPrefix(receipt.TransactionHash, "0x") || len(receipt.TransactionHash) != 66 {
		t.Errorf("bad tx hash %q", receipt.TransactionHash)
	}
	if receipt.BlockNumber < 1_000_000 {
		t.Errorf("block number %d below floor", receipt.BlockNumber)
	}
	if receipt.ContractAddress != "0xabc" {
		t.Errorf("contract address %q", receipt.ContractAddress)
	}
	if !receipt.IsConfirmed || receipt.Confirmations != 1 {
		t.Errorf("expected confirmed receipt, got %+v", receipt)
	}
}

func TestMockWriterHonorsContext(t *testing.T) {
	w := NewMockWriter()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := w.RegisterProduce(ctx, &models.Collection{}); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}
