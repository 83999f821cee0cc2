package utils

import (
	"fmt"
	rndm "math/rand"
	"os"
	"strconv"
	"strings"
	"time"
)

// --- Random String and ID Generators ---

var letterRunes = []rune("abcdefghijklmnopqrstuvwxyz0123456789")

// GenerateRandomString creates a random lowercase alphanumeric string of length n.
func GenerateRandomString(n int) string {
	b := make([]rune, n)
	for i := range b {
		b[i] = letterRunes[rndm.Intn(len(letterRunes))]
	}
	return string(b)
}

// GenerateTraceabilityID returns a crop traceability id of the form
// CC-<base36 millis>-<random>, assigned once at crop creation.
func GenerateTraceabilityID() string {
	return taggedID("CC")
}

// GenerateCropID returns a crop record key.
func GenerateCropID() string {
	return taggedID("CROP")
}

// GenerateCollectionID returns an aggregator collection id (AGG-...).
func GenerateCollectionID() string {
	return taggedID("AGG")
}

// GenerateBatchNumber returns BATCH-<yyyymmdd>-<random>.
func GenerateBatchNumber() string {
	date := time.Now().Format("20060102")
	return strings.ToUpper(fmt.Sprintf("BATCH-%s-%s", date, GenerateRandomString(4)))
}

// GenerateOrderID returns ORD-<unix millis>-<random>.
func GenerateOrderID() string {
	return strings.ToUpper(fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), GenerateRandomString(5)))
}

// GenerateTransactionID returns TXN-<base36 millis>-<random>.
func GenerateTransactionID() string {
	return taggedID("TXN")
}

// GenerateUserID returns a short user record key.
func GenerateUserID() string {
	return "u" + GenerateRandomString(10)
}

func taggedID(prefix string) string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)
	return strings.ToUpper(fmt.Sprintf("%s-%s-%s", prefix, ts, GenerateRandomString(5)))
}

// --- Form value parsing ---

func ParseFloat(s string) float64 {
	val, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return val
}

func ParseInt(s string) int {
	val, _ := strconv.Atoi(strings.TrimSpace(s))
	return val
}

func ParseDate(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}

// --- Env helpers ---

func Getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// EnsureDir creates dir and parents if missing.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
