package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComputeOrderID computes a deterministic order_id using SHA256.
// Formula: SHA256(evaluation_id|action)
// Returns hex-encoded hash (64 characters). Resubmitting the same
// evaluation yields the same order_id, so the venue can deduplicate.
func ComputeOrderID(evaluationID, action string) string {
	data := fmt.Sprintf("%s|%s", evaluationID, action)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
