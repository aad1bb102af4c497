package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComputeEvaluationID computes a deterministic evaluation_id using SHA256.
// Formula: SHA256(address|evaluated_at_ms)
// Returns hex-encoded hash (64 characters).
func ComputeEvaluationID(address string, evaluatedAt int64) string {
	data := fmt.Sprintf("%s|%d", address, evaluatedAt)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
