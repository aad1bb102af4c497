// Package trust runs the external and local token trust checks.
//
// Validators are pure with respect to shared state: a check returns a
// Verdict describing what it found, including any blacklist
// instructions, and the caller decides what to apply.
package trust

import "dexsentry/internal/domain"

// Verdict is the structured result of one trust check.
type Verdict struct {
	Check         string              // validator that produced this
	Passed        bool                // token cleared the check
	Reason        domain.RejectReason // set when Passed is false
	RawStatus     string              // provider status string, contract safety only
	BlacklistCoin string              // token address to blacklist, bundled supply only
	BlacklistDev  string              // developer address to blacklist, bundled supply only
}
