package decision

import "dexsentry/internal/domain"

// CheckResult represents pass/fail for one filter check.
type CheckResult struct {
	Name      string
	Threshold string
	Actual    string
	Pass      bool
}

// FilterResult is the outcome of the filter stage for one snapshot.
type FilterResult struct {
	Accepted bool
	Reason   domain.RejectReason // empty when accepted
	Checks   []CheckResult       // numeric checks, empty on blacklist rejection
}
