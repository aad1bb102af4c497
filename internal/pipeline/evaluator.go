// Package pipeline sequences the evaluation stages for one token
// snapshot: blacklist and threshold filters, trust validators, event
// classification and ledger record assembly. Stages run in a fixed
// order and the first rejection stops the sequence.
package pipeline

import (
	"context"

	"dexsentry/internal/config"
	"dexsentry/internal/decision"
	"dexsentry/internal/domain"
	"dexsentry/internal/idhash"
	"dexsentry/internal/trust"
)

// VerdictCheck is one remote trust validator.
type VerdictCheck interface {
	Name() string
	Check(ctx context.Context, address string) (*trust.Verdict, error)
}

// Outcome is the decided result for one snapshot. Record is nil when
// the token must not be recorded: fetch-stage rejections (blacklist,
// filters) and unavailable validators leave no ledger trace.
type Outcome struct {
	Record   *domain.EvaluationRecord
	Accepted bool
	Reason   domain.RejectReason  // empty when accepted
	Event    domain.EventCategory // empty when rejected before classification
	Checks   []decision.CheckResult

	// Blacklist instructions from the bundled supply check.
	// The caller owns the blacklist and applies these.
	BlacklistCoin string
	BlacklistDev  string

	// Cause carries the validator failure when Reason is
	// validator_unavailable.
	Cause error
}

// Evaluator runs the stage sequence. It holds no mutable state and is
// safe to reuse across cycles.
type Evaluator struct {
	filters        *decision.FilterEngine
	classifier     *decision.Classifier
	fakeVolume     VerdictCheck
	contractSafety VerdictCheck
}

// NewEvaluator creates a snapshot evaluator with the given validators.
func NewEvaluator(fakeVolume, contractSafety VerdictCheck) *Evaluator {
	return &Evaluator{
		filters:        decision.NewFilterEngine(),
		classifier:     decision.NewClassifier(),
		fakeVolume:     fakeVolume,
		contractSafety: contractSafety,
	}
}

// Evaluate runs all stages for one snapshot and returns the decided
// outcome. Validator transport failures and malformed responses are
// absorbed into a validator_unavailable rejection; the token whose
// trust cannot be confirmed is not trusted, and nothing is recorded
// for it.
func (e *Evaluator) Evaluate(ctx context.Context, snap *domain.TokenSnapshot, filters config.Filters, blacklist *config.Blacklist) *Outcome {
	filterResult := e.filters.Evaluate(snap, filters, blacklist)
	if !filterResult.Accepted {
		return &Outcome{
			Reason: filterResult.Reason,
			Checks: filterResult.Checks,
		}
	}

	event := e.classifier.Classify(snap)

	fakeVolume, err := e.fakeVolume.Check(ctx, snap.Address)
	if err != nil {
		return &Outcome{
			Reason: domain.ReasonValidatorUnavailable,
			Event:  event,
			Checks: filterResult.Checks,
			Cause:  err,
		}
	}
	if !fakeVolume.Passed {
		rec := e.assembleRecord(snap, event, fakeVolume.Reason)
		rec.FakeVolume = true
		return &Outcome{
			Record: rec,
			Reason: fakeVolume.Reason,
			Event:  event,
			Checks: filterResult.Checks,
		}
	}

	contract, err := e.contractSafety.Check(ctx, snap.Address)
	if err != nil {
		return &Outcome{
			Reason: domain.ReasonValidatorUnavailable,
			Event:  event,
			Checks: filterResult.Checks,
			Cause:  err,
		}
	}
	if !contract.Passed {
		rec := e.assembleRecord(snap, event, contract.Reason)
		rec.RugcheckStatus = contract.RawStatus
		return &Outcome{
			Record: rec,
			Reason: contract.Reason,
			Event:  event,
			Checks: filterResult.Checks,
		}
	}

	bundled := trust.BundledSupply(snap)
	if !bundled.Passed {
		rec := e.assembleRecord(snap, event, bundled.Reason)
		rec.ContractSafe = true
		rec.RugcheckStatus = contract.RawStatus
		rec.BundledSupply = true
		return &Outcome{
			Record:        rec,
			Reason:        bundled.Reason,
			Event:         event,
			Checks:        filterResult.Checks,
			BlacklistCoin: bundled.BlacklistCoin,
			BlacklistDev:  bundled.BlacklistDev,
		}
	}

	rec := e.assembleRecord(snap, event, "")
	rec.Accepted = true
	rec.ContractSafe = true
	rec.RugcheckStatus = contract.RawStatus
	return &Outcome{
		Record:   rec,
		Accepted: true,
		Event:    event,
		Checks:   filterResult.Checks,
	}
}

// assembleRecord builds the ledger row common to every recorded
// outcome. Verdict flags default to their zero values; callers set
// the flags their stage determined.
func (e *Evaluator) assembleRecord(snap *domain.TokenSnapshot, event domain.EventCategory, reason domain.RejectReason) *domain.EvaluationRecord {
	return &domain.EvaluationRecord{
		EvaluationID: idhash.ComputeEvaluationID(snap.Address, snap.FetchedAt),
		Address:      snap.Address,
		Symbol:       snap.Symbol,
		Developer:    snap.Developer,
		Price:        snap.Price,
		Volume24h:    snap.Volume24h,
		LiquidityUSD: snap.LiquidityUSD,
		Event:        event,
		Reason:       reason,
		EvaluatedAt:  snap.FetchedAt,
	}
}
