package trust

import (
	"encoding/json"
	"errors"
	"fmt"

	"dexsentry/internal/domain"
)

// ContractStatusGood is the only contract safety status that passes.
const ContractStatusGood = "good"

// NewFakeVolumeCheck builds the wash-trading detector client.
// The provider answers {"is_fake_volume": bool}.
func NewFakeVolumeCheck(endpoint, apiKey string, opts ...RemoteOption) *RemoteCheck {
	return NewRemoteCheck("fake_volume", endpoint, apiKey, func(body []byte) (*Verdict, error) {
		var resp struct {
			IsFakeVolume *bool `json:"is_fake_volume"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("decode response: %s", err)
		}
		if resp.IsFakeVolume == nil {
			return nil, errors.New("missing is_fake_volume field")
		}

		verdict := &Verdict{Passed: !*resp.IsFakeVolume}
		if !verdict.Passed {
			verdict.Reason = domain.ReasonFakeVolume
		}
		return verdict, nil
	}, opts...)
}

// NewContractSafetyCheck builds the contract audit client. The provider
// answers {"status": string}; only "good" passes. The raw status is
// preserved on the verdict either way.
func NewContractSafetyCheck(endpoint, apiKey string, opts ...RemoteOption) *RemoteCheck {
	return NewRemoteCheck("contract_safety", endpoint, apiKey, func(body []byte) (*Verdict, error) {
		var resp struct {
			Status string `json:"status"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("decode response: %s", err)
		}
		if resp.Status == "" {
			return nil, errors.New("missing status field")
		}

		verdict := &Verdict{
			Passed:    resp.Status == ContractStatusGood,
			RawStatus: resp.Status,
		}
		if !verdict.Passed {
			verdict.Reason = domain.ReasonUnsafeContract
		}
		return verdict, nil
	}, opts...)
}
