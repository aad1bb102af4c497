package discovery

import "encoding/json"

// feedMessage is one frame from the new-pair stream.
type feedMessage struct {
	Type  string     `json:"type"`
	Pairs []feedPair `json:"pairs"`
}

type feedPair struct {
	PairAddress string    `json:"pairAddress"`
	BaseToken   feedToken `json:"baseToken"`
}

type feedToken struct {
	Address string `json:"address"`
	Symbol  string `json:"symbol"`
}

// ParsePairs extracts pair events from one raw frame. Frames that are
// not new-pair announcements, and pairs without a base token address,
// yield nothing. Order of appearance is preserved.
func ParsePairs(raw []byte) []*PairEvent {
	var msg feedMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil
	}
	if msg.Type != "new_pair" {
		return nil
	}

	var events []*PairEvent
	for _, p := range msg.Pairs {
		if p.BaseToken.Address == "" {
			continue
		}
		events = append(events, &PairEvent{
			PairAddress: p.PairAddress,
			Address:     p.BaseToken.Address,
			Symbol:      p.BaseToken.Symbol,
		})
	}
	return events
}
