package cache

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/klauspost/compress/s2"
)

// envelope is the durable wire format: the raw payload plus the metadata
// needed to judge freshness after a restart. TTL travels as milliseconds.
type envelope struct {
	Data       json.RawMessage `json:"data"`
	ObservedAt time.Time       `json:"observedAt"`
	TTLMillis  int64           `json:"ttlMs"`
}

func encodeEnvelope(e entry) ([]byte, error) {
	raw, err := json.Marshal(envelope{
		Data:       e.data,
		ObservedAt: e.observedAt,
		TTLMillis:  e.ttl.Milliseconds(),
	})
	if err != nil {
		return nil, fmt.Errorf("encode cache envelope: %w", err)
	}
	return s2.Encode(nil, raw), nil
}

func decodeEnvelope(payload []byte) (entry, error) {
	raw, err := s2.Decode(nil, payload)
	if err != nil {
		return entry{}, fmt.Errorf("decompress cache envelope: %w", err)
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return entry{}, fmt.Errorf("decode cache envelope: %w", err)
	}
	return entry{
		data:       env.Data,
		observedAt: env.ObservedAt,
		ttl:        time.Duration(env.TTLMillis) * time.Millisecond,
	}, nil
}
