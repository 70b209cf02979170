package kvstore

import (
	"encoding/json"
	"log/slog"
	"strings"

	"pocketbank/internal/errors"
)

// Records implements the compound-key convention on top of a Store: each
// top-level bucket holds an object mapping a domain identifier to the
// serialized entity. There is no referential integrity below this layer;
// the repositories own it.
type Records struct {
	store  Store
	logger *slog.Logger
}

func NewRecords(store Store, logger *slog.Logger) *Records {
	return &Records{store: store, logger: logger}
}

// LoadSelected copies the named fields out of a raw JSON object into a new
// map. An unparseable input falls back to an empty object (logged, not an
// error); missing fields are logged and skipped. An empty field selection
// is a caller bug and is rejected.
func (r *Records) LoadSelected(raw json.RawMessage, fields []string) (map[string]json.RawMessage, error) {
	if len(fields) == 0 {
		return nil, errors.NewAppError(errors.InvalidInput, "field selection must not be empty")
	}

	source := map[string]json.RawMessage{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &source); err != nil {
			r.logger.Warn("Failed to parse record, falling back to empty object", "error", err)
			source = map[string]json.RawMessage{}
		}
	}

	selected := make(map[string]json.RawMessage, len(fields))
	for _, field := range fields {
		value, ok := source[field]
		if !ok {
			r.logger.Warn("Field missing from record", "field", field)
			continue
		}
		selected[field] = value
	}
	return selected, nil
}

// SaveSubRecord writes value under bucket/subKey, merging into the existing
// bucket and re-creating it when absent or malformed. Key validation
// failures are returned as errors; write failures are logged by the store
// and reported as false.
func (r *Records) SaveSubRecord(bucket, subKey string, value any) (bool, error) {
	if strings.TrimSpace(bucket) == "" || strings.TrimSpace(subKey) == "" {
		return false, errors.NewAppError(errors.InvalidInput, "bucket and sub-key must be non-empty")
	}
	if value == nil {
		return false, errors.NewAppError(errors.InvalidInput, "value must not be nil")
	}

	records := r.LoadBucket(bucket)
	data, err := json.Marshal(value)
	if err != nil {
		r.logger.Error("Failed to serialize sub-record", "bucket", bucket, "sub_key", subKey, "error", err)
		return false, nil
	}
	records[subKey] = data

	return r.store.Set(bucket, records), nil
}

// LoadSubRecord returns the raw value stored under bucket/subKey.
func (r *Records) LoadSubRecord(bucket, subKey string) (json.RawMessage, bool) {
	records := r.LoadBucket(bucket)
	raw, ok := records[subKey]
	return raw, ok
}

// LoadBucket returns the whole bucket, empty when absent or malformed.
func (r *Records) LoadBucket(bucket string) map[string]json.RawMessage {
	records := map[string]json.RawMessage{}
	raw := r.store.Get(bucket)
	if len(raw) == 0 {
		return records
	}
	if err := json.Unmarshal(raw, &records); err != nil {
		r.logger.Warn("Malformed bucket, starting fresh", "bucket", bucket, "error", err)
		return map[string]json.RawMessage{}
	}
	return records
}

// RemoveSubRecord deletes bucket/subKey, reporting write success. Removing
// an absent sub-record succeeds.
func (r *Records) RemoveSubRecord(bucket, subKey string) bool {
	records := r.LoadBucket(bucket)
	if _, ok := records[subKey]; !ok {
		return true
	}
	delete(records, subKey)
	return r.store.Set(bucket, records)
}
