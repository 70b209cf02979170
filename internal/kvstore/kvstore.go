// Package kvstore is the persistence layer: a flat key-value Store contract
// with several backends, and a Records helper that implements the
// compound-key convention used by the domain (a top-level bucket per entity
// type, keyed inside by the entity's domain identifier).
package kvstore

import "encoding/json"

// Bucket names for the compound-key convention.
const (
	BucketCards        = "cards"
	BucketBankAccounts = "bankAccounts"
	BucketWallets      = "wallets"
)

// Store is the persistent key-value backend contract. Reads return a nil
// value as the miss sentinel; writes report success as a boolean and never
// panic — backends log their own failures.
type Store interface {
	// Get returns the raw JSON stored under key, or nil when the key is
	// absent or the stored value is unreadable.
	Get(key string) json.RawMessage
	// Set serializes value under key. A false return means the value was
	// not written (serialization or backend failure, already logged).
	Set(key string, value any) bool
	// Remove deletes key, reporting backend success.
	Remove(key string) bool
}
