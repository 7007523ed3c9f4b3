package storage

// Store is an opaque string key-value store used for persisted navigation
// state. Missing keys return ok=false, never an error for absence.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}
