package storage

// Cache holds provider responses keyed by query. Entries live only in process memory.
type Cache interface {
	Set(key string, value interface{}) error
	Get(key string) (interface{}, bool)
	Delete(key string) error
	Clear() error
}
