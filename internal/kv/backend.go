package kv

// Store is a flat key-value capability. Task persistence and UI preferences
// are both written through it, so any backend can stand in for another.
type Store interface {
	// Name returns the backend identifier (e.g., "sqlite", "file")
	Name() string

	// Get returns the value stored under key. ok is false when the key is absent.
	Get(key string) (value []byte, ok bool, err error)

	// Set overwrites the value stored under key
	Set(key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error

	// Close releases any resources held by the backend
	Close() error
}

// Options configures a backend when it is created
type Options struct {
	// Dir is the directory a file-backed store keeps its data in
	Dir string
}

// BackendFactory is a function that opens a new instance of a Store
type BackendFactory func(opts Options) (Store, error)
