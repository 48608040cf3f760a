package badgerfx

// Entity is a value stored under its own key with optional secondary index
// keys pointing back to that key.
type Entity interface {
	StorageKey() string
	StorageIndexes() []string
	MarshalStorage() ([]byte, error)
	UnmarshalStorage(data []byte) error
}
