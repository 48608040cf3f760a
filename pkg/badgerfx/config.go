package badgerfx

import (
	"time"

	"github.com/dgraph-io/badger/v4"
)

const (
	defaultGCInterval     = 10 * time.Minute
	defaultGCDiscardRatio = 0.5
)

type Config struct {
	// Path to the BadgerDB data directory
	Dir string
	// Keep everything in memory, Dir is ignored
	InMemory bool
	// How often the value log is garbage collected. Zero uses the default,
	// a negative value disables collection.
	GCInterval time.Duration
}

func (c Config) Build() badger.Options {
	if c.InMemory {
		return badger.DefaultOptions("").WithInMemory(true)
	}

	return badger.DefaultOptions(c.Dir)
}

func (c Config) gcInterval() time.Duration {
	if c.GCInterval == 0 {
		return defaultGCInterval
	}

	return c.GCInterval
}
