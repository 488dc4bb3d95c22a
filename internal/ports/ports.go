// Package ports defines the interfaces (contracts) that adapters must implement,
// plus the canonical record types exchanged across them. Domain logic depends
// only on these, never on concrete implementations.
package ports

// FormRecord is one row of a wordlist's form table: a single recorded lexical
// item for one (language, meaning) pair. Columns beyond these three are
// preserved by the dataset adapter but invisible to the core.
type FormRecord struct {
	ID         string
	LanguageID string
	MeaningID  string
}

// CognateRecord assigns one form to one cognate class. A record whose FormID
// matches no form row is kept but never consulted.
type CognateRecord struct {
	FormID  string
	ClassID string
}

// Storage caches aggregation results between runs. The backing store (bbolt)
// keys each payload by a dataset fingerprint; a fingerprint miss means the
// dataset changed and the caller must re-aggregate.
//
// Crash safety: SaveAggregate must be transactional. A crash mid-write must
// not corrupt previously committed data.
type Storage interface {
	// SaveAggregate persists an aggregation payload under the given
	// fingerprint. Overwrites any prior payload for that fingerprint.
	SaveAggregate(fingerprint string, payload []byte) error

	// LoadAggregate retrieves the payload for a fingerprint.
	// Returns nil, nil on a miss (dataset not seen before, or changed).
	LoadAggregate(fingerprint string) ([]byte, error)

	// Close releases the underlying store.
	Close() error
}

// Watcher monitors a dataset directory for file changes. Only one Watch call
// should be active at a time.
type Watcher interface {
	// Watch starts monitoring dir. onChange is called with the absolute path
	// of each changed file, possibly from another goroutine. Returns an error
	// if the directory doesn't exist or permissions are insufficient.
	Watch(dir string, onChange func(path string)) error

	// Stop ends monitoring and releases all resources. After Stop returns,
	// no further onChange calls will fire. Safe to call multiple times.
	Stop() error
}
