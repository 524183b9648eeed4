package storage

import "context"

// Collection names for the two persisted blobs. The values match the
// original storage keys so existing exported data stays readable.
const (
	QuizCollection       = "engsmart_quizzes"
	SubmissionCollection = "engsmart_submissions"
)

// Store persists whole serialized collections. There are no partial
// updates and no locking: callers read the full collection, modify it,
// and write it back. Last put wins.
type Store interface {
	// Put replaces the named collection with data.
	Put(ctx context.Context, collection string, data []byte) error
	// Get returns the named collection, or nil when it has never been written.
	Get(ctx context.Context, collection string) ([]byte, error)
}

// DeserializationError reports stored data that no longer parses as the
// expected shape. Reads fail loudly with it rather than returning a
// partial collection.
type DeserializationError struct {
	Collection string
	Err        error
}

func (e *DeserializationError) Error() string {
	return "storage: collection " + e.Collection + " is corrupted: " + e.Err.Error()
}

func (e *DeserializationError) Unwrap() error { return e.Err }
