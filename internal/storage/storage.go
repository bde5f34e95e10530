// Package storage provides the key-value persistence layer used by the
// session and game state stores. Records are opaque JSON blobs keyed by
// fixed names; implementations must tolerate missing keys.
package storage

// Store is the minimal persistence contract. Load reports ok=false when
// the key has never been saved. Implementations are expected to degrade
// gracefully: a store that cannot persist should still satisfy reads
// from memory rather than fail the caller.
type Store interface {
	Load(key string) (data []byte, ok bool, err error)
	Save(key string, data []byte) error
	Delete(key string) error
}
