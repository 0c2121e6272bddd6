// Package storage provides the bucketed key-value store behind the run
// log. Values are raw []byte; callers pick their own encoding (the run
// log stores JSON via EncodeJSON/DecodeJSON).
package storage

// Backend is a bucketed key-value store.
type Backend interface {
	// Bucket operations. CreateBucket and DeleteBucket are idempotent.
	CreateBucket(name []byte) error
	DeleteBucket(name []byte) error
	BucketExists(name []byte) (bool, error)

	// KV operations within buckets. Get returns nil for a missing key.
	Put(bucket, key, value []byte) error
	Get(bucket, key []byte) ([]byte, error)
	Delete(bucket, key []byte) error

	// ForEach visits every pair in a bucket. Iteration order is
	// backend-defined.
	ForEach(bucket []byte, fn func(k, v []byte) error) error

	Close() error
}

// String-keyed convenience wrappers; record IDs are strings everywhere
// above this package.

func PutString(b Backend, bucket []byte, key string, value []byte) error {
	return b.Put(bucket, []byte(key), value)
}

func GetString(b Backend, bucket []byte, key string) ([]byte, error) {
	return b.Get(bucket, []byte(key))
}

func DeleteString(b Backend, bucket []byte, key string) error {
	return b.Delete(bucket, []byte(key))
}
