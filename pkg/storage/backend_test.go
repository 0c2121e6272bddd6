package storage

import (
	"bytes"
	"testing"
)

// backendTestSuite runs the Backend contract against an implementation.
func backendTestSuite(t *testing.T, newBackend func() (Backend, func(), error)) {
	t.Run("CreateBucket", func(t *testing.T) {
		backend, cleanup, err := newBackend()
		if err != nil {
			t.Fatalf("failed to create backend: %v", err)
		}
		defer cleanup()

		if err := backend.CreateBucket([]byte("runs")); err != nil {
			t.Fatalf("CreateBucket failed: %v", err)
		}

		exists, err := backend.BucketExists([]byte("runs"))
		if err != nil {
			t.Fatalf("BucketExists failed: %v", err)
		}
		if !exists {
			t.Error("Bucket should exist after creation")
		}

		// Idempotent
		if err := backend.CreateBucket([]byte("runs")); err != nil {
			t.Errorf("CreateBucket should be idempotent: %v", err)
		}
	})

	t.Run("DeleteBucket", func(t *testing.T) {
		backend, cleanup, err := newBackend()
		if err != nil {
			t.Fatalf("failed to create backend: %v", err)
		}
		defer cleanup()

		backend.CreateBucket([]byte("runs"))
		if err := backend.DeleteBucket([]byte("runs")); err != nil {
			t.Fatalf("DeleteBucket failed: %v", err)
		}

		exists, _ := backend.BucketExists([]byte("runs"))
		if exists {
			t.Error("Bucket should not exist after deletion")
		}

		// Idempotent
		if err := backend.DeleteBucket([]byte("runs")); err != nil {
			t.Errorf("DeleteBucket should be idempotent: %v", err)
		}
	})

	t.Run("PutAndGet", func(t *testing.T) {
		backend, cleanup, err := newBackend()
		if err != nil {
			t.Fatalf("failed to create backend: %v", err)
		}
		defer cleanup()

		backend.CreateBucket([]byte("runs"))

		key := []byte("key1")
		value := []byte("value1")
		if err := backend.Put([]byte("runs"), key, value); err != nil {
			t.Fatalf("Put failed: %v", err)
		}

		got, err := backend.Get([]byte("runs"), key)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !bytes.Equal(got, value) {
			t.Errorf("Get returned %s, want %s", got, value)
		}

		// Non-existent key
		got, err = backend.Get([]byte("runs"), []byte("nonexistent"))
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got != nil {
			t.Errorf("Get should return nil for non-existent key, got %s", got)
		}
	})

	t.Run("PutMissingBucket", func(t *testing.T) {
		backend, cleanup, err := newBackend()
		if err != nil {
			t.Fatalf("failed to create backend: %v", err)
		}
		defer cleanup()

		if err := backend.Put([]byte("absent"), []byte("k"), []byte("v")); err == nil {
			t.Error("Put into a missing bucket should fail")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		backend, cleanup, err := newBackend()
		if err != nil {
			t.Fatalf("failed to create backend: %v", err)
		}
		defer cleanup()

		backend.CreateBucket([]byte("runs"))
		key := []byte("key1")
		backend.Put([]byte("runs"), key, []byte("value1"))

		if err := backend.Delete([]byte("runs"), key); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}

		got, _ := backend.Get([]byte("runs"), key)
		if got != nil {
			t.Error("Key should not exist after deletion")
		}
	})

	t.Run("ForEach", func(t *testing.T) {
		backend, cleanup, err := newBackend()
		if err != nil {
			t.Fatalf("failed to create backend: %v", err)
		}
		defer cleanup()

		backend.CreateBucket([]byte("runs"))

		expected := map[string]string{
			"key1": "value1",
			"key2": "value2",
			"key3": "value3",
		}
		for k, v := range expected {
			backend.Put([]byte("runs"), []byte(k), []byte(v))
		}

		collected := make(map[string]string)
		err = backend.ForEach([]byte("runs"), func(k, v []byte) error {
			collected[string(k)] = string(v)
			return nil
		})
		if err != nil {
			t.Fatalf("ForEach failed: %v", err)
		}

		if len(collected) != len(expected) {
			t.Errorf("ForEach collected %d items, want %d", len(collected), len(expected))
		}
		for k, v := range expected {
			if collected[k] != v {
				t.Errorf("ForEach: key %s = %s, want %s", k, collected[k], v)
			}
		}
	})

	t.Run("StringHelpers", func(t *testing.T) {
		backend, cleanup, err := newBackend()
		if err != nil {
			t.Fatalf("failed to create backend: %v", err)
		}
		defer cleanup()

		backend.CreateBucket([]byte("runs"))

		if err := PutString(backend, []byte("runs"), "run-1", []byte("payload")); err != nil {
			t.Fatalf("PutString failed: %v", err)
		}
		got, err := GetString(backend, []byte("runs"), "run-1")
		if err != nil {
			t.Fatalf("GetString failed: %v", err)
		}
		if !bytes.Equal(got, []byte("payload")) {
			t.Errorf("GetString returned %s, want payload", got)
		}
		if err := DeleteString(backend, []byte("runs"), "run-1"); err != nil {
			t.Fatalf("DeleteString failed: %v", err)
		}
		if got, _ := GetString(backend, []byte("runs"), "run-1"); got != nil {
			t.Error("key should be gone after DeleteString")
		}
	})
}
