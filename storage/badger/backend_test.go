package badger

import (
	"testing"

	badger "github.com/dgraph-io/badger/v4"
)

func TestOpenBackend_InMemory(t *testing.T) {
	backend, err := OpenBackend("", true)
	if err != nil {
		t.Fatalf("Failed to open in-memory backend: %v", err)
	}
	defer backend.Close()

	if backend.IsClosed() {
		t.Fatal("Expected backend to be open")
	}
}

func TestOpenBackend_FileSystem(t *testing.T) {
	dir := t.TempDir()
	backend, err := OpenBackend(dir, false)
	if err != nil {
		t.Fatalf("Failed to open file backend: %v", err)
	}
	defer backend.Close()

	if backend.IsClosed() {
		t.Fatal("Expected backend to be open")
	}
}

func TestBackendClose(t *testing.T) {
	backend, err := OpenBackend("", true)
	if err != nil {
		t.Fatalf("Failed to open backend: %v", err)
	}

	if err := backend.Close(); err != nil {
		t.Fatalf("Failed to close backend: %v", err)
	}
	if !backend.IsClosed() {
		t.Fatal("Expected backend to report closed")
	}
}

func TestWithTransaction(t *testing.T) {
	backend, err := OpenBackend("", true)
	if err != nil {
		t.Fatalf("Failed to open backend: %v", err)
	}
	defer backend.Close()

	err = backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set([]byte("key"), []byte("value")); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		t.Fatalf("Write transaction failed: %v", err)
	}

	err = backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte("key"))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			if string(val) != "value" {
				t.Fatalf("Expected 'value', got %q", val)
			}
			return nil
		})
	}, false)
	if err != nil {
		t.Fatalf("Read transaction failed: %v", err)
	}
}

func TestGetSequence(t *testing.T) {
	backend, err := OpenBackend("", true)
	if err != nil {
		t.Fatalf("Failed to open backend: %v", err)
	}
	defer backend.Close()

	seq, err := backend.GetSequence("test-seq")
	if err != nil {
		t.Fatalf("Failed to get sequence: %v", err)
	}
	defer seq.Release()

	first, err := seq.Next()
	if err != nil {
		t.Fatalf("Failed to get next value: %v", err)
	}
	second, err := seq.Next()
	if err != nil {
		t.Fatalf("Failed to get next value: %v", err)
	}

	if second != first+1 {
		t.Fatalf("Expected monotonic sequence, got %d then %d", first, second)
	}
}

func TestDotProduct(t *testing.T) {
	cases := []struct {
		name string
		a, b []float32
		want float32
	}{
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"parallel", []float32{1, 0}, []float32{1, 0}, 1},
		{"scaled", []float32{2, 3}, []float32{4, 5}, 23},
		{"mismatched lengths", []float32{1, 1, 1}, []float32{2}, 2},
		{"empty", nil, nil, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := dotProduct(tc.a, tc.b); got != tc.want {
				t.Fatalf("Expected %f, got %f", tc.want, got)
			}
		})
	}
}
