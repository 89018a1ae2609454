package id

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestGenerate(t *testing.T) {
	gen := NewGenerator()

	id1 := gen.Generate()
	id2 := gen.Generate()

	if id1.String() == id2.String() {
		t.Error("Generated IDs should be unique")
	}
	if id2.Compare(id1) <= 0 {
		t.Error("Monotonic entropy should keep ids ordered")
	}
}

func TestGenerateString(t *testing.T) {
	gen := NewGenerator()

	id := gen.GenerateString()

	if len(id) != 26 {
		t.Errorf("ULID should be 26 characters, got %d", len(id))
	}
}

func TestTypedIDs(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		prefix string
	}{
		{"window", NewWindowID().String(), WindowPrefix},
		{"node", NewNodeID().String(), NodePrefix},
		{"request", NewRequestID().String(), RequestPrefix},
		{"conn", NewConnID().String(), ConnPrefix},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.HasPrefix(tt.id, tt.prefix+"_") {
				t.Errorf("ID should start with '%s_', got: %s", tt.prefix, tt.id)
			}
			if !HasPrefix(tt.id, tt.prefix) {
				t.Errorf("HasPrefix(%s, %s) = false", tt.id, tt.prefix)
			}
		})
	}
}

func TestHasPrefixRejectsGarbage(t *testing.T) {
	if HasPrefix("win_not-a-ulid", WindowPrefix) {
		t.Error("expected invalid ULID to be rejected")
	}
	if HasPrefix(NewNodeID().String(), WindowPrefix) {
		t.Error("expected node id to fail the window prefix check")
	}
}

func TestTimestamp(t *testing.T) {
	before := time.Now().Add(-time.Second)
	ts, err := Timestamp(NewWindowID().String())
	if err != nil {
		t.Fatalf("Timestamp failed: %v", err)
	}
	if ts.Before(before) || ts.After(time.Now().Add(time.Second)) {
		t.Errorf("timestamp %v out of range", ts)
	}

	if _, err := Timestamp("bogus"); err == nil {
		t.Error("expected error for invalid id")
	}
}

func TestConcurrentGeneration(t *testing.T) {
	gen := NewGenerator()
	const workers = 8
	const perWorker = 200

	var mu sync.Mutex
	seen := make(map[string]struct{}, workers*perWorker)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				s := string(gen.NewWindowID())
				mu.Lock()
				seen[s] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(seen) != workers*perWorker {
		t.Errorf("expected %d unique ids, got %d", workers*perWorker, len(seen))
	}
}
