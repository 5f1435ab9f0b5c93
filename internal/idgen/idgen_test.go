package idgen

import (
	"strings"
	"testing"
)

func TestWithPrefix(t *testing.T) {
	id := WithPrefix("ana_")
	if !strings.HasPrefix(id, "ana_") {
		t.Errorf("missing prefix: %s", id)
	}
	if len(id) != len("ana_")+24 {
		t.Errorf("unexpected length %d: %s", len(id), id)
	}
}

func TestWithPrefixUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := WithPrefix("ana_")
		if seen[id] {
			t.Fatalf("duplicate ID generated: %s", id)
		}
		seen[id] = true
	}
}
