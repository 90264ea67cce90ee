package errors

import (
	"encoding/json"
	"testing"
)

func TestContext_PreservesInsertionOrder(t *testing.T) {
	c := NewContext().
		Set("zebra", 1).
		Set("apple", 2).
		Set("mango", 3)

	keys := c.Keys()
	want := []string{"zebra", "apple", "mango"}
	for i, k := range want {
		if keys[i] != k {
			t.Errorf("key[%d]: expected %s, got %s", i, k, keys[i])
		}
	}
}

func TestContext_SetExistingKeyKeepsPosition(t *testing.T) {
	c := NewContext().
		Set("first", 1).
		Set("second", 2).
		Set("first", 10)

	if c.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", c.Len())
	}
	if c.Keys()[0] != "first" {
		t.Errorf("expected 'first' to keep position 0, got %s", c.Keys()[0])
	}
	if v, _ := c.Get("first"); v != 10 {
		t.Errorf("expected updated value 10, got %v", v)
	}
}

func TestContext_MarshalJSONOrder(t *testing.T) {
	c := NewContext().
		Set("z", "last-alphabetically-first-inserted").
		Set("a", 1)

	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("unexpected marshal error: %v", err)
	}

	got := string(data)
	want := `{"z":"last-alphabetically-first-inserted","a":1}`
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestContext_Clone(t *testing.T) {
	c := NewContext().Set("key", "value")
	clone := c.Clone()
	clone.Set("key", "changed").Set("extra", true)

	if v, _ := c.Get("key"); v != "value" {
		t.Errorf("clone mutated original: %v", v)
	}
	if _, ok := c.Get("extra"); ok {
		t.Error("clone added key to original")
	}
}

func TestContext_GetMissing(t *testing.T) {
	c := NewContext()
	if _, ok := c.Get("nope"); ok {
		t.Error("expected missing key to report !ok")
	}
}
