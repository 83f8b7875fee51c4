package models

import (
	"encoding/json"
	"testing"
)

func TestLocationRefUnmarshalString(t *testing.T) {
	var l LocationRef
	if err := json.Unmarshal([]byte(`"Mumbai, Maharashtra"`), &l); err != nil {
		t.Fatal(err)
	}
	if l.Address() != "Mumbai, Maharashtra" {
		t.Fatalf("got %q", l.Address())
	}
}

func TestLocationRefUnmarshalObject(t *testing.T) {
	var l LocationRef
	if err := json.Unmarshal([]byte(`{"address": "Pune"}`), &l); err != nil {
		t.Fatal(err)
	}
	if l.Address() != "Pune" {
		t.Fatalf("got %q", l.Address())
	}
}

func TestLocationRefUnmarshalNull(t *testing.T) {
	var l LocationRef
	if err := json.Unmarshal([]byte(`null`), &l); err != nil {
		t.Fatal(err)
	}
	if l.Address() != "" {
		t.Fatalf("got %q, want empty", l.Address())
	}
}

func TestLocationRefMarshalFlattens(t *testing.T) {
	b, err := json.Marshal(NewLocationRef("Delhi"))
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `"Delhi"` {
		t.Fatalf("got %s", b)
	}
}
