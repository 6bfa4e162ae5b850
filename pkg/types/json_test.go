package types

import "testing"

func TestStringMapScanAcceptsBytesAndString(t *testing.T) {
	var m StringMap
	if err := m.Scan([]byte(`{"spotify":"https://open.spotify.com/a"}`)); err != nil {
		t.Fatalf("scan bytes: %v", err)
	}
	if m["spotify"] != "https://open.spotify.com/a" {
		t.Fatalf("unexpected map %v", m)
	}
	if err := m.Scan(`{"instagram":"https://instagram.com/x"}`); err != nil {
		t.Fatalf("scan string: %v", err)
	}
	if _, ok := m["spotify"]; ok {
		t.Fatalf("scan should replace previous contents, got %v", m)
	}
	if err := m.Scan(42); err == nil {
		t.Fatal("expected unsupported type error")
	}
}

func TestNilValuesPersistAsEmptyJSON(t *testing.T) {
	var tracks Tracks
	v, err := tracks.Value()
	if err != nil || v != "[]" {
		t.Fatalf("expected empty array, got %v (%v)", v, err)
	}
	var links StringMap
	v, err = links.Value()
	if err != nil || v != "{}" {
		t.Fatalf("expected empty object, got %v (%v)", v, err)
	}
}

func TestAddressScanNil(t *testing.T) {
	a := Address{City: "Austin"}
	if err := a.Scan(nil); err != nil {
		t.Fatalf("scan nil: %v", err)
	}
	if !a.IsZero() {
		t.Fatalf("expected zero address, got %+v", a)
	}
}
