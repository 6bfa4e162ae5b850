package pagination

import (
	"encoding/base64"
	"testing"
	"time"
)

func TestCursorRoundTrip(t *testing.T) {
	created := time.Date(2025, 3, 4, 5, 6, 7, 890, time.UTC)
	encoded := EncodeCursor(Cursor{CreatedAt: created, ID: 42})

	parsed, err := ParseCursor(encoded)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.ID != 42 || !parsed.CreatedAt.Equal(created) {
		t.Fatalf("unexpected cursor %+v", parsed)
	}
}

func TestParseCursorRejectsGarbage(t *testing.T) {
	if c, err := ParseCursor(""); err != nil || c != nil {
		t.Fatalf("empty cursor should be nil, got %+v (%v)", c, err)
	}
	if _, err := ParseCursor("%%%"); err == nil {
		t.Fatal("expected base64 error")
	}
	bad := base64.StdEncoding.EncodeToString([]byte("2025-01-01T00:00:00Z|abc"))
	if _, err := ParseCursor(bad); err == nil {
		t.Fatal("expected id error")
	}
}

func TestNormalizeLimit(t *testing.T) {
	if NormalizeLimit(0) != DefaultLimit {
		t.Fatal("expected default limit")
	}
	if NormalizeLimit(1000) != MaxLimit {
		t.Fatal("expected max clamp")
	}
	if LimitWithBuffer(10) != 11 {
		t.Fatal("expected limit plus one")
	}
}
