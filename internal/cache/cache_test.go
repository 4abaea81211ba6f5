package cache

import "testing"

func TestPutGetRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	key, err := ContentKey([]byte("package foo\n"))
	if err != nil {
		t.Fatalf("ContentKey: %v", err)
	}

	entry := Entry{
		FilePath: "foo/foo.go",
		Imports: []ImportRecord{
			{RawPath: "fmt", Line: 3, Kind: 0, Confidence: 1},
		},
	}
	if err := store.Put(key, entry); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok := store.Get(key)
	if !ok {
		t.Fatalf("expected cache hit")
	}
	if got.FilePath != entry.FilePath {
		t.Fatalf("expected file path %q, got %q", entry.FilePath, got.FilePath)
	}
	if len(got.Imports) != 1 || got.Imports[0].RawPath != "fmt" {
		t.Fatalf("unexpected imports: %+v", got.Imports)
	}
}

func TestGetMissReturnsFalse(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	if _, ok := store.Get("nonexistent"); ok {
		t.Fatalf("expected cache miss for nonexistent key")
	}
}

func TestContentKeyDeterministic(t *testing.T) {
	k1, _ := ContentKey([]byte("same content"))
	k2, _ := ContentKey([]byte("same content"))
	if k1 != k2 {
		t.Fatalf("expected same content to hash identically, got %q vs %q", k1, k2)
	}
	k3, _ := ContentKey([]byte("different content"))
	if k1 == k3 {
		t.Fatalf("expected different content to hash differently")
	}
}
