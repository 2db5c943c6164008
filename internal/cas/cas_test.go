package cas

import (
	"os"
	"testing"
)

func TestWriteRead_RoundTrip(t *testing.T) {
	t.Parallel()
	s := New(t.TempDir())

	content := "<h2 id=\"type\">Type</h2>\n<p>Some documentation.</p>"
	key := Key("# Type\n\nSome documentation.")
	if s.Has(key) {
		t.Fatal("unexpected entry before write")
	}
	if err := s.Write(key, content); err != nil {
		t.Fatal(err)
	}
	if !s.Has(key) {
		t.Fatal("expected entry after write")
	}

	got, err := s.Read(key)
	if err != nil {
		t.Fatal(err)
	}
	if got != content {
		t.Errorf("round-trip failed: got %q, want %q", got, content)
	}
}

func TestWrite_KeepsFirst(t *testing.T) {
	t.Parallel()
	s := New(t.TempDir())

	key := Key("src")
	if err := s.Write(key, "first"); err != nil {
		t.Fatal(err)
	}
	if err := s.Write(key, "second"); err != nil {
		t.Fatal(err)
	}
	got, err := s.Read(key)
	if err != nil {
		t.Fatal(err)
	}
	if got != "first" {
		t.Errorf("got %q, want first write to stick", got)
	}
}

func TestKey_Deterministic(t *testing.T) {
	t.Parallel()
	if Key("a") != Key("a") {
		t.Error("same content, different keys")
	}
	if Key("a") == Key("b") {
		t.Error("different content, same key")
	}
	if len(Key("a")) != 64 {
		t.Errorf("expected hex sha256, got %q", Key("a"))
	}
}

func TestRead_Missing(t *testing.T) {
	t.Parallel()
	s := New(t.TempDir())
	if _, err := s.Read(Key("nope")); err == nil {
		t.Fatal("expected error")
	}
	if _, err := s.Read("x"); err == nil {
		t.Fatal("expected error for short key")
	}
}

func TestClear(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	s := New(dir)
	key := Key("src")
	if err := s.Write(key, "html"); err != nil {
		t.Fatal(err)
	}
	if err := s.Clear(); err != nil {
		t.Fatal(err)
	}
	if s.Has(key) {
		t.Error("entry survived Clear")
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("expected dir removed, got %v", err)
	}
}
