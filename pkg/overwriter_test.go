package fastdupes

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOverWriter_NonTTYWritesPlainLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create output file: %v", err)
	}
	defer file.Close()

	ow := NewOverWriter(file)
	if ow.isTTY {
		t.Fatal("Expected a regular file not to be detected as a terminal")
	}

	ow.Write("first")
	ow.Write("second")
	ow.WriteLine("third")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read output file: %v", err)
	}
	expected := "first\nsecond\nthird\n"
	if string(data) != expected {
		t.Errorf("Expected %q, got %q", expected, string(data))
	}
}

func TestOverWriter_TTYRepaintsInPlace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create output file: %v", err)
	}
	defer file.Close()

	// Force terminal behaviour so the repaint logic is exercised without
	// an actual tty
	ow := &OverWriter{file: file, isTTY: true}

	ow.Write("long status line")
	ow.Write("short")
	ow.WriteLine("done")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read output file: %v", err)
	}

	// Shorter updates pad out to the longest line seen so far
	expected := "\rlong status line" +
		"\rshort           " +
		"\rdone            \n"
	if string(data) != expected {
		t.Errorf("Expected %q, got %q", expected, string(data))
	}
}

func TestOverWriter_WidthResetsAfterLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create output file: %v", err)
	}
	defer file.Close()

	ow := &OverWriter{file: file, isTTY: true}
	ow.WriteLine("a very long finished line")
	ow.Write("next")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read output file: %v", err)
	}
	expected := "\ra very long finished line\n\rnext"
	if string(data) != expected {
		t.Errorf("Expected %q, got %q", expected, string(data))
	}
}
