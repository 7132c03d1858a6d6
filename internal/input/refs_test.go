package input

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestReadRefsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "refs.txt")
	content := "# inputs\nhttps://example.com/a\n\n  notes.txt  \nhttps://example.com/a\n-\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	refs, err := ReadRefsFromFile(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	want := []string{"https://example.com/a", "notes.txt", "-"}
	if !reflect.DeepEqual(refs, want) {
		t.Errorf("ReadRefsFromFile() = %v, want %v", refs, want)
	}
}

func TestReadRefsFromFile_Missing(t *testing.T) {
	if _, err := ReadRefsFromFile(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("Expected error for missing file")
	}
}
