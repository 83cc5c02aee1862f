package worker

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestReadListFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "repos.txt")
	content := "# tracked repos\nomsf-eco-infra/ghsnap\n\n  omsf-eco-infra/ticgithub  \nomsf-eco-infra/ghsnap\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := ReadListFile(path)
	if err != nil {
		t.Fatalf("ReadListFile failed: %v", err)
	}
	want := []string{"omsf-eco-infra/ghsnap", "omsf-eco-infra/ticgithub"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestReadListFile_Missing(t *testing.T) {
	if _, err := ReadListFile(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestMergeLists(t *testing.T) {
	got := MergeLists([]string{"a/b", "c/d"}, nil, []string{"c/d", "e/f"})
	want := []string{"a/b", "c/d", "e/f"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
