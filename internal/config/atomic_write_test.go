package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAtomicWrite_CreatesParents(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "dir", "config.yaml")

	if err := AtomicWrite(path, []byte("log:\n  level: info\n")); err != nil {
		t.Fatalf("AtomicWrite error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if string(data) != "log:\n  level: info\n" {
		t.Fatalf("content mismatch: %q", data)
	}
}

func TestAtomicWrite_PreservesPermissions(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("original"), 0o640); err != nil {
		t.Fatal(err)
	}
	if err := AtomicWrite(path, []byte("updated")); err != nil {
		t.Fatalf("AtomicWrite error: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o640 {
		t.Errorf("permissions = %v, want 0640", info.Mode().Perm())
	}
	data, _ := os.ReadFile(path)
	if string(data) != "updated" {
		t.Errorf("content = %q, want updated", data)
	}
}

func TestWriteIfMissing(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "rubric.json")

	wrote, err := WriteIfMissing(path, []byte("first"))
	if err != nil || !wrote {
		t.Fatalf("WriteIfMissing() = %v, %v; want true, nil", wrote, err)
	}
	wrote, err = WriteIfMissing(path, []byte("second"))
	if err != nil || wrote {
		t.Fatalf("WriteIfMissing() = %v, %v; want false, nil", wrote, err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "first" {
		t.Errorf("existing file was overwritten: %q", data)
	}
}
