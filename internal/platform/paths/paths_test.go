package paths

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveDatabaseExplicitWins(t *testing.T) {
	path, err := ResolveDatabase("/tmp/custom/nexus.db", "nexus.db", nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if path != "/tmp/custom/nexus.db" {
		t.Fatalf("expected explicit path, got %s", path)
	}
}

func TestResolveDatabaseRequiresFilename(t *testing.T) {
	if _, err := ResolveDatabase("", "", nil); err == nil {
		t.Fatal("expected error for missing filename")
	}
}

func TestResolveDatabaseFindsWorkingDirectoryFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "nexus.db"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	path, err := ResolveDatabase("", "nexus.db", nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	// The temp dir may be reached through a symlink, so compare against the
	// working directory actually reported by the OS.
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd after chdir: %v", err)
	}
	if path != filepath.Join(cwd, "nexus.db") {
		t.Fatalf("expected working-directory file, got %s", path)
	}
}

func TestResolveDatabaseSeedsConfigDirTemplate(t *testing.T) {
	configRoot := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configRoot)

	// Run from an empty directory so the working-directory probe misses.
	empty := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(empty); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	template := []byte("bundled database image")
	path, err := ResolveDatabase("", "nexus.db", template)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := filepath.Join(configRoot, "nexus", "nexus.db")
	if path != want {
		t.Fatalf("expected %s, got %s", want, path)
	}
	seeded, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read seeded file: %v", err)
	}
	if string(seeded) != string(template) {
		t.Fatal("expected template contents written")
	}

	// A second resolve must not overwrite the now-existing file.
	if err := os.WriteFile(path, []byte("user data"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := ResolveDatabase("", "nexus.db", template); err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	kept, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reread: %v", err)
	}
	if string(kept) != "user data" {
		t.Fatal("expected existing file preserved")
	}
}
