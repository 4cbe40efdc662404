package targets_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/danhigham/tgcast/internal/targets"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadGroups(t *testing.T) {
	path := writeFile(t, "groups.txt", "@alpha\n\n  @beta  \r\nhttps://t.me/gamma\n")

	got, err := targets.LoadGroups(path)
	if err != nil {
		t.Fatalf("LoadGroups() error: %v", err)
	}

	want := []string{"@alpha", "", "@beta", "https://t.me/gamma"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("groups = %q, want %q", got, want)
	}
}

func TestLoadGroups_Idempotent(t *testing.T) {
	path := writeFile(t, "groups.txt", "@a\n@a\n   \n@b")

	first, err := targets.LoadGroups(path)
	if err != nil {
		t.Fatal(err)
	}
	second, err := targets.LoadGroups(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("second load = %q, want %q", second, first)
	}
	want := []string{"@a", "@a", "", "@b"}
	if !reflect.DeepEqual(first, want) {
		t.Errorf("groups = %q, want %q", first, want)
	}
}

func TestLoadGroups_FileNotFound(t *testing.T) {
	if _, err := targets.LoadGroups("/nonexistent/groups.txt"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadMessage_Verbatim(t *testing.T) {
	content := "  Hello <b>world</b>\n\nsecond line\n"
	path := writeFile(t, "message.txt", content)

	got, err := targets.LoadMessage(path)
	if err != nil {
		t.Fatalf("LoadMessage() error: %v", err)
	}
	if got != content {
		t.Errorf("message = %q, want %q", got, content)
	}
}

func TestCount(t *testing.T) {
	if n := targets.Count([]string{"@a", "", "@b", ""}); n != 2 {
		t.Errorf("Count = %d, want 2", n)
	}
}
