package fastdupes

import (
	"testing"
)

func TestExcludeManager_Match(t *testing.T) {
	testCases := []struct {
		pattern string
		path    string
		want    bool
	}{
		{"*/.git", "/home/user/project/.git", true},
		{"*/.git", "/home/user/.git", true},
		{"*/.git", "/home/user/project/src", false},
		{"*/.git", "/home/user/.gitignore", false},
		{"*.tmp", "/var/cache/build.tmp", true},
		{"*.tmp", "/var/cache/build.tmpx", false},
		{"/exact/path", "/exact/path", true},
		{"/exact/path", "/exact/path/below", false},
		{"*/cache?", "/srv/cache1", true},
		{"*/cache?", "/srv/cache", false},
		{"*/file[0-9]", "/srv/file7", true},
		{"*/file[0-9]", "/srv/fileX", false},
		{"*/file[!0-9]", "/srv/fileX", true},
		{"*/file[!0-9]", "/srv/file7", false},
	}

	for _, tc := range testCases {
		manager, err := NewExcludeManager([]string{tc.pattern})
		if err != nil {
			t.Fatalf("Failed to compile pattern %q: %v", tc.pattern, err)
		}
		if got := manager.Match(tc.path); got != tc.want {
			t.Errorf("Pattern %q against %q: got %v, expected %v",
				tc.pattern, tc.path, got, tc.want)
		}
	}
}

func TestExcludeManager_UnterminatedClassIsLiteral(t *testing.T) {
	manager, err := NewExcludeManager([]string{"*/file["})
	if err != nil {
		t.Fatalf("Failed to compile pattern: %v", err)
	}
	if !manager.Match("/srv/file[") {
		t.Error("Expected unterminated class to match a literal bracket")
	}
	if manager.Match("/srv/file7") {
		t.Error("Expected unterminated class not to act as a character class")
	}
}

func TestExcludeManager_Patterns(t *testing.T) {
	raw := []string{"*/.git", "*.bak"}
	manager, err := NewExcludeManager(raw)
	if err != nil {
		t.Fatalf("Failed to compile patterns: %v", err)
	}
	got := manager.Patterns()
	if len(got) != 2 || got[0] != raw[0] || got[1] != raw[1] {
		t.Errorf("Expected raw patterns %v, got %v", raw, got)
	}
}

func TestDefaultExcludes(t *testing.T) {
	defaults := DefaultExcludes()
	if len(defaults) != 4 {
		t.Fatalf("Expected 4 default patterns, got %d", len(defaults))
	}

	manager, err := NewExcludeManager(defaults)
	if err != nil {
		t.Fatalf("Failed to compile defaults: %v", err)
	}
	for _, dir := range []string{"/repo/.git", "/repo/.svn", "/repo/.hg", "/repo/.bzr"} {
		if !manager.Match(dir) {
			t.Errorf("Expected default excludes to match %s", dir)
		}
	}
	if manager.Match("/repo/src") {
		t.Error("Expected default excludes not to match ordinary directories")
	}

	// Returned slice must be a copy
	defaults[0] = "mutated"
	if DefaultExcludes()[0] == "mutated" {
		t.Error("DefaultExcludes must not share its backing array")
	}
}

func TestNormalizeExcludes(t *testing.T) {
	testCases := []struct {
		name  string
		input []string
		want  []string
	}{
		{"passthrough", []string{"*/.git", "*.bak"}, []string{"*/.git", "*.bak"}},
		{"trailing slash stripped", []string{"*/cache/"}, []string{"*/cache"}},
		{"dash resets defaults", []string{"*/.git", "-", "*.bak"}, []string{"*.bak"}},
		{"trailing dash clears all", []string{"*/.git", "-"}, []string{}},
		{"last dash wins", []string{"a", "-", "b", "-", "c"}, []string{"c"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeExcludes(tc.input)
			if len(got) != len(tc.want) {
				t.Fatalf("Expected %v, got %v", tc.want, got)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("Expected %v, got %v", tc.want, got)
				}
			}
		})
	}
}
