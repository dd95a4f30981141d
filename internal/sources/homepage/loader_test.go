package homepage

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}
	return path
}

func TestLoadServices(t *testing.T) {
	path := writeFile(t, "services.yaml", `---
- Infrastructure:
    - AdGuard Home:
        icon: adguard-home.svg
        href: https://adguard.domain.ext
        description: Network-wide ads & trackers blocking DNS server
`)

	config, err := LoadServices(path)
	if err != nil {
		t.Fatalf("LoadServices() error = %v", err)
	}

	if len(config) == 0 {
		t.Fatal("LoadServices() returned empty config")
	}
}

func TestLoadBookmarksWithTemplateVariables(t *testing.T) {
	path := writeFile(t, "bookmarks.yaml", `---
- Developer:
    - Github:
        - abbr: GH
          href: https://github.com/
    - Secret:
        - abbr: SE
          href: {{HOMEPAGE_VAR_SECRET_URL}}
`)

	config, err := LoadBookmarks(path)
	if err != nil {
		t.Fatalf("LoadBookmarks() error = %v", err)
	}

	if len(config) != 1 || len(config[0]["Developer"]) != 2 {
		t.Fatalf("LoadBookmarks() = %+v, want one category with two bookmarks", config)
	}
}

func TestLoadFileNotFound(t *testing.T) {
	if _, err := LoadBookmarks("/nonexistent/path/bookmarks.yaml"); err == nil {
		t.Error("LoadBookmarks() with non-existent file should return error")
	}
	if _, err := LoadServices("/nonexistent/path/services.yaml"); err == nil {
		t.Error("LoadServices() with non-existent file should return error")
	}
}

func TestSourceDrafts(t *testing.T) {
	path := writeFile(t, "bookmarks.yaml", `---
- Developer:
    - Github:
        - abbr: GH
          icon: code
          href: https://github.com/
`)

	drafts, err := Source{Kind: KindBookmarks, Path: path}.Drafts()
	if err != nil {
		t.Fatalf("Drafts() error = %v", err)
	}
	if len(drafts) != 1 || drafts[0].URL != "https://github.com/" || drafts[0].Icon != "code" {
		t.Errorf("Drafts() = %+v", drafts)
	}

	if _, err := (Source{Kind: "other", Path: path}).Drafts(); err == nil {
		t.Error("Drafts() with unknown kind should return error")
	}
}

func TestStripTemplateVariablesFunc(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected string
	}{
		{
			name:     "single template variable",
			input:    []byte("url: {{HOMEPAGE_VAR_URL}}"),
			expected: "url: \"\"",
		},
		{
			name:     "no template variables",
			input:    []byte("plain text"),
			expected: "plain text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := stripTemplateVariables(tt.input)
			if string(result) != tt.expected {
				t.Errorf("stripTemplateVariables() = %q, want %q", string(result), tt.expected)
			}
		})
	}
}
