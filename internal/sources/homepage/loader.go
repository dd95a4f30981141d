package homepage

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/linkvault/internal/domain"
)

// Kind selects which Homepage file a Source reads.
type Kind string

const (
	KindBookmarks Kind = "bookmarks"
	KindServices  Kind = "services"
)

// Source is one Homepage YAML file to import links from.
type Source struct {
	Kind Kind
	Path string
}

// Drafts loads the file and maps its entries to link drafts.
func (s Source) Drafts() ([]domain.Draft, error) {
	switch s.Kind {
	case KindBookmarks:
		cfg, err := LoadBookmarks(s.Path)
		if err != nil {
			return nil, err
		}
		return MapBookmarks(cfg)
	case KindServices:
		cfg, err := LoadServices(s.Path)
		if err != nil {
			return nil, err
		}
		return MapServices(cfg)
	default:
		return nil, fmt.Errorf("unknown homepage source kind %q", s.Kind)
	}
}

// LoadBookmarks reads and parses a bookmarks.yaml file.
func LoadBookmarks(path string) (BookmarksConfig, error) {
	var cfg BookmarksConfig
	if err := decodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("bookmarks: %w", err)
	}
	return cfg, nil
}

// LoadServices reads and parses a services.yaml file.
func LoadServices(path string) (ServicesConfig, error) {
	var cfg ServicesConfig
	if err := decodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("services: %w", err)
	}
	return cfg, nil
}

func decodeFile(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	// Strip Homepage template variables ({{HOMEPAGE_VAR_...}})
	data = stripTemplateVariables(data)

	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

var templateVarRe = regexp.MustCompile(`\{\{[^}]+\}\}`)

// stripTemplateVariables removes Homepage template variables from YAML
// Example: {{HOMEPAGE_VAR_ADGUARD_USER}} -> ""
func stripTemplateVariables(data []byte) []byte {
	return templateVarRe.ReplaceAll(data, []byte(`""`))
}
