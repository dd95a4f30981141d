package homepage

import (
	"errors"
	"net/url"
	"sort"
	"strings"

	"github.com/MrSnakeDoc/linkvault/internal/domain"
)

// ErrEmpty is returned when a file holds no usable entry.
var ErrEmpty = errors.New("no valid entries found in homepage config")

// MapBookmarks converts bookmarks to drafts, in file order. The bookmark
// name becomes the title (the abbreviation when the name is blank) and the
// category becomes a tag.
func MapBookmarks(cfg BookmarksConfig) ([]domain.Draft, error) {
	var drafts []domain.Draft

	for _, category := range cfg {
		for _, categoryName := range sortedKeys(category) {
			for _, bookmarkMap := range category[categoryName] {
				for _, bookmarkName := range sortedKeys(bookmarkMap) {
					// Each bookmark has a list with a single entry
					entries := bookmarkMap[bookmarkName]
					if len(entries) == 0 {
						continue
					}
					entry := entries[0]

					title := strings.TrimSpace(bookmarkName)
					if title == "" {
						title = entry.Abbr
					}

					if d, ok := draft(entry.Href, title, "", entry.Icon, categoryName); ok {
						drafts = append(drafts, d)
					}
				}
			}
		}
	}

	if len(drafts) == 0 {
		return nil, ErrEmpty
	}
	return drafts, nil
}

// MapServices converts services to drafts. The service description is kept
// and the group becomes a tag.
func MapServices(cfg ServicesConfig) ([]domain.Draft, error) {
	var drafts []domain.Draft

	for _, groupMap := range cfg {
		for _, groupName := range sortedKeys(groupMap) {
			for _, serviceMap := range groupMap[groupName] {
				for _, serviceName := range sortedKeys(serviceMap) {
					props := serviceMap[serviceName]
					if d, ok := draft(props.Href, serviceName, props.Description, props.Icon, groupName); ok {
						drafts = append(drafts, d)
					}
				}
			}
		}
	}

	if len(drafts) == 0 {
		return nil, ErrEmpty
	}
	return drafts, nil
}

func draft(href, title, description, icon, group string) (domain.Draft, bool) {
	// Skip entries without a usable host
	u := domain.NormalizeURL(href)
	parsed, err := url.Parse(u)
	if err != nil || parsed.Hostname() == "" {
		return domain.Draft{}, false
	}

	return domain.Draft{
		URL:         u,
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Tags:        domain.CleanTags([]string{group}),
		Icon:        mapIcon(icon),
	}, true
}

// mapIcon keeps image URLs and LinkVault icon ids. Homepage's own icon
// names (dashboard-icons, si-*, mdi-*) cannot be rendered and fall back to
// the default.
func mapIcon(icon string) string {
	icon = strings.TrimSpace(icon)
	switch {
	case strings.HasPrefix(icon, "http://"), strings.HasPrefix(icon, "https://"):
		return icon
	case domain.IsKnownIcon(icon):
		return icon
	default:
		return ""
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
