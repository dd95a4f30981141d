// Package share turns OS share-sheet parameters into a link draft.
package share

import (
	"net/url"
	"strings"
	"sync"

	"github.com/MrSnakeDoc/linkvault/internal/domain"
)

// Params are the values a share target receives.
type Params struct {
	Title string
	Text  string
	URL   string
}

// FromValues reads title, text and url from a query string.
func FromValues(v url.Values) Params {
	return Params{
		Title: strings.TrimSpace(v.Get("title")),
		Text:  strings.TrimSpace(v.Get("text")),
		URL:   strings.TrimSpace(v.Get("url")),
	}
}

// Resolve picks the shared URL: the url parameter, else text when it looks
// like a link. ok is false when nothing URL-shaped was shared.
func (p Params) Resolve() (string, bool) {
	if p.URL != "" {
		return p.URL, true
	}
	if strings.HasPrefix(p.Text, "http") {
		return p.Text, true
	}
	return "", false
}

// Parse builds a draft from share parameters. The URL is normalized and a
// missing title is derived from the host.
func Parse(v url.Values) (domain.Draft, bool) {
	p := FromValues(v)
	raw, ok := p.Resolve()
	if !ok {
		return domain.Draft{}, false
	}

	u := domain.NormalizeURL(raw)
	title := p.Title
	if title == "" {
		title = domain.DefaultTitle(u)
	}
	return domain.Draft{URL: u, Title: title, Tags: []string{}}, true
}

// Inbox holds at most one pending draft. A newer share replaces an older
// one that was never picked up.
type Inbox struct {
	mu    sync.Mutex
	draft *domain.Draft
}

// Put stores d as the pending draft.
func (i *Inbox) Put(d domain.Draft) {
	i.mu.Lock()
	i.draft = &d
	i.mu.Unlock()
}

// Take returns the pending draft and empties the inbox.
func (i *Inbox) Take() (domain.Draft, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.draft == nil {
		return domain.Draft{}, false
	}
	d := *i.draft
	i.draft = nil
	return d, true
}

// Pending reports whether a draft is waiting, without taking it.
func (i *Inbox) Pending() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.draft != nil
}
