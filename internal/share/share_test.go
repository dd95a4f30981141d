package share

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantOK    bool
		wantURL   string
		wantTitle string
	}{
		{name: "url wins", query: "url=go.dev&text=https://other.example&title=Go", wantOK: true, wantURL: "https://go.dev", wantTitle: "Go"},
		{name: "text fallback", query: "text=https://www.example.com/x", wantOK: true, wantURL: "https://www.example.com/x", wantTitle: "Example.com"},
		{name: "text is not a link", query: "text=hello+world&title=Hi", wantOK: false},
		{name: "nothing", query: "", wantOK: false},
		{name: "blank url", query: "url=+++", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			d, ok := Parse(v)
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			assert.Equal(t, tt.wantURL, d.URL)
			assert.Equal(t, tt.wantTitle, d.Title)
		})
	}
}

func TestInbox(t *testing.T) {
	var in Inbox

	_, ok := in.Take()
	assert.False(t, ok)

	first, _ := Parse(url.Values{"url": {"a.example"}})
	second, _ := Parse(url.Values{"url": {"b.example"}})
	in.Put(first)
	in.Put(second)
	assert.True(t, in.Pending())

	got, ok := in.Take()
	require.True(t, ok)
	assert.Equal(t, "https://b.example", got.URL, "latest share wins")

	_, ok = in.Take()
	assert.False(t, ok, "a draft is consumed once")
	assert.False(t, in.Pending())
}
