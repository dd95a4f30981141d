package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseHostNoPort(t *testing.T) {
	tests := map[string]string{
		"":              "",
		"10.0.0.1":      "10.0.0.1",
		"10.0.0.1:8080": "10.0.0.1",
		"[::1]:8080":    "::1",
		"[::1]":         "::1",
		"vault.lan:443": "vault.lan",
		"vault.lan":     "vault.lan",
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseHostNoPort(in), in)
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "127.0.0.1:5555"
	r.Header.Set("X-Forwarded-For", " 203.0.113.7 , 10.0.0.1")

	assert.Equal(t, "127.0.0.1", ClientIP(r, false), "headers are ignored without trustProxy")
	assert.Equal(t, "203.0.113.7", ClientIP(r, true))

	r.Header.Set("CF-Connecting-IP", "198.51.100.2")
	assert.Equal(t, "198.51.100.2", ClientIP(r, true))
}

func TestIPMatcher(t *testing.T) {
	m := NewIPMatcher([]string{"10.0.0.0/8", " 192.168.1.5 ", "::1", "garbage", ""})
	assert.False(t, m.IsEmpty())

	assert.True(t, m.Allow("10.20.30.40"))
	assert.True(t, m.Allow("192.168.1.5"))
	assert.True(t, m.Allow("::ffff:192.168.1.5"))
	assert.True(t, m.Allow("::1"))
	assert.False(t, m.Allow("192.168.1.6"))
	assert.False(t, m.Allow("not-an-ip"))

	assert.True(t, NewIPMatcher(nil).IsEmpty())
}
