package helpers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTagFilter(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want []string
	}{
		{name: "no tags", url: "http://test/events", want: []string{}},
		{name: "single tag", url: "http://test/events?tags=go", want: []string{"go"}},
		{name: "repeated param", url: "http://test/events?tags=go&tags=music", want: []string{"go", "music"}},
		{name: "duplicates collapse", url: "http://test/events?tags=go&tags=go", want: []string{"go"}},
		{name: "blanks dropped", url: "http://test/events?tags=&tags=go&tags=%20", want: []string{"go"}},
		{name: "case sensitive", url: "http://test/events?tags=Go&tags=go", want: []string{"Go", "go"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tt.url, nil)
			assert.Equal(t, tt.want, ParseTagFilter(r))
		})
	}
}

func TestHasUpcomingFlag(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want bool
	}{
		{name: "absent", url: "http://test/events", want: false},
		{name: "bare key", url: "http://test/events?upcoming", want: true},
		{name: "true value", url: "http://test/events?upcoming=true", want: true},
		{name: "any value counts", url: "http://test/events?upcoming=false", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tt.url, nil)
			assert.Equal(t, tt.want, HasUpcomingFlag(r))
		})
	}
}
