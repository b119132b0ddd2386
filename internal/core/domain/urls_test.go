package domain

import "testing"

func TestIsYouTubeURL(t *testing.T) {
	tests := []struct {
		url      string
		expected bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", true},
		{"http://youtube.com/watch?v=dQw4w9WgXcQ", true},
		{"https://youtu.be/dQw4w9WgXcQ", true},
		{"www.youtube.com/watch?v=dQw4w9WgXcQ", true},
		{"https://www.youtube-nocookie.com/embed/dQw4w9WgXcQ", true},
		{"https://www.youtube.com/v/dQw4w9WgXcQ", true},
		{"https://not-youtube.com/watch?v=dQw4w9WgXcQ", false},
		{"https://vimeo.com/123456", false},
		{"just some text", false},
		{"", false},
	}

	for _, test := range tests {
		if got := IsYouTubeURL(test.url); got != test.expected {
			t.Errorf("IsYouTubeURL(%q) = %v, expected %v", test.url, got, test.expected)
		}
	}
}

func TestVideoID(t *testing.T) {
	tests := []struct {
		url      string
		expected string
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42", "dQw4w9WgXcQ"},
		{"not a url at all", ""},
	}

	for _, test := range tests {
		if got := VideoID(test.url); got != test.expected {
			t.Errorf("VideoID(%q) = %q, expected %q", test.url, got, test.expected)
		}
	}
}
