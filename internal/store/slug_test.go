package store

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Lumen Cube", "lumen-cube"},
		{"Lumen Cube v2!", "lumen-cube-v2"},
		{"  spaces  everywhere  ", "spaces-everywhere"},
		{"already-a-slug", "already-a-slug"},
		{"CAPS & symbols #1", "caps-symbols-1"},
		{"!!!", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
