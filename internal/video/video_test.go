package video

import "testing"

func TestParseYouTube(t *testing.T) {
	urls := []string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ",
		"https://www.youtube.com/embed/dQw4w9WgXcQ",
		"https://m.youtube.com/watch?v=dQw4w9WgXcQ",
	}
	for _, url := range urls {
		d := Parse(url)
		if d == nil {
			t.Errorf("Parse(%q) = nil, want youtube data", url)
			continue
		}
		if d.Platform != PlatformYouTube {
			t.Errorf("platform = %q, want youtube", d.Platform)
		}
		if d.VideoID != "dQw4w9WgXcQ" {
			t.Errorf("video id = %q, want dQw4w9WgXcQ", d.VideoID)
		}
		if d.EmbedURL != "https://www.youtube.com/embed/dQw4w9WgXcQ?rel=0&modestbranding=1" {
			t.Errorf("embed url = %q", d.EmbedURL)
		}
	}
}

func TestParseVimeo(t *testing.T) {
	urls := []string{
		"https://vimeo.com/123456789",
		"https://player.vimeo.com/video/123456789",
	}
	for _, url := range urls {
		d := Parse(url)
		if d == nil {
			t.Errorf("Parse(%q) = nil, want vimeo data", url)
			continue
		}
		if d.Platform != PlatformVimeo {
			t.Errorf("platform = %q, want vimeo", d.Platform)
		}
		if d.VideoID != "123456789" {
			t.Errorf("video id = %q, want 123456789", d.VideoID)
		}
	}
}

func TestParseUnsupported(t *testing.T) {
	urls := []string{
		"",
		"not a url",
		"https://example.com/video/123",
		"https://dailymotion.com/video/x7abc",
	}
	for _, url := range urls {
		if d := Parse(url); d != nil {
			t.Errorf("Parse(%q) = %+v, want nil", url, d)
		}
	}
}
