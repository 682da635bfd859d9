// Package video turns YouTube and Vimeo URLs into embeddable player data.
package video

import (
	"fmt"
	"regexp"
	"strings"
)

// Platform identifies the hosting service of a parsed video URL.
type Platform string

const (
	PlatformYouTube Platform = "youtube"
	PlatformVimeo   Platform = "vimeo"
)

// Data holds the derived embed and thumbnail URLs for a video.
type Data struct {
	EmbedURL     string
	ThumbnailURL string
	VideoID      string
	Platform     Platform
}

var (
	youtubeIDPattern = regexp.MustCompile(`(?:youtube\.com/(?:[^/]+/.+/|(?:v|e(?:mbed)?)/|.*[?&]v=)|youtu\.be/)([^"&?/\s]{11})`)
	vimeoIDPattern   = regexp.MustCompile(`vimeo\.com/(?:channels/(?:\w+/)?|groups/[^/]*/videos/|album/\d+/video/|video/|)(\d+)(?:$|/|\?)`)
)

// Parse extracts embed data from a YouTube or Vimeo URL. Returns nil for
// URLs of any other shape.
func Parse(rawURL string) *Data {
	cleanURL := strings.TrimSpace(rawURL)
	if cleanURL == "" {
		return nil
	}

	if m := youtubeIDPattern.FindStringSubmatch(cleanURL); m != nil {
		id := m[1]
		return &Data{
			EmbedURL:     fmt.Sprintf("https://www.youtube.com/embed/%s?rel=0&modestbranding=1", id),
			ThumbnailURL: fmt.Sprintf("https://img.youtube.com/vi/%s/maxresdefault.jpg", id),
			VideoID:      id,
			Platform:     PlatformYouTube,
		}
	}

	if m := vimeoIDPattern.FindStringSubmatch(cleanURL); m != nil {
		id := m[1]
		return &Data{
			EmbedURL:     fmt.Sprintf("https://player.vimeo.com/video/%s?title=0&byline=0&portrait=0", id),
			ThumbnailURL: fmt.Sprintf("https://vumbnail.com/%s.jpg", id),
			VideoID:      id,
			Platform:     PlatformVimeo,
		}
	}

	return nil
}

// IsValid reports whether the URL belongs to a supported platform.
func IsValid(rawURL string) bool {
	return Parse(rawURL) != nil
}
