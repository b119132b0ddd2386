package domain

import "regexp"

var (
	youtubeURLPattern = regexp.MustCompile(`^(https?://)?(www\.)?(youtube|youtu|youtube-nocookie)\.(com|be)/(watch\?v=|embed/|v/|.+\?v=)?([^&=%?]{11})`)

	videoIDPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:v=|/)([0-9A-Za-z_-]{11})`),
		regexp.MustCompile(`(?:be/)([0-9A-Za-z_-]{11})`),
	}
)

// IsYouTubeURL reports whether the text looks like a YouTube video URL.
func IsYouTubeURL(url string) bool {
	return youtubeURLPattern.MatchString(url)
}

// VideoID extracts the 11-character video ID from a YouTube URL, or returns
// an empty string when none is found.
func VideoID(url string) string {
	for _, p := range videoIDPatterns {
		if m := p.FindStringSubmatch(url); m != nil {
			return m[1]
		}
	}
	return ""
}
