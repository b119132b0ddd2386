package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/lrstanley/go-ytdlp"

	"tuberelay/internal/core/domain"
)

const resolveTimeout = 2 * time.Minute

// Resolver fetches video metadata through yt-dlp without downloading.
type Resolver struct {
	logger *log.Logger
}

// NewResolver creates a new Resolver.
func NewResolver(logger *log.Logger) *Resolver {
	return &Resolver{logger: logger}
}

// rawInfo mirrors the subset of yt-dlp's JSON output we care about.
type rawInfo struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Duration       float64 `json:"duration"`
	FilesizeApprox int64   `json:"filesize_approx"`
	AgeLimit       int     `json:"age_limit"`
	Thumbnail      string  `json:"thumbnail"`
	Description    string  `json:"description"`
	Uploader       string  `json:"uploader"`
}

// Resolve extracts the video descriptor for the given URL.
func (r *Resolver) Resolve(ctx context.Context, url string) (*domain.VideoDescriptor, error) {
	ctx, cancel := context.WithTimeout(ctx, resolveTimeout)
	defer cancel()

	res, err := ytdlp.New().
		DumpSingleJSON().
		SkipDownload().
		NoWarnings().
		NoPlaylist().
		Run(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to extract video info: %w", err)
	}

	var info rawInfo
	if err := json.Unmarshal([]byte(res.Stdout), &info); err != nil {
		return nil, fmt.Errorf("failed to parse video info: %w", err)
	}
	if info.Duration <= 0 {
		return nil, fmt.Errorf("no duration reported for %s", url)
	}

	uploader := info.Uploader
	if uploader == "" {
		uploader = "Unknown"
	}

	desc := &domain.VideoDescriptor{
		ID:             info.ID,
		Title:          info.Title,
		Duration:       int(info.Duration),
		FilesizeApprox: info.FilesizeApprox,
		AgeRestricted:  info.AgeLimit > 0,
		Thumbnail:      info.Thumbnail,
		Description:    info.Description,
		Uploader:       uploader,
	}
	r.logger.Printf("resolved %q (%ds) from %s", desc.Title, desc.Duration, url)
	return desc, nil
}
