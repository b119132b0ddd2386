package youtube

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"

	"tuberelay/internal/core/domain"
	"tuberelay/internal/core/ports"
	"tuberelay/internal/fsutil"
)

// progressFrequency is how often yt-dlp reports download progress to the
// hook. The relay on the consumer side rate-limits further.
const progressFrequency = 500 * time.Millisecond

// Transcoder drives the blocking download+transcode call, producing an MP3
// artifact in the temp directory.
type Transcoder struct {
	resolver   ports.Resolver
	tempDir    string
	ffmpegPath string
	logger     *log.Logger
}

// NewTranscoder creates a new Transcoder writing into tempDir.
func NewTranscoder(resolver ports.Resolver, tempDir, ffmpegPath string, logger *log.Logger) *Transcoder {
	return &Transcoder{
		resolver:   resolver,
		tempDir:    tempDir,
		ffmpegPath: ffmpegPath,
		logger:     logger,
	}
}

// Run downloads the video's audio and transcodes it to MP3 at the fixed
// bitrate, invoking onProgress for every yt-dlp progress report. It blocks
// until the artifact exists or the operation failed.
func (t *Transcoder) Run(ctx context.Context, url string, onProgress func(domain.ProgressEvent)) (*domain.Artifact, error) {
	desc, err := t.resolver.Resolve(ctx, url)
	if err != nil {
		return nil, err
	}

	safeTitle := fsutil.SafeFilename(desc.Title)
	outputPath := filepath.Join(t.tempDir, safeTitle+".mp3")

	dl := ytdlp.New().
		Format("bestaudio/best").
		ExtractAudio().
		AudioFormat("mp3").
		AudioQuality(fmt.Sprintf("%dK", domain.DefaultBitrateKbps)).
		NoPlaylist().
		NoWarnings().
		Output(filepath.Join(t.tempDir, safeTitle) + ".%(ext)s")
	if t.ffmpegPath != "" {
		dl = dl.FFmpegLocation(t.ffmpegPath)
	}

	dl.ProgressFunc(progressFrequency, func(update ytdlp.ProgressUpdate) {
		switch update.Status {
		case ytdlp.ProgressStatusDownloading:
			total := int64(update.TotalBytes)
			if total <= 0 {
				return
			}
			downloaded := int64(update.DownloadedBytes)
			onProgress(domain.ProgressEvent{
				Fraction: float64(downloaded) / float64(total) * 100,
				Status:   fmt.Sprintf("Downloading: %s / %s", fsutil.FormatSize(downloaded), fsutil.FormatSize(total)),
			})
		case ytdlp.ProgressStatusFinished:
			// Transcode progress is not separately observable; the download
			// being complete is reported as 100%.
			onProgress(domain.ProgressEvent{
				Fraction: 100,
				Status:   "Download complete, converting to MP3...",
			})
		}
	})

	t.logger.Printf("downloading and converting %q", desc.Title)
	if _, err := dl.Run(ctx, url); err != nil {
		return nil, fmt.Errorf("failed to download/convert video: %w", err)
	}

	info, err := os.Stat(outputPath)
	if err != nil {
		return nil, t.missingOutputError(safeTitle)
	}

	t.logger.Printf("created MP3: %s (%s)", outputPath, fsutil.FormatSize(info.Size()))
	return &domain.Artifact{Path: outputPath, Size: info.Size()}, nil
}

// missingOutputError reports what the working directory actually contains
// when the expected output path is absent. The external tool occasionally
// picks a different extension; naming the stray files makes that visible.
func (t *Transcoder) missingOutputError(stem string) error {
	entries, err := os.ReadDir(t.tempDir)
	if err == nil {
		var found []string
		for _, entry := range entries {
			if strings.HasPrefix(entry.Name(), stem) {
				found = append(found, entry.Name())
			}
		}
		if len(found) > 0 {
			return fmt.Errorf("found unexpected files: %s", strings.Join(found, ", "))
		}
	}
	return errors.New("MP3 file was not created")
}
