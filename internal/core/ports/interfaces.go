package ports

import (
	"context"
	"io"

	"tuberelay/internal/core/domain"
)

// Resolver defines the contract for fetching video metadata.
type Resolver interface {
	// Resolve retrieves the descriptor for the given video URL. It performs
	// one network call and does not mutate shared state.
	Resolve(ctx context.Context, url string) (*domain.VideoDescriptor, error)
}

// Transcoder defines the contract for the blocking download+transcode call.
type Transcoder interface {
	// Run downloads the video and transcodes it to MP3, invoking onProgress
	// for every progress snapshot. It blocks until the artifact exists or
	// the operation failed; callers must run it off their latency-critical
	// path.
	Run(ctx context.Context, url string, onProgress func(domain.ProgressEvent)) (*domain.Artifact, error)
}

// RemoteStore defines the contract for persisting artifacts remotely.
type RemoteStore interface {
	// EnsurePath walks the folder path one segment at a time, creating
	// missing folders and reusing existing ones, and returns the ID of the
	// final folder. It is safe to call concurrently for the same path.
	EnsurePath(ctx context.Context, segments []string) (int64, error)

	// Upload stores the file contents under the given folder and returns
	// the remote file ID.
	Upload(ctx context.Context, folderID int64, filename string, data io.Reader) (int64, error)
}

// Messenger defines the two chat primitives the pipeline depends on:
// sending a new message and editing an existing one in place.
type Messenger interface {
	// Send posts a new message and returns its message ID for later edits.
	Send(chatID int64, text string) (int, error)

	// Edit replaces the text of a previously sent message.
	Edit(chatID int64, messageID int, text string) error
}
