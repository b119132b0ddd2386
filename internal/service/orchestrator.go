package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"tuberelay/internal/config"
	"tuberelay/internal/core/domain"
	"tuberelay/internal/core/ports"
	"tuberelay/internal/fsutil"
)

// User-facing messages. The status message is edited in place as the
// request moves through its stages; these are the fixed texts.
const (
	MsgUnauthorized  = "Sorry, you are not authorized to use this bot."
	MsgInvalidURL    = "Please send a valid YouTube URL."
	MsgProcessing    = "Processing your request..."
	MsgMetadataError = "Could not get video information."
	MsgUploadError   = "Error uploading the file to pCloud. Please try again later."
	MsgUploadSuccess = "✅ File uploaded successfully to pCloud. You can find it in your pCloud account."
)

// Orchestrator coordinates one request from authorization through metadata
// resolution, transcode, upload and cleanup, producing exactly one terminal
// outcome.
type Orchestrator struct {
	cfg        *config.Config
	resolver   ports.Resolver
	transcoder ports.Transcoder
	store      ports.RemoteStore
	messenger  ports.Messenger
	logger     *log.Logger
	now        func() time.Time
}

// NewOrchestrator creates a new Orchestrator.
func NewOrchestrator(
	cfg *config.Config,
	resolver ports.Resolver,
	transcoder ports.Transcoder,
	store ports.RemoteStore,
	messenger ports.Messenger,
	logger *log.Logger,
) *Orchestrator {
	return &Orchestrator{
		cfg:        cfg,
		resolver:   resolver,
		transcoder: transcoder,
		store:      store,
		messenger:  messenger,
		logger:     logger,
		now:        time.Now,
	}
}

// HandleRequest runs the full pipeline for one URL submission. It blocks
// until the terminal outcome is reached and must therefore be called from
// its own goroutine; the progress relay keeps the status message updated
// while the transcode call blocks.
func (o *Orchestrator) HandleRequest(ctx context.Context, req domain.Request) domain.Outcome {
	reqID := uuid.New().String()

	if !o.cfg.IsAllowed(req.UserID) {
		o.logger.Printf("[REQ %s] rejected unauthorized user %d", reqID, req.UserID)
		o.send(req.ChatID, MsgUnauthorized)
		return domain.Failed(domain.FailureUnauthorized, fmt.Sprintf("user %d not in allow-list", req.UserID))
	}

	if !domain.IsYouTubeURL(req.Text) {
		o.logger.Printf("[REQ %s] rejected invalid URL %q", reqID, req.Text)
		o.send(req.ChatID, MsgInvalidURL)
		return domain.Failed(domain.FailureInvalidInput, "not a YouTube URL")
	}

	statusID, err := o.messenger.Send(req.ChatID, MsgProcessing)
	if err != nil {
		// No display surface; keep going, edits fail softly below.
		o.logger.Printf("[REQ %s] failed to send status message: %v", reqID, err)
	}

	o.logger.Printf("[REQ %s] resolving metadata for %s", reqID, req.Text)
	desc, err := o.resolver.Resolve(ctx, req.Text)
	if err != nil {
		o.logger.Printf("[REQ %s] metadata resolution failed: %v", reqID, err)
		o.edit(req.ChatID, statusID, MsgMetadataError)
		return domain.Failed(domain.FailureMetadata, err.Error())
	}

	estimated := domain.EstimateAudioSize(desc, domain.DefaultBitrateKbps)
	o.logger.Printf("[REQ %s] found %q (%ds, est. %s)", reqID, desc.Title, desc.Duration, fsutil.FormatSize(estimated))
	o.edit(req.ChatID, statusID, fmt.Sprintf(
		"Found: %s\nDuration: %d seconds\nEstimated MP3 size: %s\nStarting download...",
		desc.Title, desc.Duration, fsutil.FormatSize(estimated)))

	relay := NewRelay(func(ev domain.ProgressEvent) error {
		return o.messenger.Edit(req.ChatID, statusID, fmt.Sprintf(
			"Converting: %s\n%s\nProgress: %.1f%%", desc.Title, ev.Status, ev.Fraction))
	}, o.logger)

	artifact, terr := o.transcoder.Run(ctx, req.Text, relay.Push)
	// Stop the relay only after the blocking call returned, so the final
	// progress event is drained before we move on.
	relay.Close()

	if terr != nil {
		o.logger.Printf("[REQ %s] transcode failed: %v", reqID, terr)
		o.edit(req.ChatID, statusID, fmt.Sprintf("Error: %s", terr.Error()))
		return domain.Failed(domain.FailureTranscode, terr.Error())
	}

	o.logger.Printf("[REQ %s] transcode done: %s (%s)", reqID, artifact.Path, fsutil.FormatSize(artifact.Size))
	o.edit(req.ChatID, statusID, fmt.Sprintf("Download complete: %s\nUploading to pCloud...", desc.Title))

	outcome := o.uploadAndCleanup(ctx, reqID, req.ChatID, statusID, artifact)
	if outcome.IsSuccess() {
		o.logger.Printf("[REQ %s] completed: %s", reqID, outcome.Location)
	} else {
		o.logger.Printf("[REQ %s] failed (%s): %s", reqID, outcome.Failure.Kind, outcome.Failure.Message)
	}
	return outcome
}

// uploadAndCleanup uploads the artifact into the date folder and always
// removes the local file afterwards, whether or not the upload succeeded.
func (o *Orchestrator) uploadAndCleanup(ctx context.Context, reqID string, chatID int64, statusID int, artifact *domain.Artifact) domain.Outcome {
	defer func() {
		if err := os.Remove(artifact.Path); err != nil {
			o.logger.Printf("[REQ %s] error cleaning up temporary file %s: %v", reqID, artifact.Path, err)
		} else {
			o.logger.Printf("[REQ %s] cleaned up temporary file: %s", reqID, artifact.Path)
		}
	}()

	segments := append(fsutil.PathSegments(o.cfg.PCloud.BaseFolder), o.now().Format("2006-01-02"))
	folderID, err := o.store.EnsurePath(ctx, segments)
	if err != nil {
		o.logger.Printf("[REQ %s] folder provisioning failed: %v", reqID, err)
		o.edit(chatID, statusID, MsgUploadError)
		return domain.Failed(domain.FailureUpload, err.Error())
	}

	file, err := os.Open(artifact.Path)
	if err != nil {
		o.logger.Printf("[REQ %s] failed to open artifact: %v", reqID, err)
		o.edit(chatID, statusID, MsgUploadError)
		return domain.Failed(domain.FailureUpload, err.Error())
	}
	defer file.Close()

	filename := filepath.Base(artifact.Path)
	fileID, err := o.store.Upload(ctx, folderID, filename, file)
	if err != nil {
		o.logger.Printf("[REQ %s] upload failed: %v", reqID, err)
		o.edit(chatID, statusID, MsgUploadError)
		return domain.Failed(domain.FailureUpload, err.Error())
	}

	o.logger.Printf("[REQ %s] uploaded %s as file %d", reqID, filename, fileID)
	o.edit(chatID, statusID, MsgUploadSuccess)
	return domain.Succeeded(fmt.Sprintf("/%s/%s", strings.Join(segments, "/"), filename))
}

func (o *Orchestrator) send(chatID int64, text string) {
	if _, err := o.messenger.Send(chatID, text); err != nil {
		o.logger.Printf("failed to send message: %v", err)
	}
}

func (o *Orchestrator) edit(chatID int64, messageID int, text string) {
	if err := o.messenger.Edit(chatID, messageID, text); err != nil {
		o.logger.Printf("failed to edit status message: %v", err)
	}
}
