package domain

import "math"

// DefaultBitrateKbps is the fixed MP3 target bitrate. It is deliberately not
// configurable so that size estimates stay deterministic.
const DefaultBitrateKbps = 128

// VideoDescriptor holds the metadata of one remote video, produced by a
// single resolution call and never mutated afterwards.
type VideoDescriptor struct {
	ID             string
	Title          string
	Duration       int // in seconds
	FilesizeApprox int64
	AgeRestricted  bool
	Thumbnail      string
	Description    string
	Uploader       string
}

// ProgressEvent is one progress snapshot emitted by the transcode worker.
// Fraction is a percentage in [0,100].
type ProgressEvent struct {
	Fraction float64
	Status   string
}

// Artifact is the locally produced transcoded file awaiting upload.
type Artifact struct {
	Path string
	Size int64
}

// Request is one inbound URL submission from the chat front end.
type Request struct {
	ChatID int64
	UserID int64
	Text   string
}

// FailureKind classifies the terminal failure of a request.
type FailureKind int

const (
	FailureUnauthorized FailureKind = iota
	FailureInvalidInput
	FailureMetadata
	FailureTranscode
	FailureUpload
)

// String returns the string representation of FailureKind.
func (k FailureKind) String() string {
	switch k {
	case FailureUnauthorized:
		return "unauthorized"
	case FailureInvalidInput:
		return "invalid_input"
	case FailureMetadata:
		return "metadata_error"
	case FailureTranscode:
		return "transcode_error"
	case FailureUpload:
		return "upload_error"
	default:
		return "unknown"
	}
}

// Failure is the typed terminal failure of a request.
type Failure struct {
	Kind    FailureKind
	Message string
}

func (f *Failure) Error() string {
	return f.Message
}

// Outcome is the single terminal result of one request: either a success
// with a location description, or a typed failure.
type Outcome struct {
	Location string
	Failure  *Failure
}

// Succeeded builds a successful outcome.
func Succeeded(location string) Outcome {
	return Outcome{Location: location}
}

// Failed builds a failed outcome of the given kind.
func Failed(kind FailureKind, message string) Outcome {
	return Outcome{Failure: &Failure{Kind: kind, Message: message}}
}

// IsSuccess reports whether the request reached its success terminal state.
func (o Outcome) IsSuccess() bool {
	return o.Failure == nil
}

// EstimateAudioSize estimates the final MP3 size in bytes from the video
// duration and target bitrate. The 1% multiplier accounts for container and
// metadata overhead. Non-positive durations yield 0.
func EstimateAudioSize(desc *VideoDescriptor, bitrateKbps int) int64 {
	if desc == nil || desc.Duration <= 0 || bitrateKbps <= 0 {
		return 0
	}
	return int64(math.Round(float64(bitrateKbps) * 1000 / 8 * float64(desc.Duration) * 1.01))
}
