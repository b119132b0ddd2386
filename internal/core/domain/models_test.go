package domain

import "testing"

func TestEstimateAudioSize(t *testing.T) {
	tests := []struct {
		name     string
		duration int
		bitrate  int
		expected int64
	}{
		{"zero duration", 0, 128, 0},
		{"negative duration", -10, 128, 0},
		{"one second", 1, 128, 16160},
		{"typical song", 212, 128, 3425920},
		{"typical song low bitrate", 212, 64, 1712960},
	}

	for _, test := range tests {
		desc := &VideoDescriptor{Duration: test.duration}
		got := EstimateAudioSize(desc, test.bitrate)
		if got != test.expected {
			t.Errorf("%s: EstimateAudioSize(duration=%d, bitrate=%d) = %d, expected %d",
				test.name, test.duration, test.bitrate, got, test.expected)
		}
	}
}

func TestEstimateAudioSizeMonotonic(t *testing.T) {
	var prev int64
	for duration := 0; duration <= 600; duration += 60 {
		got := EstimateAudioSize(&VideoDescriptor{Duration: duration}, 128)
		if got < prev {
			t.Fatalf("estimate decreased from %d to %d at duration %d", prev, got, duration)
		}
		prev = got
	}

	prev = 0
	for bitrate := 32; bitrate <= 320; bitrate += 32 {
		got := EstimateAudioSize(&VideoDescriptor{Duration: 180}, bitrate)
		if got < prev {
			t.Fatalf("estimate decreased from %d to %d at bitrate %d", prev, got, bitrate)
		}
		prev = got
	}
}

func TestEstimateAudioSizeNilDescriptor(t *testing.T) {
	if got := EstimateAudioSize(nil, 128); got != 0 {
		t.Errorf("EstimateAudioSize(nil) = %d, expected 0", got)
	}
}

func TestOutcome(t *testing.T) {
	success := Succeeded("/Music/2024-01-01/song.mp3")
	if !success.IsSuccess() {
		t.Error("Succeeded outcome reported as failure")
	}
	if success.Location != "/Music/2024-01-01/song.mp3" {
		t.Errorf("unexpected location: %s", success.Location)
	}

	failure := Failed(FailureTranscode, "boom")
	if failure.IsSuccess() {
		t.Error("Failed outcome reported as success")
	}
	if failure.Failure.Kind != FailureTranscode {
		t.Errorf("unexpected kind: %s", failure.Failure.Kind)
	}
	if failure.Failure.Error() != "boom" {
		t.Errorf("unexpected message: %s", failure.Failure.Error())
	}
}

func TestFailureKindString(t *testing.T) {
	tests := []struct {
		kind     FailureKind
		expected string
	}{
		{FailureUnauthorized, "unauthorized"},
		{FailureInvalidInput, "invalid_input"},
		{FailureMetadata, "metadata_error"},
		{FailureTranscode, "transcode_error"},
		{FailureUpload, "upload_error"},
		{FailureKind(99), "unknown"},
	}

	for _, test := range tests {
		if got := test.kind.String(); got != test.expected {
			t.Errorf("FailureKind(%d).String() = %s, expected %s", test.kind, got, test.expected)
		}
	}
}
