package ffprobe

import (
	"math"
	"testing"
)

const samplePayload = `{
  "streams": [
    {"index": 0, "codec_name": "h264", "codec_type": "video"},
    {"index": 1, "codec_name": "aac", "codec_type": "audio", "channels": 6,
     "sample_rate": "48000", "tags": {"language": "eng", "title": "Surround"}},
    {"index": 2, "codec_name": "ac3", "codec_type": "audio", "channels": 2,
     "bit_rate": "192000", "tags": {"language": "fre"}}
  ],
  "format": {"filename": "movie.mkv", "nb_streams": 3, "duration": "5400.5", "size": "734003200"}
}`

func TestParse(t *testing.T) {
	result, err := Parse([]byte(samplePayload))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	audio := result.AudioStreams()
	if len(audio) != 2 {
		t.Fatalf("expected 2 audio streams, got %d", len(audio))
	}
	if audio[0].Tags["language"] != "eng" || audio[0].Tags["title"] != "Surround" {
		t.Fatalf("unexpected tags: %v", audio[0].Tags)
	}
	if audio[0].SampleRateHz() != 48000 {
		t.Fatalf("unexpected sample rate: %d", audio[0].SampleRateHz())
	}
	if audio[1].BitRateBits() != 192000 {
		t.Fatalf("unexpected bitrate: %d", audio[1].BitRateBits())
	}
	if result.DurationSeconds() != 5400.5 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 734003200 {
		t.Fatalf("unexpected size: %d", result.SizeBytes())
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := Parse([]byte("not json")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestHelpersHandleInvalidNumbers(t *testing.T) {
	result := Result{Format: Format{Duration: "bad", Size: "-1"}}
	if !math.IsNaN(result.DurationSeconds()) {
		t.Fatalf("expected duration NaN, got %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 0 {
		t.Fatalf("expected size 0, got %d", result.SizeBytes())
	}
	stream := Stream{BitRate: "nope", SampleRate: ""}
	if stream.BitRateBits() != 0 {
		t.Fatalf("expected bitrate 0, got %d", stream.BitRateBits())
	}
	if stream.SampleRateHz() != 0 {
		t.Fatalf("expected sample rate 0, got %d", stream.SampleRateHz())
	}
}
