package audio

import (
	"math"
	"strings"

	"trackscan/internal/language"
	"trackscan/internal/media/ffprobe"
)

// maxTitleLength bounds the track title carried into reports.
const maxTitleLength = 40

// Track is one audio stream within a movie container. Immutable once built.
type Track struct {
	// Ordinal is the position within the movie's audio streams, zero-based.
	// ffmpeg's -map 0:a:N addressing uses the same numbering.
	Ordinal int
	// StreamIndex is the container-wide stream index ffprobe reported.
	StreamIndex int
	// Language is the normalized tag value, or language.Unknown.
	Language string
	Codec    string
	Channels int
	// BitrateBits is bits per second; zero when neither reported nor estimable.
	BitrateBits int64
	// BitrateEstimated is set when BitrateBits came from the AAC
	// channels x sample-rate heuristic rather than the container.
	BitrateEstimated bool
	Title            string
	// SizeBytes is the estimated track size (bitrate x duration / 8), zero
	// when the bitrate is unknown.
	SizeBytes int64
}

// Movie groups the probed audio tracks of one file. CanonicalLanguage is only
// populated when a lookup was requested and succeeded. ProbeErr records a
// failed probe; a movie with ProbeErr set has no tracks.
type Movie struct {
	Path              string
	Tracks            []Track
	CanonicalLanguage string
	ProbeErr          error
}

// TrackCount returns the number of probed audio tracks.
func (m Movie) TrackCount() int { return len(m.Tracks) }

// FromProbe converts an ffprobe result into the ordered track list.
func FromProbe(result ffprobe.Result) []Track {
	streams := result.AudioStreams()
	duration := result.DurationSeconds()
	tracks := make([]Track, 0, len(streams))
	for ordinal, stream := range streams {
		track := Track{
			Ordinal:     ordinal,
			StreamIndex: stream.Index,
			Language:    language.FromTags(stream.Tags),
			Codec:       stream.CodecName,
			Channels:    stream.Channels,
			Title:       truncateTitle(stream.Tags["title"]),
		}
		track.BitrateBits, track.BitrateEstimated = resolveBitrate(stream)
		track.SizeBytes = estimateSize(track.BitrateBits, duration)
		tracks = append(tracks, track)
	}
	return tracks
}

// resolveBitrate prefers the container-reported bitrate. AAC streams rarely
// carry one, so fall back to channels x sample rate, the same estimate the
// report marks with "~".
func resolveBitrate(stream ffprobe.Stream) (int64, bool) {
	if rate := stream.BitRateBits(); rate > 0 {
		return rate, false
	}
	if strings.EqualFold(stream.CodecName, "aac") && stream.Channels > 0 {
		if sampleRate := stream.SampleRateHz(); sampleRate > 0 {
			return int64(stream.Channels) * int64(sampleRate), true
		}
	}
	return 0, false
}

func estimateSize(bitrateBits int64, durationSeconds float64) int64 {
	if bitrateBits <= 0 || durationSeconds <= 0 || math.IsNaN(durationSeconds) {
		return 0
	}
	return int64(float64(bitrateBits) * durationSeconds / 8)
}

func truncateTitle(title string) string {
	title = strings.TrimSpace(title)
	// Count characters, not bytes; slicing the string directly would split
	// multi-byte titles mid-rune.
	runes := []rune(title)
	if len(runes) > maxTitleLength {
		return string(runes[:maxTitleLength])
	}
	return title
}
