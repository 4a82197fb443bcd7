package assembly

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Audio quality constants for consistent output across re-encoding runs.
const (
	AudioBitrate    = "192k"
	AudioSampleRate = "44100"
	AudioChannels   = "2"
	AudioCodec      = "libmp3lame"
	AudioQuality    = "0" // LAME quality (0 = best)

	// Silence inserted between turns on the re-encode path.
	gapSeconds = "1"

	// Cap on any single media-tool invocation.
	commandTimeout = 60 * time.Second
)

// FFmpegAssembler shells out to ffmpeg/ffprobe. The binary names are
// fields so tests can point them at stand-ins.
type FFmpegAssembler struct {
	ffmpeg  string
	ffprobe string
}

func NewFFmpegAssembler() *FFmpegAssembler {
	return &FFmpegAssembler{ffmpeg: "ffmpeg", ffprobe: "ffprobe"}
}

// NewFFmpegAssemblerWith uses explicit binary paths.
func NewFFmpegAssemblerWith(ffmpeg, ffprobe string) *FFmpegAssembler {
	return &FFmpegAssembler{ffmpeg: ffmpeg, ffprobe: ffprobe}
}

// concatCopy is the primary path: stream-copy concatenation through a
// manifest, no re-encoding. Nonzero exit or empty output is a failure.
func (a *FFmpegAssembler) concatCopy(ctx context.Context, files []string, tmpDir, output string) error {
	listPath := filepath.Join(tmpDir, "concat.txt")
	if err := writeConcatList(files, "", listPath); err != nil {
		return err
	}
	defer os.Remove(listPath)

	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	if err := a.run(ctx,
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c", "copy",
		"-y",
		output,
	); err != nil {
		return err
	}
	return verifyOutput(output)
}

// concatReencode is the fallback path: a generated silence clip is
// interleaved between turns and the whole list is re-encoded.
func (a *FFmpegAssembler) concatReencode(ctx context.Context, files []string, tmpDir, output string) error {
	silencePath := filepath.Join(tmpDir, "silence.mp3")
	if err := a.generateSilence(ctx, silencePath); err != nil {
		return fmt.Errorf("generate silence: %w", err)
	}

	listPath := filepath.Join(tmpDir, "concat_gaps.txt")
	if err := writeConcatList(files, silencePath, listPath); err != nil {
		return err
	}
	defer os.Remove(listPath)

	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	if err := a.run(ctx,
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c:a", AudioCodec,
		"-b:a", AudioBitrate,
		"-q:a", AudioQuality,
		"-ar", AudioSampleRate,
		"-ac", AudioChannels,
		"-y",
		output,
	); err != nil {
		return err
	}
	return verifyOutput(output)
}

func (a *FFmpegAssembler) generateSilence(ctx context.Context, output string) error {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	return a.run(ctx,
		"-f", "lavfi",
		"-i", fmt.Sprintf("anullsrc=r=%s:cl=stereo", AudioSampleRate),
		"-t", gapSeconds,
		"-c:a", AudioCodec,
		"-b:a", AudioBitrate,
		"-y",
		output,
	)
}

func (a *FFmpegAssembler) run(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, a.ffmpeg, args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	cmd.Stdout = nil

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg failed: %w\n%s", err, stderr.String())
	}
	return nil
}

// writeConcatList writes an ffmpeg concat manifest. When silencePath is
// non-empty it is inserted between clips, never after the last one.
func writeConcatList(files []string, silencePath, listPath string) error {
	var lines []string
	for i, f := range files {
		lines = append(lines, fmt.Sprintf("file '%s'", f))
		if silencePath != "" && i < len(files)-1 {
			lines = append(lines, fmt.Sprintf("file '%s'", silencePath))
		}
	}

	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(listPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("write concat list: %w", err)
	}
	return nil
}

func verifyOutput(output string) error {
	info, err := os.Stat(output)
	if err != nil {
		return fmt.Errorf("output file not created: %w", err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("output file is empty")
	}
	return nil
}

// Duration returns the track length as M:SS, or "" if ffprobe is
// unavailable or the file cannot be probed.
func (a *FFmpegAssembler) Duration(path string) string {
	out, err := exec.Command(a.ffprobe,
		"-v", "quiet",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	).Output()
	if err != nil {
		return ""
	}
	s := strings.TrimSpace(string(out))
	var secs float64
	if _, err := fmt.Sscanf(s, "%f", &secs); err != nil {
		return ""
	}
	mins := int(secs) / 60
	remainSecs := int(secs) % 60
	return fmt.Sprintf("%d:%02d", mins, remainSecs)
}
