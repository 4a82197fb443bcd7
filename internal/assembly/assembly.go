// Package assembly concatenates per-turn audio clips into a single
// ordered track.
package assembly

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mysomang/mytalk/internal/tts"
)

// Track is the assembly output. MergedPath is empty when both
// concatenation paths failed; Results is always the full ordered list of
// synthesized turns so turn-by-turn playback stays possible.
type Track struct {
	MergedPath string
	Results    []tts.Result
}

// Merged reports whether a merged artifact was produced.
func (t Track) Merged() bool { return t.MergedPath != "" }

// Assemble concatenates the turn clips into output. The stream-copy path
// is tried first; on failure the re-encoding path with silence gaps runs.
// The returned error is non-nil only when both paths failed, and the
// Track is still usable in that degraded state.
func (a *FFmpegAssembler) Assemble(ctx context.Context, results []tts.Result, tmpDir, output string, logger *slog.Logger) (Track, error) {
	track := Track{Results: results}
	if len(results) == 0 {
		return track, fmt.Errorf("no audio clips to assemble")
	}

	files := make([]string, len(results))
	for i, r := range results {
		files[i] = r.Path
	}

	copyErr := a.concatCopy(ctx, files, tmpDir, output)
	if copyErr == nil {
		track.MergedPath = output
		return track, nil
	}
	logger.Warn("stream-copy concat failed, re-encoding", "error", copyErr)

	reencodeErr := a.concatReencode(ctx, files, tmpDir, output)
	if reencodeErr == nil {
		track.MergedPath = output
		return track, nil
	}

	return track, fmt.Errorf("merge failed (stream copy: %v; re-encode: %v)", copyErr, reencodeErr)
}
