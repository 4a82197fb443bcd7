package tts

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mysomang/mytalk/internal/dialogue"
)

// Result is one synthesized turn: the turn it voices, the audio file it
// produced, and the voice identity used.
type Result struct {
	Turn  dialogue.Turn
	Path  string
	Voice Voice
}

// SynthesizeTurns voices each turn into its own file under dir, named
// NN_role_voice.mp3 so the files sort in turn order. A failed turn is
// logged and skipped; the batch never fails as a whole. Calls run
// sequentially in turn order.
func SynthesizeTurns(ctx context.Context, p Provider, turns []dialogue.Turn, voices VoicePair, dir string, logger *slog.Logger, onTurn func(done, total int)) ([]Result, error) {
	results := make([]Result, 0, len(turns))

	for i, turn := range turns {
		if ctx.Err() != nil {
			return results, ctx.Err()
		}

		voice := voices.ForRole(turn.Role)

		var audio AudioResult
		err := WithRetry(ctx, func() error {
			var synthErr error
			audio, synthErr = p.Synthesize(ctx, turn.Text, voice)
			return synthErr
		})
		if err != nil {
			logger.Warn("turn synthesis failed, skipping",
				"turn", turn.Order,
				"role", turn.Role,
				"error", err)
			continue
		}

		path := filepath.Join(dir, fmt.Sprintf("%02d_%s_%s.%s", turn.Order, turn.Role, voice.ID, audio.Format))
		if err := os.WriteFile(path, audio.Data, 0644); err != nil {
			logger.Warn("write turn audio failed, skipping",
				"turn", turn.Order,
				"path", path,
				"error", err)
			continue
		}

		results = append(results, Result{Turn: turn, Path: path, Voice: voice})
		if onTurn != nil {
			onTurn(i+1, len(turns))
		}
	}

	return results, nil
}

// SynthesizeText voices a whole narration script into a single file.
func SynthesizeText(ctx context.Context, p Provider, text string, voice Voice, path string) error {
	var audio AudioResult
	err := WithRetry(ctx, func() error {
		var synthErr error
		audio, synthErr = p.Synthesize(ctx, text, voice)
		return synthErr
	})
	if err != nil {
		return fmt.Errorf("synthesize narration: %w", err)
	}
	if err := os.WriteFile(path, audio.Data, 0644); err != nil {
		return fmt.Errorf("write narration audio: %w", err)
	}
	return nil
}
