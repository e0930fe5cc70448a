package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"spendy/internal/amqp"
	"spendy/internal/genai"
	"spendy/internal/storage"
)

// IconWorker renders persona icons for archived snapshots. Icons are keyed
// by category, so a persona that already has one is served from the store
// and the generation call is skipped.
type IconWorker struct {
	icons storage.IconStore
	ai    genai.Client
}

func NewIconWorker(icons storage.IconStore, ai genai.Client) *IconWorker {
	return &IconWorker{
		icons: icons,
		ai:    ai,
	}
}

// HandleIconJob processes a single icon job message from AMQP
func (w *IconWorker) HandleIconJob(ctx context.Context, msg *amqp.IconJobMessage) error {
	slog.InfoContext(ctx, "Processing icon job",
		"snapshot_id", msg.SnapshotID,
		"category", msg.Category)

	if existing, err := w.icons.GetIcon(ctx, msg.Category); err == nil {
		slog.InfoContext(ctx, "Icon already exists, skipping generation",
			"category", msg.Category,
			"generated_at", existing.GeneratedAt.Format(time.RFC3339))
		return nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("check existing icon: %w", err)
	}

	image, err := w.ai.GenerateIcon(ctx, msg.Prompt)
	if err != nil {
		return fmt.Errorf("generate icon: %w", err)
	}

	icon := storage.PersonaIcon{
		Category:    msg.Category,
		Prompt:      msg.Prompt,
		Image:       image,
		GeneratedAt: time.Now().UTC(),
	}
	if err := w.icons.SaveIcon(ctx, icon); err != nil {
		return fmt.Errorf("save icon: %w", err)
	}

	slog.InfoContext(ctx, "Icon generated and stored",
		"category", msg.Category,
		"bytes", len(image))

	return nil
}
