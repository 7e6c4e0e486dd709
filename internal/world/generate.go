package world

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/lawnchairsociety/ffxlogic/internal/gamedata"
	"github.com/lawnchairsociety/ffxlogic/internal/options"
)

// Run is the outcome of building every player's world.
type Run struct {
	ID uuid.UUID
	// Worlds holds one world per Final Fantasy X player, in slot order.
	Worlds   []*World
	Duration time.Duration
}

// World returns the world for a slot.
func (r *Run) World(slot int) (*World, bool) {
	for _, w := range r.Worlds {
		if w.Slot() == slot {
			return w, true
		}
	}
	return nil, false
}

// GenerateAll builds the worlds of every Final Fantasy X player in parallel.
// Players of other games are skipped. The first failure cancels the
// remaining builds; it is a *options.ConfigError naming the failed slot.
// limit caps the number of concurrent builds; zero or less means no cap.
func GenerateAll(ctx context.Context, players []options.Player, data *gamedata.Data, limit int, log *slog.Logger) (*Run, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	run := &Run{ID: uuid.New()}
	log = log.With("run", run.ID.String())
	start := time.Now()

	var own []options.Player
	for _, p := range players {
		if p.Options != nil {
			own = append(own, p)
		}
	}
	built := make([]*World, len(own))

	eg, egCtx := errgroup.WithContext(ctx)
	if limit > 0 {
		eg.SetLimit(limit)
	}
	for i, p := range own {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return fmt.Errorf("slot %d: %w", p.Slot, err)
			}
			w, err := New(p.Options, data, log)
			if err != nil {
				return err
			}
			built[i] = w
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		log.Error("world generation failed", "error", err)
		return nil, err
	}

	run.Worlds = built
	run.Duration = time.Since(start)
	log.Info("worlds generated", "players", len(built), "duration", run.Duration)
	return run, nil
}
