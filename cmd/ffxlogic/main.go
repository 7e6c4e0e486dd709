package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"hash/fnv"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/lawnchairsociety/ffxlogic/internal/config"
	"github.com/lawnchairsociety/ffxlogic/internal/database"
	"github.com/lawnchairsociety/ffxlogic/internal/gamedata"
	"github.com/lawnchairsociety/ffxlogic/internal/logger"
	"github.com/lawnchairsociety/ffxlogic/internal/options"
	"github.com/lawnchairsociety/ffxlogic/internal/output"
	"github.com/lawnchairsociety/ffxlogic/internal/rules"
	"github.com/lawnchairsociety/ffxlogic/internal/world"
)

func main() {
	playersPath := flag.String("players", "players", "Path to a player YAML file or a directory of them")
	dataDir := flag.String("data-dir", "", "Directory of game tables overriding the embedded ones")
	configFile := flag.String("config", "data/ffxlogic.yaml", "Path to generator config YAML file")
	loggingConfig := flag.String("logging", "data/logging.yaml", "Path to logging config YAML file")
	seed := flag.String("seed", "", "Seed name (default: from placements, else random based on current time)")
	outDir := flag.String("out", "", "Directory for result files (default: from config)")
	dbFile := flag.String("db", "", "Store results in this SQLite database (default: from config)")
	placementsFile := flag.String("placements", "", "Path to the host's placements YAML file")
	workers := flag.Int("workers", -1, "Concurrent world builds, 0 for one per player (default: from config)")
	check := flag.Bool("check", false, "Verify every world is beatable with all items and print region counts")
	flag.Parse()

	// Initialize logger first (before any logging)
	logConfig, err := logger.LoadConfig(*loggingConfig)
	if err != nil {
		log.Fatalf("Failed to load logging config: %v", err)
	}
	if err := logger.Initialize(logConfig); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		logger.Warning("Failed to load config, using defaults", "path", *configFile, "error", err)
		cfg = config.DefaultConfig()
	}
	if *dataDir != "" {
		cfg.Data.Dir = *dataDir
	}
	if *outDir != "" {
		cfg.Output.Dir = *outDir
	}
	if *dbFile != "" {
		cfg.Database = database.DefaultConfig(*dbFile)
		cfg.Database.Enabled = true
	}
	if *workers >= 0 {
		cfg.Generation.Workers = *workers
	}

	data, err := gamedata.Source{Dir: cfg.Data.Dir}.Load()
	if err != nil {
		log.Fatalf("Failed to load game data: %v", err)
	}
	logger.Info("Game data loaded", "items", len(data.Items.All()), "data_dir", cfg.Data.Dir)

	players, err := options.Load(*playersPath)
	if err != nil {
		log.Fatalf("Failed to load players: %v", err)
	}

	var placements *output.PlacementFile
	if *placementsFile != "" {
		placements, err = output.LoadPlacements(*placementsFile)
		if err != nil {
			log.Fatalf("Failed to load placements: %v", err)
		}
	}

	seedName := *seed
	if seedName == "" && placements != nil {
		seedName = placements.Seed
	}
	if seedName == "" {
		seedName = fmt.Sprint(time.Now().UnixNano())
		logger.Info("Seed selected", "seed", seedName, "random", true)
	} else {
		logger.Info("Seed selected", "seed", seedName, "random", false)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	run, err := world.GenerateAll(ctx, players, data, cfg.Generation.Workers, logger.Logger())
	if err != nil {
		var cerr *options.ConfigError
		if errors.As(err, &cerr) {
			logger.Error("Invalid player configuration", "slot", cerr.Slot, "player", cerr.Player, "option", cerr.Subject)
			fmt.Fprintln(os.Stderr, cerr.Error())
			os.Exit(2)
		}
		log.Fatalf("Generation failed: %v", err)
	}

	if *check {
		if !checkWorlds(run) {
			os.Exit(1)
		}
		return
	}

	var db *database.Database
	if cfg.Database.Enabled {
		db, err = database.OpenWithConfig(cfg.Database)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer db.Close()
		if err := db.SaveRun(run.ID, seedName); err != nil {
			log.Fatalf("Failed to save run: %v", err)
		}
		logger.Info("Result database initialized", "driver", cfg.Database.Driver)
	}

	names := options.Names(players)
	for _, w := range run.Worlds {
		if err := writeResult(w, names, seedName, placements, cfg.Output.Dir, db, run.ID); err != nil {
			log.Fatalf("Failed to write result for slot %d: %v", w.Slot(), err)
		}
	}
	logger.Info("Generation complete", "run", run.ID.String(), "worlds", len(run.Worlds), "duration", run.Duration)
}

// writeResult projects one world's result, writes its file and stores it.
func writeResult(w *world.World, names map[int]string, seedName string, placements *output.PlacementFile,
	dir string, db *database.Database, runID uuid.UUID) error {
	starting := placements.StartingItemsFor(w.Slot())
	if starting == nil {
		var err error
		starting, err = w.StartingItems(rand.New(rand.NewSource(slotSeed(seedName, w.Slot()))))
		if err != nil {
			return err
		}
	}

	seedID := output.SeedID(seedName, w.Slot())
	result, err := output.Project(w, placements.Slot(w.Slot()), names, seedID, starting)
	if err != nil {
		return err
	}

	path, err := result.WriteFile(dir)
	if err != nil {
		return err
	}
	plog := logger.ForPlayer(w.Slot(), w.Name())
	plog.Info("Result written", "path", path, "seed_id", seedID, "locations", result.Count())

	if db != nil {
		id, err := db.SaveResult(runID, w.Name(), result, w.Options().SlotData())
		if err != nil {
			return err
		}
		plog.Debug("Result stored", "id", id)
	}
	return nil
}

// slotSeed derives a per-slot random seed from the seed name.
func slotSeed(seed string, slot int) int64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s:%d", seed, slot)
	return int64(h.Sum64())
}

// checkWorlds sweeps every world holding all progression items and prints
// per-region location counts. It reports whether every goal was reached.
func checkWorlds(run *world.Run) bool {
	ok := true
	for _, w := range run.Worlds {
		var all []string
		for _, item := range w.Library().Catalog().All() {
			if item.Kind.Progression() {
				all = append(all, item.Name)
			}
		}
		s := w.NewState(all...)
		s.Sweep(nil)

		beatable := rules.Complete(s)
		if !beatable {
			ok = false
		}
		fmt.Printf("Slot %d (%s): goal reachable: %v, regions %d/%d, locations %d\n",
			w.Slot(), w.Name(), beatable, len(s.ReachableRegions()), len(w.Graph().Regions()), len(s.ReachableLocations()))

		for _, r := range w.Graph().Regions() {
			n := 0
			for _, c := range r.Checks {
				if !c.Event {
					n++
				}
			}
			if n == 0 {
				continue
			}
			fmt.Printf("  %-48s %4d\n", r.Name, n)
		}
	}
	return ok
}
