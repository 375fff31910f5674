// Package main runs a full dungeon crawl simulation: it generates a level,
// rolls a character, walks every reachable room, and resolves encounters
// with the auto-battler. With -save the run is persisted to PostgreSQL.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/neondnd/isekai/internal/config"
	"github.com/neondnd/isekai/internal/game/character"
	"github.com/neondnd/isekai/internal/game/combat"
	"github.com/neondnd/isekai/internal/game/dice"
	"github.com/neondnd/isekai/internal/game/dungeon"
	"github.com/neondnd/isekai/internal/game/encounter"
	"github.com/neondnd/isekai/internal/observability"
	"github.com/neondnd/isekai/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	seed := flag.Int64("seed", 0, "dice seed override (0 uses the configured seed)")
	save := flag.Bool("save", false, "persist the character and dungeon to PostgreSQL")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *seed != 0 {
		cfg.Simulation.Seed = *seed
	}

	// Initialize logger
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	src := dice.NewCryptoSource()
	if cfg.Simulation.Seed != 0 {
		src = dice.NewSeededSource(cfg.Simulation.Seed)
	}

	logger.Info("starting dungeon simulation",
		zap.Int64("seed", cfg.Simulation.Seed),
		zap.String("algorithm", cfg.Dungeon.Algorithm),
		zap.Int("difficulty", cfg.Dungeon.Difficulty),
	)

	// Roll the adventurer
	ch, err := character.New(
		cfg.Simulation.CharacterName,
		cfg.Simulation.CharacterClass,
		"Tutorial Zone",
		nil,
		src,
	)
	if err != nil {
		logger.Fatal("creating character", zap.Error(err))
	}
	logger.Info("character created",
		zap.String("name", ch.Name),
		zap.String("class", ch.Class),
		zap.Int("hp", ch.MaxHP),
		zap.Int("mp", ch.MaxMP),
	)

	// Generate the dungeon
	gen := dungeon.NewGenerator(src, logger)
	level := gen.Generate(dungeon.Options{
		Rows:       cfg.Dungeon.Rows,
		Cols:       cfg.Dungeon.Cols,
		Algorithm:  cfg.Dungeon.Algorithm,
		Theme:      cfg.Dungeon.Theme,
		Difficulty: cfg.Dungeon.Difficulty,
		LevelNum:   1,
	})

	outcome := crawl(ch, level, src, cfg.Combat.MaxRounds, logger)

	fmt.Printf("\n=== %s ===\n", level.Name)
	fmt.Printf("Adventurer: %s the %s (level %d)\n", ch.Name, ch.Class, ch.Level)
	fmt.Printf("Rooms visited: %d  Fights won: %d  Traps sprung: %d  Loot: %d items\n",
		outcome.roomsVisited, outcome.fightsWon, outcome.trapsSprung, outcome.lootFound)
	fmt.Printf("Final state: %s (HP %d/%d, XP %d)\n",
		outcome.verdict, ch.HP, ch.MaxHP, ch.XP)

	if *save {
		persist(ch, level, cfg, logger)
	}

	logger.Info("simulation finished",
		zap.String("verdict", outcome.verdict),
		zap.Duration("elapsed", time.Since(start)),
	)
}

type crawlOutcome struct {
	roomsVisited int
	fightsWon    int
	trapsSprung  int
	lootFound    int
	verdict      string
}

// crawl walks every reachable room from the entrance, resolving encounters
// as they trigger. The crawl ends early if the adventurer falls.
func crawl(ch *character.Character, level *dungeon.Level, src dice.Source, maxRounds int, logger *zap.Logger) crawlOutcome {
	outcome := crawlOutcome{verdict: "cleared the dungeon"}

	for _, room := range level.Reachable() {
		result := room.Enter(ch, src)
		outcome.roomsVisited++
		outcome.lootFound += len(result.TreasuresFound)
		ch.Inventory = append(ch.Inventory, result.TreasuresFound...)
		for _, event := range result.Events {
			logger.Debug("room event", zap.Int("row", room.Row), zap.Int("col", room.Col), zap.String("event", event))
		}

		for _, e := range room.Encounters {
			if e.Completed {
				continue
			}
			switch e.Kind {
			case encounter.Combat:
				status := fight(ch, e, src, maxRounds, logger)
				if status != combat.Victory {
					if ch.Alive() {
						outcome.verdict = "abandoned the run"
					} else {
						outcome.verdict = "fell in battle"
					}
					return outcome
				}
				outcome.fightsWon++
				loot := e.Complete(src)
				outcome.lootFound += len(loot)
				ch.Inventory = append(ch.Inventory, loot...)
				for _, m := range e.Monsters {
					ch.GainXP(m.Level*100, src)
				}

			case encounter.Trap:
				outcome.trapsSprung++
				trap := e.ResolveTrap(ch, src)
				e.Completed = true
				logger.Debug("trap sprung",
					zap.String("trap_type", trap.Effect.Type),
					zap.Bool("avoided", trap.Avoided),
					zap.Int("damage", trap.DamageDealt),
				)
				if !ch.Alive() {
					outcome.verdict = "killed by a trap"
					return outcome
				}

			case encounter.Puzzle:
				rewards := e.Complete(src)
				outcome.lootFound += len(rewards)
				ch.Inventory = append(ch.Inventory, rewards...)
			}
		}
	}
	return outcome
}

// fight auto-battles one combat encounter: the character always attacks the
// first living monster, and monsters take their own turns. A fight that is
// still active after maxRounds is abandoned.
func fight(ch *character.Character, e *encounter.Encounter, src dice.Source, maxRounds int, logger *zap.Logger) combat.Status {
	state := combat.StartCombat(ch, e.Monsters, src, logger)
	state.BindEncounter(e)

	for state.Status == combat.Active && state.Round <= maxRounds {
		if state.IsCharacterTurn() {
			state.ProcessAction(combat.Attack(firstLivingMonster(state)))
		} else {
			state.AutoAction()
		}
	}

	summary := state.Summarize()
	logger.Info("combat resolved",
		zap.String("combat_id", state.ID),
		zap.String("status", state.Status.String()),
		zap.Int("rounds", summary.Round),
	)
	return state.Status
}

// firstLivingMonster returns the participant index of the first monster
// still standing.
func firstLivingMonster(state *combat.State) int {
	for i, m := range state.Monsters() {
		if m.Alive() {
			return i + 1
		}
	}
	return -1
}

// persist saves the finished run to PostgreSQL.
func persist(ch *character.Character, level *dungeon.Level, cfg config.Config, logger *zap.Logger) {
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connecting to database", zap.Error(err))
		return
	}
	defer pool.Close()

	charRec, err := postgres.NewCharacterRepository(pool.DB()).Create(ctx, ch)
	if err != nil {
		logger.Error("saving character", zap.Error(err))
		return
	}
	dngRec, err := postgres.NewDungeonRepository(pool.DB()).Save(ctx, level)
	if err != nil {
		logger.Error("saving dungeon", zap.Error(err))
		return
	}
	logger.Info("run persisted",
		zap.Int64("character_id", charRec.ID),
		zap.Int64("dungeon_id", dngRec.ID),
	)
}
