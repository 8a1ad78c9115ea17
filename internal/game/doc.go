// Package game implements the single-table Texas Hold'em engine.
//
// The main types are Table, which holds the state of the table and applies
// actions, and Engine, which drives the hand loop and the betting-round state
// machine on top of a Table.
//
// # Basic Usage
//
//	table := game.NewTable(game.TableConfig{SmallBlind: 10, BigBlind: 20}, rng)
//	engine := game.NewEngine(table, logger, game.WithEventBus(bus))
//	_ = engine.Seat(game.NewPlayer(0, "You", 1000, false), human)
//	_ = engine.Seat(game.NewPlayer(1, "Bot Alice", 1000, true), bot)
//	err := engine.Run(ctx)
//
// # Concurrency
//
// All table mutation happens on the goroutine running Engine.Run. Agents are
// asked for decisions synchronously in turn order. An agent backed by a remote
// human parks the loop on an ActionSlot, which accepts exactly one decision and
// only for the seat it was opened for.
//
// Observers receive narration, snapshots, turn prompts and intermission ticks
// through an EventBus.
package game
