// Package snapshot persists and restores the whole process state as JSON,
// in the layout §6 describes: one bundle document for users/order
// book/positions/trades, and a separate document for claims. Bot
// configuration is an opaque blob outside the core's concern and is not
// handled here.
package snapshot

import (
	"encoding/json"
	"os"
	"path/filepath"

	"ircbook/internal/claims"
	"ircbook/internal/engine"
	"ircbook/internal/orderbook"
	"ircbook/internal/portfolio"
	"ircbook/internal/trades"
	"ircbook/internal/users"
)

const (
	bundleFile = "state.json"
	claimsFile = "claims.json"
)

// Bundle is the one JSON document covering users, the order book,
// positions, and trades.
type Bundle struct {
	Users     []users.Dump
	Orderbook orderbook.Snapshot
	Positions []portfolio.PortfolioDump
	Trades    []trades.Dump
}

// State is everything Save/Load round-trips, already wired into the live
// components a running TradingEngine needs.
type State struct {
	Users     *users.Registry
	Claims    *claims.Registry
	Book      *orderbook.OrderBook
	Positions *portfolio.Positions
	Trades    *trades.Log
}

// Fresh returns an empty State, used when no snapshot exists yet.
func Fresh() *State {
	return &State{
		Users:     users.New(),
		Claims:    claims.New(),
		Book:      orderbook.New(),
		Positions: portfolio.NewPositions(),
		Trades:    trades.New(),
	}
}

// Engine builds a TradingEngine over this state's book/positions/trades.
func (s *State) Engine() *engine.TradingEngine {
	return engine.New(s.Book, s.Positions, s.Trades)
}

// Save rewrites both snapshot files in dir. Called after every mutating
// command; persistence is coarse by design (§5) since call volume is low.
func Save(dir string, s *State) error {
	bundle := Bundle{
		Users:     s.Users.Dump(),
		Orderbook: s.Book.Dump(),
		Positions: s.Positions.Dump(),
		Trades:    s.Trades.Dump(),
	}
	if err := writeJSON(filepath.Join(dir, bundleFile), bundle); err != nil {
		return err
	}
	return writeJSON(filepath.Join(dir, claimsFile), s.Claims.Dump())
}

// Load restores State from dir. If the bundle file does not exist, it
// returns a Fresh state rather than an error — an empty snapshot directory
// means a new deployment, not a corrupt one. A claims file without a
// bundle file is not read.
func Load(dir string) (*State, error) {
	bundlePath := filepath.Join(dir, bundleFile)
	claimsPath := filepath.Join(dir, claimsFile)

	if _, err := os.Stat(bundlePath); os.IsNotExist(err) {
		return Fresh(), nil
	}

	var bundle Bundle
	if err := readJSON(bundlePath, &bundle); err != nil {
		return nil, err
	}
	var claimsDump []claims.Dump
	if _, err := os.Stat(claimsPath); err == nil {
		if err := readJSON(claimsPath, &claimsDump); err != nil {
			return nil, err
		}
	}

	book, err := orderbook.Load(bundle.Orderbook)
	if err != nil {
		return nil, err
	}
	positions, err := portfolio.Load(bundle.Positions)
	if err != nil {
		return nil, err
	}
	tradeLog, err := trades.Load(bundle.Trades)
	if err != nil {
		return nil, err
	}
	claimsRegistry, err := claims.Load(claimsDump)
	if err != nil {
		return nil, err
	}

	return &State{
		Users:     users.Load(bundle.Users),
		Claims:    claimsRegistry,
		Book:      book,
		Positions: positions,
		Trades:    tradeLog,
	}, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", " ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
