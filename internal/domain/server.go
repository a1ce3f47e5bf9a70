package domain

import "time"

// GameType is the only game this bot knows how to query.
const GameType = "garrysmod"

// ServerState is the raw answer of a successful server query.
//
// It is produced by the query collaborator and consumed once per tick
// to derive a Snapshot. Nothing in it is persisted.
type ServerState struct {
	// ─────────────────────────────
	// Identity
	// ─────────────────────────────

	// Name is the server name advertised by the server itself.
	Name string

	// Game is the game description reported by the server.
	// For Garry's Mod this is the running gamemode (e.g. "Sandbox").
	Game string

	// ─────────────────────────────
	// Live figures
	// ─────────────────────────────

	// PlayersOnline is the number of connected players, bots included.
	PlayersOnline int

	// PlayerNames lists connected players when the server answered the
	// player request. It may be shorter than PlayersOnline.
	PlayerNames []string

	// MaxPlayers is the advertised slot count.
	MaxPlayers int

	// Ping is the measured round trip of the info request.
	Ping time.Duration

	// Map is the current map, empty when the server reports none.
	Map string
}

// Snapshot is the per-tick view used to drive rendering.
// It exists for the duration of one tick and is never persisted.
type Snapshot struct {
	Online        bool      `json:"online"`
	Name          string    `json:"name,omitempty"`
	Address       string    `json:"address"`
	PlayersOnline int       `json:"players_online"`
	Players       []string  `json:"players,omitempty"`
	MaxPlayers    int       `json:"max_players"`
	Ping          int       `json:"ping_ms"`
	Map           string    `json:"map"`
	Gamemode      string    `json:"gamemode,omitempty"`
	Peak24h       int       `json:"peak_24h"`
	HasPeak       bool      `json:"has_peak"`
	ObservedAt    time.Time `json:"observed_at"`
}
