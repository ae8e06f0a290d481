package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyStats       = "stats"
	keyFirstLaunch = "first_launch"
)

// Preferences stores user settings. Difficulty and PlayMode hold the names
// the engine and game packages parse; HumanTeam is "white" or "black".
type Preferences struct {
	Username   string    `json:"username"`
	Difficulty string    `json:"difficulty"`
	PlayMode   string    `json:"play_mode"`
	HumanTeam  string    `json:"human_team"`
	Seed       int64     `json:"seed"`
	LastPlayed time.Time `json:"last_played"`
}

// DefaultPreferences returns default user preferences.
func DefaultPreferences() *Preferences {
	return &Preferences{
		Username:   "Player",
		Difficulty: "medium",
		PlayMode:   "hvc",
		HumanTeam:  "white",
		Seed:       1,
	}
}

// Outcome is a finished game from the human's point of view.
type Outcome int

const (
	OutcomeDraw Outcome = iota
	OutcomeWin
	OutcomeLoss
	OutcomeUnrated // human vs human or computer vs computer
)

// GameRecord describes a completed game.
type GameRecord struct {
	Outcome    Outcome
	Reason     string // checkmate, stalemate or repetition
	Mode       string
	Difficulty string
	Moves      int
	Duration   time.Duration
}

// Stats stores game statistics.
type Stats struct {
	GamesPlayed    int            `json:"games_played"`
	Wins           int            `json:"wins"`
	Losses         int            `json:"losses"`
	Draws          int            `json:"draws"`
	ByReason       map[string]int `json:"by_reason"`
	WinsByDiff     map[string]int `json:"wins_by_difficulty"`
	TotalMoves     int            `json:"total_moves"`
	TotalPlayTime  time.Duration  `json:"total_play_time"`
	LongestWinStrk int            `json:"longest_win_streak"`
	CurrentStreak  int            `json:"current_streak"`
}

// NewStats returns empty game statistics.
func NewStats() *Stats {
	return &Stats{
		ByReason:   make(map[string]int),
		WinsByDiff: make(map[string]int),
	}
}

// WinRate returns the win rate among rated games as a percentage (0-100).
func (s *Stats) WinRate() float64 {
	rated := s.Wins + s.Losses + s.Draws
	if rated == 0 {
		return 0
	}
	return float64(s.Wins) / float64(rated) * 100
}

// Storage wraps BadgerDB for persistent storage.
type Storage struct {
	db     *badger.DB
	logger zerolog.Logger
}

// Open opens the database in the db subdirectory of dir. An empty dir
// means DataDir.
func Open(dir string) (*Storage, error) {
	if dir == "" {
		var err error
		if dir, err = DataDir(); err != nil {
			return nil, fmt.Errorf("locate data directory: %w", err)
		}
	}
	dbDir := filepath.Join(dir, "db")
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	logger := log.With().Str("component", "storage").Logger()
	opts := badger.DefaultOptions(dbDir).WithLogger(badgerLogger{logger})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", dbDir, err)
	}
	logger.Debug().Str("dir", dbDir).Msg("database opened")

	return &Storage{db: db, logger: logger}, nil
}

// Close closes the database.
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// IsFirstLaunch returns true if this is the first launch.
func (s *Storage) IsFirstLaunch() (bool, error) {
	firstLaunch := true

	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(keyFirstLaunch))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		firstLaunch = false
		return nil
	})

	return firstLaunch, err
}

// MarkFirstLaunchComplete marks that first launch setup is complete.
func (s *Storage) MarkFirstLaunchComplete() error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyFirstLaunch), []byte("done"))
	})
}

// SavePreferences saves user preferences.
func (s *Storage) SavePreferences(prefs *Preferences) error {
	prefs.LastPlayed = time.Now()
	return s.put(keyPreferences, prefs)
}

// LoadPreferences loads user preferences, returning defaults if none are
// stored.
func (s *Storage) LoadPreferences() (*Preferences, error) {
	prefs := DefaultPreferences()
	err := s.get(keyPreferences, prefs)
	return prefs, err
}

// SaveStats saves game statistics.
func (s *Storage) SaveStats(stats *Stats) error {
	return s.put(keyStats, stats)
}

// LoadStats loads game statistics, returning empty stats if none are stored.
func (s *Storage) LoadStats() (*Stats, error) {
	stats := NewStats()
	if err := s.get(keyStats, stats); err != nil {
		return stats, err
	}
	if stats.ByReason == nil {
		stats.ByReason = make(map[string]int)
	}
	if stats.WinsByDiff == nil {
		stats.WinsByDiff = make(map[string]int)
	}
	return stats, nil
}

// RecordGame records a completed game and updates statistics.
func (s *Storage) RecordGame(rec GameRecord) error {
	stats, err := s.LoadStats()
	if err != nil {
		return err
	}

	stats.GamesPlayed++
	stats.TotalMoves += rec.Moves
	stats.TotalPlayTime += rec.Duration
	if rec.Reason != "" {
		stats.ByReason[strings.ToLower(rec.Reason)]++
	}

	switch rec.Outcome {
	case OutcomeWin:
		stats.Wins++
		stats.CurrentStreak++
		if stats.CurrentStreak > stats.LongestWinStrk {
			stats.LongestWinStrk = stats.CurrentStreak
		}
		stats.WinsByDiff[rec.Difficulty]++
	case OutcomeLoss:
		stats.Losses++
		stats.CurrentStreak = 0
	case OutcomeDraw:
		stats.Draws++
		stats.CurrentStreak = 0
	}

	s.logger.Info().
		Int("outcome", int(rec.Outcome)).
		Str("reason", rec.Reason).
		Int("games", stats.GamesPlayed).
		Msg("game recorded")
	return s.SaveStats(stats)
}

func (s *Storage) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// get decodes the value under key into v, leaving v untouched when the key
// is missing.
func (s *Storage) get(key string, v any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
}

// badgerLogger routes badger's internal logging into zerolog.
type badgerLogger struct {
	l zerolog.Logger
}

func (b badgerLogger) Errorf(format string, args ...any) {
	b.l.Error().Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (b badgerLogger) Warningf(format string, args ...any) {
	b.l.Warn().Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (b badgerLogger) Infof(format string, args ...any) {
	b.l.Debug().Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (b badgerLogger) Debugf(format string, args ...any) {
	b.l.Trace().Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}
