// Package mapstate holds the per-map record the generator writes into and
// the stores that persist it.
package mapstate

import (
	"context"
	"errors"
	"slices"
)

// ErrMapNotFound is returned by stores for unknown map ids.
var ErrMapNotFound = errors.New("map not found")

// SideSavage is the faction of every generated wave.
const SideSavage = "Savage"

// WaveEvent is one timed group spawn.
type WaveEvent struct {
	Number        int    `json:"number"`
	TimeMin       int    `json:"time_min"`
	TimeMax       int    `json:"time_max"`
	SlotsMin      int    `json:"slots_min"`
	SlotsMax      int    `json:"slots_max"`
	SpawnPoints   string `json:"SpawnPoints"`
	BotSide       string `json:"BotSide"`
	BotPreset     string `json:"BotPreset"`
	WildSpawnType string `json:"WildSpawnType"`
	IsPlayers     bool   `json:"isPlayers"`
}

// Support is one resolved escort group of a boss.
type Support struct {
	BossEscortType      string   `json:"BossEscortType"`
	BossEscortDifficult []string `json:"BossEscortDifficult"`
	BossEscortAmount    int      `json:"BossEscortAmount"`

	// Authored amount range of a triggered wave support, left to the host.
	BossEscortAmountMin *int `json:"BossEscortAmount_min,omitempty"`
	BossEscortAmountMax *int `json:"BossEscortAmount_max,omitempty"`
}

// BossEvent is a boss spawn or a trigger-linked wave.
type BossEvent struct {
	BossName            string    `json:"BossName"`
	BossChance          int       `json:"BossChance"`
	BossZone            string    `json:"BossZone"`
	BossPlayer          bool      `json:"BossPlayer"`
	BossDifficult       string    `json:"BossDifficult"`
	BossEscortType      string    `json:"BossEscortType"`
	BossEscortDifficult string    `json:"BossEscortDifficult"`
	BossEscortAmount    int       `json:"BossEscortAmount"`
	Time                int       `json:"Time"`
	TriggerId           string    `json:"TriggerId,omitempty"`
	TriggerName         string    `json:"TriggerName,omitempty"`
	Supports            []Support `json:"Supports,omitempty"`
	RandomTimeSpawn     bool      `json:"RandomTimeSpawn"`
}

// Triggered reports whether the event is linked to an in-session trigger.
func (b BossEvent) Triggered() bool {
	return b.TriggerName != ""
}

// Base is the host-visible part of a map record.
type Base struct {
	Id                string      `json:"Id"`
	Waves             []WaveEvent `json:"waves"`
	BossLocationSpawn []BossEvent `json:"BossLocationSpawn"`
	OpenZones         string      `json:"OpenZones"`
	Rules             string      `json:"Rules"`
	MaxBotPerZone     int         `json:"MaxBotPerZone"`
	DisabledForScav   bool        `json:"DisabledForScav"`
	EscapeTimeLimit   int         `json:"EscapeTimeLimit"` // minutes
	Locked            bool        `json:"Locked"`
}

// Native is the map's own wave and boss content before any generation.
type Native struct {
	Waves  []WaveEvent `json:"waves"`
	Bosses []BossEvent `json:"BossLocationSpawn"`
}

// Record is the mutable per-map state. It carries a snapshot of the native
// content taken when the record is created, so every reset reverts to the
// map's own spawns rather than to a previous generation.
type Record struct {
	Base

	native    Native
	hasNative bool
}

// NewRecord wraps base and snapshots its current waves and bosses as the
// native content.
func NewRecord(base Base) *Record {
	return &Record{
		Base:      base,
		native:    Native{Waves: cloneWaves(base.Waves), Bosses: cloneBosses(base.BossLocationSpawn)},
		hasNative: true,
	}
}

// RestoreRecord rebuilds a record whose native content was stored apart
// from its current state.
func RestoreRecord(base Base, native Native) *Record {
	return &Record{
		Base:      base,
		native:    native.Clone(),
		hasNative: true,
	}
}

// HasNative reports whether the record carries a native snapshot.
func (r *Record) HasNative() bool {
	return r.hasNative
}

// Native returns a copy of the native snapshot.
func (r *Record) Native() Native {
	return r.native.Clone()
}

// EscapeTimeLimitSeconds is the session length, the hard ceiling for every
// spawn time.
func (r *Record) EscapeTimeLimitSeconds() int {
	return r.EscapeTimeLimit * 60
}

// Clone returns a deep copy of n.
func (n Native) Clone() Native {
	return Native{Waves: cloneWaves(n.Waves), Bosses: cloneBosses(n.Bosses)}
}

func cloneWaves(in []WaveEvent) []WaveEvent {
	if in == nil {
		return nil
	}
	return slices.Clone(in)
}

func cloneBosses(in []BossEvent) []BossEvent {
	if in == nil {
		return nil
	}
	out := make([]BossEvent, len(in))
	for i, b := range in {
		out[i] = b
		if b.Supports != nil {
			out[i].Supports = make([]Support, len(b.Supports))
			for j, s := range b.Supports {
				out[i].Supports[j] = s
				out[i].Supports[j].BossEscortDifficult = slices.Clone(s.BossEscortDifficult)
			}
		}
	}
	return out
}

// Store loads and saves map records.
type Store interface {
	// ListMaps returns every map id the store knows.
	ListMaps(ctx context.Context) ([]string, error)
	// LoadMap returns the record of a map, or ErrMapNotFound.
	LoadMap(ctx context.Context, name string) (*Record, error)
	// SaveMap persists the current state of a record.
	SaveMap(ctx context.Context, name string, rec *Record) error
}
