package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/udisondev/spawnpattern/internal/mapstate"
)

// NativeMap returns a small native map record with one instant scav wave,
// one boss and one trigger-linked wave.
func NativeMap(name string) mapstate.Base {
	return mapstate.Base{
		Id:              name,
		EscapeTimeLimit: 40,
		Waves: []mapstate.WaveEvent{
			{TimeMin: -1, TimeMax: -1, SlotsMin: 1, SlotsMax: 2, SpawnPoints: "NativeZone", BotSide: mapstate.SideSavage, BotPreset: "normal", WildSpawnType: "assault"},
		},
		BossLocationSpawn: []mapstate.BossEvent{
			{BossName: "bossKilla", BossChance: 30, BossZone: "NativeBossZone", BossDifficult: "normal", BossEscortType: "followerBully", BossEscortDifficult: "normal", Time: -1},
			{BossName: "pmcBot", BossChance: 100, BossZone: "NativeTriggerZone", BossDifficult: "normal", BossEscortType: "pmcBot", BossEscortDifficult: "normal", Time: -1, TriggerId: "lever", TriggerName: "interactObject"},
		},
	}
}

// WriteMapFile writes base as dir/<Id>.json.
func WriteMapFile(t testing.TB, dir string, base mapstate.Base) {
	t.Helper()

	data, err := mapstate.EncodeBase(base)
	if err != nil {
		t.Fatalf("encoding map %s: %v", base.Id, err)
	}
	if err := os.WriteFile(filepath.Join(dir, base.Id+".json"), data, 0o644); err != nil {
		t.Fatalf("writing map %s: %v", base.Id, err)
	}
}
