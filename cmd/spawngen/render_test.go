package main

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/udisondev/spawnpattern/internal/mapstate"
	"github.com/udisondev/spawnpattern/internal/regen"
	"github.com/udisondev/spawnpattern/internal/wavegen"
)

func testResult() *regen.Result {
	rec := mapstate.NewRecord(mapstate.Base{Id: "bigmap"})
	wavegen.AddWaveEvent(rec, 0, -1, 1, 1, "ZoneA", "normal", "assault")
	wavegen.AddWaveEvent(rec, 1, 90, 3, 3, "ZoneB", "hard", "assault")
	wavegen.AddBossEventSimple(rec, wavegen.BossSpawn{Name: "bossKilla", Zone: "ZoneMall", Time: -1, EscortType: "followerBully", EscortAmount: 2})

	return &regen.Result{
		PassID:  uuid.MustParse("8f14e45f-ceea-467f-a0e6-0d6a3c3d9b1e"),
		Pattern: "default",
		Took:    3 * time.Millisecond,
		Maps: []regen.MapResult{{
			Map:     "bigmap",
			Record:  rec,
			Stats:   wavegen.Stats{Bosses: 1, Waves: 2},
			Digest:  []byte{0xde, 0xad, 0xbe, 0xef, 0x01, 0x02, 0x03, 0x04},
			Changed: true,
		}},
		Skipped: []string{"woods"},
	}
}

func TestRenderPass(t *testing.T) {
	out := renderPass(testResult())

	assert.Contains(t, out, "pattern default")
	assert.Contains(t, out, "bigmap")
	assert.Contains(t, out, "deadbeef0102")
	assert.Contains(t, out, "yes")
	assert.Contains(t, out, "skipped: [woods]")
}

func TestRenderSchedule(t *testing.T) {
	out := renderSchedule(testResult().Maps[0])

	assert.Contains(t, out, "instant")
	assert.Contains(t, out, "90s")
	assert.Contains(t, out, "2-2")
	assert.Contains(t, out, "bossKilla")
	assert.Contains(t, out, "followerBully x2")
}

func TestSummarize(t *testing.T) {
	s := summarize(testResult())

	assert.Equal(t, "8f14e45f-ceea-467f-a0e6-0d6a3c3d9b1e", s.ID)
	assert.Equal(t, []mapSummary{{Map: "bigmap", Bosses: 1, Waves: 2, Digest: "deadbeef01020304", Changed: true}}, s.Maps)
	assert.Equal(t, []string{"woods"}, s.Skipped)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", parseLogLevel("debug").String())
	assert.Equal(t, "INFO", parseLogLevel("").String())
	assert.Equal(t, "ERROR", parseLogLevel("error").String())
}
