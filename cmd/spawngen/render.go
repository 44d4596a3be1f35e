package main

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/udisondev/spawnpattern/internal/regen"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// shortDigest is the leading part of a digest, enough to spot changes.
func shortDigest(d []byte) string {
	s := hex.EncodeToString(d)
	if len(s) > 12 {
		s = s[:12]
	}
	return s
}

// renderPass renders the per-map summary of a pass.
func renderPass(res *regen.Result) string {
	t := newTable("map", "bosses", "waves", "triggered", "digest", "changed")
	for _, m := range res.Maps {
		changed := "no"
		if m.Changed {
			changed = "yes"
		}
		t.Row(m.Map,
			strconv.Itoa(m.Stats.Bosses),
			strconv.Itoa(m.Stats.Waves),
			strconv.Itoa(m.Stats.Triggered),
			shortDigest(m.Digest),
			changed,
		)
	}

	title := fmt.Sprintf("pattern %s, pass %s, %s", res.Pattern, res.PassID, res.Took.Round(time.Microsecond))
	out := titleStyle.Render(title) + "\n" + t.Render()
	if len(res.Skipped) > 0 {
		out += fmt.Sprintf("\nskipped: %v", res.Skipped)
	}
	return out
}

// renderSchedule renders the waves and bosses of one map in list order.
func renderSchedule(m regen.MapResult) string {
	waves := newTable("#", "time", "slots", "zone", "type", "difficulty")
	for _, w := range m.Record.Waves {
		waves.Row(
			strconv.Itoa(w.Number),
			spawnTime(w.TimeMin),
			fmt.Sprintf("%d-%d", w.SlotsMin, w.SlotsMax),
			w.SpawnPoints,
			w.WildSpawnType,
			w.BotPreset,
		)
	}

	bosses := newTable("boss", "time", "zone", "escort", "trigger")
	for _, b := range m.Record.BossLocationSpawn {
		bosses.Row(
			b.BossName,
			spawnTime(b.Time),
			b.BossZone,
			fmt.Sprintf("%s x%d", b.BossEscortType, b.BossEscortAmount),
			b.TriggerName,
		)
	}

	return titleStyle.Render(m.Map) + "\n" + waves.Render() + "\n" + bosses.Render()
}

func spawnTime(t int) string {
	if t < 0 {
		return "instant"
	}
	return strconv.Itoa(t) + "s"
}

type mapSummary struct {
	Map       string `json:"map"`
	Bosses    int    `json:"bosses"`
	Waves     int    `json:"waves"`
	Triggered int    `json:"triggered"`
	Digest    string `json:"digest"`
	Changed   bool   `json:"changed"`
}

type passSummary struct {
	ID      string       `json:"id"`
	Pattern string       `json:"pattern"`
	Maps    []mapSummary `json:"maps"`
	Skipped []string     `json:"skipped"`
}

func summarize(res *regen.Result) passSummary {
	s := passSummary{
		ID:      res.PassID.String(),
		Pattern: res.Pattern,
		Maps:    make([]mapSummary, 0, len(res.Maps)),
		Skipped: res.Skipped,
	}
	for _, m := range res.Maps {
		s.Maps = append(s.Maps, mapSummary{
			Map:       m.Map,
			Bosses:    m.Stats.Bosses,
			Waves:     m.Stats.Waves,
			Triggered: m.Stats.Triggered,
			Digest:    hex.EncodeToString(m.Digest),
			Changed:   m.Changed,
		})
	}
	return s
}
