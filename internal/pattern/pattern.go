package pattern

// MapPattern is the generation input of one map. A fresh value is decoded
// for every pass; the generator never writes to it.
type MapPattern struct {
	// Bosses
	HasBoss                 bool           `yaml:"has_boss"`
	MaxBoss                 int            `yaml:"max_boss"`
	BossSpawnTryingLoop     int            `yaml:"boss_spawn_trying_loop"`
	BossesSpawnLocationType Placement      `yaml:"bosses_spawn_location_type"`
	BossSettings            []BossSettings `yaml:"boss_settings"`

	AllowOtherBotSpawnWithBoss         bool `yaml:"allow_other_bot_spawn_with_boss"`
	AllowSameBossSpawn                 bool `yaml:"allow_same_boss_spawn"`
	BossesAlsoUseScavsSpawnLocations   bool `yaml:"bosses_also_use_scavs_spawn_locations"`
	BossesAlsoUseRaidersSpawnLocations bool `yaml:"bosses_also_use_raiders_spawn_locations"`
	CultistsSpawnAtOwnLocations        bool `yaml:"cultists_spawn_at_own_locations"`
	CultistsSpawnCountForMaxBoss       bool `yaml:"cultists_spawn_count_for_max_boss"`

	// Time budget (seconds); nil means no pattern-side ceiling
	MaxSpawnTime             *int `yaml:"max_spawn_time"`
	MaxSpawnTimeLimitWarning bool `yaml:"max_spawn_time_limit_warning"`

	// Static map fields
	ScavMapOpenZones string `yaml:"scav_map_openzones"`
	MapRules         string `yaml:"map_rules"`
	MaxBotPerZone    int    `yaml:"max_bot_per_zone"`

	ShowGeneratedBots Visibility `yaml:"show_generated_bots"`

	WaveSettings WaveSettings `yaml:"wave_settings"`
}

// DefaultMapPattern returns the values a map entry starts from before its
// document fields are decoded over it.
func DefaultMapPattern() MapPattern {
	return MapPattern{
		BossSpawnTryingLoop:         1,
		AllowOtherBotSpawnWithBoss:  true,
		AllowSameBossSpawn:          true,
		CultistsSpawnAtOwnLocations: true,
		ShowGeneratedBots:           VisibilitySecret,
	}
}

// WaveSettings groups the per-category wave configs of a map.
type WaveSettings struct {
	Scav      *WaveCategory   `yaml:"scav_waves"`
	PMC       *WaveCategory   `yaml:"pmc_waves"`
	Sniper    *WaveCategory   `yaml:"sniper_waves"`
	Raider    *WaveCategory   `yaml:"raider_waves"`
	Triggered []TriggeredWave `yaml:"triggered_waves"`
}

// WaveCategory is the shared config shape of scav, pmc, sniper and raider waves.
type WaveCategory struct {
	WaveTotal         int       `yaml:"wave_total"`
	SlotMin           int       `yaml:"slot_min"`
	SlotMax           int       `yaml:"slot_max"`
	SpawnLocations    Weights   `yaml:"spawn_locations"`
	Difficulty        Weights   `yaml:"difficulty"`
	SpawnLocationType Placement `yaml:"spawn_location_type"`

	InstaSpawnWaves                     int  `yaml:"insta_spawn_waves"`
	SpawnTimeDelayForEachMin            int  `yaml:"spawn_time_delay_for_each_min"`
	SpawnTimeDelayForEachMax            int  `yaml:"spawn_time_delay_for_each_max"`
	SpawnTimeDelayAfterInstaWave        int  `yaml:"spawn_time_delay_after_insta_wave"`
	SpawnTimeDelayAccumulateForEachZone bool `yaml:"spawn_time_delay_accumulate_for_each_zone"`

	// PMC only
	SpawnScavRaiderLocationChance int `yaml:"spawn_scav_raider_location_chance"`

	// Raider only
	RaiderDefaultRole    string `yaml:"raider_default_role"`
	RaiderHighRole       bool   `yaml:"raider_high_role"`
	RaiderHighRoleChance int    `yaml:"raider_high_role_chance"`
	RaiderHighRoleList   string `yaml:"raider_high_role_list"`
}

// BossSettings is one boss candidate. Name, Difficulty, EscortType and
// EscortDifficulty accept comma-joined candidate lists.
//
// Pointer fields distinguish "not configured" from zero.
type BossSettings struct {
	Name       string  `yaml:"name"`
	Chance     int     `yaml:"chance"`
	Difficulty string  `yaml:"difficulty"`
	Locations  Weights `yaml:"spawn_locations"`

	EscortType       string            `yaml:"escort_type"`
	EscortDifficulty string            `yaml:"escort_difficulty"`
	EscortAmountMin  int               `yaml:"escort_amount_min"`
	EscortAmountMax  int               `yaml:"escort_amount_max"`
	Supports         []SupportSettings `yaml:"supports"`

	WaveTotal                *int  `yaml:"wave_total"`
	WaveSpawnTimeForEachMin  *int  `yaml:"wave_spawn_time_for_each_min"`
	WaveSpawnTimeForEachMax  *int  `yaml:"wave_spawn_time_for_each_max"`
	WaveSpawnAllSameLocation *bool `yaml:"wave_spawn_all_same_location"`

	TriggerID       string `yaml:"trigger_id"`
	TriggerName     string `yaml:"trigger_name"`
	RandomTimeSpawn bool   `yaml:"random_time_spawn"`
}

// SupportSettings is one named escort group of a boss, in the host's field naming.
type SupportSettings struct {
	BossEscortType      string   `yaml:"BossEscortType"`
	BossEscortDifficult []string `yaml:"BossEscortDifficult"`
	BossEscortAmount    *int     `yaml:"BossEscortAmount"`
	BossEscortAmountMin *int     `yaml:"BossEscortAmount_min"`
	BossEscortAmountMax *int     `yaml:"BossEscortAmount_max"`
}

// AmountRange returns the configured amount range. A bare BossEscortAmount
// fills whichever bound is missing.
func (s SupportSettings) AmountRange() (lo, hi int, ok bool) {
	minP, maxP := s.BossEscortAmountMin, s.BossEscortAmountMax
	if s.BossEscortAmount != nil {
		if minP == nil {
			minP = s.BossEscortAmount
		}
		if maxP == nil {
			maxP = s.BossEscortAmount
		}
	}
	if minP == nil || maxP == nil {
		return 0, 0, false
	}
	return *minP, *maxP, true
}

// TriggeredWave is an externally authored wave gated by an in-session trigger.
type TriggeredWave struct {
	RaiderType      string            `yaml:"raider_type"`
	Difficulty      string            `yaml:"difficulty"`
	SlotMin         int               `yaml:"slot_min"`
	SlotMax         int               `yaml:"slot_max"`
	Chance          int               `yaml:"chance"`
	Time            int               `yaml:"time"`
	SpawnLocation   string            `yaml:"spawn_location"`
	TriggerID       string            `yaml:"trigger_id"`
	TriggerName     string            `yaml:"trigger_name"`
	RandomTimeSpawn bool              `yaml:"random_time_spawn"`
	Supports        []SupportSettings `yaml:"supports"`
}

// PMCType names the bot types the host uses for each PMC faction.
type PMCType struct {
	Usec string `yaml:"usec"`
	Bear string `yaml:"bear"`
}

// Population holds the map-wide AI population settings stored under the
// reserved keys of the spawns document.
type Population struct {
	PMCTypes                       map[string]PMCType `yaml:"pmc_type"`
	MaxAliveBots                   map[string]int     `yaml:"max_alive_bots"`
	ChanceSameSideIsHostilePercent int                `yaml:"chanceSameSideIsHostilePercent"`
	ShowTypeInNickname             bool               `yaml:"showTypeInNickname"`
	PMCUsecChance                  *int               `yaml:"pmc_usec_chance"`
	UsecDefaultEnemy               string             `yaml:"usec_default_enemy"`
	BearDefaultEnemy               string             `yaml:"bear_default_enemy"`
}

const defaultKey = "default"

// PMCType returns the PMC types of a map, falling back to the "default" entry.
func (p Population) PMCType(mapName string) PMCType {
	if t, ok := p.PMCTypes[mapName]; ok {
		return t
	}
	return p.PMCTypes[defaultKey]
}

// MaxAlive returns the alive-bot cap of a map, falling back to the "default" entry.
func (p Population) MaxAlive(mapName string) int {
	if n, ok := p.MaxAliveBots[mapName]; ok {
		return n
	}
	return p.MaxAliveBots[defaultKey]
}

const defaultUsecChance = 50

// UsecChance returns the percentage of PMC groups spawned as USEC.
func (p Population) UsecChance() int {
	if p.PMCUsecChance == nil {
		return defaultUsecChance
	}
	return *p.PMCUsecChance
}

// reservedKeys are spawns-document keys that never name a map.
var reservedKeys = map[string]bool{
	"pmc_type":                       true,
	"max_alive_bots":                 true,
	"chanceSameSideIsHostilePercent": true,
	"showTypeInNickname":             true,
	"pmc_usec_chance":                true,
	"usec_default_enemy":             true,
	"bear_default_enemy":             true,
}

// IsReservedKey reports whether key is a population setting rather than a map.
func IsReservedKey(key string) bool {
	return reservedKeys[key]
}
