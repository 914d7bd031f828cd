package career

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/dustin/go-humanize"

	"github.com/vovakirdan/tui-runner/internal/race"
)

// baseYear anchors the in-game calendar: year 1 is 2023.
const baseYear = 2023

// RaceRecord is a personal best for one race type.
type RaceRecord struct {
	Time     float64 `json:"time"`
	Position int     `json:"position"`
	Meet     string  `json:"meet,omitempty"`
}

// SeasonResult is one finished race in the running season log.
type SeasonResult struct {
	Type     race.Type `json:"type"`
	Time     float64   `json:"time"`
	Position int       `json:"position"`
	Score    int       `json:"score"`
	Season   string    `json:"season"`
	Meet     string    `json:"meet"`
}

// Highlight is a narrative career event shown on the career screen.
type Highlight struct {
	Event  string `json:"event"`
	Season string `json:"season"`
}

// PlayerStats is the full durable career state. It is owned by the Ledger
// and mutated only through its methods; the whole structure is serialized
// after every mutation.
type PlayerStats struct {
	Age    int    `json:"age"`
	Season string `json:"season"`
	Year   int    `json:"year"`

	Speed     int `json:"speed"`
	Endurance int `json:"endurance"`
	Technique int `json:"technique"`
	Strength  int `json:"strength"`

	Experience int `json:"experience"`
	Level      int `json:"level"`

	Records          map[race.Type]RaceRecord `json:"records"`
	SeasonResults    []SeasonResult           `json:"seasonResults"`
	CareerHighlights []Highlight              `json:"careerHighlights"`

	TotalRaces int `json:"totalRaces"`
	Wins       int `json:"wins"`

	// Progression cursors. The tier is advanced purely by counting years
	// within it, never re-derived from age or experience.
	TierIndex   int `json:"tierIndex"`
	YearInTier  int `json:"yearInTier"`
	SeasonIndex int `json:"seasonIndex"`
	MeetIndex   int `json:"meetIndex"`
}

// Saver persists the career state. The storage package implements it.
type Saver interface {
	SaveCareer(PlayerStats) error
}

// Outcome summarizes what a recorded race did to the ledger.
type Outcome struct {
	IsNewRecord       bool
	ExperienceGained  int
	LeveledUp         bool
}

// Ledger owns the career state and all derived progression logic. Stat
// draws on level-up come from the injected rng.
//
// All exported methods are safe for concurrent use: the SSH server shares
// one ledger across session goroutines. mu guards stats, rng and saver;
// unexported helpers assume the caller holds it.
type Ledger struct {
	mu    sync.Mutex
	stats PlayerStats
	rng   *rand.Rand
	saver Saver

	// fixedFields disables scaling the competition field by meet
	// importance (the "fixed" difficulty preset).
	fixedFields bool
}

// defaultStats is a first-year high schooler with modest starting records.
func defaultStats() PlayerStats {
	return PlayerStats{
		Age:       16,
		Year:      1,
		Speed:     5,
		Endurance: 3,
		Technique: 4,
		Strength:  3,
		Level:     1,
		Records: map[race.Type]RaceRecord{
			race.Sprint:  {Time: 12.5, Position: 5},
			race.Mile:    {Time: 312.7, Position: 8},
			race.Country: {Time: 780.4, Position: 6},
		},
		TierIndex:   0,
		YearInTier:  1,
		SeasonIndex: 1, // careers start in Spring
		MeetIndex:   0,
	}
}

// NewLedger creates a fresh career.
func NewLedger(rng *rand.Rand) *Ledger {
	l := &Ledger{stats: defaultStats(), rng: rng}
	l.refreshSeasonLabel()
	return l
}

// NewLedgerWithStats creates a fresh career whose trained attributes start
// from the given values instead of the defaults. The difficulty presets
// seed new careers through this.
func NewLedgerWithStats(start race.Stats, rng *rand.Rand) *Ledger {
	s := defaultStats()
	s.Speed = clampStat(start.Speed)
	s.Endurance = clampStat(start.Endurance)
	s.Technique = clampStat(start.Technique)
	s.Strength = clampStat(start.Strength)
	l := &Ledger{stats: s, rng: rng}
	l.refreshSeasonLabel()
	return l
}

func clampStat(v int) int {
	if v < 1 {
		return 1
	}
	if v > 10 {
		return 10
	}
	return v
}

// NewLedgerFromStats restores a career from a previously serialized state,
// clamping any out-of-range cursors.
func NewLedgerFromStats(stats PlayerStats, rng *rand.Rand) *Ledger {
	if stats.Records == nil {
		stats.Records = make(map[race.Type]RaceRecord)
	}
	if stats.Level < 1 {
		stats.Level = 1
	}
	if stats.Year < 1 {
		stats.Year = 1
	}
	if stats.YearInTier < 1 {
		stats.YearInTier = 1
	}
	if stats.TierIndex < 0 || stats.TierIndex >= len(tierNames) {
		stats.TierIndex = 0
	}
	if stats.SeasonIndex < 0 || stats.SeasonIndex >= len(seasons) {
		stats.SeasonIndex = 0
	}
	if stats.MeetIndex < 0 || stats.MeetIndex >= len(meetTypes) {
		stats.MeetIndex = 0
	}
	l := &Ledger{stats: stats, rng: rng}
	l.refreshSeasonLabel()
	return l
}

// Attach sets the saver that receives the state after every mutation.
func (l *Ledger) Attach(s Saver) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.saver = s
}

// SetFixedFields toggles the fixed-field difficulty preset.
func (l *Ledger) SetFixedFields(fixed bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fixedFields = fixed
}

// RaceStats returns the athlete's current trained attributes.
func (l *Ledger) RaceStats() race.Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return race.Stats{
		Speed:     l.stats.Speed,
		Endurance: l.stats.Endurance,
		Technique: l.stats.Technique,
		Strength:  l.stats.Strength,
	}
}

// Snapshot returns a deep copy of the career state for presentation and
// persistence.
func (l *Ledger) Snapshot() PlayerStats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshot()
}

func (l *Ledger) snapshot() PlayerStats {
	s := l.stats
	s.Records = make(map[race.Type]RaceRecord, len(l.stats.Records))
	for k, v := range l.stats.Records {
		s.Records[k] = v
	}
	s.SeasonResults = append([]SeasonResult(nil), l.stats.SeasonResults...)
	s.CareerHighlights = append([]Highlight(nil), l.stats.CareerHighlights...)
	return s
}

// Tier returns the current competition tier.
func (l *Ledger) Tier() Tier {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tier()
}

func (l *Ledger) tier() Tier {
	return Tier(l.stats.TierIndex)
}

// LowestTier reports whether the athlete races at the entry tier, where
// races may enforce a minimum plausible time.
func (l *Ledger) LowestTier() bool {
	return l.Tier() == TierHighSchool
}

// MeetName returns the tier-appropriate name of the current meet.
func (l *Ledger) MeetName() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.meetName()
}

func (l *Ledger) meetName() string {
	return meetName(l.tier(), l.stats.MeetIndex)
}

// SeasonLabel returns the current season display string.
func (l *Ledger) SeasonLabel() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stats.Season
}

// MeetIndex returns the position on the five-meet season ladder, 0-based.
func (l *Ledger) MeetIndex() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stats.MeetIndex
}

// RecordRaceResult folds a finished race into the career: season log, win
// and record bookkeeping, experience and at most one level-up. Unfinished
// results (DNF, abandoned) leave the ledger untouched.
func (l *Ledger) RecordRaceResult(res race.Result) (Outcome, error) {
	if !res.Finished {
		return Outcome{}, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.stats.SeasonResults = append(l.stats.SeasonResults, SeasonResult{
		Type:     res.Type,
		Time:     res.Time,
		Position: res.Position,
		Score:    res.Score,
		Season:   l.stats.Season,
		Meet:     l.meetName(),
	})

	l.stats.TotalRaces++
	if res.Position == 1 {
		l.stats.Wins++
	}

	var out Outcome
	cur, hadRecord := l.stats.Records[res.Type]
	if !hadRecord || res.Time < cur.Time {
		l.stats.Records[res.Type] = RaceRecord{
			Time:     res.Time,
			Position: res.Position,
			Meet:     l.meetName(),
		}
		out.IsNewRecord = true

		// Only a first record or a >5% improvement makes the highlight reel.
		if !hadRecord || cur.Time-res.Time > cur.Time*0.05 {
			l.addHighlight(fmt.Sprintf("New %s record: %s at %s",
				res.Type, race.FormatTime(res.Time), l.meetName()))
		}
	}

	out.ExperienceGained = l.experienceGained(res.Type, res.Position, res.Time)
	l.stats.Experience += out.ExperienceGained

	// At most one level per check, even if experience overshoots.
	if l.stats.Experience >= l.stats.Level*100 {
		l.levelUp()
		out.LeveledUp = true
	}

	return out, l.save()
}

// experienceGained implements the race XP formula: completion base,
// positional bonus, a bonus relative to the tier's published record, and a
// meet-importance bonus with a season-final extra.
func (l *Ledger) experienceGained(typ race.Type, position int, time float64) int {
	xp := 10

	if bonus := 11 - position; bonus > 0 {
		xp += bonus * 2
	}

	if levelRecord := LevelRecord(typ, l.tier()); levelRecord > 0 {
		if time <= levelRecord {
			xp += 50
		} else {
			ratio := levelRecord / time
			xp += int(ratio * ratio * 30)
		}
	}

	xp += l.stats.MeetIndex * 5
	if l.stats.MeetIndex == len(meetTypes)-1 {
		xp += 15
	}
	return xp
}

// levelUp raises the level and one random stat by 1-2 points, capped at 10.
func (l *Ledger) levelUp() {
	l.stats.Level++

	gain := l.rng.Intn(2) + 1
	names := []string{"speed", "endurance", "technique", "strength"}
	targets := []*int{&l.stats.Speed, &l.stats.Endurance, &l.stats.Technique, &l.stats.Strength}
	pick := l.rng.Intn(len(targets))

	*targets[pick] += gain
	if *targets[pick] > 10 {
		*targets[pick] = 10
	}

	l.addHighlight(fmt.Sprintf("Level up to level %d! Improved %s by %d.",
		l.stats.Level, names[pick], gain))
}

// AdvanceToNextMeet steps the season ladder; exhausting it rolls the season
// over. Returns whether the season changed.
func (l *Ledger) AdvanceToNextMeet() (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.stats.MeetIndex++
	if l.stats.MeetIndex < len(meetTypes) {
		return false, l.save()
	}
	l.stats.MeetIndex = 0
	l.advanceSeason()
	return true, l.save()
}

// advanceSeason cycles the four-season wheel; wrapping to the first season
// advances the year, the athlete's age, and the year within the tier, and
// promotes out of the four-year school tiers.
func (l *Ledger) advanceSeason() {
	l.stats.SeasonIndex = (l.stats.SeasonIndex + 1) % len(seasons)

	if l.stats.SeasonIndex == 0 {
		l.stats.Year++
		l.stats.Age = 16 + (l.stats.Year-1)/4
		l.stats.YearInTier++

		tier := l.tier()
		if (tier == TierHighSchool || tier == TierCollege) && l.stats.YearInTier > yearsPerSchoolTier {
			l.stats.TierIndex++
			l.stats.YearInTier = 1
			l.refreshSeasonLabel()
			l.addHighlight(fmt.Sprintf("Advanced to %s level!", l.tier()))
			return
		}
	}
	l.refreshSeasonLabel()
}

func (l *Ledger) addHighlight(event string) {
	l.stats.CareerHighlights = append(l.stats.CareerHighlights, Highlight{
		Event:  event,
		Season: l.stats.Season,
	})
}

func (l *Ledger) refreshSeasonLabel() {
	l.stats.Season = fmt.Sprintf("%s %d (%s Year %s)",
		seasons[l.stats.SeasonIndex],
		baseYear+l.stats.Year-1,
		humanize.Ordinal(l.stats.YearInTier),
		l.tier())
}

func (l *Ledger) save() error {
	if l.saver == nil {
		return nil
	}
	if err := l.saver.SaveCareer(l.snapshot()); err != nil {
		return fmt.Errorf("career: save: %w", err)
	}
	return nil
}
