package career

import (
	"encoding/json"
	"errors"
	"math/rand"
	"sync"
	"testing"

	"github.com/vovakirdan/tui-runner/internal/race"
)

func newTestLedger() *Ledger {
	return NewLedger(rand.New(rand.NewSource(42)))
}

func finished(typ race.Type, time float64, position int) race.Result {
	return race.Result{Type: typ, Finished: true, Time: time, Position: position, Score: 900}
}

func TestFreshCareerDefaults(t *testing.T) {
	l := newTestLedger()
	s := l.Snapshot()

	if s.Age != 16 || s.Level != 1 || s.Experience != 0 {
		t.Errorf("unexpected starting stats: %+v", s)
	}
	if s.Season != "Spring 2023 (1st Year High School)" {
		t.Errorf("season label = %q", s.Season)
	}
	if !l.LowestTier() {
		t.Error("careers start at the entry tier")
	}
	if l.MeetName() != "Home Meet" {
		t.Errorf("first meet = %q", l.MeetName())
	}
	if got := s.Records[race.Sprint].Time; got != 12.5 {
		t.Errorf("starting sprint record = %f, want 12.5", got)
	}
}

func TestPresetStatsSeedFreshCareer(t *testing.T) {
	l := NewLedgerWithStats(race.Stats{Speed: 7, Endurance: 5, Technique: 6, Strength: 5},
		rand.New(rand.NewSource(4)))

	s := l.Snapshot()
	if s.Speed != 7 || s.Endurance != 5 || s.Technique != 6 || s.Strength != 5 {
		t.Errorf("seeded stats lost: %+v", s)
	}
	// Everything else stays at the fresh-career defaults.
	if s.Age != 16 || s.Level != 1 || s.Records[race.Sprint].Time != 12.5 {
		t.Errorf("non-stat defaults drifted: %+v", s)
	}
	if s.Season != "Spring 2023 (1st Year High School)" {
		t.Errorf("season label = %q", s.Season)
	}

	// Out-of-range values clamp to the playable 1-10 band.
	l = NewLedgerWithStats(race.Stats{Speed: 0, Endurance: 12, Technique: -3, Strength: 11},
		rand.New(rand.NewSource(4)))
	s = l.Snapshot()
	if s.Speed != 1 || s.Endurance != 10 || s.Technique != 1 || s.Strength != 10 {
		t.Errorf("stats not clamped: %+v", s)
	}
}

func TestRecordImprovedWithHighlight(t *testing.T) {
	l := newTestLedger()

	// 11.0 beats the starting 12.5 by well over 5%.
	out, err := l.RecordRaceResult(finished(race.Sprint, 11.0, 1))
	if err != nil {
		t.Fatal(err)
	}
	if !out.IsNewRecord {
		t.Error("11.0 should beat the 12.5 starting record")
	}

	s := l.Snapshot()
	if rec := s.Records[race.Sprint]; rec.Time != 11.0 || rec.Position != 1 || rec.Meet != "Home Meet" {
		t.Errorf("record not replaced: %+v", rec)
	}
	if s.TotalRaces != 1 || s.Wins != 1 {
		t.Errorf("race counters wrong: races %d, wins %d", s.TotalRaces, s.Wins)
	}
	if len(s.SeasonResults) != 1 {
		t.Fatalf("season log has %d entries", len(s.SeasonResults))
	}
	if len(s.CareerHighlights) != 1 {
		t.Fatalf("expected one record highlight, got %d", len(s.CareerHighlights))
	}
	if want := "New sprint record: 11.00 at Home Meet"; s.CareerHighlights[0].Event != want {
		t.Errorf("highlight = %q, want %q", s.CareerHighlights[0].Event, want)
	}
}

func TestMarginalRecordSkipsHighlight(t *testing.T) {
	l := newTestLedger()

	// 12.4 beats 12.5 but by under 5%: a record, not a highlight.
	out, err := l.RecordRaceResult(finished(race.Sprint, 12.4, 3))
	if err != nil {
		t.Fatal(err)
	}
	if !out.IsNewRecord {
		t.Error("12.4 should still be a record")
	}
	if n := len(l.Snapshot().CareerHighlights); n != 0 {
		t.Errorf("marginal improvement should not make the reel, got %d highlights", n)
	}
}

func TestSlowerTimeKeepsRecord(t *testing.T) {
	l := newTestLedger()

	out, err := l.RecordRaceResult(finished(race.Sprint, 13.2, 4))
	if err != nil {
		t.Fatal(err)
	}
	if out.IsNewRecord {
		t.Error("13.2 should not beat 12.5")
	}
	if got := l.Snapshot().Records[race.Sprint].Time; got != 12.5 {
		t.Errorf("record mutated to %f", got)
	}
}

func TestUnfinishedResultIgnored(t *testing.T) {
	l := newTestLedger()
	before := l.Snapshot()

	out, err := l.RecordRaceResult(race.Result{Type: race.Sprint, Finished: false, Position: 5})
	if err != nil {
		t.Fatal(err)
	}
	if out.IsNewRecord || out.ExperienceGained != 0 || out.LeveledUp {
		t.Errorf("DNF produced an outcome: %+v", out)
	}

	after := l.Snapshot()
	if after.TotalRaces != before.TotalRaces || after.Experience != before.Experience ||
		len(after.SeasonResults) != 0 {
		t.Error("DNF mutated the ledger")
	}
}

func TestExperienceFormula(t *testing.T) {
	l := newTestLedger()

	// Home meet (index 0), win at 11.0 against the 10.3 high-school record:
	// 10 base + 20 position + floor((10.3/11)^2*30) = 56.
	out, err := l.RecordRaceResult(finished(race.Sprint, 11.0, 1))
	if err != nil {
		t.Fatal(err)
	}
	if out.ExperienceGained != 56 {
		t.Errorf("experience = %d, want 56", out.ExperienceGained)
	}
	if out.LeveledUp {
		t.Error("56 experience should not reach the level-2 threshold of 100")
	}

	// Beating the published record is a flat +50: 10 + 20 + 50 = 80.
	out, err = l.RecordRaceResult(finished(race.Sprint, 10.0, 1))
	if err != nil {
		t.Fatal(err)
	}
	if out.ExperienceGained != 80 {
		t.Errorf("record-beating experience = %d, want 80", out.ExperienceGained)
	}
	if !out.LeveledUp {
		t.Error("136 total experience should trigger the level-2 check")
	}
	if got := l.Snapshot().Level; got != 2 {
		t.Errorf("level = %d, want 2", got)
	}
}

func TestSeasonFinalMeetBonus(t *testing.T) {
	stats := defaultStats()
	stats.MeetIndex = len(meetTypes) - 1 // State meet
	l := NewLedgerFromStats(stats, rand.New(rand.NewSource(1)))

	// 10 base + 20 position + 50 record + 20 meet importance + 15 final.
	out, err := l.RecordRaceResult(finished(race.Sprint, 10.0, 1))
	if err != nil {
		t.Fatal(err)
	}
	if out.ExperienceGained != 115 {
		t.Errorf("season-final experience = %d, want 115", out.ExperienceGained)
	}
}

func TestSingleLevelUpPerCheck(t *testing.T) {
	stats := defaultStats()
	stats.Experience = 95 // one big race overshoots two thresholds
	l := NewLedgerFromStats(stats, rand.New(rand.NewSource(8)))

	out, err := l.RecordRaceResult(finished(race.Sprint, 10.0, 1))
	if err != nil {
		t.Fatal(err)
	}
	if !out.LeveledUp {
		t.Fatal("expected a level-up")
	}
	s := l.Snapshot()
	if s.Level != 2 {
		t.Errorf("level = %d, want exactly 2 (one level per check)", s.Level)
	}
	if s.Experience != 95+out.ExperienceGained {
		t.Errorf("experience should accumulate, not reset: %d", s.Experience)
	}
}

func TestStatsCappedAtTen(t *testing.T) {
	stats := defaultStats()
	stats.Speed, stats.Endurance, stats.Technique, stats.Strength = 10, 10, 9, 10
	l := NewLedgerFromStats(stats, rand.New(rand.NewSource(3)))

	// Force a pile of level-ups.
	for i := 0; i < 20; i++ {
		if _, err := l.RecordRaceResult(finished(race.Sprint, 10.0, 1)); err != nil {
			t.Fatal(err)
		}
	}

	s := l.Snapshot()
	for name, v := range map[string]int{
		"speed": s.Speed, "endurance": s.Endurance,
		"technique": s.Technique, "strength": s.Strength,
	} {
		if v > 10 {
			t.Errorf("%s = %d, stats cap at 10", name, v)
		}
	}
	if s.Level <= 2 {
		t.Errorf("twenty winning races should level repeatedly, level = %d", s.Level)
	}
}

func TestMeetLadderAndSeasonRollover(t *testing.T) {
	l := newTestLedger()

	names := make([]string, 0, len(meetTypes))
	names = append(names, l.MeetName())
	for i := 0; i < len(meetTypes)-1; i++ {
		changed, err := l.AdvanceToNextMeet()
		if err != nil {
			t.Fatal(err)
		}
		if changed {
			t.Fatalf("season rolled over early at step %d", i)
		}
		names = append(names, l.MeetName())
	}

	want := []string{"Home Meet", "Rival Meet", "Districts Meet", "Conference Meet", "State Meet"}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("meet %d = %q, want %q", i, names[i], want[i])
		}
	}

	// The fifth advance exhausts the ladder and rolls the season.
	changed, err := l.AdvanceToNextMeet()
	if err != nil {
		t.Fatal(err)
	}
	if !changed {
		t.Fatal("exhausting the ladder should change the season")
	}
	s := l.Snapshot()
	if s.MeetIndex != 0 {
		t.Errorf("meet index should reset, got %d", s.MeetIndex)
	}
	if s.Season != "Summer 2023 (1st Year High School)" {
		t.Errorf("season label = %q", s.Season)
	}
}

func TestYearAdvancesOnWinterWrap(t *testing.T) {
	stats := defaultStats()
	stats.SeasonIndex = 3 // Fall
	stats.MeetIndex = len(meetTypes) - 1
	l := NewLedgerFromStats(stats, rand.New(rand.NewSource(2)))

	if _, err := l.AdvanceToNextMeet(); err != nil {
		t.Fatal(err)
	}

	s := l.Snapshot()
	if s.Year != 2 || s.YearInTier != 2 {
		t.Errorf("wrap to Winter should advance years: year %d, yearInTier %d", s.Year, s.YearInTier)
	}
	if s.Season != "Winter 2024 (2nd Year High School)" {
		t.Errorf("season label = %q", s.Season)
	}
}

func TestTierPromotionAfterFourYears(t *testing.T) {
	stats := defaultStats()
	stats.YearInTier = yearsPerSchoolTier
	stats.Year = 4
	stats.SeasonIndex = 3
	stats.MeetIndex = len(meetTypes) - 1
	l := NewLedgerFromStats(stats, rand.New(rand.NewSource(2)))

	if _, err := l.AdvanceToNextMeet(); err != nil {
		t.Fatal(err)
	}

	if l.Tier() != TierCollege {
		t.Fatalf("fifth year should promote to College, got %v", l.Tier())
	}
	if l.LowestTier() {
		t.Error("College is not the entry tier")
	}
	s := l.Snapshot()
	if s.YearInTier != 1 {
		t.Errorf("promotion should reset the year in tier, got %d", s.YearInTier)
	}
	last := s.CareerHighlights[len(s.CareerHighlights)-1]
	if last.Event != "Advanced to College level!" {
		t.Errorf("promotion highlight = %q", last.Event)
	}
	if l.MeetName() != "Home Meet" {
		t.Errorf("College home meet = %q", l.MeetName())
	}
}

func TestLevelRecordTable(t *testing.T) {
	if got := LevelRecord(race.Sprint, TierHighSchool); got != 10.3 {
		t.Errorf("high-school sprint record = %f", got)
	}
	if got := LevelRecord(race.Mile, TierProfessional); got != 227.0 {
		t.Errorf("professional mile record = %f", got)
	}
	if got := LevelRecord(race.Country, TierOlympic); got != WorldRecord(race.Country) {
		t.Errorf("the Olympic tier races the world record, got %f", got)
	}
	if got := LevelRecord(race.Type("marathon"), TierCollege); got != 0 {
		t.Errorf("unknown race type should have no record, got %f", got)
	}
}

type countingSaver struct {
	calls int
	last  PlayerStats
	err   error
}

func (s *countingSaver) SaveCareer(ps PlayerStats) error {
	s.calls++
	s.last = ps
	return s.err
}

func TestEveryMutationPersists(t *testing.T) {
	l := newTestLedger()
	saver := &countingSaver{}
	l.Attach(saver)

	if _, err := l.RecordRaceResult(finished(race.Mile, 300, 2)); err != nil {
		t.Fatal(err)
	}
	if saver.calls != 1 {
		t.Errorf("race result should persist once, got %d saves", saver.calls)
	}
	if _, err := l.AdvanceToNextMeet(); err != nil {
		t.Fatal(err)
	}
	if saver.calls != 2 {
		t.Errorf("meet advance should persist, got %d saves", saver.calls)
	}
	if saver.last.TotalRaces != 1 {
		t.Error("saved snapshot is stale")
	}
}

func TestSaveErrorSurfaces(t *testing.T) {
	l := newTestLedger()
	boom := errors.New("disk gone")
	l.Attach(&countingSaver{err: boom})

	_, err := l.RecordRaceResult(finished(race.Sprint, 11.5, 2))
	if !errors.Is(err, boom) {
		t.Errorf("save failure should surface wrapped, got %v", err)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	l := newTestLedger()
	if _, err := l.RecordRaceResult(finished(race.Sprint, 11.0, 1)); err != nil {
		t.Fatal(err)
	}
	if _, err := l.AdvanceToNextMeet(); err != nil {
		t.Fatal(err)
	}

	blob, err := json.Marshal(l.Snapshot())
	if err != nil {
		t.Fatal(err)
	}
	var restored PlayerStats
	if err := json.Unmarshal(blob, &restored); err != nil {
		t.Fatal(err)
	}

	l2 := NewLedgerFromStats(restored, rand.New(rand.NewSource(42)))
	a, b := l.Snapshot(), l2.Snapshot()
	if a.Season != b.Season || a.Experience != b.Experience || a.Level != b.Level ||
		a.Records[race.Sprint] != b.Records[race.Sprint] ||
		len(a.SeasonResults) != len(b.SeasonResults) {
		t.Errorf("round trip drifted:\n%+v\n%+v", a, b)
	}
	if l2.MeetName() != l.MeetName() {
		t.Errorf("meet cursor lost: %q vs %q", l2.MeetName(), l.MeetName())
	}
}

func TestConcurrentSessionsShareOneLedger(t *testing.T) {
	// The SSH server hands the same ledger to every session goroutine.
	// Recording results, building fields and snapshotting must all be safe
	// to interleave; run with -race to catch regressions.
	l := newTestLedger()
	l.Attach(&countingSaver{})

	const sessions = 4
	const racesPerSession = 25

	var wg sync.WaitGroup
	for s := 0; s < sessions; s++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < racesPerSession; i++ {
				if _, err := l.RecordRaceResult(finished(race.Sprint, 10.0, 1)); err != nil {
					t.Error(err)
					return
				}
				l.CompetitionDetails(race.Sprint)
				l.Snapshot()
				l.RaceStats()
			}
		}()
	}
	wg.Wait()

	s := l.Snapshot()
	if s.TotalRaces != sessions*racesPerSession {
		t.Errorf("race count = %d, want %d", s.TotalRaces, sessions*racesPerSession)
	}
	if len(s.SeasonResults) != sessions*racesPerSession {
		t.Errorf("season log has %d entries, want %d", len(s.SeasonResults), sessions*racesPerSession)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	l := newTestLedger()
	s := l.Snapshot()
	s.Records[race.Sprint] = RaceRecord{Time: 1}
	s.Speed = 99

	if l.Snapshot().Records[race.Sprint].Time == 1 || l.Snapshot().Speed == 99 {
		t.Error("snapshot mutation leaked into the ledger")
	}
}
