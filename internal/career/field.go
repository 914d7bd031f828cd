package career

import (
	"fmt"

	"github.com/vovakirdan/tui-runner/internal/race"
)

// CompetitionDetails is everything the race setup screen needs for the
// current meet: the rival start list, the tier's target time and a title.
type CompetitionDetails struct {
	Entries    []race.Entry
	TargetTime float64
	Title      string
}

var (
	firstNames = []string{"Alex", "Jamie", "Taylor", "Jordan", "Casey", "Riley", "Avery", "Charlie", "Quinn", "Morgan"}
	lastNames  = []string{"Smith", "Johnson", "Lee", "Garcia", "Martinez", "Brown", "Davis", "Wilson", "Miller", "Taylor"}
)

// maxFieldSize caps the start list, player included.
const maxFieldSize = 8

// CompetitionDetails generates the field for the current meet. Field size,
// mean skill and skill variance all scale with the tier and with how deep
// into the season ladder the meet sits; the fixed-fields preset freezes the
// meet scaling.
func (l *Ledger) CompetitionDetails(typ race.Type) CompetitionDetails {
	l.mu.Lock()
	defer l.mu.Unlock()

	meetFactor := float64(l.stats.MeetIndex) / float64(len(meetTypes)-1)
	if l.fixedFields {
		meetFactor = 0
	}

	tier := float64(l.stats.TierIndex)
	avgSkill := 3 + tier*1.5 + meetFactor*2
	variance := 1.5 - tier*0.2 - meetFactor*0.2

	count := 4 + l.stats.MeetIndex
	if count > maxFieldSize {
		count = maxFieldSize
	}

	entries := make([]race.Entry, 0, count-1)
	for i := 0; i < count-1; i++ {
		skill := avgSkill + (l.rng.Float64()*variance*2 - variance)
		if skill < 1 {
			skill = 1
		}
		if skill > 10 {
			skill = 10
		}
		entries = append(entries, race.Entry{
			Name:  l.randomName(),
			Skill: skill,
		})
	}

	return CompetitionDetails{
		Entries:    entries,
		TargetTime: LevelRecord(typ, l.tier()),
		Title: fmt.Sprintf("%s - %s %s",
			l.meetName(), seasons[l.stats.SeasonIndex], l.tier()),
	}
}

func (l *Ledger) randomName() string {
	return firstNames[l.rng.Intn(len(firstNames))] + " " + lastNames[l.rng.Intn(len(lastNames))]
}
