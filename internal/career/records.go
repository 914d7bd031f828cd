package career

import "github.com/vovakirdan/tui-runner/internal/race"

// tierRecords is the published record time per race type and tier. Beating
// the current tier's record is worth a large experience bonus.
type tierRecords struct {
	World        float64
	HighSchool   float64
	College      float64
	Amateur      float64
	Professional float64
}

var recordTimes = map[race.Type]tierRecords{
	race.Sprint: {
		World:        9.58,
		HighSchool:   10.3,
		College:      9.9,
		Amateur:      10.1,
		Professional: 9.7,
	},
	race.Mile: {
		World:        223.0, // 3:43.00
		HighSchool:   241.0, // 4:01.00
		College:      231.0, // 3:51.00
		Amateur:      236.0, // 3:56.00
		Professional: 227.0, // 3:47.00
	},
	race.Country: {
		World:        480.0, // 8:00.00
		HighSchool:   550.0, // 9:10.00
		College:      510.0, // 8:30.00
		Amateur:      530.0, // 8:50.00
		Professional: 495.0, // 8:15.00
	},
}

// LevelRecord returns the published record for the given race type at the
// given tier. The Olympic tier races against the world record. Unknown race
// types return 0, which callers treat as "no record published".
func LevelRecord(typ race.Type, tier Tier) float64 {
	r, ok := recordTimes[typ]
	if !ok {
		return 0
	}
	switch tier {
	case TierHighSchool:
		return r.HighSchool
	case TierCollege:
		return r.College
	case TierAmateur:
		return r.Amateur
	case TierProfessional:
		return r.Professional
	case TierOlympic:
		return r.World
	default:
		return r.HighSchool
	}
}

// WorldRecord returns the world record for the race type, 0 if unknown.
func WorldRecord(typ race.Type) float64 {
	return recordTimes[typ].World
}
