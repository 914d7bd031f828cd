// Package career holds the durable progression state: player stats, personal
// records, experience and levels, and the meet / season / tier ladder that
// frames every race.
package career

// Tier is a competition level on the career ladder.
type Tier int

const (
	TierHighSchool Tier = iota
	TierCollege
	TierAmateur
	TierProfessional
	TierOlympic
)

var tierNames = []string{"High School", "College", "Amateur", "Professional", "Olympic"}

// String returns the tier's display name.
func (t Tier) String() string {
	if t < 0 || int(t) >= len(tierNames) {
		return "Unknown"
	}
	return tierNames[t]
}

// yearsPerSchoolTier is how long High School and College last before
// promotion. Amateur and above are left by other means (never, currently).
const yearsPerSchoolTier = 4

// seasons is the four-step wheel within a year.
var seasons = []string{"Winter", "Spring", "Summer", "Fall"}

// meetTypes is the five-meet ladder within a season, in progression order.
var meetTypes = []string{"Home", "Rival", "Districts", "Conference", "State"}

// meetName maps the raw meet rung to a tier-appropriate display name.
func meetName(tier Tier, meetIndex int) string {
	if meetIndex < 0 || meetIndex >= len(meetTypes) {
		meetIndex = 0
	}
	base := meetTypes[meetIndex]

	switch tier {
	case TierHighSchool:
		return base + " Meet"
	case TierCollege:
		if base == "State" {
			return "Nationals"
		}
		return base + " Meet"
	case TierAmateur:
		switch base {
		case "Home":
			return "Local Meet"
		case "Rival":
			return "Regional Meet"
		case "Districts":
			return "Sectionals"
		case "Conference":
			return "Nationals"
		case "State":
			return "International Open"
		}
	case TierProfessional:
		switch base {
		case "Home":
			return "Diamond League"
		case "Rival":
			return "Grand Prix"
		case "Districts":
			return "Continental Championship"
		case "Conference":
			return "World Championship"
		case "State":
			return "Olympic Trials"
		}
	case TierOlympic:
		return "Olympic Games"
	}
	return base + " Meet"
}
