// Package keywords holds the substring tables the classifier matches against
// lower-cased entity names, type names and team labels.
package keywords

import "strings"

// Table is a list of lower-case substrings.
type Table []string

// Match reports whether s contains any keyword, ignoring case.
func (t Table) Match(s string) bool {
	if s == "" {
		return false
	}
	s = strings.ToLower(s)
	for _, k := range t {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// MatchAny reports whether any of the given strings matches.
func (t Table) MatchAny(ss ...string) bool {
	for _, s := range ss {
		if t.Match(s) {
			return true
		}
	}
	return false
}

var (
	// Pet matches companion creatures.
	Pet = Table{"pet"}

	// Environment matches destructible and static props that carry team
	// components but are never combatants.
	Environment = Table{
		"brokenwall",
		"breakablewall",
		"sandbag",
		"sand bag",
		"coverwall",
		"cover_wall",
		"cover",
		"barricade",
		"tombstone",
		"explosive_oilbarrel_25",
		"explosive_oilbarrel",
		"oilbarrel",
		"testhalfobsticle_18",
		"halfobsticle",
		"obsticle",
	}

	// Friendly matches team labels that are not hostile to the player.
	Friendly = Table{
		"ally",
		"friend",
		"friendly",
		"neutral",
		"civil",
		"shop",
		"vendor",
		"test",
		"dummy",
		"training",
	}

	// Player matches the player's own team label.
	Player = Table{"player"}
)

// Excluded reports whether any string matches the pet or environment tables.
func Excluded(ss ...string) bool {
	return Pet.MatchAny(ss...) || Environment.MatchAny(ss...)
}
