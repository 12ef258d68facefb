package server

import "sort"

// Standing is one player's win/loss tally. Tallies are kept per username,
// so they survive reconnects for as long as the hub runs.
type Standing struct {
	Username string
	Wins     int
	Losses   int
}

// Played returns the number of finished matches.
func (s Standing) Played() int { return s.Wins + s.Losses }

// sortStandings orders by wins, then fewer losses, then username so equal
// records always list the same way.
func sortStandings(entries []Standing) {
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		if a.Losses != b.Losses {
			return a.Losses < b.Losses
		}
		return a.Username < b.Username
	})
}
