package http

import (
	"math"
	"sort"

	"github.com/02loveslollipop/pollbooth/services/api/db"
)

const notaParty = "NOTA"

// PartyResult is one party's assembly-wide tally.
type PartyResult struct {
	Party       string  `json:"party"`
	Votes       int     `json:"votes"`
	Share       float64 `json:"share"`
	StationsWon int     `json:"stations_won"`
}

// StationWinner is the strongest party at one polling station.
type StationWinner struct {
	StationID string  `json:"station_id"`
	Party     string  `json:"party"`
	Share     float64 `json:"share"`
}

// AssemblyResult aggregates one election year across an assembly.
type AssemblyResult struct {
	AssemblyID string          `json:"ac_id"`
	Year       int             `json:"year"`
	Stations   int             `json:"stations"`
	TotalVotes int             `json:"total_votes"`
	Leader     string          `json:"leader,omitempty"`
	Parties    []PartyResult   `json:"parties"`
	Winners    []StationWinner `json:"station_winners"`
}

type stationRecord struct {
	id  string
	rec db.ElectionResult
}

// aggregateResults rebuilds vote counts from the stored shares. NOTA is
// tallied but never reported as a leader or station winner.
func aggregateResults(assemblyID string, year int, records []stationRecord) AssemblyResult {
	out := AssemblyResult{
		AssemblyID: assemblyID,
		Year:       year,
		Parties:    make([]PartyResult, 0),
		Winners:    make([]StationWinner, 0),
	}

	votes := make(map[string]int)
	won := make(map[string]int)
	for _, r := range records {
		if r.rec.TotalVotes <= 0 {
			continue
		}
		out.Stations++
		out.TotalVotes += r.rec.TotalVotes
		for party, share := range r.rec.Candidates {
			votes[party] += int(math.Round(share * float64(r.rec.TotalVotes)))
		}
		if party, share, ok := strongest(r.rec.Candidates); ok {
			won[party]++
			out.Winners = append(out.Winners, StationWinner{StationID: r.id, Party: party, Share: share})
		}
	}

	for party, v := range votes {
		out.Parties = append(out.Parties, PartyResult{
			Party:       party,
			Votes:       v,
			Share:       share(v, out.TotalVotes),
			StationsWon: won[party],
		})
	}
	sort.Slice(out.Parties, func(i, j int) bool {
		if out.Parties[i].Votes != out.Parties[j].Votes {
			return out.Parties[i].Votes > out.Parties[j].Votes
		}
		return out.Parties[i].Party < out.Parties[j].Party
	})
	for _, p := range out.Parties {
		if p.Party != notaParty && p.Votes > 0 {
			out.Leader = p.Party
			break
		}
	}
	return out
}

// strongest picks the highest share, breaking ties by party name.
func strongest(candidates map[string]float64) (string, float64, bool) {
	best, bestShare := "", 0.0
	for party, s := range candidates {
		if party == notaParty || s <= 0 {
			continue
		}
		if best == "" || s > bestShare || (s == bestShare && party < best) {
			best, bestShare = party, s
		}
	}
	return best, bestShare, best != ""
}

func share(votes, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(votes)/float64(total)*1e6) / 1e6
}
