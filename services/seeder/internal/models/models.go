package models

import (
	"fmt"
	"strconv"
)

// Supported election years.
const (
	Year2009 = 2009
	Year2014 = 2014
	Year2019 = 2019
	Year2024 = 2024
)

// StationKey identifies a polling station within an assembly constituency.
type StationKey struct {
	AssemblyID string
	StationNo  string
}

// DocumentID returns the store document id, e.g. "108-1".
func (k StationKey) DocumentID() string {
	return k.AssemblyID + "-" + k.StationNo
}

// Less orders keys numerically by assembly then station, falling back to
// string comparison for non-numeric parts.
func (k StationKey) Less(o StationKey) bool {
	if k.AssemblyID != o.AssemblyID {
		return numericLess(k.AssemblyID, o.AssemblyID)
	}
	return numericLess(k.StationNo, o.StationNo)
}

func numericLess(a, b string) bool {
	ai, aerr := strconv.Atoi(a)
	bi, berr := strconv.Atoi(b)
	if aerr == nil && berr == nil {
		return ai < bi
	}
	return a < b
}

// ElectionRecord is the canonical per-station result for one election year.
type ElectionRecord struct {
	Year       int                `json:"year"`
	TotalVotes int                `json:"total_votes"`
	Candidates map[string]float64 `json:"candidates"`
}

// FieldName returns the document field the record is stored under.
func FieldName(year int) string {
	return fmt.Sprintf("election%d", year)
}

// StationRecords maps station keys to a single year's records.
type StationRecords map[StationKey]ElectionRecord

// AssemblyBlocks holds the identifier-less layout: uppercased assembly name ->
// station number -> record.
type AssemblyBlocks map[string]map[string]ElectionRecord

// StationCount returns the number of station records across all assemblies.
func (b AssemblyBlocks) StationCount() int {
	n := 0
	for _, stations := range b {
		n += len(stations)
	}
	return n
}

// Document is a merge-upsert payload for one station document.
type Document struct {
	ID     string
	Fields map[string]ElectionRecord
}

// AssemblyRef is an (ac_id, ac_name) pair read from existing station documents.
type AssemblyRef struct {
	ID   string
	Name string
}
