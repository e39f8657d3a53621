package election

import (
	"sort"

	"github.com/02loveslollipop/pollbooth/services/seeder/internal/models"
)

// YearRecords pairs one year's parsed records with their year.
type YearRecords struct {
	Year    int
	Records models.StationRecords
}

// Merge unions the station keys of every year and builds one document per
// key holding only the years that have data for it. Documents come back in
// ascending (assembly, station) order.
func Merge(years ...YearRecords) []models.Document {
	keys := make(map[models.StationKey]struct{})
	for _, yr := range years {
		for k := range yr.Records {
			keys[k] = struct{}{}
		}
	}

	sorted := make([]models.StationKey, 0, len(keys))
	for k := range keys {
		sorted = append(sorted, k)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Less(sorted[j]) })

	docs := make([]models.Document, 0, len(sorted))
	for _, k := range sorted {
		fields := make(map[string]models.ElectionRecord, len(years))
		for _, yr := range years {
			if rec, ok := yr.Records[k]; ok {
				fields[models.FieldName(yr.Year)] = rec
			}
		}
		if len(fields) == 0 {
			continue
		}
		docs = append(docs, models.Document{ID: k.DocumentID(), Fields: fields})
	}
	return docs
}
