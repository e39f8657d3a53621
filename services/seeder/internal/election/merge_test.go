package election

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/02loveslollipop/pollbooth/services/seeder/internal/models"
)

func record(year, total int) models.ElectionRecord {
	return models.ElectionRecord{Year: year, TotalVotes: total, Candidates: map[string]float64{"TDP": 1}}
}

func TestMergeDisjointKeys(t *testing.T) {
	docs := Merge(
		YearRecords{Year: 2009, Records: models.StationRecords{{AssemblyID: "108", StationNo: "1"}: record(2009, 10)}},
		YearRecords{Year: 2014, Records: models.StationRecords{{AssemblyID: "108", StationNo: "2"}: record(2014, 20)}},
		YearRecords{Year: 2019, Records: models.StationRecords{}},
	)

	require.Len(t, docs, 2)
	assert.Equal(t, "108-1", docs[0].ID)
	assert.Equal(t, map[string]models.ElectionRecord{"election2009": record(2009, 10)}, docs[0].Fields)
	assert.Equal(t, "108-2", docs[1].ID)
	assert.Equal(t, map[string]models.ElectionRecord{"election2014": record(2014, 20)}, docs[1].Fields)
}

func TestMergeOverlappingKeys(t *testing.T) {
	key := models.StationKey{AssemblyID: "7", StationNo: "3"}
	docs := Merge(
		YearRecords{Year: 2009, Records: models.StationRecords{key: record(2009, 1)}},
		YearRecords{Year: 2014, Records: nil},
		YearRecords{Year: 2019, Records: models.StationRecords{key: record(2019, 3)}},
	)

	require.Len(t, docs, 1)
	assert.Equal(t, "7-3", docs[0].ID)
	assert.Len(t, docs[0].Fields, 2)
	assert.Contains(t, docs[0].Fields, "election2009")
	assert.Contains(t, docs[0].Fields, "election2019")
	assert.NotContains(t, docs[0].Fields, "election2014")
}

func TestMergeOrdersNumerically(t *testing.T) {
	recs := models.StationRecords{
		{AssemblyID: "10", StationNo: "2"}:  record(2019, 1),
		{AssemblyID: "9", StationNo: "11"}:  record(2019, 1),
		{AssemblyID: "9", StationNo: "2"}:   record(2019, 1),
		{AssemblyID: "10", StationNo: "10"}: record(2019, 1),
	}

	docs := Merge(YearRecords{Year: 2019, Records: recs})

	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []string{"9-2", "9-11", "10-2", "10-10"}, ids)
}

func TestMergeEmpty(t *testing.T) {
	assert.Empty(t, Merge())
	assert.Empty(t, Merge(YearRecords{Year: 2009}))
}
