package election

import (
	"strconv"

	"github.com/02loveslollipop/pollbooth/services/seeder/internal/models"
	"github.com/02loveslollipop/pollbooth/services/seeder/internal/utils"
	"github.com/02loveslollipop/pollbooth/services/seeder/internal/workbook"
)

// Column positions shared by the fixed-layout sheets.
const (
	colYear      = 0
	colAssembly  = 4
	colStationNo = 11
	noColumn     = -1
)

// PartyColumn binds a sheet column to a canonical party token.
type PartyColumn struct {
	Index int
	Party string
}

// FixedLayout describes a sheet whose party columns sit at fixed positions.
type FixedLayout struct {
	Year    int
	Sheet   string
	Parties []PartyColumn
	// Columns [OthersFrom, OthersTo) are summed into OthersParty when OthersTo > OthersFrom.
	OthersFrom int
	OthersTo   int
	// TotalColumn holds declared total votes; noColumn means sum of parts.
	TotalColumn int
}

// OthersParty is the synthetic bucket for residual candidate columns.
const OthersParty = "OTHERS"

// NotaParty is the "none of the above" token.
const NotaParty = "NOTA"

var (
	Layout2009 = FixedLayout{
		Year:  models.Year2009,
		Sheet: "main",
		Parties: []PartyColumn{
			{12, "PRP"}, {13, "INC"}, {14, "IND"}, {15, "TDP"}, {16, "LSP"}, {17, "BJP"},
		},
		OthersFrom:  18,
		OthersTo:    30,
		TotalColumn: noColumn,
	}

	Layout2014 = FixedLayout{
		Year:  models.Year2014,
		Sheet: "Sheet1",
		Parties: []PartyColumn{
			{12, "YSRCP"}, {13, "TDP"}, {14, "JANASENA"}, {15, NotaParty},
			{16, "BSP"}, {17, "LSP"}, {18, "INC"},
		},
		TotalColumn: 19,
	}

	Layout2019 = FixedLayout{
		Year:  models.Year2019,
		Sheet: "Sheet2",
		Parties: []PartyColumn{
			{12, "TDP"}, {13, "YSRCP"}, {14, "JANASENA"}, {15, "BJP"},
			{16, "INC"}, {17, "IND"}, {18, NotaParty},
		},
		TotalColumn: noColumn,
	}
)

// Parse scans the sheet rows and returns one record per station. The first
// row is a header. Rows for another year, rows without a usable station key
// and rows with zero total votes are skipped; a later row for the same key
// replaces an earlier one.
func (l FixedLayout) Parse(rows []workbook.Row) models.StationRecords {
	out := make(models.StationRecords)
	if len(rows) == 0 {
		return out
	}

	for _, row := range rows[1:] {
		first := row.At(colYear)
		if first.IsEmpty() {
			continue
		}
		if utils.SafeInt(first.Value()) != l.Year {
			continue
		}

		acID := utils.SafeInt(row.At(colAssembly).Value())
		psNo := utils.SafeInt(row.At(colStationNo).Value())
		if acID == 0 || psNo == 0 {
			continue
		}

		votes := make(map[string]int, len(l.Parties)+1)
		for _, pc := range l.Parties {
			if v := utils.SafeInt(row.At(pc.Index).Value()); v != 0 {
				votes[pc.Party] = v
			}
		}

		if l.OthersTo > l.OthersFrom {
			others := 0
			for col := l.OthersFrom; col < l.OthersTo && col < len(row); col++ {
				others += utils.SafeInt(row.At(col).Value())
			}
			if others != 0 {
				votes[OthersParty] = others
			}
		}

		total := 0
		if l.TotalColumn != noColumn {
			total = utils.SafeInt(row.At(l.TotalColumn).Value())
		}
		if total == 0 {
			total = utils.SumVotes(votes)
		}

		rec, ok := NewRecord(l.Year, votes, total)
		if !ok {
			continue
		}
		out[models.StationKey{AssemblyID: strconv.Itoa(acID), StationNo: strconv.Itoa(psNo)}] = rec
	}
	return out
}

// NewRecord builds an election record from raw party votes. It reports false
// when total is not positive. Parties with non-positive votes are omitted.
func NewRecord(year int, votes map[string]int, total int) (models.ElectionRecord, bool) {
	if total <= 0 {
		return models.ElectionRecord{}, false
	}
	candidates := make(map[string]float64, len(votes))
	for party, v := range votes {
		if party == "" || v <= 0 {
			continue
		}
		candidates[party] = utils.Share(v, total)
	}
	return models.ElectionRecord{Year: year, TotalVotes: total, Candidates: candidates}, true
}
