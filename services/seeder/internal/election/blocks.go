package election

import (
	"strconv"
	"strings"

	"github.com/02loveslollipop/pollbooth/services/seeder/internal/models"
	"github.com/02loveslollipop/pollbooth/services/seeder/internal/utils"
	"github.com/02loveslollipop/pollbooth/services/seeder/internal/workbook"
)

// headerExclusions mark block-header columns that never hold party votes.
var headerExclusions = []string{"TOTAL", "NOTA", "NO.OF", "REJECTED", "PS NO"}

// BlockLayout describes the sheet that groups stations under assembly-name
// marker rows and carries no numeric assembly identifier.
type BlockLayout struct {
	Year  int
	Sheet string
}

var Layout2024 = BlockLayout{Year: models.Year2024, Sheet: "Sheet4"}

// blockHeader is the column map discovered from a block's header row.
type blockHeader struct {
	parties  []PartyColumn
	notaCol  int
	totalCol int
}

// isMarker reports whether row starts an assembly block: text in the first
// cell and nothing in the second.
func isMarker(row workbook.Row) bool {
	first := row.At(0)
	return first.Kind == workbook.Text && strings.TrimSpace(first.Str) != "" && row.At(1).IsEmpty()
}

func parseBlockHeader(row workbook.Row) blockHeader {
	h := blockHeader{notaCol: noColumn, totalCol: noColumn}
	for idx := range row {
		label := ""
		if c := row.At(idx); !c.IsEmpty() {
			label = strings.TrimSpace(c.Str)
		}
		upper := strings.ToUpper(label)
		if strings.Contains(upper, NotaParty) {
			h.notaCol = idx
		}
		if strings.Contains(upper, "TOTAL") {
			h.totalCol = idx
		}
		// The assembly and station columns never hold votes.
		if idx < 2 || label == "" || containsAny(upper, headerExclusions) {
			continue
		}
		h.parties = append(h.parties, PartyColumn{Index: idx, Party: utils.NormalizeParty(label)})
	}
	return h
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// Parse walks the marker/header/station blocks. Blocks that yield no station
// record are left out of the result.
func (l BlockLayout) Parse(rows []workbook.Row) models.AssemblyBlocks {
	out := make(models.AssemblyBlocks)

	i := 0
	for i < len(rows) {
		if !isMarker(rows[i]) {
			i++
			continue
		}

		name := strings.ToUpper(strings.TrimSpace(rows[i].At(0).Str))
		i++
		if i >= len(rows) {
			break
		}
		header := parseBlockHeader(rows[i])
		i++

		stations := make(map[string]models.ElectionRecord)
		for ; i < len(rows) && !isMarker(rows[i]); i++ {
			row := rows[i]
			ps := row.At(1)
			if ps.Kind != workbook.Number {
				continue
			}
			psNo := strconv.Itoa(utils.SafeInt(ps.Value()))

			votes := make(map[string]int, len(header.parties)+1)
			for _, pc := range header.parties {
				if v := utils.SafeInt(row.At(pc.Index).Value()); v != 0 {
					votes[pc.Party] = v
				}
			}
			if header.notaCol != noColumn {
				if v := utils.SafeInt(row.At(header.notaCol).Value()); v != 0 {
					votes[NotaParty] = v
				}
			}

			var total int
			if tc := row.At(header.totalCol); header.totalCol != noColumn && tc.Kind == workbook.Number {
				total = utils.SafeInt(tc.Value())
			} else {
				total = utils.SumVotes(votes)
			}

			rec, ok := NewRecord(l.Year, votes, total)
			if !ok {
				continue
			}
			stations[psNo] = rec
		}

		if len(stations) > 0 {
			out[name] = stations
		}
	}
	return out
}
