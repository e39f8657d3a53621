package election

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/02loveslollipop/pollbooth/services/seeder/internal/models"
)

// MatchKind tells how an assembly name was resolved.
type MatchKind int

const (
	NoMatch MatchKind = iota
	ExactMatch
	ContainsMatch
)

func (m MatchKind) String() string {
	switch m {
	case ExactMatch:
		return "exact"
	case ContainsMatch:
		return "contains"
	default:
		return "none"
	}
}

// AssemblyIndex maps uppercased assembly display names to identifiers.
type AssemblyIndex struct {
	byName map[string]string
	names  []string
}

// NewAssemblyIndex indexes refs by uppercased trimmed name. Refs missing an id
// or a name are ignored; a later ref with the same name replaces an earlier one.
func NewAssemblyIndex(refs []models.AssemblyRef) *AssemblyIndex {
	idx := &AssemblyIndex{byName: make(map[string]string)}
	for _, ref := range refs {
		id := strings.TrimSpace(ref.ID)
		name := strings.ToUpper(strings.TrimSpace(ref.Name))
		if id == "" || name == "" {
			continue
		}
		idx.byName[name] = id
	}
	idx.names = make([]string, 0, len(idx.byName))
	for name := range idx.byName {
		idx.names = append(idx.names, name)
	}
	sort.Strings(idx.names)
	return idx
}

// Len returns the number of distinct indexed names.
func (x *AssemblyIndex) Len() int {
	return len(x.byName)
}

// Resolve finds the identifier for an assembly name. An exact match wins;
// otherwise the indexed names that contain the target or are contained in it
// are candidates, and the one closest to the target by edit distance is
// chosen, ties going to the lexicographically smaller name.
func (x *AssemblyIndex) Resolve(name string) (string, MatchKind) {
	target := strings.ToUpper(strings.TrimSpace(name))
	if target == "" {
		return "", NoMatch
	}
	if id, ok := x.byName[target]; ok {
		return id, ExactMatch
	}

	best := ""
	bestDist := -1
	for _, candidate := range x.names {
		if !strings.Contains(target, candidate) && !strings.Contains(candidate, target) {
			continue
		}
		d := levenshtein.ComputeDistance(target, candidate)
		if bestDist < 0 || d < bestDist {
			best, bestDist = candidate, d
		}
	}
	if bestDist < 0 {
		return "", NoMatch
	}
	return x.byName[best], ContainsMatch
}

// Resolution is the outcome of reconciling identifier-less blocks.
type Resolution struct {
	Documents []models.Document
	Matched   map[string]string
	Fuzzy     []string
	Unmatched []string
}

// Reconcile resolves every block's assembly name and builds one document per
// (resolved id, station). Unresolved assemblies are listed, not written.
// Names are processed in sorted order so output is deterministic.
func Reconcile(blocks models.AssemblyBlocks, idx *AssemblyIndex, year int) Resolution {
	res := Resolution{Matched: make(map[string]string)}

	names := make([]string, 0, len(blocks))
	for name := range blocks {
		names = append(names, name)
	}
	sort.Strings(names)

	field := models.FieldName(year)
	for _, name := range names {
		id, kind := idx.Resolve(name)
		if kind == NoMatch {
			res.Unmatched = append(res.Unmatched, name)
			continue
		}
		res.Matched[name] = id
		if kind == ContainsMatch {
			res.Fuzzy = append(res.Fuzzy, name)
		}

		stations := blocks[name]
		keys := make([]models.StationKey, 0, len(stations))
		for psNo := range stations {
			keys = append(keys, models.StationKey{AssemblyID: id, StationNo: psNo})
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })

		for _, k := range keys {
			res.Documents = append(res.Documents, models.Document{
				ID:     k.DocumentID(),
				Fields: map[string]models.ElectionRecord{field: stations[k.StationNo]},
			})
		}
	}
	return res
}
