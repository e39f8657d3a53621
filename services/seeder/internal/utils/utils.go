package utils

import (
	"math"
	"strconv"
	"strings"
)

// shareScale rounds vote shares to 6 decimal places.
const shareScale = 1e6

// SafeFloat interprets v as a real number. Nil, unparsable text, NaN, ±Inf and
// unsupported types yield 0.
func SafeFloat(v any) float64 {
	var f float64
	switch x := v.(type) {
	case nil:
		return 0
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case int32:
		f = float64(x)
	case uint:
		f = float64(x)
	case uint32:
		f = float64(x)
	case uint64:
		f = float64(x)
	case bool:
		if x {
			f = 1
		}
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// SafeInt is SafeFloat truncated toward zero.
func SafeInt(v any) int {
	f := SafeFloat(v)
	if f >= math.MaxInt64 || f <= math.MinInt64 {
		return 0
	}
	return int(f)
}

// Share returns votes/total rounded to 6 decimals, or 0 when total <= 0.
func Share(votes, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(votes)/float64(total)*shareScale) / shareScale
}

// SumVotes adds up a party -> votes map.
func SumVotes(votes map[string]int) int {
	total := 0
	for _, v := range votes {
		total += v
	}
	return total
}

// partyAliases maps known label variants (already trimmed and uppercased) to a
// canonical party token.
var partyAliases = map[string]string{
	"JANASENA":               "JANASENA",
	"JANA SENA":              "JANASENA",
	"JATIYA JANA SENA PARTY": "JANASENA",
	"JSP":                    "JANASENA",
	"YSRCP":                  "YSRCP",
	"Y.S.R.C.P":              "YSRCP",
	"TDP":                    "TDP",
	"TELUGUDE SHAM PARTY":    "TDP",
	"INC":                    "INC",
	"CONGRESS":               "INC",
	"BSP":                    "BSP",
	"BAHUJAN SAMAJ PARTY":    "BSP",
	"B.S.P":                  "BSP",
}

// NormalizeParty maps a raw party label to its canonical token. Unknown
// labels pass through trimmed and uppercased.
func NormalizeParty(name string) string {
	key := strings.ToUpper(strings.TrimSpace(name))
	if canonical, ok := partyAliases[key]; ok {
		return canonical
	}
	return key
}
