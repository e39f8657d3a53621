package db

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableIdent(t *testing.T) {
	assert.Equal(t, `"polling_stations"`, TableIdent("polling_stations"))
	assert.Equal(t, `"pollbooth"."polling_stations"`, TableIdent(" pollbooth.polling_stations "))
}

func TestListStationsSQL(t *testing.T) {
	assert.NotContains(t, listStationsSQL(`"t"`, 0), "LIMIT")
	assert.Contains(t, listStationsSQL(`"t"`, 25), "LIMIT $2")
	assert.Contains(t, listStationsSQL(`"t"`, 25), `FROM "t"`)
}

func TestStationElection(t *testing.T) {
	st := Station{
		ID:  "108-1",
		Doc: json.RawMessage(`{"ac_id":"108","election2024":{"year":2024,"total_votes":100,"candidates":{"TDP":0.6,"YSRCP":0.4}}}`),
	}

	rec, ok, err := st.Election(2024)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 100, rec.TotalVotes)
	assert.Equal(t, map[string]float64{"TDP": 0.6, "YSRCP": 0.4}, rec.Candidates)

	_, ok, err = st.Election(2019)
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = Station{ID: "bad", Doc: json.RawMessage(`[1]`)}.Election(2024)
	assert.Error(t, err)
}
