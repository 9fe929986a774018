package fairness

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueJSONKeepsDefinedZero(t *testing.T) {
	// A defined zero is the perfectly-fair case and must stay visible on
	// the wire.
	b, err := json.Marshal(Def(0))
	require.NoError(t, err)
	assert.JSONEq(t, `{"defined":true,"value":0}`, string(b))
}

func TestValueJSONUndefinedCarriesReason(t *testing.T) {
	b, err := json.Marshal(Undef(ReasonNoRecords))
	require.NoError(t, err)
	assert.JSONEq(t, `{"defined":false,"value":0,"reason":"no-records"}`, string(b))
}

func TestValueJSONRoundTrip(t *testing.T) {
	b, err := json.Marshal(Def(0.25))
	require.NoError(t, err)

	var v Value
	require.NoError(t, json.Unmarshal(b, &v))
	assert.True(t, v.Defined)
	assert.Equal(t, 0.25, v.Val)
}
