package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomTimeJSON(t *testing.T) {
	var ct CustomTime
	require.NoError(t, json.Unmarshal([]byte(`"2025-09-01"`), &ct))
	assert.Equal(t, time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), ct.Time)

	out, err := json.Marshal(ct)
	require.NoError(t, err)
	assert.Equal(t, `"2025-09-01"`, string(out))
}

func TestCustomTimeNullHandling(t *testing.T) {
	var ct CustomTime
	require.NoError(t, json.Unmarshal([]byte(`null`), &ct))
	assert.True(t, ct.Time.IsZero())

	out, err := json.Marshal(ct)
	require.NoError(t, err)
	assert.Equal(t, `null`, string(out))

	v, err := ct.Value()
	require.NoError(t, err)
	assert.Nil(t, v, "zero dates persist as NULL")
}

func TestCustomTimeRejectsBadFormat(t *testing.T) {
	var ct CustomTime
	assert.Error(t, json.Unmarshal([]byte(`"01/09/2025"`), &ct))
}
