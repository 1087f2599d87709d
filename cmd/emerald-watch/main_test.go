package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordClassifiesHubMessages(t *testing.T) {
	stats := &Stats{}
	stats.LastFPS.Store(0.0)

	record(stats, []byte(`{"type":"FRAME_STATS","data":{"frame":42,"delta":0.016,"fps":59.5}}`))
	record(stats, []byte(`{"type":"PROFILE_SNAPSHOT","data":[]}`))
	record(stats, []byte(`{"type":"SOMETHING_ELSE"}`))
	record(stats, []byte(`not json`))

	assert.EqualValues(t, 1, stats.FrameMessages)
	assert.EqualValues(t, 1, stats.ProfileMessages)
	assert.EqualValues(t, 1, stats.UnknownMessages)
	assert.EqualValues(t, 1, stats.Errors)
	assert.EqualValues(t, 42, stats.LastFrame)
	assert.InDelta(t, 59.5, stats.LastFPS.Load().(float64), 1e-9)
}
