package adapters

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvent_Accessors(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	event := Event{
		KeyEventName:      "page_view",
		KeyVisitID:        "visit-1",
		KeyDeviceID:       "device-1",
		KeyExtra:          `{"origin":"feed"}`,
		KeyEventTimestamp: ts,
		KeyEventDuration:  int64(1500),
		"custom":          42,
	}

	assert.Equal(t, "page_view", event.Name())
	assert.Equal(t, "visit-1", event.VisitID())
	assert.Equal(t, "device-1", event.DeviceID())
	assert.Equal(t, `{"origin":"feed"}`, event.Extra())

	got, ok := event.Timestamp()
	require.True(t, ok)
	assert.True(t, ts.Equal(got))

	d, ok := event.Duration()
	require.True(t, ok)
	assert.Equal(t, int64(1500), d)
}

func TestEvent_MissingFields(t *testing.T) {
	event := Event{KeyEventName: 7}
	assert.Empty(t, event.Name(), "non-string values are ignored")
	_, ok := event.Timestamp()
	assert.False(t, ok)
	_, ok = event.Duration()
	assert.False(t, ok)
}

func TestEvent_UnknownKeysSurviveJSON(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	data, err := json.Marshal(EventsPayload{Events: []Event{{
		KeyEventName:      "click",
		KeyEventTimestamp: ts,
		KeyEventDuration:  250,
		"target_id":       "post-1",
	}}})
	require.NoError(t, err)

	var payload EventsPayload
	require.NoError(t, json.Unmarshal(data, &payload))
	require.Len(t, payload.Events, 1)

	event := payload.Events[0]
	assert.Equal(t, "post-1", event["target_id"])
	got, ok := event.Timestamp()
	require.True(t, ok)
	assert.True(t, ts.Equal(got))
	d, ok := event.Duration()
	require.True(t, ok)
	assert.Equal(t, int64(250), d)
}

func TestEvent_Clone(t *testing.T) {
	event := Event{KeyEventName: "a"}
	clone := event.Clone()
	clone[KeyEventName] = "b"
	assert.Equal(t, "a", event.Name())
}
