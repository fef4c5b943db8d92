package adapters

import "time"

// Recognized event keys. Any other key is passed through as-is.
const (
	KeyVisitID        = "visit_id"
	KeyEventTimestamp = "event_timestamp"
	KeyEventDuration  = "event_duration"
	KeyEventName      = "event_name"
	KeyExtra          = "extra"
	KeyDeviceID       = "device_id"
)

// Event represents a tracked analytics event. It is an open-ended mapping;
// only the keys above carry meaning for the client.
type Event map[string]any

// Name returns the event_name field, or "" if absent.
func (e Event) Name() string {
	return e.stringField(KeyEventName)
}

// VisitID returns the visit_id field, or "" if absent.
func (e Event) VisitID() string {
	return e.stringField(KeyVisitID)
}

// DeviceID returns the device_id field, or "" if absent.
func (e Event) DeviceID() string {
	return e.stringField(KeyDeviceID)
}

// Extra returns the extra field, or "" if absent.
func (e Event) Extra() string {
	return e.stringField(KeyExtra)
}

// Timestamp returns the event_timestamp field. Both time.Time values and
// RFC 3339 strings (the form they take after a JSON round trip) are accepted.
func (e Event) Timestamp() (time.Time, bool) {
	switch v := e[KeyEventTimestamp].(type) {
	case time.Time:
		return v, true
	case string:
		ts, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return time.Time{}, false
		}
		return ts, true
	}
	return time.Time{}, false
}

// Duration returns the event_duration field in milliseconds.
func (e Event) Duration() (int64, bool) {
	switch v := e[KeyEventDuration].(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		return int64(v), true
	}
	return 0, false
}

// Clone returns a shallow copy of the event.
func (e Event) Clone() Event {
	out := make(Event, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

func (e Event) stringField(key string) string {
	s, _ := e[key].(string)
	return s
}

// EventsPayload is the JSON body shared by batch requests and beacons.
type EventsPayload struct {
	Events []Event `json:"events"`
}
