package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeRawEvent(t *testing.T, body string) RawEvent {
	t.Helper()

	var raw RawEvent
	require.NoError(t, json.Unmarshal([]byte(body), &raw))
	return raw
}

func TestRawEvent_Normalize_ResolvesPerField(t *testing.T) {
	t.Parallel()

	raw := decodeRawEvent(t, `{"id":"e1","title":"Launch","startTime":"2024-01-01T10:00:00","endAt":"2024-01-01T12:00:00"}`)

	event := raw.Normalize()

	require.NotNil(t, event.Start)
	assert.Equal(t, "2024-01-01T10:00:00", event.Start.String())
	require.NotNil(t, event.End)
	assert.Equal(t, "2024-01-01T12:00:00", event.End.String())
}

func TestRawEvent_Normalize_FirstSchemaWins(t *testing.T) {
	t.Parallel()

	raw := decodeRawEvent(t, `{"id":"e1","startTime":"2024-01-01T10:00:00","startAt":"2030-01-01T10:00:00","endTime":"2024-01-01T11:00:00","endAt":"2030-01-01T11:00:00"}`)

	event := raw.Normalize()

	assert.Equal(t, "2024-01-01T10:00:00", event.Start.String())
	assert.Equal(t, "2024-01-01T11:00:00", event.End.String())
}

func TestRawEvent_Normalize_SecondSchemaOnly(t *testing.T) {
	t.Parallel()

	raw := decodeRawEvent(t, `{"id":"e1","startAt":"2024-03-01T09:00:00","endAt":"2024-03-01T17:00:00"}`)

	event := raw.Normalize()

	assert.Equal(t, "2024-03-01T09:00:00", event.Start.String())
	assert.Equal(t, "2024-03-01T17:00:00", event.End.String())
}

func TestRawEvent_Normalize_NoBounds(t *testing.T) {
	t.Parallel()

	raw := decodeRawEvent(t, `{"id":"e1","title":"Someday"}`)

	event := raw.Normalize()

	assert.Nil(t, event.Start)
	assert.Nil(t, event.End)
	_, ok := event.TimeRange()
	assert.False(t, ok)
}

func TestRawEvent_Normalize_FieldFallbacks(t *testing.T) {
	t.Parallel()

	raw := decodeRawEvent(t, `{"id":"e1","name":"Named","venue":"Hall B","organizerEmail":"flat@x.com","organizer":{"email":"nested@x.com"},"capacity":50,"published":true}`)

	event := raw.Normalize()

	assert.Equal(t, "Named", event.Title)
	require.NotNil(t, event.Location)
	assert.Equal(t, "Hall B", *event.Location)
	assert.Equal(t, "nested@x.com", event.OwnerEmail())
	require.NotNil(t, event.Capacity)
	assert.Equal(t, 50, *event.Capacity)
	assert.True(t, event.Published)
}

func TestRawEvent_Normalize_FlatOrganizerEmail(t *testing.T) {
	t.Parallel()

	raw := decodeRawEvent(t, `{"id":"e1","title":"T","location":"Room 1","venue":"ignored","organizerEmail":"flat@x.com","organizer":{"fullName":"No Mail"}}`)

	event := raw.Normalize()

	assert.Equal(t, "T", event.Title)
	assert.Equal(t, "Room 1", *event.Location)
	assert.Equal(t, "flat@x.com", event.OwnerEmail())
}

func TestRawEvent_Normalize_EmbeddedSessions(t *testing.T) {
	t.Parallel()

	raw := decodeRawEvent(t, `{"id":"e1","sessions":[{"id":"s1","title":"Keynote","startAt":"2024-01-01T10:00:00"},{"id":"s2","eventId":"other","title":"Panel"}]}`)

	event := raw.Normalize()

	require.Len(t, event.Sessions, 2)
	assert.Equal(t, "e1", event.Sessions[0].EventID)
	assert.Equal(t, "2024-01-01T10:00:00", event.Sessions[0].Start.String())
	assert.Equal(t, "other", event.Sessions[1].EventID)
}

func TestEvent_OwnerEmail_Nil(t *testing.T) {
	t.Parallel()

	var event *Event
	assert.Equal(t, "", event.OwnerEmail())
	assert.Equal(t, "", (&Event{}).OwnerEmail())
}

func TestSummarizeEvents(t *testing.T) {
	t.Parallel()

	stats := SummarizeEvents([]*Event{{Published: true}, {Published: false}, {Published: true}})

	assert.Equal(t, EventStats{Total: 3, Published: 2, Drafts: 1}, stats)
	assert.Equal(t, EventStats{}, SummarizeEvents(nil))
}

func TestNormalizeEvents(t *testing.T) {
	t.Parallel()

	events := NormalizeEvents([]RawEvent{{ID: "a", Title: "A"}, {ID: "b", Name: "B"}})

	require.Len(t, events, 2)
	assert.Equal(t, "A", events[0].Title)
	assert.Equal(t, "B", events[1].Title)
}
