package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAchievementSetJSONShape(t *testing.T) {
	data, err := json.Marshal(NewAchievementSet("first_win", "streak"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"first_win": true, "streak": true}`, string(data))

	data, err = json.Marshal(AchievementSet(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))

	var s AchievementSet
	require.NoError(t, json.Unmarshal([]byte(`{"a": true, "b": false}`), &s))
	assert.True(t, s.Has("a"))
	assert.False(t, s.Has("b"))
	assert.Equal(t, []string{"a"}, s.Keys())
}

func TestAchievementSetScan(t *testing.T) {
	var s AchievementSet
	require.NoError(t, s.Scan(nil))
	assert.Empty(t, s)
	assert.NotNil(t, s)

	require.NoError(t, s.Scan(""))
	assert.Empty(t, s)

	require.NoError(t, s.Scan([]byte(`{"x": true}`)))
	assert.True(t, s.Has("x"))

	assert.Error(t, s.Scan(42))

	v, err := NewAchievementSet("x").Value()
	require.NoError(t, err)
	assert.Equal(t, `{"x":true}`, v)
}

func TestAchievementSetAddIsIdempotent(t *testing.T) {
	s := NewAchievementSet()
	s.Add("x")
	s.Add("x")
	assert.Len(t, s, 1)
}

func TestDefaultUsername(t *testing.T) {
	assert.Equal(t, "alice", DefaultUsername("alice@example.com"))
	assert.Equal(t, "noat", DefaultUsername("noat"))
	assert.Equal(t, "", DefaultUsername("@example.com"))
}

func TestKDARecordRoundTrip(t *testing.T) {
	p := NewKDAProgress("chess")
	p.Slots[0] = KDASlot{Kills: 5, Deaths: 2, Assists: 3}
	p.Slots[4] = KDASlot{Kills: 9, Deaths: 0, Assists: 1}

	rec := NewKDARecord("a@b.c", p)
	assert.Equal(t, "a@b.c", rec.UserEmail)
	assert.Equal(t, 5, rec.Kills1)
	assert.Equal(t, 1, rec.Deaths2)
	assert.Equal(t, 0, rec.Deaths5)
	assert.Equal(t, p, rec.Progress())
}

func TestKDAProgressJSON(t *testing.T) {
	p := NewKDAProgress("chess")
	p.Slots[0].Kills = 5

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var fields map[string]int
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Len(t, fields, 15)
	assert.Equal(t, 5, fields["kills1"])
	assert.Equal(t, 1, fields["deaths1"])
	assert.Equal(t, 0, fields["assists1"])
	assert.Equal(t, 1, fields["deaths5"])
	assert.NotContains(t, fields, "game")
}

func TestFeedbackViewGuest(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	anon := Feedback{Message: "hi", CreatedAt: created}
	assert.Equal(t, GuestDisplayName, anon.View().UserEmail)

	email := "a@b.c"
	named := Feedback{UserEmail: &email, Message: "hi", CreatedAt: created}
	view := named.View()
	assert.Equal(t, email, view.UserEmail)

	data, err := json.Marshal(view)
	require.NoError(t, err)
	assert.JSONEq(t, `{"user_email":"a@b.c","message":"hi","date":"2024-03-01 12:30:00"}`, string(data))
}

func TestTimestampRendersUTC(t *testing.T) {
	east := time.FixedZone("UTC+8", 8*3600)
	ts := Timestamp(time.Date(2025, 1, 2, 11, 4, 5, 0, east))
	data, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2025-01-02 03:04:05"`, string(data))
	assert.Equal(t, "2025-01-02 03:04:05", ts.String())
}
