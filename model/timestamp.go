package model

import (
	"encoding/json"
	"time"
)

// TimestampLayout matches SQLite's CURRENT_TIMESTAMP text form.
const TimestampLayout = "2006-01-02 15:04:05"

// Timestamp is a time rendered in UTC with TimestampLayout on the wire.
type Timestamp time.Time

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t Timestamp) String() string {
	return time.Time(t).UTC().Format(TimestampLayout)
}
