package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// KDASlotCount is the number of independent counters tracked per game.
const KDASlotCount = 5

// KDASlot is one kills/deaths/assists counter.
type KDASlot struct {
	Kills   int
	Deaths  int
	Assists int
}

// DefaultKDASlot is the value of a slot that was never set.
func DefaultKDASlot() KDASlot {
	return KDASlot{Kills: 0, Deaths: 1, Assists: 0}
}

// KDAProgress is a user's full set of slots for one game.
type KDAProgress struct {
	Game  string
	Slots [KDASlotCount]KDASlot
}

// NewKDAProgress returns progress for game with every slot at its default.
func NewKDAProgress(game string) KDAProgress {
	p := KDAProgress{Game: game}
	for i := range p.Slots {
		p.Slots[i] = DefaultKDASlot()
	}
	return p
}

// KDAFieldName returns the wire name of a counter, e.g. ("kills", 0) -> "kills1".
func KDAFieldName(stat string, slot int) string {
	return fmt.Sprintf("%s%d", stat, slot+1)
}

// Fields flattens the slots into the kills1..assists5 wire shape.
func (p KDAProgress) Fields() map[string]int {
	fields := make(map[string]int, KDASlotCount*3)
	for i, s := range p.Slots {
		fields[KDAFieldName("kills", i)] = s.Kills
		fields[KDAFieldName("deaths", i)] = s.Deaths
		fields[KDAFieldName("assists", i)] = s.Assists
	}
	return fields
}

// MarshalJSON renders the flat counters only; the game is the enclosing map key.
func (p KDAProgress) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Fields())
}

// KDARecord is the kda_progress row, one per (user_email, game).
type KDARecord struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	UserEmail string `gorm:"size:255;not null;uniqueIndex:idx_kda_user_game"`
	Game      string `gorm:"size:255;not null;uniqueIndex:idx_kda_user_game"`

	Kills1   int `gorm:"column:kills1;not null"`
	Deaths1  int `gorm:"column:deaths1;not null"`
	Assists1 int `gorm:"column:assists1;not null"`
	Kills2   int `gorm:"column:kills2;not null"`
	Deaths2  int `gorm:"column:deaths2;not null"`
	Assists2 int `gorm:"column:assists2;not null"`
	Kills3   int `gorm:"column:kills3;not null"`
	Deaths3  int `gorm:"column:deaths3;not null"`
	Assists3 int `gorm:"column:assists3;not null"`
	Kills4   int `gorm:"column:kills4;not null"`
	Deaths4  int `gorm:"column:deaths4;not null"`
	Assists4 int `gorm:"column:assists4;not null"`
	Kills5   int `gorm:"column:kills5;not null"`
	Deaths5  int `gorm:"column:deaths5;not null"`
	Assists5 int `gorm:"column:assists5;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName 指定表名
func (KDARecord) TableName() string {
	return "kda_progress"
}

// KDACounterColumns lists every counter column, used for whole-row upserts.
var KDACounterColumns = []string{
	"kills1", "deaths1", "assists1",
	"kills2", "deaths2", "assists2",
	"kills3", "deaths3", "assists3",
	"kills4", "deaths4", "assists4",
	"kills5", "deaths5", "assists5",
}

func (r *KDARecord) slotPtrs() [KDASlotCount][3]*int {
	return [KDASlotCount][3]*int{
		{&r.Kills1, &r.Deaths1, &r.Assists1},
		{&r.Kills2, &r.Deaths2, &r.Assists2},
		{&r.Kills3, &r.Deaths3, &r.Assists3},
		{&r.Kills4, &r.Deaths4, &r.Assists4},
		{&r.Kills5, &r.Deaths5, &r.Assists5},
	}
}

// NewKDARecord builds the row for email from progress.
func NewKDARecord(email string, p KDAProgress) *KDARecord {
	r := &KDARecord{UserEmail: email, Game: p.Game}
	for i, ptrs := range r.slotPtrs() {
		*ptrs[0] = p.Slots[i].Kills
		*ptrs[1] = p.Slots[i].Deaths
		*ptrs[2] = p.Slots[i].Assists
	}
	return r
}

// Progress converts the row back to slots.
func (r *KDARecord) Progress() KDAProgress {
	p := KDAProgress{Game: r.Game}
	for i, ptrs := range r.slotPtrs() {
		p.Slots[i] = KDASlot{Kills: *ptrs[0], Deaths: *ptrs[1], Assists: *ptrs[2]}
	}
	return p
}
