package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
)

// AchievementSet holds the keys of unlocked achievements.
// Stored and serialized as a JSON object mapping each key to true.
type AchievementSet map[string]struct{}

// NewAchievementSet builds a set from keys.
func NewAchievementSet(keys ...string) AchievementSet {
	s := make(AchievementSet, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

// Has reports whether key is unlocked.
func (s AchievementSet) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Add unlocks key. Adding an existing key is a no-op.
func (s AchievementSet) Add(key string) {
	s[key] = struct{}{}
}

// Keys returns the unlocked keys in sorted order.
func (s AchievementSet) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MarshalJSON 输出 {"key": true} 格式，空集合输出 {}
func (s AchievementSet) MarshalJSON() ([]byte, error) {
	m := make(map[string]bool, len(s))
	for k := range s {
		m[k] = true
	}
	return json.Marshal(m)
}

// UnmarshalJSON accepts {"key": bool}; keys mapped to false are not unlocked.
func (s *AchievementSet) UnmarshalJSON(data []byte) error {
	var m map[string]bool
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	set := make(AchievementSet, len(m))
	for k, v := range m {
		if v {
			set[k] = struct{}{}
		}
	}
	*s = set
	return nil
}

// Scan 实现 sql.Scanner 接口
func (s *AchievementSet) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		*s = AchievementSet{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported achievements column type %T", value)
	}
	if len(data) == 0 || string(data) == "null" {
		*s = AchievementSet{}
		return nil
	}
	return s.UnmarshalJSON(data)
}

// Value 实现 driver.Valuer 接口
func (s AchievementSet) Value() (driver.Value, error) {
	data, err := s.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(data), nil
}
