package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// StringList stores a list of strings in a single text column as JSON,
// so product ingredients and dietary tags survive round trips through
// SQLite without a join table.
type StringList []string

// Scan accepts both a JSON array and a legacy comma-separated string.
func (s *StringList) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}

	var raw string
	switch v := value.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("cannot decode %T into StringList", value)
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		*s = StringList{}
		return nil
	}

	if strings.HasPrefix(raw, "[") {
		var values []string
		if err := json.Unmarshal([]byte(raw), &values); err != nil {
			return err
		}
		*s = values
		return nil
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			values = append(values, p)
		}
	}
	*s = values
	return nil
}

// Value always writes the list as a JSON array, keeping new rows
// consistent even when legacy rows used a plain string.
func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(s))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
