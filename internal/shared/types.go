package shared

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// JSONMap stores a free-form object in a JSON/JSONB column.
type JSONMap map[string]any

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (m *JSONMap) Scan(value any) error {
	if value == nil {
		*m = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into JSONMap", value)
	}

	return json.Unmarshal(bytes, m)
}

// GormDataType lets AutoMigrate pick a JSON column on every dialect.
func (JSONMap) GormDataType() string {
	return "json"
}

type BackoffConfig struct {
	Attempts int
	Initial  time.Duration
	Max      time.Duration
}

func (b BackoffConfig) Normalize() BackoffConfig {
	if b.Attempts < 0 {
		b.Attempts = 0
	}
	if b.Initial <= 0 {
		b.Initial = 200 * time.Millisecond
	}
	if b.Max < b.Initial {
		b.Max = 2 * time.Second
		if b.Max < b.Initial {
			b.Max = b.Initial
		}
	}
	return b
}
