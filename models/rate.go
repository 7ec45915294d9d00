package models

import (
	"database/sql/driver"
	"fmt"
	"strconv"
)

// Rate is a three-decimal ratio such as a batting average.
// SQLite hands back whole-number decimals (0.000, 1.000) as integers,
// so Scan accepts every numeric representation a driver may produce.
type Rate float64

// Scan implements sql.Scanner.
func (r *Rate) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*r = 0
	case float64:
		*r = Rate(v)
	case float32:
		*r = Rate(v)
	case int64:
		*r = Rate(v)
	case []byte:
		return r.parse(string(v))
	case string:
		return r.parse(v)
	default:
		return fmt.Errorf("models: can't scan %T into Rate", src)
	}
	return nil
}

func (r *Rate) parse(s string) error {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("models: can't scan %q into Rate: %w", s, err)
	}
	*r = Rate(f)
	return nil
}

// Value implements driver.Valuer.
func (r Rate) Value() (driver.Value, error) {
	return float64(r), nil
}
