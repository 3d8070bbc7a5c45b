package database

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONB maps a jsonb column to a typed value. Import record payloads are
// stored this way so the original row survives alongside its outcome.
type JSONB[T any] struct {
	Data  T
	Valid bool
}

func (p *JSONB[T]) Scan(src any) error {
	if src == nil {
		p.Valid = false
		return nil
	}

	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("JSONB.Scan: expected []byte or string, got %T", src)
	}

	if err := json.Unmarshal(b, &p.Data); err != nil {
		return err
	}
	p.Valid = true
	return nil
}

func (p JSONB[T]) Value() (driver.Value, error) {
	if !p.Valid {
		return nil, nil
	}
	return json.Marshal(p.Data)
}

func (p JSONB[T]) MarshalJSON() ([]byte, error) {
	if !p.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(p.Data)
}
