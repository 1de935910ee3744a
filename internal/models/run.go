package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Seed is stored as the int64 with the same bits, since the sqlite driver
// rejects uint64 values with the high bit set.
type Seed uint64

func (s Seed) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *Seed) Scan(src any) error {
	switch v := src.(type) {
	case int64:
		*s = Seed(uint64(v))
	case nil:
		*s = 0
	default:
		return fmt.Errorf("cannot scan %T into Seed", src)
	}
	return nil
}

// Run records one generator invocation persisted by the sqlite sink.
type Run struct {
	gorm.Model
	Room        string
	Seed        Seed
	WindowStart time.Time
	WindowEnd   time.Time
	Interval    time.Duration
	RowCount    int
	Readings    []Reading
}
