package models

import "time"

// Sequence is a named counter advanced with $inc.
type Sequence struct {
	ID        string    `bson:"_id"`
	Value     int64     `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}
