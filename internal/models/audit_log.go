package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SystemActor is recorded for actions with no authenticated caller.
const SystemActor = "system"

type AuditLog struct {
	ID         primitive.ObjectID     `bson:"_id,omitempty"`
	Actor      string                 `bson:"actor"`
	Action     string                 `bson:"action"`
	EntityType string                 `bson:"entity_type"`
	EntityID   primitive.ObjectID     `bson:"entity_id"`
	Changes    map[string]interface{} `bson:"changes"`
	Reason     string                 `bson:"reason,omitempty"`
	Timestamp  time.Time              `bson:"timestamp"`
}
