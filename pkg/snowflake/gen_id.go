// Package snowflake issues time-ordered 64-bit ids, used as token ids.
package snowflake

import (
	"errors"
	"strconv"
	"time"

	"github.com/sony/sonyflake"
)

// Epoch is the start of the id clock. Ids stay unique for 174 years after it.
var Epoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

var ErrGeneratorUnavailable = errors.New("snowflake: generator could not be created")

type Generator struct {
	node *sonyflake.Sonyflake
}

// NewGenerator creates a generator for one process. Two processes sharing a
// machineID can issue the same id.
func NewGenerator(machineID uint16) (*Generator, error) {
	sf := sonyflake.NewSonyflake(sonyflake.Settings{
		StartTime: Epoch,
		MachineID: func() (uint16, error) { return machineID, nil },
	})
	if sf == nil {
		return nil, ErrGeneratorUnavailable
	}
	return &Generator{node: sf}, nil
}

func (g *Generator) GetID() (uint64, error) {
	return g.node.NextID()
}

// GetIDString returns the next id in base 10.
func (g *Generator) GetIDString() (string, error) {
	id, err := g.node.NextID()
	if err != nil {
		return "", err
	}
	return strconv.FormatUint(id, 10), nil
}
