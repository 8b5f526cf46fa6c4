package ship

import (
	"fmt"

	"github.com/Navot-Ram/starwards/pkg/space"
)

// TargetedStatus tells a ship how other ships are treating it.
type TargetedStatus int

const (
	TargetedNone TargetedStatus = iota
	TargetedLocked
	TargetedFiredUpon
)

func (t TargetedStatus) String() string {
	switch t {
	case TargetedNone:
		return "NONE"
	case TargetedLocked:
		return "LOCKED"
	case TargetedFiredUpon:
		return "FIRED_UPON"
	}
	return fmt.Sprintf("TargetedStatus(%d)", int(t))
}

// Targeting is one ship's lock as seen by the rest of the fleet.
type Targeting struct {
	ShipID   string
	TargetID string
	Firing   bool
}

// Fleet is the targeting picture of every managed ship at the start of a tick.
type Fleet []Targeting

// StatusOf computes how shipID is being targeted.
func (f Fleet) StatusOf(shipID string) TargetedStatus {
	status := TargetedNone
	for _, t := range f {
		if t.ShipID == shipID || t.TargetID != shipID {
			continue
		}
		if t.Firing {
			return TargetedFiredUpon
		}
		status = TargetedLocked
	}
	return status
}

// followingTarget picks the ship after currentID in registry order, skipping self.
func followingTarget(ships []*space.Object, selfID, currentID string) string {
	first := ""
	seenCurrent := false
	for _, o := range ships {
		if o.ID == selfID {
			continue
		}
		if first == "" {
			first = o.ID
		}
		if seenCurrent {
			return o.ID
		}
		if o.ID == currentID {
			seenCurrent = true
		}
	}
	return first
}

// Bot drives a ship by writing its commands every tick.
type Bot func(deltaSeconds float64, space space.Reader, m *Manager)

// BotFactory builds the bot that carries out an order.
type BotFactory func(order space.Order) Bot
