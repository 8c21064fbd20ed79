// Package proximity raises warnings when tagged drivers are close to the
// player's car. It is pure: the overlay layer decides how to show the result.
package proximity

import (
	"fmt"
	"sort"

	"github.com/gridbook/gridbook/internal/model"
)

// Warning pairs a nearby driver with their stored reputation.
type Warning struct {
	Reputation *model.Reputation
	Driver     model.DriverObservation
	Distance   float64
}

// Text renders the overlay line for the warning, suffixed with the most
// severe applicable tag.
func (w Warning) Text() string {
	text := fmt.Sprintf("%s (#%s)", w.Driver.DisplayName, w.Driver.CarNumber)

	switch {
	case w.Reputation.HasBehavior(model.BehaviorDirtyDriver):
		text += " - DIRTY DRIVER"
	case w.Reputation.HasBehavior(model.BehaviorRammer):
		text += " - RAMMER"
	case w.Reputation.HasBehavior(model.BehaviorAggressive):
		text += " - AGGRESSIVE"
	case w.Reputation.HasBehavior(model.BehaviorBlocking):
		text += " - BLOCKER"
	case w.Reputation.HasBehavior(model.BehaviorUnsafeRejoin):
		text += " - UNSAFE REJOINS"
	case w.Reputation.HasBehavior(model.BehaviorRookie):
		text += " - ROOKIE"
	}

	return text
}

// Urgent reports whether the warning involves a tag that demands attention
// rather than information.
func (w Warning) Urgent() bool {
	return w.Reputation.HasWarningFlags()
}

// Detector scans a tick's observations for tagged drivers near the player.
type Detector struct {
	// ThresholdMeters is the radius within which a tagged driver warns.
	ThresholdMeters float64
}

// Lookup resolves a customer id to a stored reputation, reporting whether
// one exists. Satisfied by the tracker.
type Lookup interface {
	Lookup(customerID int) (*model.Reputation, bool)
}

// Scan returns warnings for every tagged driver within the threshold of the
// player, nearest first. Untagged drivers never warn, however close.
func (d *Detector) Scan(drivers []model.DriverObservation, reps Lookup) []Warning {
	var out []Warning
	for _, drv := range drivers {
		if drv.IsPlayer || !drv.IsValid {
			continue
		}
		if drv.DistanceToPlayer > d.ThresholdMeters {
			continue
		}
		rep, ok := reps.Lookup(drv.CustomerID)
		if !ok || rep.BehaviorFlags == model.BehaviorNone {
			continue
		}
		out = append(out, Warning{
			Driver:     drv,
			Reputation: rep,
			Distance:   drv.DistanceToPlayer,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Urgent() != out[j].Urgent() {
			return out[i].Urgent()
		}
		return out[i].Distance < out[j].Distance
	})
	return out
}
