// Package model defines the core domain models used throughout the application.
package model

import "time"

// Behavior is a single behavior tag, stored as one bit of a Reputation's flag set.
type Behavior uint32

// Behavior tag constants. The bit values are part of the on-disk format and
// must not be renumbered.
const (
	BehaviorNone         Behavior = 0
	BehaviorCleanDriver  Behavior = 1
	BehaviorAggressive   Behavior = 2
	BehaviorDirtyDriver  Behavior = 4
	BehaviorRammer       Behavior = 8
	BehaviorBlocking     Behavior = 16
	BehaviorUnsafeRejoin Behavior = 32
	BehaviorGoodRacer    Behavior = 64
	BehaviorRookie       Behavior = 128
)

// AllBehaviors lists every assignable tag in display order.
var AllBehaviors = []Behavior{
	BehaviorCleanDriver,
	BehaviorGoodRacer,
	BehaviorAggressive,
	BehaviorDirtyDriver,
	BehaviorRammer,
	BehaviorBlocking,
	BehaviorUnsafeRejoin,
	BehaviorRookie,
}

// String returns the human-readable tag name.
func (b Behavior) String() string {
	switch b {
	case BehaviorCleanDriver:
		return "Clean Driver"
	case BehaviorAggressive:
		return "Aggressive"
	case BehaviorDirtyDriver:
		return "Dirty Driver"
	case BehaviorRammer:
		return "Rammer"
	case BehaviorBlocking:
		return "Blocking"
	case BehaviorUnsafeRejoin:
		return "Unsafe Rejoin"
	case BehaviorGoodRacer:
		return "Good Racer"
	case BehaviorRookie:
		return "Rookie"
	default:
		return "Unknown"
	}
}

// ParseBehavior maps a tag name (as used on the CLI) to its bit value.
func ParseBehavior(name string) (Behavior, bool) {
	switch name {
	case "clean", "clean-driver":
		return BehaviorCleanDriver, true
	case "aggressive":
		return BehaviorAggressive, true
	case "dirty", "dirty-driver":
		return BehaviorDirtyDriver, true
	case "rammer":
		return BehaviorRammer, true
	case "blocking", "blocker":
		return BehaviorBlocking, true
	case "unsafe-rejoin":
		return BehaviorUnsafeRejoin, true
	case "good-racer":
		return BehaviorGoodRacer, true
	case "rookie", "newbie":
		return BehaviorRookie, true
	default:
		return BehaviorNone, false
	}
}

// TrustLevel classifies how much a driver can be trusted in close racing.
// Derived from behavior flags; never set directly.
type TrustLevel int

// Trust levels, ordered worst to best. The integer values are part of the
// on-disk format.
const (
	TrustAvoid   TrustLevel = 0
	TrustCaution TrustLevel = 1
	TrustNeutral TrustLevel = 2
	TrustTrusted TrustLevel = 3
)

// String returns the display name of the trust level.
func (t TrustLevel) String() string {
	switch t {
	case TrustAvoid:
		return "Avoid"
	case TrustCaution:
		return "Caution"
	case TrustNeutral:
		return "Neutral"
	case TrustTrusted:
		return "Trusted"
	default:
		return "Neutral"
	}
}

// warningBehaviors are the tags that should trigger a proximity warning.
const warningBehaviors = BehaviorDirtyDriver | BehaviorRammer | BehaviorBlocking | BehaviorUnsafeRejoin

// Reputation is the durable record kept for every driver ever encountered,
// keyed by the driver's stable customer id.
type Reputation struct {
	LastUpdated    time.Time
	UserName       string
	Notes          string
	LastSeen       string
	CustomerID     int
	BehaviorFlags  Behavior
	TrustLevel     TrustLevel
	EncounterCount int
	TrustScore     float64
}

// NewReputation returns a freshly created record for a driver seen for the
// first time: no tags, neutral trust, no last-seen date yet.
func NewReputation(customerID int, userName string) *Reputation {
	return &Reputation{
		CustomerID:    customerID,
		UserName:      userName,
		BehaviorFlags: BehaviorNone,
		TrustLevel:    TrustNeutral,
		LastUpdated:   time.Now(),
		TrustScore:    0.5,
	}
}

// HasBehavior reports whether the given tag is set.
func (r *Reputation) HasBehavior(b Behavior) bool {
	return r.BehaviorFlags&b != 0
}

// AddBehavior sets the given tag and reclassifies the trust level.
func (r *Reputation) AddBehavior(b Behavior) {
	r.BehaviorFlags |= b
	r.TrustLevel = ComputeTrustLevel(r.BehaviorFlags)
}

// RemoveBehavior clears the given tag and reclassifies the trust level.
func (r *Reputation) RemoveBehavior(b Behavior) {
	r.BehaviorFlags &^= b
	r.TrustLevel = ComputeTrustLevel(r.BehaviorFlags)
}

// HasWarningFlags reports whether any tag warranting a proximity warning is set.
func (r *Reputation) HasWarningFlags() bool {
	return r.BehaviorFlags&warningBehaviors != 0
}

// IsPositive reports whether the driver carries a positive tag.
func (r *Reputation) IsPositive() bool {
	return r.HasBehavior(BehaviorCleanDriver) || r.HasBehavior(BehaviorGoodRacer)
}

// Behaviors returns the set tags in display order.
func (r *Reputation) Behaviors() []Behavior {
	var out []Behavior
	for _, b := range AllBehaviors {
		if r.HasBehavior(b) {
			out = append(out, b)
		}
	}
	return out
}

// ComputeTrustLevel derives a trust classification from a flag set using a
// weighted net score. Rookie is informational and does not participate.
//
// This is the single source of truth for trust levels: it runs after every
// tag mutation and again when records are loaded from storage, so a stored
// level can never drift from the current rule.
func ComputeTrustLevel(flags Behavior) TrustLevel {
	positive := 0
	negative := 0
	if flags&BehaviorCleanDriver != 0 {
		positive += 3
	}
	if flags&BehaviorGoodRacer != 0 {
		positive += 4
	}
	if flags&BehaviorAggressive != 0 {
		positive++
	}
	if flags&BehaviorDirtyDriver != 0 {
		negative += 3
	}
	if flags&BehaviorRammer != 0 {
		negative += 5
	}
	if flags&BehaviorBlocking != 0 {
		negative += 2
	}
	if flags&BehaviorUnsafeRejoin != 0 {
		negative += 2
	}

	net := positive - negative
	switch {
	case net >= 4:
		return TrustTrusted
	case net >= 1:
		return TrustNeutral
	case net <= -3:
		return TrustAvoid
	case net <= -1:
		return TrustCaution
	default:
		return TrustNeutral
	}
}
