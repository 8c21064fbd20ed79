package model

// SyntheticIDBase is added to a car slot to synthesize a customer id when the
// telemetry does not carry a real one. Real iRacing customer ids are well
// above this range only by convention; an id landing in [SyntheticIDBase,
// SyntheticIDBase+MaxCars) from a real identity source is a latent collision.
const SyntheticIDBase = 1000

// MaxCars is the size of the simulator's per-session car array.
const MaxCars = 64

// DriverObservation is one car's state as seen in the current session tick.
// Observations are rebuilt on every normalization pass and never persisted;
// they exist only to be merged into Reputation records.
type DriverObservation struct {
	DisplayName   string
	UserName      string
	CarNumber     string
	LicenseString string
	LicenseLevel  string
	CarSlot       int
	CustomerID    int
	IRating       int
	Position      int
	ClassID       int
	IncidentCount int
	SafetyRating  float64
	// GapToPlayer and DistanceToPlayer come from live telemetry; both are
	// zero for the player's own car and for replayed snapshots.
	GapToPlayer      float64
	DistanceToPlayer float64
	IsPlayer         bool
	IsValid          bool
}

// HasSyntheticID reports whether the observation's customer id was
// synthesized from its car slot rather than parsed from telemetry.
func (o DriverObservation) HasSyntheticID() bool {
	return o.CustomerID == o.CarSlot+SyntheticIDBase
}
