package session

import (
	"testing"

	"github.com/gridbook/gridbook/internal/model"
)

const sampleSessionInfo = `
WeekendInfo:
  TrackDisplayName: Circuit de Spa-Francorchamps
SessionInfo:
  Sessions:
  - SessionType: Open Practice
  - SessionType: Lone Qualify
  - SessionType: Race
DriverInfo:
  DriverCarIdx: 2
  Drivers:
  - CarIdx: 0
    UserName: Pace Car
    UserID: -1
    CarNumber: "0"
    CarIsPaceCar: 1
    IsSpectator: 0
  - CarIdx: 1
    UserName: Maria Reyes
    UserID: 443211
    CarNumber: "24"
    CarClassID: 2
    IRating: 3150
    LicString: A 3.42
    CurDriverIncidentCount: 2
  - CarIdx: 2
    UserName: Jan Kowalski
    UserID: 120034
    CarNumber: "7"
    IRating: 2410
    LicString: B 2.17
  - CarIdx: 3
    UserName: Ghost Watcher
    UserID: 999999
    IsSpectator: 1
  - CarIdx: 7
    UserName: Sam No-ID
    UserID: 0
    IRating: 1800
    LicString: C 4.99
  - CarIdx: 9
    UserName: "Driver #9"
    UserID: 0
  - CarIdx: 11
    UserName: "Driver #11"
    UserID: 250000
    IRating: 900
    LicString: R 2.50
`

func normalizeSample(t *testing.T, snap *Snapshot) []model.DriverObservation {
	t.Helper()
	drivers, err := Normalize(snap)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	return drivers
}

func findBySlot(drivers []model.DriverObservation, slot int) *model.DriverObservation {
	for i := range drivers {
		if drivers[i].CarSlot == slot {
			return &drivers[i]
		}
	}
	return nil
}

func TestNormalize_FiltersNonParticipants(t *testing.T) {
	drivers := normalizeSample(t, &Snapshot{SessionInfo: sampleSessionInfo, PlayerCarIdx: -1})

	// Pace car (flagged and named), spectator, and the unfilled placeholder
	// at slot 9 must all be gone; slots 1, 2, 7, and 11 survive.
	if len(drivers) != 4 {
		t.Fatalf("got %d observations, want 4: %+v", len(drivers), drivers)
	}
	for _, slot := range []int{0, 3, 9} {
		if findBySlot(drivers, slot) != nil {
			t.Errorf("slot %d should have been filtered", slot)
		}
	}

	// Slot order is preserved.
	for i := 1; i < len(drivers); i++ {
		if drivers[i].CarSlot < drivers[i-1].CarSlot {
			t.Errorf("output not in slot order: %v before %v", drivers[i-1].CarSlot, drivers[i].CarSlot)
		}
	}
}

func TestNormalize_SyntheticID(t *testing.T) {
	drivers := normalizeSample(t, &Snapshot{SessionInfo: sampleSessionInfo, PlayerCarIdx: -1})

	sam := findBySlot(drivers, 7)
	if sam == nil {
		t.Fatal("slot 7 missing from output")
	}
	if sam.CustomerID != 1007 {
		t.Errorf("synthetic id = %d, want 1007", sam.CustomerID)
	}
	if !sam.HasSyntheticID() {
		t.Error("HasSyntheticID should be true for slot 7")
	}
	if !sam.IsValid {
		t.Error("a synthetic id must not invalidate the observation")
	}
}

func TestNormalize_PlaceholderWithRealIDSurvives(t *testing.T) {
	drivers := normalizeSample(t, &Snapshot{SessionInfo: sampleSessionInfo, PlayerCarIdx: -1})

	// Slot 11 has the placeholder name shape but a real customer id, so it
	// is a real (oddly named) driver, not an empty seat.
	if findBySlot(drivers, 11) == nil {
		t.Error("placeholder-named driver with a real id should survive")
	}
}

func TestNormalize_LicenseParsing(t *testing.T) {
	drivers := normalizeSample(t, &Snapshot{SessionInfo: sampleSessionInfo, PlayerCarIdx: -1})

	maria := findBySlot(drivers, 1)
	if maria == nil {
		t.Fatal("slot 1 missing from output")
	}
	if maria.LicenseLevel != "A" {
		t.Errorf("license level = %q, want A", maria.LicenseLevel)
	}
	if maria.SafetyRating != 3.42 {
		t.Errorf("safety rating = %v, want 3.42", maria.SafetyRating)
	}
	if maria.IRating != 3150 {
		t.Errorf("iRating = %d, want 3150", maria.IRating)
	}
	if maria.IncidentCount != 2 {
		t.Errorf("incident count = %d, want 2", maria.IncidentCount)
	}
}

func TestParseLicense(t *testing.T) {
	tests := []struct {
		lic        string
		wantLevel  string
		wantRating float64
	}{
		{"A 3.42", "A", 3.42},
		{"R 0.01", "R", 0.01},
		{"B2.17", "B", 2.17},
		{"X", "X", 0},
		{"", "", 0},
		{"A garbage", "A", 0},
	}

	for _, tt := range tests {
		level, rating := parseLicense(tt.lic)
		if level != tt.wantLevel || rating != tt.wantRating {
			t.Errorf("parseLicense(%q) = (%q, %v), want (%q, %v)",
				tt.lic, level, rating, tt.wantLevel, tt.wantRating)
		}
	}
}

func TestNormalize_PlayerDetection(t *testing.T) {
	// Player slot from the document.
	drivers := normalizeSample(t, &Snapshot{SessionInfo: sampleSessionInfo, PlayerCarIdx: -1})
	players := 0
	for _, d := range drivers {
		if d.IsPlayer {
			players++
			if d.CarSlot != 2 {
				t.Errorf("player at slot %d, want 2", d.CarSlot)
			}
		}
	}
	if players != 1 {
		t.Errorf("got %d players, want exactly 1", players)
	}

	// An explicit player slot overrides the document.
	drivers = normalizeSample(t, &Snapshot{SessionInfo: sampleSessionInfo, PlayerCarIdx: 1})
	maria := findBySlot(drivers, 1)
	if maria == nil || !maria.IsPlayer {
		t.Error("explicit player slot not honored")
	}
}

func TestNormalize_Positions(t *testing.T) {
	positions := make([]int, model.MaxCars)
	positions[1] = 3
	positions[2] = 1

	drivers := normalizeSample(t, &Snapshot{
		SessionInfo:  sampleSessionInfo,
		PlayerCarIdx: -1,
		Positions:    positions,
	})

	if got := findBySlot(drivers, 1).Position; got != 3 {
		t.Errorf("slot 1 position = %d, want 3", got)
	}
	if got := findBySlot(drivers, 7).Position; got != 0 {
		t.Errorf("slot 7 position = %d, want 0 (unclassified)", got)
	}
}

func TestNormalize_CarNumberDefault(t *testing.T) {
	drivers := normalizeSample(t, &Snapshot{SessionInfo: sampleSessionInfo, PlayerCarIdx: -1})

	// Slot 7 carries no car number; it defaults to slot+1.
	if got := findBySlot(drivers, 7).CarNumber; got != "8" {
		t.Errorf("default car number = %q, want 8", got)
	}
	if got := findBySlot(drivers, 1).CarNumber; got != "24" {
		t.Errorf("car number = %q, want 24", got)
	}
}

func TestNormalize_EmptyDocument(t *testing.T) {
	if _, err := Normalize(&Snapshot{}); err == nil {
		t.Error("expected error for empty snapshot")
	}
	if _, err := Normalize(&Snapshot{SessionInfo: "DriverInfo: [unclosed"}); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestSanitizeName(t *testing.T) {
	if got := sanitizeName("Jan\nKowalski\r"); got != "Jan Kowalski" {
		t.Errorf("sanitizeName = %q", got)
	}
	if got := sanitizeName("  "); got != "" {
		t.Errorf("blank name should sanitize to empty, got %q", got)
	}
}

func TestReadInfo(t *testing.T) {
	info := ReadInfo(&Snapshot{SessionInfo: sampleSessionInfo})
	if info.Type != TypeRace {
		t.Errorf("session type = %v, want Race", info.Type)
	}
	if info.Track != "Circuit de Spa-Francorchamps" {
		t.Errorf("track = %q", info.Track)
	}

	if got := ReadInfo(&Snapshot{}).Type; got != TypeUnknown {
		t.Errorf("empty snapshot type = %v, want Unknown", got)
	}
}

func TestStrengthOfField(t *testing.T) {
	drivers := []model.DriverObservation{
		{IRating: 3000},
		{IRating: 1000},
		{IRating: 0}, // unrated, excluded
	}
	if got := StrengthOfField(drivers); got != 2000 {
		t.Errorf("strength of field = %v, want 2000", got)
	}
	if got := StrengthOfField(nil); got != 0 {
		t.Errorf("empty field = %v, want 0", got)
	}
}
