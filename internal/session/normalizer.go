package session

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/gridbook/gridbook/internal/model"
)

// PaceCarName is the reserved display name the simulator gives its pace car.
const PaceCarName = "Pace Car"

// PlaceholderPrefix marks driver names that upstream data fills in before
// real telemetry arrives. A placeholder that still carries a synthetic id
// is an empty seat, not a driver.
const PlaceholderPrefix = "Driver #"

// Normalize converts one raw snapshot into the tick's observations, in car
// slot order. Pace cars, spectators, empty slots, and unfilled placeholders
// never appear in the output. A malformed field on one entry degrades to a
// default value rather than failing the whole pass.
func Normalize(snap *Snapshot) ([]model.DriverObservation, error) {
	doc, err := snap.decode()
	if err != nil {
		return nil, err
	}

	playerSlot := snap.playerSlot(doc)
	out := make([]model.DriverObservation, 0, len(doc.DriverInfo.Drivers))

	for _, raw := range doc.DriverInfo.Drivers {
		if raw.CarIdx < 0 || raw.CarIdx >= model.MaxCars {
			continue
		}

		name := sanitizeName(raw.UserName)
		if name == "" {
			// No driver in this slot.
			continue
		}
		if raw.CarIsPaceCar != 0 || raw.IsSpectator != 0 {
			continue
		}

		obs := model.DriverObservation{
			CarSlot:       raw.CarIdx,
			DisplayName:   name,
			UserName:      name,
			ClassID:       raw.CarClassID,
			IRating:       raw.IRating,
			IncidentCount: raw.IncidentCount,
			LicenseString: raw.LicString,
			Position:      snap.position(raw.CarIdx),
			IsPlayer:      raw.CarIdx == playerSlot,
			IsValid:       true,
		}

		// A missing real id falls back to a synthetic one so the entry
		// stays visible; it is never persisted as a real identity.
		if raw.UserID > 0 {
			obs.CustomerID = raw.UserID
			if raw.UserID >= model.SyntheticIDBase && raw.UserID < model.SyntheticIDBase+model.MaxCars {
				slog.Warn("Real customer id falls in the synthetic range",
					"customer_id", raw.UserID, "car_slot", raw.CarIdx)
			}
		} else {
			obs.CustomerID = raw.CarIdx + model.SyntheticIDBase
		}

		obs.CarNumber = raw.CarNumber
		if obs.CarNumber == "" {
			obs.CarNumber = strconv.Itoa(raw.CarIdx + 1)
		}

		obs.LicenseLevel, obs.SafetyRating = parseLicense(raw.LicString)

		out = append(out, obs)
	}

	return filterNonParticipants(out), nil
}

// parseLicense splits a license string like "A 3.42" into its level letter
// and safety rating. A rating that fails to parse degrades to 0.0.
func parseLicense(lic string) (string, float64) {
	lic = strings.TrimSpace(lic)
	if lic == "" {
		return "", 0
	}

	level := string(lic[0])
	rating, err := strconv.ParseFloat(strings.TrimSpace(lic[1:]), 64)
	if err != nil {
		return level, 0
	}
	return level, rating
}

// sanitizeName flattens control characters to spaces and trims the result.
func sanitizeName(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		if r < 0x20 {
			return ' '
		}
		return r
	}, name)
	return strings.TrimSpace(cleaned)
}

// filterNonParticipants drops entries the slot scan let through: the
// reserved pace car name, and placeholder entries whose id is still the
// synthetic formula for their slot.
func filterNonParticipants(obs []model.DriverObservation) []model.DriverObservation {
	out := obs[:0]
	for _, o := range obs {
		if o.DisplayName == PaceCarName {
			continue
		}
		if strings.HasPrefix(o.DisplayName, PlaceholderPrefix) && o.HasSyntheticID() {
			continue
		}
		out = append(out, o)
	}
	return out
}
