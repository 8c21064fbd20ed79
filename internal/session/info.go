package session

import (
	"strings"

	"github.com/gridbook/gridbook/internal/model"
)

// Type classifies the current session.
type Type string

// Session types as reported by the simulator.
const (
	TypeUnknown  Type = "Unknown"
	TypePractice Type = "Practice"
	TypeQualify  Type = "Qualify"
	TypeRace     Type = "Race"
)

// Info is the coarse session metadata shown alongside the driver list.
type Info struct {
	Track string
	Type  Type
}

// ReadInfo extracts session metadata from a snapshot. Failures degrade to
// the zero Info; metadata is cosmetic and must never block normalization.
func ReadInfo(snap *Snapshot) Info {
	doc, err := snap.decode()
	if err != nil {
		return Info{Type: TypeUnknown}
	}

	info := Info{
		Track: strings.TrimSpace(doc.WeekendInfo.TrackDisplayName),
		Type:  TypeUnknown,
	}
	for _, s := range doc.SessionInfo.Sessions {
		switch {
		case strings.Contains(s.SessionType, "Race"):
			info.Type = TypeRace
		case strings.Contains(s.SessionType, "Qualify"):
			if info.Type != TypeRace {
				info.Type = TypeQualify
			}
		case strings.Contains(s.SessionType, "Practice"):
			if info.Type == TypeUnknown {
				info.Type = TypePractice
			}
		}
	}
	return info
}

// StrengthOfField returns the mean iRating of the rated participants,
// zero when nobody carries a rating.
func StrengthOfField(drivers []model.DriverObservation) float64 {
	total := 0
	count := 0
	for _, d := range drivers {
		if d.IRating > 0 {
			total += d.IRating
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return float64(total) / float64(count)
}
