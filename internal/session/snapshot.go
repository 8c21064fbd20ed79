// Package session turns raw simulator session snapshots into the current
// tick's list of driver observations.
package session

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/gridbook/gridbook/internal/common"
)

// Snapshot is one tick's raw input: the simulator's session-info YAML
// document plus the live values that only exist in telemetry.
type Snapshot struct {
	// SessionInfo is the raw YAML document published by the simulator.
	SessionInfo string
	// PlayerCarIdx is the player's car slot. When negative, the value is
	// taken from DriverInfo.DriverCarIdx in the YAML instead.
	PlayerCarIdx int
	// Positions holds the live classified position per car slot; zero means
	// not yet classified. May be nil when telemetry is not available.
	Positions []int
}

// rawDriver mirrors one entry of the DriverInfo.Drivers sequence.
type rawDriver struct {
	UserName      string `yaml:"UserName"`
	CarNumber     string `yaml:"CarNumber"`
	LicString     string `yaml:"LicString"`
	CarIdx        int    `yaml:"CarIdx"`
	UserID        int    `yaml:"UserID"`
	CarClassID    int    `yaml:"CarClassID"`
	IRating       int    `yaml:"IRating"`
	IncidentCount int    `yaml:"CurDriverIncidentCount"`
	IsSpectator   int    `yaml:"IsSpectator"`
	CarIsPaceCar  int    `yaml:"CarIsPaceCar"`
}

type rawDriverInfo struct {
	Drivers      []rawDriver `yaml:"Drivers"`
	DriverCarIdx int         `yaml:"DriverCarIdx"`
}

type rawWeekendInfo struct {
	TrackDisplayName string `yaml:"TrackDisplayName"`
}

type rawSession struct {
	SessionType string `yaml:"SessionType"`
}

type rawSessionInfo struct {
	Sessions []rawSession `yaml:"Sessions"`
}

// sessionDocument is the subset of the session-info YAML this package reads.
type sessionDocument struct {
	DriverInfo  rawDriverInfo  `yaml:"DriverInfo"`
	WeekendInfo rawWeekendInfo `yaml:"WeekendInfo"`
	SessionInfo rawSessionInfo `yaml:"SessionInfo"`
}

func (s *Snapshot) decode() (*sessionDocument, error) {
	if s.SessionInfo == "" {
		return nil, common.ErrEmptySnapshot
	}

	var doc sessionDocument
	if err := yaml.Unmarshal([]byte(s.SessionInfo), &doc); err != nil {
		return nil, fmt.Errorf("failed to decode session info: %w", err)
	}
	return &doc, nil
}

// position returns the live position for a car slot, zero when unknown.
func (s *Snapshot) position(carIdx int) int {
	if carIdx < 0 || carIdx >= len(s.Positions) {
		return 0
	}
	return s.Positions[carIdx]
}

// playerSlot resolves the player's car slot, falling back to the YAML value.
func (s *Snapshot) playerSlot(doc *sessionDocument) int {
	if s.PlayerCarIdx >= 0 {
		return s.PlayerCarIdx
	}
	return doc.DriverInfo.DriverCarIdx
}
