// Package models holds the payload types carried as an rtree.Entry's
// generic T across this module's command-line tools and data sources.
package models

import "fmt"

// POI is a named point of interest: a city, landmark, or any entry
// loaded from a random generator or PostGIS.
type POI struct {
	ID   string
	Name string
}

func (p POI) String() string {
	if p.Name != "" {
		return fmt.Sprintf("%s (%s)", p.Name, p.ID)
	}
	return p.ID
}

// Ship is the payload carried for AIS-sourced entries: MMSI is the
// vessel's Maritime Mobile Service Identity, the only field AIS
// position reports guarantee.
type Ship struct {
	MMSI     uint32
	Name     string
	Callsign string
}

func (s Ship) String() string {
	if s.Name != "" {
		return fmt.Sprintf("%s (MMSI %d)", s.Name, s.MMSI)
	}
	return fmt.Sprintf("MMSI %d", s.MMSI)
}
