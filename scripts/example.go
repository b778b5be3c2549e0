// Package main is a minimal, non-CLI walkthrough of pkg/rtree: build a
// tree over a handful of named cities, then run a box query, a radius
// query, and a nearest-neighbor query against it.
package main

import (
	"fmt"

	"github.com/kass/go-geo-index/pkg/models"
	"github.com/kass/go-geo-index/pkg/rtree"
)

func city(id string, lat, lon float64) rtree.Entry[models.POI] {
	x, y := float32(lat), float32(lon)
	return rtree.Entry[models.POI]{
		MBR:     rtree.MBR{X1: x, Y1: y, X2: x, Y2: y},
		Payload: models.POI{ID: id},
	}
}

func main() {
	cities := []rtree.Entry[models.POI]{
		city("NYC", 40.7128, -74.0060),
		city("LAX", 34.0522, -118.2437),
		city("CHI", 41.8781, -87.6298),
		city("HOU", 29.7604, -95.3698),
		city("PHX", 33.4484, -112.0740),
		city("PHL", 39.9526, -75.1652),
		city("SAT", 29.4241, -98.4936),
		city("SDG", 32.7157, -117.1611),
		city("DAL", 32.7767, -96.7970),
		city("SJC", 37.3382, -121.8863),
	}

	tree, err := rtree.Build(cities, 4)
	if err != nil {
		panic(err)
	}
	fmt.Printf("indexed %d cities\n\n", tree.Size())

	fmt.Println("=== Cities in California (bounding box) ===")
	california := rtree.MBR{X1: 32.5, Y1: -124.5, X2: 42.0, Y2: -114.0}
	for _, e := range tree.SearchAllRect(california) {
		fmt.Printf("  - %v\n", e.Payload)
	}

	fmt.Println("\n=== Cities within 500km of Dallas ===")
	dallasLat, dallasLon := float32(32.7767), float32(-96.7970)
	for _, e := range cities {
		d := rtree.SphericalEarth.Distance(float64(dallasLat), float64(dallasLon), e.MBR)
		if d <= 500 {
			fmt.Printf("  - %v: %.1f km away\n", e.Payload, d)
		}
	}

	fmt.Println("\n=== 5 nearest cities to Denver ===")
	denverLat, denverLon := 39.7392, -104.9903
	remaining := tree
	for i := 0; i < 5; i++ {
		entry, dist, ok := remaining.Nearest(denverLat, denverLon, rtree.SphericalEarth)
		if !ok {
			break
		}
		fmt.Printf("  %d. %v: %.1f km away\n", i+1, entry.Payload, dist)
		remaining, err = rtree.Diff(remaining, []rtree.Entry[models.POI]{entry}, 4)
		if err != nil {
			panic(err)
		}
	}
}
