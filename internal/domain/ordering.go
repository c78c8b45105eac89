package domain

import (
	"cmp"
	"slices"
)

// SortByMissDistance orders asteroids by ascending miss distance. Entries with
// an unknown distance sort after every entry with a known one; ties fall back
// to the id so the order is stable across upstream reorderings.
func SortByMissDistance(asteroids []AsteroidSummary) {
	slices.SortStableFunc(asteroids, func(a, b AsteroidSummary) int {
		da, db := a.MissDistanceKm(), b.MissDistanceKm()
		switch {
		case da == nil && db == nil:
			return cmp.Compare(a.ID, b.ID)
		case da == nil:
			return 1
		case db == nil:
			return -1
		}
		if c := cmp.Compare(*da, *db); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

// SortByDiameterDesc orders asteroids by descending maximum estimated diameter.
// An unknown diameter counts as zero for ordering only.
func SortByDiameterDesc(asteroids []AsteroidSummary) {
	slices.SortStableFunc(asteroids, func(a, b AsteroidSummary) int {
		if c := cmp.Compare(diameterOrZero(b), diameterOrZero(a)); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

// FilterHazardous returns the potentially hazardous asteroids, preserving order.
func FilterHazardous(asteroids []AsteroidSummary) []AsteroidSummary {
	out := make([]AsteroidSummary, 0, len(asteroids))
	for _, a := range asteroids {
		if a.Hazardous {
			out = append(out, a)
		}
	}
	return out
}

func diameterOrZero(a AsteroidSummary) float64 {
	if a.DiameterMaxM == nil {
		return 0
	}
	return *a.DiameterMaxM
}
