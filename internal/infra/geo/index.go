// Package geo provides nearest-locality lookup and great-circle distance over
// the immutable locality reference set.
package geo

import (
	"context"

	"smartqueue/internal/domain/entity"
	"smartqueue/internal/domain/repository"
	"smartqueue/internal/domain/service"
	"smartqueue/internal/errors"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
)

// Index answers nearest-locality queries with a linear scan. The reference
// set is a few hundred rows, so no spatial index is needed; the contract
// allows substituting one later.
type Index struct {
	localities []entity.Locality
}

// NewIndex loads the locality reference set once and builds the index.
func NewIndex(ctx context.Context, repo repository.LocalityRepository) (*Index, error) {
	localities, err := repo.ListLocalities(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load localities")
	}

	return &Index{localities: localities}, nil
}

// NewIndexFromLocalities builds an index over an in-memory set.
func NewIndexFromLocalities(localities []entity.Locality) *Index {
	return &Index{localities: localities}
}

// Distance returns the great-circle distance between two coordinates in km.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	a := orb.Point{lon1, lat1}
	b := orb.Point{lon2, lat2}

	return orbgeo.DistanceHaversine(a, b) / 1000.0
}

// NearestLocality returns the locality whose centroid is closest to the
// coordinate. There is no radius bound: the nearest locality always wins.
// Returns ErrLocalityUnresolved only when the reference set is empty.
func (idx *Index) NearestLocality(lat, lon float64) (*entity.Locality, error) {
	if len(idx.localities) == 0 {
		return nil, service.ErrLocalityUnresolved
	}

	best := 0
	bestDist := Distance(lat, lon, idx.localities[0].Latitude, idx.localities[0].Longitude)
	for i := 1; i < len(idx.localities); i++ {
		d := Distance(lat, lon, idx.localities[i].Latitude, idx.localities[i].Longitude)
		if d < bestDist {
			bestDist = d
			best = i
		}
	}

	locality := idx.localities[best]

	return &locality, nil
}

// Size returns the number of localities in the index.
func (idx *Index) Size() int {
	return len(idx.localities)
}
