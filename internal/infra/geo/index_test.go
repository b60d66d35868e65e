package geo

import (
	"testing"

	"smartqueue/internal/domain/entity"
	"smartqueue/internal/domain/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance_Symmetry(t *testing.T) {
	pairs := [][4]float64{
		{14.7544, -17.3942, 14.7206, -17.1842},
		{14.6928, -17.4467, 14.7645, -17.3660},
		{0, 0, 10, 10},
	}

	for _, p := range pairs {
		ab := Distance(p[0], p[1], p[2], p[3])
		ba := Distance(p[2], p[3], p[0], p[1])
		assert.InDelta(t, ab, ba, 1e-9)
	}
}

func TestDistance_Identity(t *testing.T) {
	assert.Zero(t, Distance(14.7544, -17.3942, 14.7544, -17.3942))
}

func TestDistance_PikineToDiamniadio(t *testing.T) {
	// Roughly 23 km as the crow flies between the two centroids.
	d := Distance(14.7544, -17.3942, 14.7206, -17.1842)
	assert.Greater(t, d, 20.0)
	assert.Less(t, d, 26.0)
}

func TestNearestLocality(t *testing.T) {
	pikine := entity.Locality{ID: uuid.New(), Name: "Pikine", Latitude: 14.7544, Longitude: -17.3942, CongestionFactor: 1.6}
	diamniadio := entity.Locality{ID: uuid.New(), Name: "Diamniadio", Latitude: 14.7206, Longitude: -17.1842, CongestionFactor: 1.1}
	idx := NewIndexFromLocalities([]entity.Locality{pikine, diamniadio})

	near, err := idx.NearestLocality(14.75, -17.39)
	require.NoError(t, err)
	assert.Equal(t, "Pikine", near.Name)

	near, err = idx.NearestLocality(14.72, -17.19)
	require.NoError(t, err)
	assert.Equal(t, "Diamniadio", near.Name)
}

func TestNearestLocality_FarPointStillResolves(t *testing.T) {
	only := entity.Locality{ID: uuid.New(), Name: "Dakar", Latitude: 14.6928, Longitude: -17.4467}
	idx := NewIndexFromLocalities([]entity.Locality{only})

	// No radius bound: even a distant coordinate resolves to the nearest.
	near, err := idx.NearestLocality(48.85, 2.35)
	require.NoError(t, err)
	assert.Equal(t, "Dakar", near.Name)
}

func TestNearestLocality_EmptyIndex(t *testing.T) {
	idx := NewIndexFromLocalities(nil)

	_, err := idx.NearestLocality(14.75, -17.39)
	assert.ErrorIs(t, err, service.ErrLocalityUnresolved)
}
