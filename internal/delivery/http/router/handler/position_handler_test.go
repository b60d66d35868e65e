package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"smartqueue/internal/delivery/http/validator"
	"smartqueue/internal/domain/entity"
	"smartqueue/internal/domain/repository"
	"smartqueue/internal/infra/geo"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryPositionRepo struct {
	positions map[uuid.UUID]*entity.UserPosition
}

func newMemoryPositionRepo() *memoryPositionRepo {
	return &memoryPositionRepo{positions: map[uuid.UUID]*entity.UserPosition{}}
}

func (r *memoryPositionRepo) FindByUser(_ context.Context, userID uuid.UUID) (*entity.UserPosition, error) {
	if p, ok := r.positions[userID]; ok {
		return p, nil
	}

	return nil, repository.ErrPositionNotFound
}

func (r *memoryPositionRepo) Upsert(_ context.Context, p *entity.UserPosition) error {
	r.positions[p.UserID] = p

	return nil
}

func (r *memoryPositionRepo) ListSharingUpdatedSince(context.Context, time.Time) ([]*entity.UserPosition, error) {
	return nil, nil
}

func (r *memoryPositionRepo) UpdateNearestLocality(context.Context, uuid.UUID, uuid.UUID) error {
	return nil
}

func (r *memoryPositionRepo) DisableSharingUntouchedSince(context.Context, time.Time) (int64, error) {
	return 0, nil
}

var testLocality = entity.Locality{
	ID:        uuid.New(),
	Name:      "Pikine",
	Latitude:  14.7544,
	Longitude: -17.3942,
}

func newPositionHandlerFixture() (*PositionHandler, *memoryPositionRepo, *echo.Echo) {
	repo := newMemoryPositionRepo()
	h := &PositionHandler{
		positionRepo: repo,
		geoIndex:     geo.NewIndexFromLocalities([]entity.Locality{testLocality}),
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	e := echo.New()
	e.Validator = validator.New()

	return h, repo, e
}

func TestPositionHandler_UpdatePosition(t *testing.T) {
	h, repo, e := newPositionHandlerFixture()
	userID := uuid.New()

	body := `{"latitude":14.7544,"longitude":-17.3942,"accuracy_meters":25,"transport_mode":"car","sharing_enabled":true}`
	req := httptest.NewRequest(http.MethodPut, "/users/"+userID.String()+"/position", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("userID")
	c.SetParamValues(userID.String())

	require.NoError(t, h.UpdatePosition(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	stored := repo.positions[userID]
	require.NotNil(t, stored)
	assert.Equal(t, entity.TransportCar, stored.TransportMode)
	assert.True(t, stored.SharingEnabled)
	// The nearest locality is derived in the same write.
	assert.Equal(t, testLocality.ID, stored.NearestLocalityID)
	assert.Contains(t, rec.Body.String(), testLocality.ID.String())
}

func TestPositionHandler_UpdatePositionRejectsBadInput(t *testing.T) {
	h, repo, e := newPositionHandlerFixture()
	userID := uuid.New()

	cases := []struct {
		name string
		body string
	}{
		{"latitude out of range", `{"latitude":123.0,"longitude":-17.39,"transport_mode":"car"}`},
		{"unknown transport mode", `{"latitude":14.75,"longitude":-17.39,"transport_mode":"rocket"}`},
		{"missing transport mode", `{"latitude":14.75,"longitude":-17.39}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, "/users/"+userID.String()+"/position", strings.NewReader(tc.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			c.SetParamNames("userID")
			c.SetParamValues(userID.String())

			require.NoError(t, h.UpdatePosition(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Empty(t, repo.positions)
		})
	}
}

func TestPositionHandler_GetPositionNotFound(t *testing.T) {
	h, _, e := newPositionHandlerFixture()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("userID")
	c.SetParamValues(uuid.New().String())

	require.NoError(t, h.GetPosition(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "POSITION_NOT_FOUND")
}

func TestPositionHandler_ToggleSharing(t *testing.T) {
	h, repo, e := newPositionHandlerFixture()
	userID := uuid.New()
	repo.positions[userID] = &entity.UserPosition{
		UserID:         userID,
		Latitude:       14.7544,
		Longitude:      -17.3942,
		TransportMode:  entity.TransportCar,
		SharingEnabled: true,
		UpdatedAt:      time.Now().Add(-time.Hour),
	}

	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"sharing_enabled":false}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("userID")
	c.SetParamValues(userID.String())

	require.NoError(t, h.ToggleSharing(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, repo.positions[userID].SharingEnabled)
}
