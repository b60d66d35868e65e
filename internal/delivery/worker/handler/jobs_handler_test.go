package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"smartqueue/internal/errors"
	"smartqueue/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// blockingRunner signals when it starts and holds until released. A closed
// release channel lets later runs pass straight through.
func blockingRunner(started, release chan struct{}) JobRunner {
	return func(context.Context) (usecase.JobReport, error) {
		select {
		case started <- struct{}{}:
		default:
		}
		<-release

		return usecase.JobReport{Processed: 1}, nil
	}
}

func testJobHandler(name string, runner JobRunner) *JobHandler {
	return &JobHandler{
		runners: map[string]JobRunner{name: nonOverlapping(runner)},
		logger:  testLogger(),
	}
}

func TestJobRunner_RejectsOverlappingRun(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	h := testJobHandler("sync", blockingRunner(started, release))

	runner, ok := h.Runner("sync")
	require.True(t, ok)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		report, err := runner(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, 1, report.Processed)
	}()

	<-started
	_, err := runner(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrJobAlreadyRunning))

	close(release)
	wg.Wait()

	// The guard frees up once the run finishes.
	_, err = runner(context.Background())
	// blockingRunner blocks on the already-closed channel without waiting.
	require.NoError(t, err)
}

func TestHandleTrigger_ConflictWhileRunning(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	h := testJobHandler("sync", blockingRunner(started, release))

	runner, _ := h.Runner("sync")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = runner(context.Background())
	}()
	<-started
	defer func() {
		close(release)
		wg.Wait()
	}()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/jobs/sync", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("name")
	c.SetParamValues("sync")

	require.NoError(t, h.HandleTrigger(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "already running")
}

func TestHandleTrigger_RunsJob(t *testing.T) {
	h := testJobHandler("sync", func(context.Context) (usecase.JobReport, error) {
		return usecase.JobReport{Processed: 3, Skipped: 1}, nil
	})

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/jobs/sync", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("name")
	c.SetParamValues("sync")

	require.NoError(t, h.HandleTrigger(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"processed":3`)
}

func TestHandleTrigger_UnknownJob(t *testing.T) {
	h := testJobHandler("sync", func(context.Context) (usecase.JobReport, error) {
		return usecase.JobReport{}, nil
	})

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/jobs/nope", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("name")
	c.SetParamValues("nope")

	require.NoError(t, h.HandleTrigger(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
