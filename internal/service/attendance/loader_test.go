package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evidenta/portal-backend/internal/domain/attendance"
	"github.com/evidenta/portal-backend/internal/domain/user"
	"github.com/evidenta/portal-backend/internal/pkg/dateutil"
)

// gatedOverviewService blocks each GetOverview call until the gate for
// its start date is opened, so tests can decide completion order.
type gatedOverviewService struct {
	gates map[string]chan struct{}
}

func (g *gatedOverviewService) GetOverview(ctx context.Context, _ user.Capability, req attendance.OverviewRequest) (attendance.OverviewResponse, error) {
	if gate, ok := g.gates[req.StartDate]; ok {
		select {
		case <-gate:
		case <-ctx.Done():
			return attendance.OverviewResponse{}, ctx.Err()
		}
	}
	start, _ := dateutil.Parse(req.StartDate)
	end, _ := dateutil.Parse(req.EndDate)
	return attendance.OverviewResponse{StartDate: start, EndDate: end}, nil
}

func (g *gatedOverviewService) UpsertDay(context.Context, user.Capability, attendance.UpsertDayRequest) (attendance.Record, error) {
	return attendance.Record{}, nil
}

func (g *gatedOverviewService) DuplicateDates(context.Context, user.Capability, int64, dateutil.Date, dateutil.Date) ([]dateutil.Date, error) {
	return nil, nil
}

func TestOverviewLoader_StaleResultDiscarded(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	gateA := make(chan struct{})
	svc := &gatedOverviewService{gates: map[string]chan struct{}{
		date(1).String(): gateA,
	}}
	loader := NewOverviewLoader(svc)

	type loadResult struct {
		resp      attendance.OverviewResponse
		published bool
		err       error
	}

	// Fetch A starts first and will finish last.
	resultA := make(chan loadResult, 1)
	go func() {
		resp, published, err := loader.Load(ctx, managerCap(), overviewRequest(nil, 1, 5))
		resultA <- loadResult{resp, published, err}
	}()

	// Give A its sequence number before starting B.
	require.Eventually(t, func() bool {
		return loader.seq.Load() == 1
	}, time.Second, time.Millisecond)

	// Fetch B starts second and completes immediately.
	respB, publishedB, err := loader.Load(ctx, managerCap(), overviewRequest(nil, 8, 12))
	require.NoError(t, err)
	assert.True(t, publishedB)

	// Now let A finish: its result must be discarded.
	close(gateA)
	a := <-resultA
	require.NoError(t, a.err)
	assert.False(t, a.published)

	latest, ok := loader.Latest()
	require.True(t, ok)
	assert.Equal(t, respB.StartDate, latest.StartDate)
	assert.Equal(t, date(8), latest.StartDate)
}

func TestOverviewLoader_SequentialLoadsPublish(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	loader := NewOverviewLoader(&gatedOverviewService{})

	_, published, err := loader.Load(ctx, managerCap(), overviewRequest(nil, 1, 5))
	require.NoError(t, err)
	assert.True(t, published)

	_, published, err = loader.Load(ctx, managerCap(), overviewRequest(nil, 8, 12))
	require.NoError(t, err)
	assert.True(t, published)

	latest, ok := loader.Latest()
	require.True(t, ok)
	assert.Equal(t, date(8), latest.StartDate)
}

func TestOverviewLoader_NoLoads_NoLatest(t *testing.T) {
	t.Parallel()

	loader := NewOverviewLoader(&gatedOverviewService{})

	_, ok := loader.Latest()
	assert.False(t, ok)
}
