package attendance

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/evidenta/portal-backend/internal/domain/attendance"
	"github.com/evidenta/portal-backend/internal/domain/user"
)

// OverviewLoader guards a repeatedly refreshed overview against stale
// writes. Every load is tagged with a monotonically increasing sequence
// number when it starts; a finished load publishes its result only if
// no newer load has started in the meantime. A slow fetch for an old
// range can therefore never overwrite the result of a newer one.
type OverviewLoader struct {
	service attendance.AttendanceService

	seq atomic.Uint64

	mu           sync.RWMutex
	publishedSeq uint64
	latest       *attendance.OverviewResponse
}

func NewOverviewLoader(service attendance.AttendanceService) *OverviewLoader {
	return &OverviewLoader{service: service}
}

// Load runs the overview pipeline and reports whether its result was
// published as the latest one. A discarded result is still returned to
// the immediate caller.
func (l *OverviewLoader) Load(ctx context.Context, cap user.Capability, req attendance.OverviewRequest) (attendance.OverviewResponse, bool, error) {
	seq := l.seq.Add(1)

	resp, err := l.service.GetOverview(ctx, cap, req)
	if err != nil {
		return attendance.OverviewResponse{}, false, err
	}

	return resp, l.publish(seq, resp), nil
}

// Latest returns the most recently published overview, if any.
func (l *OverviewLoader) Latest() (attendance.OverviewResponse, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.latest == nil {
		return attendance.OverviewResponse{}, false
	}
	return *l.latest, true
}

func (l *OverviewLoader) publish(seq uint64, resp attendance.OverviewResponse) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if seq < l.seq.Load() || seq <= l.publishedSeq {
		return false
	}
	l.publishedSeq = seq
	l.latest = &resp
	return true
}
