package artifact

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"churn-predictor/internal/artifact/store"
	svcerrors "churn-predictor/internal/common/errors"
	"churn-predictor/internal/common/logger"
	"churn-predictor/internal/common/metrics"
)

// Snapshot pairs a validated bundle with its serving generation. Request
// handlers resolve a snapshot once at request start and use it to
// completion; a reload never changes a snapshot already handed out.
type Snapshot struct {
	Bundle     *Bundle
	Generation uint64
	LoadedAt   time.Time
}

// Manager owns the currently active artifact snapshot. Reload builds and
// validates a complete replacement before a single atomic pointer swap, so
// no request can ever observe a half-updated artifact.
type Manager struct {
	store   store.Store
	log     logger.Logger
	current atomic.Pointer[Snapshot]
	gen     atomic.Uint64

	// serializes reloads; reads never take it
	reloadMu sync.Mutex
}

func NewManager(s store.Store, log logger.Logger) *Manager {
	return &Manager{
		store: s,
		log:   log.WithFields(map[string]interface{}{"component": "artifact-manager"}),
	}
}

// Load performs the initial artifact load. A failure here means the
// process must refuse to serve.
func (m *Manager) Load(ctx context.Context) error {
	_, err := m.Reload(ctx)
	return err
}

// Reload loads, decodes and validates a bundle from the store and swaps it
// in as the new serving generation. On failure the previous generation
// keeps serving untouched.
func (m *Manager) Reload(ctx context.Context) (*Snapshot, error) {
	m.reloadMu.Lock()
	defer m.reloadMu.Unlock()

	raw, err := m.store.Load(ctx)
	if err != nil {
		metrics.ArtifactReloads.WithLabelValues("failure").Inc()
		return nil, svcerrors.NewArtifactLoadFailedError(err)
	}

	bundle, err := Decode(raw)
	if err != nil {
		metrics.ArtifactReloads.WithLabelValues("failure").Inc()
		return nil, err
	}

	snap := &Snapshot{
		Bundle:     bundle,
		Generation: m.gen.Add(1),
		LoadedAt:   time.Now().UTC(),
	}
	m.current.Store(snap)

	metrics.ArtifactReloads.WithLabelValues("success").Inc()
	metrics.ArtifactGeneration.Set(float64(snap.Generation))

	m.log.Info("artifact loaded", map[string]interface{}{
		"source":       m.store.Describe(),
		"generation":   snap.Generation,
		"modelVersion": bundle.ModelVersion,
		"modelType":    bundle.Model.Type,
		"featureCount": len(bundle.Features),
	})

	return snap, nil
}

// Current returns the active snapshot, or false when no artifact has been
// loaded yet.
func (m *Manager) Current() (*Snapshot, bool) {
	snap := m.current.Load()
	return snap, snap != nil
}
