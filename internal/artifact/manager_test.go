package artifact

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	svcerrors "churn-predictor/internal/common/errors"
	"churn-predictor/internal/common/logger"
)

// stubStore serves whatever payload the test queues next.
type stubStore struct {
	payload []byte
	err     error
}

func (s *stubStore) Load(ctx context.Context) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.payload, nil
}

func (s *stubStore) Describe() string { return "stub" }

func bundlePayload(t *testing.T, version string) []byte {
	t.Helper()
	b := validBundle()
	b.ModelVersion = version
	raw, err := json.Marshal(b)
	require.NoError(t, err)
	return raw
}

func TestManager_LoadAndCurrent(t *testing.T) {
	st := &stubStore{payload: bundlePayload(t, "v1.0.0")}
	m := NewManager(st, logger.NewTestLogger(t))

	_, ok := m.Current()
	assert.False(t, ok, "no snapshot before the first load")

	require.NoError(t, m.Load(context.Background()))

	snap, ok := m.Current()
	require.True(t, ok)
	assert.Equal(t, uint64(1), snap.Generation)
	assert.Equal(t, "v1.0.0", snap.Bundle.ModelVersion)
	assert.False(t, snap.LoadedAt.IsZero())
}

func TestManager_ReloadSwapsGeneration(t *testing.T) {
	st := &stubStore{payload: bundlePayload(t, "v1.0.0")}
	m := NewManager(st, logger.NewTestLogger(t))
	require.NoError(t, m.Load(context.Background()))

	before, _ := m.Current()

	st.payload = bundlePayload(t, "v1.1.0")
	snap, err := m.Reload(context.Background())
	require.NoError(t, err)

	assert.Equal(t, uint64(2), snap.Generation)
	assert.Equal(t, "v1.1.0", snap.Bundle.ModelVersion)

	// The snapshot handed out earlier is untouched.
	assert.Equal(t, uint64(1), before.Generation)
	assert.Equal(t, "v1.0.0", before.Bundle.ModelVersion)

	current, ok := m.Current()
	require.True(t, ok)
	assert.Same(t, snap, current)
}

func TestManager_FailedReloadKeepsServingOldGeneration(t *testing.T) {
	st := &stubStore{payload: bundlePayload(t, "v1.0.0")}
	m := NewManager(st, logger.NewTestLogger(t))
	require.NoError(t, m.Load(context.Background()))

	st.err = errors.New("backend unreachable")
	_, err := m.Reload(context.Background())

	svcErr, ok := svcerrors.AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, svcerrors.ErrCodeArtifactLoadFailed, svcErr.Code)

	snap, ok := m.Current()
	require.True(t, ok)
	assert.Equal(t, uint64(1), snap.Generation)
	assert.Equal(t, "v1.0.0", snap.Bundle.ModelVersion)
}

func TestManager_CorruptBundleRejectedOnReload(t *testing.T) {
	st := &stubStore{payload: bundlePayload(t, "v1.0.0")}
	m := NewManager(st, logger.NewTestLogger(t))
	require.NoError(t, m.Load(context.Background()))

	st.payload = []byte(`{"schema_version": 1}`)
	_, err := m.Reload(context.Background())
	require.Error(t, err)

	snap, _ := m.Current()
	assert.Equal(t, "v1.0.0", snap.Bundle.ModelVersion)
}

func TestManager_InitialLoadFailureLeavesNoSnapshot(t *testing.T) {
	st := &stubStore{err: errors.New("no such file")}
	m := NewManager(st, logger.NewTestLogger(t))

	require.Error(t, m.Load(context.Background()))

	_, ok := m.Current()
	assert.False(t, ok)
}
