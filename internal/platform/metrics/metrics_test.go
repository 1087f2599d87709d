package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MRamiBalles/emerald/internal/assets"
)

func TestObserveFrame(t *testing.T) {
	c := New()
	c.ObserveFrame(1.0/60, 59.5)
	c.ObserveFrame(1.0/30, 45)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.frames))
	assert.Equal(t, 45.0, testutil.ToFloat64(c.fps))
	assert.Equal(t, 1, testutil.CollectAndCount(c.frameDelta))
}

func TestObserveLabels(t *testing.T) {
	c := New()
	c.ObserveProfile("physics", 2*time.Millisecond)
	c.ObserveProfile("render", time.Millisecond)
	c.ObserveAssetLoad(assets.KindTexture, assets.OutcomeMiss)
	c.ObserveAssetLoad(assets.KindTexture, assets.OutcomeHit)
	c.ObserveAssetLoad(assets.KindTexture, assets.OutcomeHit)

	assert.Equal(t, 2, testutil.CollectAndCount(c.profileScopes))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.assetLoads.WithLabelValues(string(assets.KindTexture), "hit")))
}

func TestHubCounters(t *testing.T) {
	c := New()
	c.RecordWSConnection(1)
	c.RecordWSConnection(1)
	c.RecordWSConnection(-1)
	c.RecordWSMessage(false)
	c.RecordWSDrop()

	assert.Equal(t, 1.0, testutil.ToFloat64(c.wsConnections))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.wsMessages.WithLabelValues("out")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.wsDropped))
}

func TestHandlerServesRegistry(t *testing.T) {
	c := New()
	c.ObserveFrame(0.016, 60)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "emerald_frame_fps 60")
	assert.Contains(t, string(body), "emerald_process_resident_memory_bytes")
}
