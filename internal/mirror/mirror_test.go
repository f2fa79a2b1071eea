package mirror

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitstop/sync/internal/state"
	"github.com/pitstop/sync/pkg/models"
)

func openTestMirror(t *testing.T) (*Mirror, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mirror.db")
	m, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })
	return m, path
}

func TestFlushAndRestoreRoundTrip(t *testing.T) {
	m, path := openTestMirror(t)

	src := state.New()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx, src, 10*time.Millisecond)
		close(done)
	}()

	src.Replace(models.SliceCarMakes, []models.CarMake{{Name: "Audi", Multiplier: 1.3}}, "client-1")
	src.Replace(models.SliceSettings, models.Settings{SiteName: "Pitstop", Phone: "555-0100"}, "client-1")

	// Cancel triggers the final flush before Run returns
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done
	require.NoError(t, m.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	dst := state.New()
	restored, err := reopened.Restore(dst)
	require.NoError(t, err)
	assert.Equal(t, 2, restored)
	assert.Equal(t, []models.CarMake{{Name: "Audi", Multiplier: 1.3}}, dst.Get(models.SliceCarMakes))
	assert.Equal(t, models.Settings{SiteName: "Pitstop", Phone: "555-0100"}, dst.Get(models.SliceSettings))
}

func TestRestoreEmptyMirror(t *testing.T) {
	m, _ := openTestMirror(t)

	dst := state.New()
	restored, err := m.Restore(dst)
	require.NoError(t, err)
	assert.Zero(t, restored)
	assert.Empty(t, dst.Get(models.SliceServices).([]models.Service))
}

func TestRestoreSkipsBadRows(t *testing.T) {
	m, _ := openTestMirror(t)

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := m.db.Exec(`INSERT INTO slices (name, content, updated_at) VALUES (?, ?, ?)`,
		"gearboxes", `[]`, now)
	require.NoError(t, err)
	_, err = m.db.Exec(`INSERT INTO slices (name, content, updated_at) VALUES (?, ?, ?)`,
		string(models.SliceBrands), `{"this is": "not a list"}`, now)
	require.NoError(t, err)
	_, err = m.db.Exec(`INSERT INTO slices (name, content, updated_at) VALUES (?, ?, ?)`,
		string(models.SliceFuelTypes), `[{"name":"Petrol","multiplier":1.0}]`, now)
	require.NoError(t, err)

	dst := state.New()
	restored, err := m.Restore(dst)
	require.NoError(t, err)

	// Only the decodable known slice comes back
	assert.Equal(t, 1, restored)
	assert.Equal(t, []models.FuelType{{Name: "Petrol", Multiplier: 1.0}}, dst.Get(models.SliceFuelTypes))
	assert.Empty(t, dst.Get(models.SliceBrands).([]models.Brand))
}

func TestFlushOverwritesPreviousValue(t *testing.T) {
	m, _ := openTestMirror(t)

	dirty := map[models.Slice]any{
		models.SliceServices: []models.Service{{ID: "svc-1", Title: "first"}},
	}
	m.flush(context.Background(), dirty)
	assert.Empty(t, dirty, "flushed slices are cleared")

	dirty[models.SliceServices] = []models.Service{{ID: "svc-1", Title: "second"}}
	m.flush(context.Background(), dirty)

	dst := state.New()
	restored, err := m.Restore(dst)
	require.NoError(t, err)
	assert.Equal(t, 1, restored)
	services := dst.Get(models.SliceServices).([]models.Service)
	require.Len(t, services, 1)
	assert.Equal(t, "second", services[0].Title)
}
