package history

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"skin-sight/internal/pasi"
	"skin-sight/internal/pipeline"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func record(lesion string, score float64, at int64) *Record {
	return &Record{
		Lesion:         lesion,
		BodyRegion:     pasi.Trunk,
		CompositeScore: score,
		Severity:       pasi.ClassifySeverity(score),
		Report:         json.RawMessage(`{"success":true}`),
		CreatedAtNs:    at,
	}
}

func TestInsertAndList(t *testing.T) {
	s := openStore(t)

	require.NoError(t, s.Insert(record("left-elbow", 6.2, 300)))
	require.NoError(t, s.Insert(record("left-elbow", 8.0, 100)))
	require.NoError(t, s.Insert(record("left-elbow", 4.5, 200)))
	require.NoError(t, s.Insert(record("scalp", 1.0, 150)))

	got, err := s.List("left-elbow", 0)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []int64{100, 200, 300}, []int64{got[0].CreatedAtNs, got[1].CreatedAtNs, got[2].CreatedAtNs})
	assert.Equal(t, pasi.SeverityModerate, got[0].Severity)
	assert.Equal(t, pasi.Trunk, got[0].BodyRegion)
	assert.JSONEq(t, `{"success":true}`, string(got[0].Report))
	assert.NotEmpty(t, got[0].ID)

	limited, err := s.List("left-elbow", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	none, err := s.List("knee", 0)
	require.NoError(t, err)
	assert.Empty(t, none)

	delta, ok := Trend(got)
	require.True(t, ok)
	assert.Equal(t, -1.8, delta)
}

func TestInsert_DefaultsAndValidation(t *testing.T) {
	s := openStore(t)

	r := record("arm", 2, 0)
	require.NoError(t, s.Insert(r))
	assert.Len(t, r.ID, 36)
	assert.NotZero(t, r.CreatedAtNs)

	dup := *r
	assert.Error(t, s.Insert(&dup), "duplicate IDs are rejected")

	assert.ErrorIs(t, s.Insert(record("", 1, 1)), ErrNoLesion)
}

func TestNewRecord(t *testing.T) {
	a := pipeline.Failed(pasi.Head, errors.New("boom"))
	a.Area.AreaPercentage = 2.5

	r, err := NewRecord("scalp", "/photos/1.jpg", a)
	require.NoError(t, err)
	assert.Equal(t, "scalp", r.Lesion)
	assert.Equal(t, pasi.Head, r.BodyRegion)
	assert.Equal(t, 2.5, r.AreaPercentage)
	assert.True(t, r.Degraded)
	assert.Equal(t, pasi.SeverityNone, r.Severity)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(r.Report, &doc))
	assert.Equal(t, false, doc["success"])

	s := openStore(t)
	require.NoError(t, s.Insert(r))
	got, err := s.List("scalp", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "/photos/1.jpg", got[0].ImagePath)
	assert.True(t, got[0].Degraded)
}

func TestTrend_TooFew(t *testing.T) {
	_, ok := Trend(nil)
	assert.False(t, ok)
	_, ok = Trend([]Record{{CompositeScore: 3}})
	assert.False(t, ok)
}
