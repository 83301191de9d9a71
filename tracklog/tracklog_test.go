package tracklog

import (
	"path/filepath"
	"testing"

	"github.com/PrincetonUniversity/braitenberg"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "tracks.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRecordTrajectory(t *testing.T) {
	db := openDB(t)

	w := braitenberg.NewWorld(640, 480, 1)
	require.NoError(t, w.ApplyScenario("classic"))
	rec, err := db.NewRecorder("classic", w.Env)
	require.NoError(t, err)

	const steps = 10
	require.NoError(t, w.Render(rec))
	for i := 0; i < steps; i++ {
		require.NoError(t, w.Step())
		require.NoError(t, w.Render(rec))
	}
	require.NoError(t, rec.Flush())

	n, err := db.Frames(rec.Run())
	require.NoError(t, err)
	assert.Equal(t, int64(steps+1), n)

	v := w.Vehicles[0]
	traj, err := db.Trajectory(rec.Run(), v.ID)
	require.NoError(t, err)
	require.Len(t, traj, steps+1)
	last := traj[len(traj)-1]
	assert.Equal(t, int64(steps), last.Frame)
	assert.Equal(t, v.Pos, last.Pos)
	assert.Equal(t, v.Orientation, last.Orientation)
	assert.Equal(t, braitenberg.Label("grey"), last.Color)
	assert.Equal(t, "vehicle", last.Kind)

	frame, err := db.Frame(rec.Run(), 0)
	require.NoError(t, err)
	assert.Len(t, frame, 4, "one vehicle and three beacons")
	assert.Equal(t, "beacon", frame[1].Kind)
}

func TestRuns(t *testing.T) {
	db := openDB(t)
	env := braitenberg.Environment{Width: 640, Height: 480}
	a, err := db.NewRecorder("fear", env)
	require.NoError(t, err)
	b, err := db.NewRecorder("love", env)
	require.NoError(t, err)

	runs, err := db.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, Run{ID: a.Run(), Scenario: "fear", Width: 640, Height: 480}, runs[0])
	assert.Equal(t, b.Run(), runs[1].ID)
}

func TestFlushWithoutFrame(t *testing.T) {
	db := openDB(t)
	rec, err := db.NewRecorder("classic", braitenberg.Environment{})
	require.NoError(t, err)
	require.NoError(t, rec.Flush())

	n, err := db.Frames(rec.Run())
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	traj, err := db.Trajectory(rec.Run(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, traj)
}
