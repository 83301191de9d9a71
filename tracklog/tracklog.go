// Package tracklog records vehicle trajectories in an SQLite database.
package tracklog

import (
	"database/sql"
	"fmt"

	"github.com/PrincetonUniversity/braitenberg"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// DB is a trajectory database.
type DB struct {
	*sql.DB
}

// NewDB opens or creates the database at path.
func NewDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			scenario TEXT,
			width DOUBLE,
			height DOUBLE,
			started TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS poses (
			run_id TEXT,
			frame BIGINT,
			entity TEXT,
			kind TEXT,
			color TEXT,
			x DOUBLE,
			y DOUBLE,
			orientation DOUBLE,
			FOREIGN KEY(run_id) REFERENCES runs(run_id)
		);
		CREATE INDEX IF NOT EXISTS poses_entity ON poses (run_id, entity, frame);
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &DB{db}, nil
}

// A Run is one recorded simulation.
type Run struct {
	ID       uuid.UUID
	Scenario string
	Width    float64
	Height   float64
}

// A Pose is the recorded state of one entity in one frame.
type Pose struct {
	Frame       int64
	Entity      uuid.UUID
	Kind        string
	Color       braitenberg.Label
	Pos         braitenberg.Point
	Orientation float64
}

func (p *Pose) String() string {
	return fmt.Sprintf("frame %d %s %s (%g, %g) %g", p.Frame, p.Kind, p.Color, p.Pos.X, p.Pos.Y, p.Orientation)
}

// Runs returns the recorded runs, oldest first.
func (db *DB) Runs() ([]Run, error) {
	rows, err := db.Query("SELECT run_id, scenario, width, height FROM runs ORDER BY started, rowid")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Scenario, &r.Width, &r.Height); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

// Trajectory returns every pose of an entity in a run, in frame order.
func (db *DB) Trajectory(run, entity uuid.UUID) ([]Pose, error) {
	return db.poses(
		"SELECT frame, entity, kind, color, x, y, orientation FROM poses WHERE run_id = ? AND entity = ? ORDER BY frame",
		run, entity,
	)
}

// Frame returns every pose of a frame of a run.
func (db *DB) Frame(run uuid.UUID, frame int64) ([]Pose, error) {
	return db.poses(
		"SELECT frame, entity, kind, color, x, y, orientation FROM poses WHERE run_id = ? AND frame = ? ORDER BY rowid",
		run, frame,
	)
}

// Frames returns the number of frames recorded for a run.
func (db *DB) Frames(run uuid.UUID) (int64, error) {
	var n sql.NullInt64
	if err := db.QueryRow("SELECT MAX(frame) + 1 FROM poses WHERE run_id = ?", run).Scan(&n); err != nil {
		return 0, err
	}
	return n.Int64, nil
}

func (db *DB) poses(query string, args ...interface{}) ([]Pose, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var poses []Pose
	for rows.Next() {
		var p Pose
		var color string
		if err := rows.Scan(&p.Frame, &p.Entity, &p.Kind, &color, &p.Pos.X, &p.Pos.Y, &p.Orientation); err != nil {
			return nil, err
		}
		p.Color = braitenberg.Label(color)
		poses = append(poses, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return poses, nil
}
