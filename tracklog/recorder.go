package tracklog

import (
	"github.com/PrincetonUniversity/braitenberg"
	"github.com/google/uuid"
)

// A Recorder is a sink that writes every frame of one run to the database.
// Frames are buffered and written in a single transaction when the next
// frame starts or when Flush is called.
type Recorder struct {
	db    *DB
	run   uuid.UUID
	frame int64
	buf   []braitenberg.Sprite
	open  bool
}

// NewRecorder registers a new run and returns its recorder.
func (db *DB) NewRecorder(scenario string, env braitenberg.Environment) (*Recorder, error) {
	r := &Recorder{db: db, run: uuid.New()}
	_, err := db.Exec("INSERT INTO runs (run_id, scenario, width, height) VALUES (?, ?, ?, ?)", r.run, scenario, env.Width, env.Height)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Run returns the id of the recorded run.
func (r *Recorder) Run() uuid.UUID {
	return r.run
}

// Clear writes the pending frame and starts a new one.
func (r *Recorder) Clear() error {
	if err := r.Flush(); err != nil {
		return err
	}
	r.open = true
	return nil
}

// Draw buffers one entity of the current frame.
func (r *Recorder) Draw(s braitenberg.Sprite) error {
	r.buf = append(r.buf, s)
	return nil
}

// Flush writes the pending frame, if any.
func (r *Recorder) Flush() (err error) {
	if !r.open {
		return nil
	}
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	stmt, err := tx.Prepare("INSERT INTO poses (run_id, frame, entity, kind, color, x, y, orientation) VALUES (?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range r.buf {
		if _, err := stmt.Exec(r.run, r.frame, s.ID, s.Kind.String(), string(s.Color), s.Pos.X, s.Pos.Y, s.Orientation); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	r.frame++
	r.buf = r.buf[:0]
	r.open = false
	return nil
}
