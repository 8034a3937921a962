package index

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aidanlsb/noted/internal/note"
	"github.com/aidanlsb/noted/internal/parser"
	"github.com/aidanlsb/noted/internal/sqlutil"
)

// Status is the outcome of AddNote.
type Status int

const (
	// Stored means a new row was written.
	Stored Status = iota
	// AlreadyPresent means the filename and timestamp were already stored
	// and nothing was written.
	AlreadyPresent
)

func (s Status) String() string {
	switch s {
	case Stored:
		return "stored"
	case AlreadyPresent:
		return "already present"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// AddResult reports what AddNote did. ID is the new row for Stored and the
// existing row for AlreadyPresent.
type AddResult struct {
	Status Status
	ID     int64
}

// Err returns ErrOverwriteAttempt for AlreadyPresent and nil otherwise.
func (r AddResult) Err() error {
	if r.Status == AlreadyPresent {
		return ErrOverwriteAttempt
	}
	return nil
}

// Stem strips any directory and extension from name.
func Stem(name string) string {
	base := filepath.Base(strings.TrimSpace(name))
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func tableFor(kind note.TagKind) (string, error) {
	if !kind.Valid() {
		return "", fmt.Errorf("unknown tag kind %q", kind)
	}
	return string(kind), nil
}

// AlreadyStored reports whether filename was stored with timestamp ts.
// Only the base name of filename is compared.
func (d *Database) AlreadyStored(filename string, ts time.Time) (bool, error) {
	var id int64
	err := d.db.QueryRow(
		"SELECT id FROM notes WHERE filename = ? AND timestamp = ?",
		filepath.Base(filename), ts.UnixNano(),
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// AddNote stores n and its tags in a single transaction. If the filename and
// timestamp pair already exists nothing is written and the result status is
// AlreadyPresent.
//
// The stored body is the canonical encoding of n, so tags merged in from the
// filename survive a round trip through the index.
func (d *Database) AddNote(n *note.Note) (AddResult, error) {
	filename := filepath.Base(n.Filename)
	ts := n.Timestamp.UnixNano()

	tx, err := d.db.Begin()
	if err != nil {
		return AddResult{}, err
	}
	defer tx.Rollback()

	var existing int64
	err = tx.QueryRow("SELECT id FROM notes WHERE filename = ? AND timestamp = ?", filename, ts).Scan(&existing)
	switch {
	case err == nil:
		return AddResult{Status: AlreadyPresent, ID: existing}, nil
	case !errors.Is(err, sql.ErrNoRows):
		return AddResult{}, fmt.Errorf("check existing note: %w", err)
	}

	res, err := tx.Exec(
		"INSERT INTO notes (filename, timestamp, body) VALUES (?, ?, ?)",
		filename, ts, parser.Encode(n),
	)
	if err != nil {
		return AddResult{}, fmt.Errorf("insert note: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return AddResult{}, err
	}

	for _, kind := range note.TagKinds {
		if err := insertTags(tx, kind, id, n.Tags(kind)); err != nil {
			return AddResult{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return AddResult{}, err
	}
	return AddResult{Status: Stored, ID: id}, nil
}

// insertTags writes one row per distinct value. The same value on two notes
// gives two rows.
func insertTags(tx *sql.Tx, kind note.TagKind, noteID int64, values []string) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}

	exists, err := tx.Prepare("SELECT 1 FROM " + table + " WHERE name = ? AND note_id = ?")
	if err != nil {
		return err
	}
	defer exists.Close()

	insert, err := tx.Prepare("INSERT INTO " + table + " (name, note_id) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer insert.Close()

	for _, v := range values {
		var one int
		err := exists.QueryRow(v, noteID).Scan(&one)
		if err == nil {
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("check %s %q: %w", table, v, err)
		}
		if _, err := insert.Exec(v, noteID); err != nil {
			return fmt.Errorf("insert %s %q: %w", table, v, err)
		}
	}
	return nil
}

const noteColumns = "n.id, n.filename, n.timestamp, n.body"

func scanNote(rows *sql.Rows) (*note.Note, error) {
	var (
		id       int64
		filename string
		ts       int64
		body     string
	)
	if err := rows.Scan(&id, &filename, &ts, &body); err != nil {
		return nil, err
	}

	n := parser.Decode(body)
	n.Filename = filename
	n.Date = note.DateFromFilename(filename)
	n.Timestamp = time.Unix(0, ts)
	return n, nil
}

func (d *Database) queryNotes(query string, args ...any) ([]*note.Note, error) {
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	return sqlutil.ScanRows(rows, scanNote)
}

// SearchByFile returns notes whose filename contains the stem of name, most
// recent first.
func (d *Database) SearchByFile(name string) ([]*note.Note, error) {
	return d.queryNotes(
		"SELECT "+noteColumns+" FROM notes n WHERE n.filename LIKE ? ESCAPE '"+sqlutil.LikeEscape+"' ORDER BY n.timestamp DESC",
		sqlutil.ContainsPattern(Stem(name)),
	)
}

// SearchByKeyword is SearchByTag for keywords.
func (d *Database) SearchByKeyword(stem string, exact bool) ([]*note.Note, error) {
	return d.SearchByTag(note.Keywords, stem, exact)
}

// SearchByTag returns notes carrying a tag of the given kind equal to stem
// (exact) or starting with it, most recent first. A note is returned once
// even when several of its tags match. Prefix matching ignores ASCII case;
// exact matching does not.
func (d *Database) SearchByTag(kind note.TagKind, stem string, exact bool) ([]*note.Note, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	stem = Stem(stem)

	cond, arg := "t.name = ?", stem
	if !exact {
		cond, arg = "t.name LIKE ? ESCAPE '"+sqlutil.LikeEscape+"'", sqlutil.PrefixPattern(stem)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM notes n
		WHERE n.id IN (SELECT t.note_id FROM %s t WHERE %s)
		ORDER BY n.timestamp DESC
	`, noteColumns, table, cond)
	return d.queryNotes(query, arg)
}

// FindAll returns every stored note, most recent first.
func (d *Database) FindAll() ([]*note.Note, error) {
	return d.queryNotes("SELECT " + noteColumns + " FROM notes n ORDER BY n.timestamp DESC")
}

// FindSince returns notes with a timestamp at or after since, most recent
// first.
func (d *Database) FindSince(since time.Time) ([]*note.Note, error) {
	return d.queryNotes(
		"SELECT "+noteColumns+" FROM notes n WHERE n.timestamp >= ? ORDER BY n.timestamp DESC",
		since.UnixNano(),
	)
}

// Count returns the number of stored notes.
func (d *Database) Count() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM notes").Scan(&count)
	return count, err
}

// Timestamps returns the most recent stored timestamp for every filename.
func (d *Database) Timestamps() (map[string]time.Time, error) {
	rows, err := d.db.Query("SELECT filename, MAX(timestamp) FROM notes GROUP BY filename")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]time.Time)
	for rows.Next() {
		var filename string
		var ts int64
		if err := rows.Scan(&filename, &ts); err != nil {
			return nil, err
		}
		result[filename] = time.Unix(0, ts)
	}
	return result, rows.Err()
}
