package cms

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TimeFormat is how the CMS renders timestamps.
const TimeFormat = "2006-01-02T15:04:05.000Z"

var ErrNotFound = errors.New("entry not found")

// reserved keys are managed by the store and never persisted in data.
var reserved = map[string]bool{
	"id": true, "documentId": true, "createdAt": true, "updatedAt": true, "publishedAt": true,
}

// Entry is one stored document of a collection.
type Entry struct {
	ID         int64
	DocumentID string
	Collection string
	Fields     map[string]any
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Doc returns the entry as a flat document including the system fields.
func (e *Entry) Doc() map[string]any {
	doc := make(map[string]any, len(e.Fields)+5)
	for k, v := range e.Fields {
		doc[k] = v
	}
	doc["id"] = e.ID
	doc["documentId"] = e.DocumentID
	doc["createdAt"] = e.CreatedAt.UTC().Format(TimeFormat)
	doc["updatedAt"] = e.UpdatedAt.UTC().Format(TimeFormat)
	doc["publishedAt"] = e.CreatedAt.UTC().Format(TimeFormat)
	return doc
}

// Store keeps every collection in a single document table.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

func (s *Store) List(ctx context.Context, collection string) ([]*Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, document_id, collection, data, created_at, updated_at FROM entries WHERE collection = ? ORDER BY id`,
		collection)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", collection, err)
	}
	defer rows.Close()

	var out []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", collection, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Get finds an entry by numeric id or documentId.
func (s *Store) Get(ctx context.Context, collection, ref string) (*Entry, error) {
	q := `SELECT id, document_id, collection, data, created_at, updated_at FROM entries WHERE collection = ? AND document_id = ?`
	args := []any{collection, ref}
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		q = `SELECT id, document_id, collection, data, created_at, updated_at FROM entries WHERE collection = ? AND (id = ? OR document_id = ?)`
		args = []any{collection, id, ref}
	}
	e, err := scanEntry(s.db.QueryRowContext(ctx, q, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s %s: %w", collection, ref, err)
	}
	return e, nil
}

func (s *Store) Create(ctx context.Context, collection string, fields map[string]any) (*Entry, error) {
	now := s.now().UTC()
	e := &Entry{
		DocumentID: newDocumentID(),
		Collection: collection,
		Fields:     clean(fields),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	data, err := json.Marshal(e.Fields)
	if err != nil {
		return nil, fmt.Errorf("encoding %s entry: %w", collection, err)
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO entries(collection, document_id, data, created_at, updated_at) VALUES(?,?,?,?,?)`,
		collection, e.DocumentID, string(data), now.Format(TimeFormat), now.Format(TimeFormat))
	if err != nil {
		return nil, fmt.Errorf("inserting %s entry: %w", collection, err)
	}
	if e.ID, err = res.LastInsertId(); err != nil {
		return nil, err
	}
	return e, nil
}

// Update merges fields into the stored entry.
func (s *Store) Update(ctx context.Context, collection, ref string, fields map[string]any) (*Entry, error) {
	e, err := s.Get(ctx, collection, ref)
	if err != nil {
		return nil, err
	}
	for k, v := range clean(fields) {
		e.Fields[k] = v
	}
	e.UpdatedAt = s.now().UTC()
	data, err := json.Marshal(e.Fields)
	if err != nil {
		return nil, fmt.Errorf("encoding %s entry: %w", collection, err)
	}
	_, err = s.db.ExecContext(ctx, `UPDATE entries SET data = ?, updated_at = ? WHERE id = ?`,
		string(data), e.UpdatedAt.Format(TimeFormat), e.ID)
	if err != nil {
		return nil, fmt.Errorf("updating %s %s: %w", collection, ref, err)
	}
	return e, nil
}

func (s *Store) Delete(ctx context.Context, collection, ref string) (*Entry, error) {
	e, err := s.Get(ctx, collection, ref)
	if err != nil {
		return nil, err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, e.ID); err != nil {
		return nil, fmt.Errorf("deleting %s %s: %w", collection, ref, err)
	}
	return e, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*Entry, error) {
	var (
		e                Entry
		data             string
		created, updated string
	)
	if err := row.Scan(&e.ID, &e.DocumentID, &e.Collection, &data, &created, &updated); err != nil {
		return nil, err
	}
	e.Fields = map[string]any{}
	if err := json.Unmarshal([]byte(data), &e.Fields); err != nil {
		return nil, fmt.Errorf("decoding entry %d: %w", e.ID, err)
	}
	e.CreatedAt, _ = time.Parse(TimeFormat, created)
	e.UpdatedAt, _ = time.Parse(TimeFormat, updated)
	return &e, nil
}

func clean(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		if !reserved[k] {
			out[k] = v
		}
	}
	return out
}

// newDocumentID mimics the 24 character lowercase ids Strapi hands out.
func newDocumentID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:24]
}
