package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/scrape"
	"github.com/google/uuid"
)

// Run kinds.
const (
	KindCrawl     = "crawl"
	KindDirectory = "directory"
	KindDetails   = "details"
)

// Ensure Store implements scrape.Exporter at compile time.
var _ scrape.Exporter = (*Store)(nil)

// Run is one exported result.
type Run struct {
	ID         string
	Kind       string
	SourceURL  string
	Depth      int
	ItemCount  int
	Errors     []string
	CrawledAt  time.Time
	ExportedAt time.Time
}

// RunFilter selects runs. Nil fields match everything.
type RunFilter struct {
	Kind   *string
	Limit  int
	Offset int
}

// Store persists results as runs with their pages or members.
// Every export appends a run; earlier runs are kept.
type Store struct {
	db  *DB
	now func() time.Time
}

// NewStore creates a new Store.
func NewStore(db *DB) *Store {
	return &Store{db: db, now: time.Now}
}

// pageData holds the page fields stored as JSON.
type pageData struct {
	Metadata  map[string]string `json:"metadata"`
	Links     []scrape.LinkRef  `json:"links"`
	Extracted scrape.PageData   `json:"extracted_data"`
}

// ExportCrawl stores a crawl run with its pages and returns the database path.
func (s *Store) ExportCrawl(ctx context.Context, r *scrape.CrawlResult) (string, error) {
	run := &Run{
		Kind:      KindCrawl,
		SourceURL: r.URL,
		Depth:     r.Depth,
		ItemCount: len(r.Pages),
		Errors:    r.Errors,
		CrawledAt: r.Timestamp,
	}
	err := s.withRun(ctx, run, func(tx *sql.Tx) error {
		for i, p := range r.Pages {
			data, err := json.Marshal(pageData{Metadata: p.Metadata, Links: p.Links, Extracted: p.Extracted})
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO pages (id, run_id, position, url, title, status_code, content_type, page_type, content, content_hash, links_count, data)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			`, uuid.New().String(), run.ID, i, p.URL, p.Title, p.StatusCode, p.ContentType,
				string(p.Extracted.Type), p.Content, hashContent(p.Content), len(p.Links), string(data)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return s.db.Path(), nil
}

// ExportDirectory stores a directory run with its members.
func (s *Store) ExportDirectory(ctx context.Context, r *scrape.DirectoryResult) (string, error) {
	run := &Run{
		Kind:      KindDirectory,
		SourceURL: r.URL,
		ItemCount: len(r.Members),
		Errors:    r.Errors,
		CrawledAt: r.Timestamp,
	}
	err := s.withRun(ctx, run, func(tx *sql.Tx) error {
		for i, m := range r.Members {
			if err := insertMember(ctx, tx, run.ID, i, m, nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return s.db.Path(), nil
}

// ExportDetails stores a detail run with its merged members.
func (s *Store) ExportDetails(ctx context.Context, r *scrape.DetailResult) (string, error) {
	run := &Run{
		Kind:      KindDetails,
		ItemCount: len(r.Members),
		Errors:    r.Errors,
		CrawledAt: r.Timestamp,
	}
	err := s.withRun(ctx, run, func(tx *sql.Tx) error {
		for i, m := range r.Members {
			if err := insertMember(ctx, tx, run.ID, i, &m.MemberSummary, &m.MemberDetail); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return s.db.Path(), nil
}

// withRun inserts run and calls fn in the same transaction.
// run.ID and run.ExportedAt are set on success.
func (s *Store) withRun(ctx context.Context, run *Run, fn func(tx *sql.Tx) error) (err error) {
	if run.Errors == nil {
		run.Errors = []string{}
	}
	errs, err := json.Marshal(run.Errors)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	id := uuid.New().String()
	exportedAt := s.now()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, kind, source_url, depth, item_count, errors, crawled_at, exported_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, id, run.Kind, run.SourceURL, run.Depth, run.ItemCount, string(errs),
		formatTime(run.CrawledAt), formatTime(exportedAt)); err != nil {
		return err
	}

	run.ID = id
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	run.ExportedAt = exportedAt
	return nil
}

func insertMember(ctx context.Context, tx *sql.Tx, runID string, position int, m *scrape.MemberSummary, d *scrape.MemberDetail) error {
	var detail sql.NullString
	if d != nil {
		b, err := json.Marshal(d)
		if err != nil {
			return err
		}
		detail = sql.NullString{String: string(b), Valid: true}
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO members (id, run_id, position, name, detail_url, data_title, certified, profession_id, chapter_id, level_id, detail)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, uuid.New().String(), runID, position, m.Name, m.DetailURL, m.DataTitle, m.Certified,
		m.ProfessionID, m.ChapterID, m.LevelID, detail)
	return err
}

// FindRunByID retrieves a run by ID.
func (s *Store) FindRunByID(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, kind, source_url, depth, item_count, errors, crawled_at, exported_at
		FROM runs
		WHERE id = ?
	`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, scrape.Errorf(scrape.ENOTFOUND, "run not found")
	}
	return run, err
}

// FindRuns retrieves runs matching the filter, most recent export first.
func (s *Store) FindRuns(ctx context.Context, filter RunFilter) ([]*Run, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, kind, source_url, depth, item_count, errors, crawled_at, exported_at FROM runs WHERE 1=1")
	if filter.Kind != nil {
		query.WriteString(" AND kind = ?")
		args = append(args, *filter.Kind)
	}
	query.WriteString(" ORDER BY exported_at DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []*Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var run Run
	var errs, crawledAt, exportedAt string
	if err := row.Scan(&run.ID, &run.Kind, &run.SourceURL, &run.Depth, &run.ItemCount,
		&errs, &crawledAt, &exportedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(errs), &run.Errors); err != nil {
		return nil, fmt.Errorf("failed to parse errors: %w", err)
	}
	var err error
	if run.CrawledAt, err = parseRFC3339(crawledAt, "crawled_at"); err != nil {
		return nil, err
	}
	if run.ExportedAt, err = parseRFC3339(exportedAt, "exported_at"); err != nil {
		return nil, err
	}
	return &run, nil
}

// FindPages retrieves the pages of a run in crawl order.
func (s *Store) FindPages(ctx context.Context, runID string) ([]*scrape.PageRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT url, title, status_code, content_type, content, data
		FROM pages
		WHERE run_id = ?
		ORDER BY position ASC
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pages := []*scrape.PageRecord{}
	for rows.Next() {
		var p scrape.PageRecord
		var data string
		if err := rows.Scan(&p.URL, &p.Title, &p.StatusCode, &p.ContentType, &p.Content, &data); err != nil {
			return nil, err
		}
		var pd pageData
		if err := json.Unmarshal([]byte(data), &pd); err != nil {
			return nil, fmt.Errorf("failed to parse page data: %w", err)
		}
		p.Metadata, p.Links, p.Extracted = pd.Metadata, pd.Links, pd.Extracted
		pages = append(pages, &p)
	}
	return pages, rows.Err()
}

// FindMembers retrieves the members of a run in listing order.
// Members of directory runs have an empty detail.
func (s *Store) FindMembers(ctx context.Context, runID string) ([]*scrape.DetailedMember, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, detail_url, data_title, certified, profession_id, chapter_id, level_id, detail
		FROM members
		WHERE run_id = ?
		ORDER BY position ASC
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []*scrape.DetailedMember{}
	for rows.Next() {
		var m scrape.DetailedMember
		var detail sql.NullString
		if err := rows.Scan(&m.Name, &m.DetailURL, &m.DataTitle, &m.Certified,
			&m.ProfessionID, &m.ChapterID, &m.LevelID, &detail); err != nil {
			return nil, err
		}
		if detail.Valid {
			if err := json.Unmarshal([]byte(detail.String), &m.MemberDetail); err != nil {
				return nil, fmt.Errorf("failed to parse member detail: %w", err)
			}
		}
		members = append(members, &m)
	}
	return members, rows.Err()
}
