// Package history keeps past assessments of a lesion in SQLite so that
// repeated photos can be compared over time.
package history

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"skin-sight/internal/pasi"
	"skin-sight/internal/pipeline"
	"skin-sight/internal/report"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Schema for the assessments table. Applied by Init.
const Schema = `
CREATE TABLE IF NOT EXISTS assessments (
	id TEXT PRIMARY KEY,
	lesion TEXT NOT NULL,
	image_path TEXT,
	body_region TEXT NOT NULL,
	area_percentage REAL NOT NULL,
	physical_area_mm2 REAL NOT NULL,
	red_percentage REAL NOT NULL,
	composite_score REAL NOT NULL,
	severity TEXT NOT NULL,
	degraded INTEGER NOT NULL,
	report_json TEXT NOT NULL,
	created_at_ns INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_assessments_lesion ON assessments(lesion, created_at_ns);
`

// ErrNoLesion is returned when a record has no lesion label.
var ErrNoLesion = errors.New("lesion label is required")

// Record is one stored assessment.
type Record struct {
	ID              string          `json:"id"`
	Lesion          string          `json:"lesion"`
	ImagePath       string          `json:"image_path,omitempty"`
	BodyRegion      pasi.BodyRegion `json:"body_region"`
	AreaPercentage  float64         `json:"area_percentage"`
	PhysicalAreaMM2 float64         `json:"physical_area_mm2"`
	RedPercentage   float64         `json:"red_percentage"`
	CompositeScore  float64         `json:"pasi_score"`
	Severity        pasi.Severity   `json:"severity"`
	Degraded        bool            `json:"degraded"`
	Report          json.RawMessage `json:"report"`
	CreatedAtNs     int64           `json:"created_at_ns"`
}

// NewRecord summarizes an assessment for storage. The full response document
// is kept alongside the summary columns.
func NewRecord(lesion, imagePath string, a *pipeline.Assessment) (*Record, error) {
	doc, err := json.Marshal(report.FromAssessment(a))
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	return &Record{
		Lesion:          lesion,
		ImagePath:       imagePath,
		BodyRegion:      a.PASI.BodyRegion,
		AreaPercentage:  a.Area.AreaPercentage,
		PhysicalAreaMM2: a.Area.PhysicalAreaMM2,
		RedPercentage:   a.Color.RedPercentage,
		CompositeScore:  a.PASI.CompositeScore,
		Severity:        a.PASI.Severity,
		Degraded:        a.Degraded(),
		Report:          doc,
	}, nil
}

// Store provides persistence for assessment records.
type Store struct {
	db *sql.DB
}

// NewStore wraps an open database. Call Init before first use.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open opens (creating if needed) a SQLite database file and applies the
// schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history %s: %w", path, err)
	}
	s := NewStore(db)
	if err := s.Init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Init creates the assessments table if it doesn't exist.
func (s *Store) Init() error {
	if _, err := s.db.Exec(Schema); err != nil {
		return fmt.Errorf("init history schema: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Insert stores a record. An empty ID gets a new UUID and a zero timestamp
// the current time.
func (s *Store) Insert(r *Record) error {
	if r.Lesion == "" {
		return ErrNoLesion
	}
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.CreatedAtNs == 0 {
		r.CreatedAtNs = time.Now().UnixNano()
	}

	_, err := s.db.Exec(`
		INSERT INTO assessments (
			id, lesion, image_path, body_region, area_percentage, physical_area_mm2,
			red_percentage, composite_score, severity, degraded, report_json, created_at_ns
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Lesion, r.ImagePath, string(r.BodyRegion), r.AreaPercentage, r.PhysicalAreaMM2,
		r.RedPercentage, r.CompositeScore, string(r.Severity), r.Degraded, string(r.Report), r.CreatedAtNs,
	)
	if err != nil {
		return fmt.Errorf("insert assessment: %w", err)
	}
	return nil
}

// List returns the records of a lesion, oldest first. limit <= 0 returns all.
func (s *Store) List(lesion string, limit int) ([]Record, error) {
	query := `
		SELECT id, lesion, image_path, body_region, area_percentage, physical_area_mm2,
		       red_percentage, composite_score, severity, degraded, report_json, created_at_ns
		FROM assessments
		WHERE lesion = ?
		ORDER BY created_at_ns ASC, id ASC`
	args := []any{lesion}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			r                    Record
			imagePath            sql.NullString
			region, sev, reportJ string
		)
		if err := rows.Scan(&r.ID, &r.Lesion, &imagePath, &region, &r.AreaPercentage, &r.PhysicalAreaMM2,
			&r.RedPercentage, &r.CompositeScore, &sev, &r.Degraded, &reportJ, &r.CreatedAtNs); err != nil {
			return nil, fmt.Errorf("scan assessment: %w", err)
		}
		r.ImagePath = imagePath.String
		r.BodyRegion = pasi.BodyRegion(region)
		r.Severity = pasi.Severity(sev)
		r.Report = json.RawMessage(reportJ)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assessments: %w", err)
	}
	return records, nil
}

// Trend is the change in composite score between the first and last record.
// It reports false with fewer than two records.
func Trend(records []Record) (float64, bool) {
	if len(records) < 2 {
		return 0, false
	}
	return pasi.Round(records[len(records)-1].CompositeScore-records[0].CompositeScore, 1), true
}
