package repositories

import (
	"database/sql"

	"github.com/qingbolan/yearscope/internal/models"
)

type SnapshotRepository struct {
	db *sql.DB
}

func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Create creates a new stats snapshot
func (r *SnapshotRepository) Create(snapshot *models.StatsSnapshot) error {
	query := `
		INSERT INTO stats_snapshots (id, username, start_date, end_date, document, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		snapshot.ID, snapshot.Username, snapshot.StartDate, snapshot.EndDate,
		snapshot.Document, snapshot.CreatedAt, snapshot.UpdatedAt,
	)

	return err
}

// GetByRange retrieves the snapshot for a username and date range
func (r *SnapshotRepository) GetByRange(username, startDate, endDate string) (*models.StatsSnapshot, error) {
	query := `
		SELECT id, username, start_date, end_date, document, created_at, updated_at
		FROM stats_snapshots WHERE username = ? AND start_date = ? AND end_date = ?
	`

	snapshot := &models.StatsSnapshot{}
	err := r.db.QueryRow(query, username, startDate, endDate).Scan(
		&snapshot.ID, &snapshot.Username, &snapshot.StartDate, &snapshot.EndDate,
		&snapshot.Document, &snapshot.CreatedAt, &snapshot.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	return snapshot, nil
}

// DeleteByRange deletes the snapshot for a username and date range
func (r *SnapshotRepository) DeleteByRange(username, startDate, endDate string) error {
	query := `DELETE FROM stats_snapshots WHERE username = ? AND start_date = ? AND end_date = ?`

	_, err := r.db.Exec(query, username, startDate, endDate)
	return err
}

// DeleteByUsername deletes all snapshots for a username
func (r *SnapshotRepository) DeleteByUsername(username string) error {
	query := `DELETE FROM stats_snapshots WHERE username = ?`

	_, err := r.db.Exec(query, username)
	return err
}
