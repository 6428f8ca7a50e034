package storage

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/karbar/resumeforge/pkg/record"
)

// SQLiteStore is the Store implementation backed by a local sqlite file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at dbPath and ensures the
// schema exists.
func NewSQLiteStore(dbPath string) (s *SQLiteStore, err error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		err = errors.Wrapf(err, "failed to open database: %s", dbPath)
		return s, err
	}

	s = &SQLiteStore{db: db}
	err = s.createTables()
	if err != nil {
		_ = db.Close()
		s = nil
		err = errors.Wrap(err, "failed to create tables")
		return s, err
	}

	return s, err
}

func (s *SQLiteStore) createTables() (err error) {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		user_id TEXT PRIMARY KEY,
		username TEXT,
		registered_at DATETIME,
		full_name TEXT,
		email TEXT,
		phone TEXT,
		location TEXT,
		linkedin TEXT,
		github TEXT,
		gitlab TEXT,
		portfolio TEXT,
		education_json TEXT,
		experience_json TEXT,
		projects_json TEXT,
		technical_skills TEXT,
		soft_skills TEXT,
		achievements TEXT,
		languages TEXT,
		interests TEXT,
		vacancy_text TEXT,
		keywords_json TEXT,
		feedback_json TEXT,
		status TEXT NOT NULL DEFAULT 'in_progress',
		completed_at DATETIME,
		updated_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_users_status ON users(status);

	CREATE TABLE IF NOT EXISTS analytics (
		event TEXT PRIMARY KEY,
		count INTEGER NOT NULL DEFAULT 0,
		updated_at DATETIME NOT NULL
	);
	`

	_, err = s.db.Exec(schema)
	return err
}

// SaveSnapshot inserts or replaces the row for the snapshot's user.
func (s *SQLiteStore) SaveSnapshot(snap record.Snapshot) (err error) {
	query := `
		INSERT INTO users (
			user_id, username, registered_at,
			full_name, email, phone, location,
			linkedin, github, gitlab, portfolio,
			education_json, experience_json, projects_json,
			technical_skills, soft_skills, achievements, languages, interests,
			vacancy_text, keywords_json, feedback_json,
			status, completed_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			username = excluded.username,
			full_name = excluded.full_name,
			email = excluded.email,
			phone = excluded.phone,
			location = excluded.location,
			linkedin = excluded.linkedin,
			github = excluded.github,
			gitlab = excluded.gitlab,
			portfolio = excluded.portfolio,
			education_json = excluded.education_json,
			experience_json = excluded.experience_json,
			projects_json = excluded.projects_json,
			technical_skills = excluded.technical_skills,
			soft_skills = excluded.soft_skills,
			achievements = excluded.achievements,
			languages = excluded.languages,
			interests = excluded.interests,
			vacancy_text = excluded.vacancy_text,
			keywords_json = excluded.keywords_json,
			feedback_json = excluded.feedback_json,
			status = excluded.status,
			completed_at = excluded.completed_at,
			updated_at = excluded.updated_at
	`

	_, err = s.db.Exec(
		query,
		snap.UserID,
		snap.Username,
		snap.RegisteredAt,
		snap.FullName,
		snap.Email,
		snap.Phone,
		snap.Location,
		snap.LinkedIn,
		snap.GitHub,
		snap.GitLab,
		snap.Portfolio,
		snap.EducationJSON,
		snap.ExperienceJSON,
		snap.ProjectsJSON,
		snap.TechnicalSkills,
		snap.SoftSkills,
		snap.Achievements,
		snap.Languages,
		snap.Interests,
		snap.VacancyText,
		snap.KeywordsJSON,
		snap.FeedbackJSON,
		snap.Status,
		snap.CompletedAt,
		time.Now().UTC(),
	)
	if err != nil {
		err = errors.Wrapf(err, "failed to save snapshot for user: %s", snap.UserID)
	}

	return err
}

// SaveFeedback attaches questionnaire answers to an existing user row.
func (s *SQLiteStore) SaveFeedback(userID, feedbackJSON string, completedAt time.Time) (err error) {
	query := `
		UPDATE users
		SET feedback_json = ?, status = ?, completed_at = ?, updated_at = ?
		WHERE user_id = ?
	`

	result, err := s.db.Exec(query, feedbackJSON, record.StatusCompleted, completedAt, time.Now().UTC(), userID)
	if err != nil {
		err = errors.Wrapf(err, "failed to save feedback for user: %s", userID)
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		err = errors.Wrap(err, "failed to check affected rows")
		return err
	}
	if affected == 0 {
		err = errors.Errorf("no snapshot exists for user: %s", userID)
	}

	return err
}

// ListSnapshots returns all rows, or only those matching status when it is
// non-empty. Rows come back newest first.
func (s *SQLiteStore) ListSnapshots(status string) (snaps []record.Snapshot, err error) {
	query := `
		SELECT user_id, username, registered_at,
			full_name, email, phone, location,
			linkedin, github, gitlab, portfolio,
			education_json, experience_json, projects_json,
			technical_skills, soft_skills, achievements, languages, interests,
			vacancy_text, keywords_json, feedback_json,
			status, completed_at
		FROM users
	`
	args := []interface{}{}
	if status != "" {
		query += " WHERE status = ?"
		args = append(args, status)
	}
	query += " ORDER BY updated_at DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		err = errors.Wrap(err, "failed to list snapshots")
		return snaps, err
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		snap, scanErr := scanSnapshot(rows.Scan)
		if scanErr != nil {
			err = errors.Wrap(scanErr, "failed to scan snapshot row")
			return snaps, err
		}
		snaps = append(snaps, snap)
	}

	err = rows.Err()
	return snaps, err
}

// GetSnapshot fetches one user's row, or nil when none exists.
func (s *SQLiteStore) GetSnapshot(userID string) (snap *record.Snapshot, err error) {
	query := `
		SELECT user_id, username, registered_at,
			full_name, email, phone, location,
			linkedin, github, gitlab, portfolio,
			education_json, experience_json, projects_json,
			technical_skills, soft_skills, achievements, languages, interests,
			vacancy_text, keywords_json, feedback_json,
			status, completed_at
		FROM users
		WHERE user_id = ?
	`

	row := s.db.QueryRow(query, userID)
	found, err := scanSnapshot(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		err = nil
		return snap, err
	}
	if err != nil {
		err = errors.Wrapf(err, "failed to load snapshot for user: %s", userID)
		return snap, err
	}

	snap = &found
	return snap, err
}

// UpdateAnalytics increments a named usage counter.
func (s *SQLiteStore) UpdateAnalytics(event string) (err error) {
	query := `
		INSERT INTO analytics (event, count, updated_at) VALUES (?, 1, ?)
		ON CONFLICT(event) DO UPDATE SET
			count = count + 1,
			updated_at = excluded.updated_at
	`

	_, err = s.db.Exec(query, event, time.Now().UTC())
	if err != nil {
		err = errors.Wrapf(err, "failed to update analytics event: %s", event)
	}

	return err
}

// GetAnalytics reads one counter. Missing events read as zero.
func (s *SQLiteStore) GetAnalytics(event string) (count int64, err error) {
	err = s.db.QueryRow(`SELECT count FROM analytics WHERE event = ?`, event).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		err = nil
		count = 0
	}
	return count, err
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() (err error) {
	err = s.db.Close()
	return err
}

func scanSnapshot(scan func(dest ...interface{}) error) (snap record.Snapshot, err error) {
	var registeredAt, completedAt sql.NullTime

	err = scan(
		&snap.UserID,
		&snap.Username,
		&registeredAt,
		&snap.FullName,
		&snap.Email,
		&snap.Phone,
		&snap.Location,
		&snap.LinkedIn,
		&snap.GitHub,
		&snap.GitLab,
		&snap.Portfolio,
		&snap.EducationJSON,
		&snap.ExperienceJSON,
		&snap.ProjectsJSON,
		&snap.TechnicalSkills,
		&snap.SoftSkills,
		&snap.Achievements,
		&snap.Languages,
		&snap.Interests,
		&snap.VacancyText,
		&snap.KeywordsJSON,
		&snap.FeedbackJSON,
		&snap.Status,
		&completedAt,
	)
	if err != nil {
		return snap, err
	}

	if registeredAt.Valid {
		snap.RegisteredAt = registeredAt.Time
	}
	if completedAt.Valid {
		snap.CompletedAt = completedAt.Time
	}

	return snap, err
}
