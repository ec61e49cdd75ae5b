package repository

import (
	"database/sql"
	"fmt"

	"contactbox/internal/models"
	"contactbox/internal/service"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(connStr string) (*PostgresRepo, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	createTableQuery := `
	CREATE TABLE IF NOT EXISTS messages (
		id TEXT PRIMARY KEY,
		name TEXT,
		email TEXT,
		message TEXT,
		fingerprint TEXT,
		created_at BIGINT NOT NULL,
		updated_at BIGINT NOT NULL
	);
	`
	if _, err = db.Exec(createTableQuery); err != nil {
		return nil, fmt.Errorf("failed to ensure messages table exists: %w", err)
	}
	return &PostgresRepo{db: db}, nil
}

var _ service.MessageRepository = (*PostgresRepo)(nil)

// Save inserts the message, assigning a fresh id when it carries none. A
// message with an existing id replaces the stored row wholesale.
func (r *PostgresRepo) Save(msg models.Message) (models.Message, error) {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	query := `INSERT INTO messages (id, name, email, message, fingerprint, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          ON CONFLICT (id) DO UPDATE
	          SET name=$2, email=$3, message=$4, fingerprint=$5, created_at=$6, updated_at=$7;`
	_, err := r.db.Exec(query, msg.ID, msg.Name, msg.Email, msg.Message, msg.Fingerprint, msg.CreatedAt, msg.UpdatedAt)
	if err != nil {
		return models.Message{}, err
	}
	return msg, nil
}

func (r *PostgresRepo) FindByID(id string) (*models.Message, error) {
	return r.findOne(`SELECT id, name, email, message, fingerprint, created_at, updated_at
	                  FROM messages WHERE id=$1;`, id)
}

func (r *PostgresRepo) FindByEmail(email string) (*models.Message, error) {
	return r.findOne(`SELECT id, name, email, message, fingerprint, created_at, updated_at
	                  FROM messages WHERE email=$1 LIMIT 1;`, email)
}

func (r *PostgresRepo) FindByFingerprint(fingerprint string) (*models.Message, error) {
	return r.findOne(`SELECT id, name, email, message, fingerprint, created_at, updated_at
	                  FROM messages WHERE fingerprint=$1 LIMIT 1;`, fingerprint)
}

// findOne maps sql.ErrNoRows to a nil message; absence is not an error.
func (r *PostgresRepo) findOne(query string, arg string) (*models.Message, error) {
	var msg models.Message
	err := r.db.QueryRow(query, arg).Scan(
		&msg.ID, &msg.Name, &msg.Email, &msg.Message, &msg.Fingerprint, &msg.CreatedAt, &msg.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *PostgresRepo) FindAll() ([]models.Message, error) {
	query := `SELECT id, name, email, message, fingerprint, created_at, updated_at
	          FROM messages
	          ORDER BY created_at ASC;`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []models.Message
	for rows.Next() {
		var msg models.Message
		if err := rows.Scan(&msg.ID, &msg.Name, &msg.Email, &msg.Message, &msg.Fingerprint, &msg.CreatedAt, &msg.UpdatedAt); err != nil {
			return nil, err
		}
		results = append(results, msg)
	}
	return results, rows.Err()
}

func (r *PostgresRepo) ExistsByID(id string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM messages WHERE id=$1);`, id).Scan(&exists)
	return exists, err
}

func (r *PostgresRepo) DeleteByID(id string) error {
	_, err := r.db.Exec(`DELETE FROM messages WHERE id=$1;`, id)
	return err
}

func (r *PostgresRepo) DeleteAll() error {
	_, err := r.db.Exec(`DELETE FROM messages;`)
	return err
}
