package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"vilo-admin/internal/models"
)

// ListContacts returns contacts newest first, optionally filtered by status.
func (d *DB) ListContacts(ctx context.Context, status string) ([]models.Contact, error) {
	query := `
	SELECT id, name, email, service, message, status, created_at
	FROM contacts`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := d.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	var contacts []models.Contact
	for rows.Next() {
		var c models.Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Service, &c.Message, &c.Status, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

// GetContact retrieves a single contact by id.
func (d *DB) GetContact(ctx context.Context, id int64) (models.Contact, error) {
	var c models.Contact
	err := d.Pool.QueryRow(ctx, `
	SELECT id, name, email, service, message, status, created_at
	FROM contacts
	WHERE id = $1`, id).Scan(&c.ID, &c.Name, &c.Email, &c.Service, &c.Message, &c.Status, &c.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return models.Contact{}, ErrNotFound
		}
		return models.Contact{}, fmt.Errorf("failed to get contact %d: %w", id, err)
	}
	return c, nil
}

// UpdateContactStatus sets the status of a contact.
func (d *DB) UpdateContactStatus(ctx context.Context, id int64, status string) error {
	result, err := d.Pool.Exec(ctx, `
	UPDATE contacts
	SET status = $1, updated_at = NOW()
	WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update contact %d: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateContact inserts a contact-form submission and returns its id.
func (d *DB) CreateContact(ctx context.Context, c models.Contact) (int64, error) {
	var id int64
	err := d.Pool.QueryRow(ctx, `
	INSERT INTO contacts (name, email, service, message, status, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	RETURNING id`,
		c.Name, c.Email, c.Service, c.Message, c.Status).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create contact: %w", err)
	}
	return id, nil
}
