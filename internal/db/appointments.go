package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"

	"vilo-admin/internal/models"
)

// ListAppointments returns appointments newest first, optionally filtered by
// status. The linked contact's name and email are included when the
// back-reference exists.
func (d *DB) ListAppointments(ctx context.Context, status string) ([]models.Appointment, error) {
	query := `
	SELECT a.id, a.client_name, a.client_email, a.date, a.time, a.status,
	       a.contact_id, c.name, c.email, a.created_at
	FROM appointments a
	LEFT JOIN contacts c ON a.contact_id = c.id`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE a.status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY a.created_at DESC`

	rows, err := d.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	defer rows.Close()

	var appointments []models.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		appointments = append(appointments, a)
	}
	return appointments, rows.Err()
}

// GetAppointment retrieves a single appointment by id.
func (d *DB) GetAppointment(ctx context.Context, id int64) (models.Appointment, error) {
	row := d.Pool.QueryRow(ctx, `
	SELECT a.id, a.client_name, a.client_email, a.date, a.time, a.status,
	       a.contact_id, c.name, c.email, a.created_at
	FROM appointments a
	LEFT JOIN contacts c ON a.contact_id = c.id
	WHERE a.id = $1`, id)
	a, err := scanAppointment(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return models.Appointment{}, ErrNotFound
		}
		return models.Appointment{}, fmt.Errorf("failed to get appointment %d: %w", id, err)
	}
	return a, nil
}

// UpdateAppointmentStatus sets the status of an appointment.
func (d *DB) UpdateAppointmentStatus(ctx context.Context, id int64, status string) error {
	result, err := d.Pool.Exec(ctx, `
	UPDATE appointments
	SET status = $1, updated_at = NOW()
	WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update appointment %d: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateAppointment inserts a booking request and returns its id.
func (d *DB) CreateAppointment(ctx context.Context, a models.Appointment) (int64, error) {
	var id int64
	err := d.Pool.QueryRow(ctx, `
	INSERT INTO appointments (client_name, client_email, date, time, status, contact_id, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	RETURNING id`,
		a.ClientName, a.ClientEmail, a.Date, a.Time, a.Status, a.ContactID).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create appointment: %w", err)
	}
	return id, nil
}

func scanAppointment(row pgx.Row) (models.Appointment, error) {
	var a models.Appointment
	var contactName, contactEmail sql.NullString
	err := row.Scan(&a.ID, &a.ClientName, &a.ClientEmail, &a.Date, &a.Time, &a.Status,
		&a.ContactID, &contactName, &contactEmail, &a.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return models.Appointment{}, err
		}
		return models.Appointment{}, fmt.Errorf("failed to scan appointment: %w", err)
	}
	a.ContactName = contactName.String
	a.ContactEmail = contactEmail.String
	return a, nil
}
