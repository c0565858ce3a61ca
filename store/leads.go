package store

import (
	"database/sql"
	"errors"
)

// Lead is a catering enquiry captured from the public contact form.
type Lead struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	EventDate string `json:"event_date"`
	Guests    int64  `json:"guests"`
	Message   string `json:"message"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

const leadCols = `id, name, phone, email, event_date, guests, message, status, created_at`

// CreateLead inserts a new enquiry with status "new".
func (db *DB) CreateLead(l *Lead) error {
	if l.Status == "" {
		l.Status = "new"
	}
	res, err := db.Exec(`INSERT INTO leads (name, phone, email, event_date, guests, message, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		l.Name, l.Phone, l.Email, l.EventDate, l.Guests, l.Message, l.Status)
	if err != nil {
		return err
	}
	l.ID, err = res.LastInsertId()
	return err
}

// GetLead fetches one lead by id.
func (db *DB) GetLead(id int64) (*Lead, error) {
	var l Lead
	err := db.QueryRow(`SELECT `+leadCols+` FROM leads WHERE id = ?`, id).
		Scan(&l.ID, &l.Name, &l.Phone, &l.Email, &l.EventDate, &l.Guests, &l.Message, &l.Status, &l.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// ListLeads returns all leads, newest first.
func (db *DB) ListLeads() ([]Lead, error) {
	rows, err := db.Query(`SELECT ` + leadCols + ` FROM leads ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []Lead
	for rows.Next() {
		var l Lead
		if err := rows.Scan(&l.ID, &l.Name, &l.Phone, &l.Email, &l.EventDate, &l.Guests,
			&l.Message, &l.Status, &l.CreatedAt); err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

// SetLeadStatus updates a lead's follow-up status.
func (db *DB) SetLeadStatus(id int64, status string) error {
	res, err := db.Exec(`UPDATE leads SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// DeleteLead removes a lead.
func (db *DB) DeleteLead(id int64) error {
	res, err := db.Exec(`DELETE FROM leads WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}
