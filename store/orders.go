package store

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

// Order is a catering delivery order. The tracking subsystem reads the
// address/status fields and owns the token and driver-location columns.
type Order struct {
	ID             string   `json:"id"`
	CustomerName   string   `json:"customer_name"`
	Phone          string   `json:"phone"`
	Address        string   `json:"address"`
	Notes          string   `json:"notes"`
	TotalAmount    float64  `json:"total_amount"`
	DeliveryStatus string   `json:"delivery_status"`
	TrackingToken  *string  `json:"-"`
	DriverToken    *string  `json:"-"`
	DriverID       *string  `json:"driver_id"`
	DriverLat      *float64 `json:"driver_lat"`
	DriverLng      *float64 `json:"driver_lng"`
	LocationAt     *string  `json:"location_at"`
	CreatedAt      string   `json:"created_at"`
	UpdatedAt      string   `json:"updated_at"`
}

const orderCols = `id, customer_name, phone, address, notes, total_amount, delivery_status,
	tracking_token, driver_token, driver_id, driver_lat, driver_lng, location_at,
	created_at, updated_at`

// CreateOrder inserts a new order, assigning a UUID if the ID is empty.
func (db *DB) CreateOrder(o *Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.DeliveryStatus == "" {
		o.DeliveryStatus = "pending"
	}
	_, err := db.Exec(`INSERT INTO orders (id, customer_name, phone, address, notes, total_amount, delivery_status)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.CustomerName, o.Phone, o.Address, o.Notes, o.TotalAmount, o.DeliveryStatus)
	return err
}

// GetOrder fetches one order by id. Returns ErrNotFound if it doesn't exist.
func (db *DB) GetOrder(id string) (*Order, error) {
	row := db.QueryRow(`SELECT `+orderCols+` FROM orders WHERE id = ?`, id)
	return scanOrder(row)
}

// ListOrders returns all orders, newest first.
func (db *DB) ListOrders() ([]Order, error) {
	rows, err := db.Query(`SELECT ` + orderCols + ` FROM orders ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		o, err := scanOrderRow(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

// SetDeliveryStatus updates an order's delivery status.
func (db *DB) SetDeliveryStatus(id, status string) error {
	res, err := db.Exec(`UPDATE orders SET delivery_status = ?, updated_at = datetime('now','localtime')
		WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// SetCustomerToken replaces the customer tracking token for an order.
// Reissuing invalidates the previous token.
func (db *DB) SetCustomerToken(id, token string) error {
	res, err := db.Exec(`UPDATE orders SET tracking_token = ?, updated_at = datetime('now','localtime')
		WHERE id = ?`, token, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// SetDriverToken replaces the driver tracking token and records the assigned
// driver. driverID may be empty to leave the assignment unchanged.
func (db *DB) SetDriverToken(id, driverID, token string) error {
	res, err := db.Exec(`UPDATE orders SET driver_token = ?,
		driver_id = CASE WHEN ? != '' THEN ? ELSE driver_id END,
		updated_at = datetime('now','localtime')
		WHERE id = ?`, token, driverID, driverID, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// UpdateDriverLocation persists the driver's last reported position. The
// order moves to out-for-delivery on the first report unless it has already
// reached a terminal status. A missing order is not an error here: location
// reports are best-effort and the driver client just retries next tick.
func (db *DB) UpdateDriverLocation(id string, lat, lng float64, driverID string) error {
	_, err := db.Exec(`UPDATE orders SET driver_lat = ?, driver_lng = ?,
		driver_id = CASE WHEN ? != '' THEN ? ELSE driver_id END,
		location_at = datetime('now','localtime'),
		delivery_status = CASE WHEN delivery_status IN ('delivered', 'cancelled')
			THEN delivery_status ELSE 'out-for-delivery' END,
		updated_at = datetime('now','localtime')
		WHERE id = ?`, lat, lng, driverID, driverID, id)
	return err
}

func scanOrder(row *sql.Row) (*Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.CustomerName, &o.Phone, &o.Address, &o.Notes, &o.TotalAmount,
		&o.DeliveryStatus, &o.TrackingToken, &o.DriverToken, &o.DriverID,
		&o.DriverLat, &o.DriverLng, &o.LocationAt, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func scanOrderRow(rows *sql.Rows) (*Order, error) {
	var o Order
	err := rows.Scan(&o.ID, &o.CustomerName, &o.Phone, &o.Address, &o.Notes, &o.TotalAmount,
		&o.DeliveryStatus, &o.TrackingToken, &o.DriverToken, &o.DriverID,
		&o.DriverLat, &o.DriverLng, &o.LocationAt, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
