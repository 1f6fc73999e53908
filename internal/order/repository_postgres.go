package order

import (
	"database/sql"
	"encoding/json"
)

// PostgresRepository stores orders with structured jsonb line items, so
// read-back is lossless (unlike the spreadsheet backend's text blob).
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const orderColumns = `order_id, email, first_name, last_name, address, city, state, zip, items, box_size, subtotal, box_price, shipping_cost, total, payment_ref, status, created_at`

func (r *PostgresRepository) Create(ord Order) (Order, error) {
	itemsJSON, err := json.Marshal(ord.Lines)
	if err != nil {
		return Order{}, err
	}

	res, err := r.db.Exec(`INSERT INTO orders (`+orderColumns+`)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
        ON CONFLICT (order_id) DO NOTHING`,
		ord.OrderID, ord.Customer.Email, ord.Customer.FirstName, ord.Customer.LastName,
		ord.Customer.Address, ord.Customer.City, ord.Customer.State, ord.Customer.Zip,
		itemsJSON, ord.BoxSize, ord.Subtotal, ord.BoxPrice, ord.ShippingCost, ord.Total,
		ord.PaymentRef, ord.Status, ord.CreatedAt)
	if err != nil {
		return Order{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return Order{}, ErrExists
	}
	return ord, nil
}

func (r *PostgresRepository) GetByID(orderID string) (Order, error) {
	row := r.db.QueryRow(`SELECT `+orderColumns+` FROM orders WHERE order_id = $1`, orderID)
	ord, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return Order{}, ErrNotFound
	}
	return ord, err
}

func (r *PostgresRepository) UpdateStatus(orderID string, status Status) error {
	res, err := r.db.Exec(`UPDATE orders SET status = $2 WHERE order_id = $1`, orderID, status)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) List(status Status) ([]Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`
	args := []any{}
	if status != "" {
		query = `SELECT ` + orderColumns + ` FROM orders WHERE status = $1 ORDER BY created_at DESC`
		args = append(args, status)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]Order, 0)
	for rows.Next() {
		ord, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, ord)
	}
	return orders, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (Order, error) {
	var ord Order
	var itemsJSON []byte
	err := row.Scan(&ord.OrderID, &ord.Customer.Email, &ord.Customer.FirstName, &ord.Customer.LastName,
		&ord.Customer.Address, &ord.Customer.City, &ord.Customer.State, &ord.Customer.Zip,
		&itemsJSON, &ord.BoxSize, &ord.Subtotal, &ord.BoxPrice, &ord.ShippingCost, &ord.Total,
		&ord.PaymentRef, &ord.Status, &ord.CreatedAt)
	if err != nil {
		return Order{}, err
	}
	if len(itemsJSON) > 0 {
		json.Unmarshal(itemsJSON, &ord.Lines)
	}
	return ord, nil
}
