package catalog

import (
	"database/sql"
	"encoding/json"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const productColumns = `id, name, description, images, primary_image_index, price_per_pound, availability, season, origin`

func (r *PostgresRepository) List() ([]Product, error) {
	rows, err := r.db.Query(`SELECT ` + productColumns + ` FROM products ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *PostgresRepository) GetByID(id string) (Product, error) {
	row := r.db.QueryRow(`SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return Product{}, ErrNotFound
	}
	return p, err
}

func (r *PostgresRepository) ListByIDs(ids []string) ([]Product, error) {
	if len(ids) == 0 {
		return []Product{}, nil
	}

	rows, err := r.db.Query(`SELECT `+productColumns+` FROM products WHERE id = ANY($1::text[]) ORDER BY id`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *PostgresRepository) Create(p Product) (Product, error) {
	p.normalize()
	imagesJSON, err := json.Marshal(p.Images)
	if err != nil {
		return Product{}, err
	}

	res, err := r.db.Exec(`INSERT INTO products (id, name, description, images, primary_image_index, price_per_pound, availability, season, origin)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        ON CONFLICT (id) DO NOTHING`,
		p.ID, p.Name, p.Description, imagesJSON, p.PrimaryImageIndex, p.PricePerPound, p.Availability, p.Season, p.Origin)
	if err != nil {
		return Product{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return Product{}, ErrExists
	}
	return p, nil
}

func (r *PostgresRepository) Update(id string, p Product) (Product, error) {
	p.ID = id
	p.normalize()
	imagesJSON, err := json.Marshal(p.Images)
	if err != nil {
		return Product{}, err
	}

	res, err := r.db.Exec(`UPDATE products SET name=$2, description=$3, images=$4, primary_image_index=$5, price_per_pound=$6, availability=$7, season=$8, origin=$9 WHERE id = $1`,
		id, p.Name, p.Description, imagesJSON, p.PrimaryImageIndex, p.PricePerPound, p.Availability, p.Season, p.Origin)
	if err != nil {
		return Product{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return Product{}, ErrNotFound
	}
	return p, nil
}

func (r *PostgresRepository) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (Product, error) {
	var p Product
	var imagesJSON []byte
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &imagesJSON, &p.PrimaryImageIndex, &p.PricePerPound, &p.Availability, &p.Season, &p.Origin); err != nil {
		return Product{}, err
	}
	if len(imagesJSON) > 0 {
		json.Unmarshal(imagesJSON, &p.Images)
	}
	p.normalize()
	return p, nil
}

func scanProducts(rows *sql.Rows) ([]Product, error) {
	products := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
