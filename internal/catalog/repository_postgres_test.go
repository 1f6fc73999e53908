package catalog

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
)

func productRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "description", "images", "primary_image_index",
		"price_per_pound", "availability", "season", "origin",
	})
}

func TestPostgresGetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM products WHERE id = \\$1").
		WithArgs("mango").
		WillReturnRows(productRows().AddRow(
			"mango", "Mango", "Sweet tropical mangoes",
			[]byte(`["/images/mango.jpg","/images/mango-2.jpg"]`), 5,
			"4.99", true, "May - September", "Florida"))

	p, err := repo.GetByID("mango")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if p.Name != "Mango" || len(p.Images) != 2 {
		t.Errorf("unexpected product %+v", p)
	}
	// stored index 5 is out of range for 2 images
	if p.PrimaryImageIndex != 1 {
		t.Errorf("expected clamped index 1, got %d", p.PrimaryImageIndex)
	}
	if !p.PricePerPound.Equal(decimal.RequireFromString("4.99")) {
		t.Errorf("price = %s", p.PricePerPound)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestPostgresGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM products WHERE id = \\$1").
		WithArgs("durian").
		WillReturnRows(productRows())

	if _, err := repo.GetByID("durian"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgresListByIDs(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM products WHERE id = ANY\\(\\$1::text\\[\\]\\) ORDER BY id").
		WillReturnRows(productRows().
			AddRow("avocado", "Avocado", "", []byte(`[]`), 0, "3.99", true, "", "California").
			AddRow("mango", "Mango", "", []byte(`[]`), 0, "4.99", true, "", "Florida"))

	got, err := repo.ListByIDs([]string{"mango", "avocado"})
	if err != nil {
		t.Fatalf("ListByIDs: %v", err)
	}
	if len(got) != 2 || got[0].ID != "avocado" || got[1].ID != "mango" {
		t.Errorf("unexpected result %+v", got)
	}

	// no query issued for an empty id list
	empty, err := repo.ListByIDs(nil)
	if err != nil || len(empty) != 0 {
		t.Errorf("expected empty result, got %v %v", empty, err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestPostgresCreateDuplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectExec("INSERT INTO products").
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err = repo.Create(Product{ID: "mango", Name: "Mango"})
	if err != ErrExists {
		t.Errorf("expected ErrExists, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestPostgresUpdateMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectExec("UPDATE products SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if _, err := repo.Update("durian", Product{Name: "Durian"}); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgresDelete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectExec("DELETE FROM products WHERE id = \\$1").
		WithArgs("mango").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete("mango"); err != nil {
		t.Errorf("delete: %v", err)
	}

	mock.ExpectExec("DELETE FROM products WHERE id = \\$1").
		WithArgs("durian").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete("durian"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
