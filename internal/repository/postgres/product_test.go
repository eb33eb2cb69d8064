package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backbonehq/catalog-service/internal/domain"
	"github.com/backbonehq/catalog-service/pkg/database"
	apperrors "github.com/backbonehq/catalog-service/pkg/errors"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	return mock
}

var productCols = []string{
	"id", "category", "title", "sub_title", "brand", "rating",
	"short_description", "description",
}

func sampleProduct() domain.Product {
	return domain.Product{
		ID:               1,
		Category:         "electronics",
		Title:            "Mechanical Keyboard",
		SubTitle:         "87-key tenkeyless",
		Brand:            "Keychron",
		Rating:           4,
		ShortDescription: "Compact mechanical keyboard",
		Description:      "A hot-swappable tenkeyless mechanical keyboard.",
	}
}

func productRow(p domain.Product) []any {
	return []any{
		p.ID, p.Category, p.Title, p.SubTitle, p.Brand, p.Rating,
		p.ShortDescription, p.Description,
	}
}

func TestProductRepository_GetByID_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	p := sampleProduct()
	mock.ExpectQuery("SELECT (.+) FROM products WHERE id").
		WithArgs(1).
		WillReturnRows(pgxmock.NewRows(productCols).AddRow(productRow(p)...))

	got, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, &p, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_GetByID_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	mock.ExpectQuery("SELECT (.+) FROM products WHERE id").
		WithArgs(99).
		WillReturnError(pgx.ErrNoRows)

	got, err := repo.GetByID(context.Background(), 99)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_GetByID_StoreError(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	mock.ExpectQuery("SELECT (.+) FROM products WHERE id").
		WithArgs(1).
		WillReturnError(errors.New("connection refused"))

	_, err := repo.GetByID(context.Background(), 1)
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_List_PageOffset(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	p := sampleProduct()
	mock.ExpectQuery("SELECT (.+) FROM products ORDER BY id LIMIT").
		WithArgs(10, 20).
		WillReturnRows(pgxmock.NewRows(productCols).AddRow(productRow(p)...))

	got, err := repo.List(context.Background(), 2, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, p, got[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_List_EmptyPageReturnsEmptySlice(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	mock.ExpectQuery("SELECT (.+) FROM products ORDER BY id LIMIT").
		WithArgs(10, 200).
		WillReturnRows(pgxmock.NewRows(productCols))

	got, err := repo.List(context.Background(), 20, 10)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_ListByCategory(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	p := sampleProduct()
	mock.ExpectQuery("SELECT (.+) FROM products WHERE category").
		WithArgs("electronics", 10, 0).
		WillReturnRows(pgxmock.NewRows(productCols).AddRow(productRow(p)...))

	got, err := repo.ListByCategory(context.Background(), "electronics", 0, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "electronics", got[0].Category)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_DistinctCategories(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	mock.ExpectQuery("SELECT DISTINCT category FROM products").
		WillReturnRows(pgxmock.NewRows([]string{"category"}).
			AddRow("electronics").
			AddRow("books"))

	got, err := repo.DistinctCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"electronics", "books"}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_DistinctCategories_EmptyTable(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	mock.ExpectQuery("SELECT DISTINCT category FROM products").
		WillReturnRows(pgxmock.NewRows([]string{"category"}))

	got, err := repo.DistinctCategories(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Upsert_InsertAssignsID(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	p := sampleProduct()
	p.ID = 0

	mock.ExpectQuery("INSERT INTO products").
		WithArgs(p.Category, p.Title, p.SubTitle, p.Brand, p.Rating, p.ShortDescription, p.Description).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(42))

	err := repo.Upsert(context.Background(), &p)
	require.NoError(t, err)
	assert.Equal(t, 42, p.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Upsert_UpdateKeepsID(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	p := sampleProduct()

	mock.ExpectExec("INSERT INTO products").
		WithArgs(p.ID, p.Category, p.Title, p.SubTitle, p.Brand, p.Rating, p.ShortDescription, p.Description).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Upsert(context.Background(), &p)
	require.NoError(t, err)
	assert.Equal(t, 1, p.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Delete_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	mock.ExpectExec("DELETE FROM products").
		WithArgs(5).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := repo.Delete(context.Background(), 5)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Delete_AbsentIDIsNoop(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	mock.ExpectExec("DELETE FROM products").
		WithArgs(404).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), 404)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
