package cartControllers

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/storelabs/storefront-api/apperrors"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)
	return gormDB, mock
}

func activeProductRows(id uint, stock int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "category_id", "price", "stock", "is_active"}).
		AddRow(id, "Yoga Mat", 1, "44.99", stock, true)
}

func TestAddItemNewLine(t *testing.T) {
	gormDB, mock := setupMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "products"`).
		WillReturnRows(activeProductRows(42, 100))

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "carts" WHERE user_id = .+ FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}).AddRow(1, "user-1"))
	mock.ExpectQuery(`SELECT \* FROM "cart_items"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "cart_id", "product_id", "quantity"}))
	mock.ExpectQuery(`INSERT INTO "cart_items"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectCommit()

	item, stockWarning, err := AddItem(gormDB, "user-1", 42, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)
	assert.False(t, stockWarning)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// add_item(c, p, 2) then add_item(c, p, 3) leaves one line with
// quantity 5: quantities accumulate, they are never replaced.
func TestAddItemAccumulates(t *testing.T) {
	gormDB, mock := setupMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "products"`).
		WillReturnRows(activeProductRows(42, 100))

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "carts" WHERE user_id = .+ FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}).AddRow(1, "user-1"))
	mock.ExpectQuery(`SELECT \* FROM "cart_items"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "cart_id", "product_id", "quantity"}).
			AddRow(7, 1, 42, 2))
	mock.ExpectExec(`UPDATE "cart_items" SET "quantity"`).
		WithArgs(5, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	item, _, err := AddItem(gormDB, "user-1", 42, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, item.Quantity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddItemCreatesCartOnFirstUse(t *testing.T) {
	gormDB, mock := setupMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "products"`).
		WillReturnRows(activeProductRows(42, 100))

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "carts" WHERE user_id = .+ FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}))
	mock.ExpectQuery(`INSERT INTO "carts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectQuery(`SELECT \* FROM "cart_items"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "cart_id", "product_id", "quantity"}))
	mock.ExpectQuery(`INSERT INTO "cart_items"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectCommit()

	item, _, err := AddItem(gormDB, "user-1", 42, 1)
	require.NoError(t, err)
	assert.Equal(t, uint(3), item.CartID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddItemStockWarning(t *testing.T) {
	gormDB, mock := setupMockDB(t)

	// stock 1, requesting 2: add succeeds (deferred validation), but
	// the caller gets warned
	mock.ExpectQuery(`SELECT \* FROM "products"`).
		WillReturnRows(activeProductRows(42, 1))

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "carts" WHERE user_id = .+ FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}).AddRow(1, "user-1"))
	mock.ExpectQuery(`SELECT \* FROM "cart_items"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "cart_id", "product_id", "quantity"}))
	mock.ExpectQuery(`INSERT INTO "cart_items"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectCommit()

	_, stockWarning, err := AddItem(gormDB, "user-1", 42, 2)
	require.NoError(t, err)
	assert.True(t, stockWarning)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddItemUnknownProduct(t *testing.T) {
	gormDB, mock := setupMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "products"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, _, err := AddItem(gormDB, "user-1", 42, 1)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddItemRejectsZeroQuantity(t *testing.T) {
	gormDB, mock := setupMockDB(t)

	_, _, err := AddItem(gormDB, "user-1", 42, 0)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Updates take the same cart lock as adds, so a set cannot interleave
// inside a concurrent add's read-modify-write.
func TestUpdateItemQuantitySets(t *testing.T) {
	gormDB, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "carts" WHERE user_id = .+ FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}).AddRow(1, "user-1"))
	mock.ExpectQuery(`SELECT \* FROM "cart_items" WHERE id = .+ AND cart_id`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "cart_id", "product_id", "quantity"}).
			AddRow(7, 1, 42, 2))
	mock.ExpectExec(`UPDATE "cart_items" SET "quantity"`).
		WithArgs(4, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	item, err := UpdateItemQuantity(gormDB, "user-1", 7, 4)
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, 4, item.Quantity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Setting quantity to zero is the same as removing the item.
func TestUpdateItemQuantityZeroDeletes(t *testing.T) {
	gormDB, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "carts" WHERE user_id = .+ FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}).AddRow(1, "user-1"))
	mock.ExpectQuery(`SELECT \* FROM "cart_items" WHERE id = .+ AND cart_id`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "cart_id", "product_id", "quantity"}).
			AddRow(7, 1, 42, 2))
	mock.ExpectExec(`DELETE FROM "cart_items"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	item, err := UpdateItemQuantity(gormDB, "user-1", 7, 0)
	require.NoError(t, err)
	assert.Nil(t, item)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateItemQuantityMissingItem(t *testing.T) {
	gormDB, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "carts" WHERE user_id = .+ FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}).AddRow(1, "user-1"))
	mock.ExpectQuery(`SELECT \* FROM "cart_items" WHERE id = .+ AND cart_id`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := UpdateItemQuantity(gormDB, "user-1", 7, 4)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateItemQuantityNoCart(t *testing.T) {
	gormDB, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "carts" WHERE user_id = .+ FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}))
	mock.ExpectRollback()

	_, err := UpdateItemQuantity(gormDB, "user-1", 7, 4)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveItem(t *testing.T) {
	gormDB, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "carts" WHERE user_id = .+ FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}).AddRow(1, "user-1"))
	mock.ExpectQuery(`SELECT \* FROM "cart_items" WHERE id = .+ AND cart_id`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "cart_id", "product_id", "quantity"}).
			AddRow(7, 1, 42, 2))
	mock.ExpectExec(`DELETE FROM "cart_items"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := RemoveItem(gormDB, "user-1", 7)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveItemNotOwned(t *testing.T) {
	gormDB, mock := setupMockDB(t)

	// the lookup is scoped to the caller's own (locked) cart, so
	// someone else's item id behaves like a miss
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "carts" WHERE user_id = .+ FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}).AddRow(1, "user-1"))
	mock.ExpectQuery(`SELECT \* FROM "cart_items" WHERE id = .+ AND cart_id`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	err := RemoveItem(gormDB, "user-1", 7)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
