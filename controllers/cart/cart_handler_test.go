package cartControllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func cartRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	// stand-in for the JWT middleware
	r.Use(func(c *gin.Context) { c.Set("user_id", "user-1") })
	r.GET("/cart", GetCartHandler(db))
	return r
}

func TestGetCartSnapshot(t *testing.T) {
	gormDB, mock := setupMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "carts" WHERE user_id`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}).AddRow(1, "user-1"))
	mock.ExpectQuery(`SELECT \* FROM "cart_items"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "cart_id", "product_id", "quantity"}).
			AddRow(7, 1, 42, 3).
			AddRow(8, 1, 43, 1))
	mock.ExpectQuery(`SELECT \* FROM "products"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "category_id", "price", "stock", "is_active"}).
			AddRow(42, "Basketball", 1, "10.00", 5, true).
			AddRow(43, "Yoga Mat", 1, "44.99", 100, true))

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	w := httptest.NewRecorder()
	cartRouter(gormDB).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Items      []json.RawMessage `json:"items"`
		TotalPrice string            `json:"total_price"`
		ItemCount  int               `json:"item_count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Items, 2)
	assert.Equal(t, "74.99", body.TotalPrice)
	assert.Equal(t, 4, body.ItemCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCartCreatesOnFirstLookup(t *testing.T) {
	gormDB, mock := setupMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "carts" WHERE user_id`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "carts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectCommit()

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	w := httptest.NewRecorder()
	cartRouter(gormDB).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		TotalPrice string `json:"total_price"`
		ItemCount  int    `json:"item_count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "0", body.TotalPrice)
	assert.Equal(t, 0, body.ItemCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}
