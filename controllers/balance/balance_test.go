package balanceControllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/novendra27/ebook-store-sub000/config"
	"github.com/novendra27/ebook-store-sub000/models"
	"github.com/novendra27/ebook-store-sub000/testutil"
)

func seedSeller(t *testing.T, db *gorm.DB) models.User {
	t.Helper()
	seller := models.User{Email: "seller@example.com", Name: "Seller", IsSeller: true}
	require.NoError(t, db.Create(&seller).Error)
	return seller
}

func TestLedgerRunningTotals(t *testing.T) {
	db := testutil.OpenDB(t)
	seller := seedSeller(t, db)

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return Credit(tx, seller.ID, nil, 100000, "Sale settlement INV-2026-00001")
	}))
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return Credit(tx, seller.ID, nil, 30000, "Sale settlement INV-2026-00002")
	}))
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return Debit(tx, seller.ID, 50000, "Withdrawal")
	}))

	var entries []models.BalanceEntry
	require.NoError(t, db.Where("seller_id = ?", seller.ID).Order("id").Find(&entries).Error)
	require.Len(t, entries, 3)

	// Each row's balance-after equals the previous row's plus its change.
	var prev int64
	for _, entry := range entries {
		assert.Equal(t, prev+entry.ChangeAmount, entry.BalanceAfter)
		prev = entry.BalanceAfter
	}
	assert.Equal(t, int64(80000), prev)

	current, err := CurrentBalance(db, seller.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(80000), current)
}

func TestCreditUnknownSeller(t *testing.T) {
	db := testutil.OpenDB(t)

	err := db.Transaction(func(tx *gorm.DB) error {
		return Credit(tx, 999, nil, 1000, "ghost")
	})
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&models.BalanceEntry{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestWithdrawGuards(t *testing.T) {
	db := testutil.OpenDB(t)
	seller := seedSeller(t, db)

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return Credit(tx, seller.ID, nil, 60000, "Sale settlement")
	}))

	tests := []struct {
		name    string
		amount  int64
		wantErr error
	}{
		{"below minimum", 5000, ErrBelowMinimum},
		{"exceeds balance", 70000, ErrInsufficientFunds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Withdraw(db, seller.ID, tt.amount, "Withdrawal", 10000)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	// Rejected withdrawals must not write ledger rows.
	var count int64
	require.NoError(t, db.Model(&models.BalanceEntry{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	require.NoError(t, Withdraw(db, seller.ID, 60000, "Withdrawal", 10000))
	current, err := CurrentBalance(db, seller.ID)
	require.NoError(t, err)
	assert.Zero(t, current)
}

func TestWithdrawHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.OpenDB(t)
	seller := seedSeller(t, db)

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return Credit(tx, seller.ID, nil, 100000, "Sale settlement")
	}))

	cfg := &config.Config{MinWithdrawal: 10000}
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("user_id", seller.ID) })
	r.GET("/seller/balance", GetBalance(db))
	r.POST("/seller/balance/withdraw", WithdrawHandler(db, cfg))

	post := func(amount int64) *httptest.ResponseRecorder {
		body, _ := json.Marshal(WithdrawRequest{Amount: amount, Note: "payout"})
		req := httptest.NewRequest(http.MethodPost, "/seller/balance/withdraw", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusBadRequest, post(500).Code)
	assert.Equal(t, http.StatusConflict, post(500000).Code)
	assert.Equal(t, http.StatusOK, post(40000).Code)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/seller/balance", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Balance int64                 `json:"balance"`
		Entries []models.BalanceEntry `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(60000), resp.Balance)
	require.Len(t, resp.Entries, 2)
	assert.Equal(t, int64(-40000), resp.Entries[0].ChangeAmount)
}
