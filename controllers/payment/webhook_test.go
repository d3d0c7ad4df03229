package paymentControllers

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/novendra27/ebook-store-sub000/middleware"
	"github.com/novendra27/ebook-store-sub000/models"
	"github.com/novendra27/ebook-store-sub000/testutil"
)

const callbackToken = "callback-secret"

func newRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/payment/gateway/callback",
		middleware.VerifyCallbackToken(callbackToken),
		GatewayCallback(db),
	)
	return r
}

// seedInvoice creates a pending invoice with one line per seller subtotal.
func seedInvoice(t *testing.T, db *gorm.DB, code string, subtotals map[uint]int64) models.Invoice {
	t.Helper()

	buyer := models.User{Email: code + "-buyer@example.com", Name: "Buyer"}
	require.NoError(t, db.Create(&buyer).Error)

	var total int64
	for _, amount := range subtotals {
		total += amount
	}
	invoice := models.Invoice{UserID: buyer.ID, Code: code, Amount: total, Status: models.InvoiceStatusPending}
	require.NoError(t, db.Create(&invoice).Error)

	for sellerID, amount := range subtotals {
		line := models.InvoiceLine{
			InvoiceID:   invoice.ID,
			ProductID:   1,
			SellerID:    sellerID,
			ProductName: "Some Book",
			UnitAmount:  amount,
			Quantity:    1,
			IsDownload:  true,
		}
		require.NoError(t, db.Create(&line).Error)
	}
	return invoice
}

func seedSeller(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()
	seller := models.User{Email: email, Name: "Seller", IsSeller: true}
	require.NoError(t, db.Create(&seller).Error)
	return seller
}

func deliver(r *gin.Engine, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/payment/gateway/callback", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("x-callback-token", token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCallbackRejectsBadToken(t *testing.T) {
	db := testutil.OpenDB(t)
	seller := seedSeller(t, db, "s1@example.com")
	invoice := seedInvoice(t, db, "INV-2026-00001", map[uint]int64{seller.ID: 100000})
	r := newRouter(db)

	for _, token := range []string{"", "wrong-token"} {
		w := deliver(r, token, `{"external_id":"INV-2026-00001","status":"PAID"}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}

	var got models.Invoice
	require.NoError(t, db.First(&got, invoice.ID).Error)
	assert.Equal(t, models.InvoiceStatusPending, got.Status, "rejected calls must not change state")
}

func TestCallbackUnknownInvoice(t *testing.T) {
	db := testutil.OpenDB(t)
	r := newRouter(db)

	w := deliver(r, callbackToken, `{"external_id":"INV-2026-99999","status":"PAID"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCallbackPaidTransition(t *testing.T) {
	db := testutil.OpenDB(t)
	s1 := seedSeller(t, db, "s1@example.com")
	s2 := seedSeller(t, db, "s2@example.com")
	invoice := seedInvoice(t, db, "INV-2026-00001", map[uint]int64{s1.ID: 100000, s2.ID: 30000})
	r := newRouter(db)

	paidAt := time.Date(2026, 8, 28, 10, 30, 0, 0, time.UTC)
	body := fmt.Sprintf(
		`{"external_id":"INV-2026-00001","status":"PAID","paid_at":%q,"payment_method":"BANK_TRANSFER","payment_channel":"BCA"}`,
		paidAt.Format(time.RFC3339))
	w := deliver(r, callbackToken, body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got models.Invoice
	require.NoError(t, db.First(&got, invoice.ID).Error)
	assert.Equal(t, models.InvoiceStatusPaid, got.Status)
	assert.Equal(t, "BANK_TRANSFER", got.PaymentMethod)
	assert.Equal(t, "BCA", got.PaymentChannel)
	require.NotNil(t, got.PaidAt)
	assert.True(t, got.PaidAt.Equal(paidAt))
	assert.NotEmpty(t, got.DownloadToken)

	// One settlement credit per seller, with correct running totals.
	var entries []models.BalanceEntry
	require.NoError(t, db.Order("seller_id").Find(&entries).Error)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(100000), entries[0].ChangeAmount)
	assert.Equal(t, int64(100000), entries[0].BalanceAfter)
	assert.Equal(t, int64(30000), entries[1].ChangeAmount)
	assert.Equal(t, int64(30000), entries[1].BalanceAfter)
	require.NotNil(t, entries[0].InvoiceID)
	assert.Equal(t, invoice.ID, *entries[0].InvoiceID)
}

func TestCallbackReplayIsIdempotent(t *testing.T) {
	db := testutil.OpenDB(t)
	seller := seedSeller(t, db, "s1@example.com")
	invoice := seedInvoice(t, db, "INV-2026-00001", map[uint]int64{seller.ID: 130000})
	r := newRouter(db)

	body := `{"external_id":"INV-2026-00001","status":"PAID","payment_method":"EWALLET","payment_channel":"OVO"}`
	w := deliver(r, callbackToken, body)
	require.Equal(t, http.StatusOK, w.Code)

	var first models.Invoice
	require.NoError(t, db.First(&first, invoice.ID).Error)

	// Same delivery again, then a contradictory one. Both acknowledged,
	// neither changes the terminal state or duplicates side effects.
	w = deliver(r, callbackToken, body)
	assert.Equal(t, http.StatusOK, w.Code)
	w = deliver(r, callbackToken, `{"external_id":"INV-2026-00001","status":"EXPIRED"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	var got models.Invoice
	require.NoError(t, db.First(&got, invoice.ID).Error)
	assert.Equal(t, models.InvoiceStatusPaid, got.Status)
	assert.Equal(t, first.DownloadToken, got.DownloadToken)
	assert.Equal(t, "EWALLET", got.PaymentMethod)

	var credits int64
	require.NoError(t, db.Model(&models.BalanceEntry{}).Count(&credits).Error)
	assert.Equal(t, int64(1), credits, "replay must not credit the seller twice")
}

func TestCallbackStatusMapping(t *testing.T) {
	tests := []struct {
		gateway string
		want    models.InvoiceStatus
	}{
		{"PAID", models.InvoiceStatusPaid},
		{"SETTLED", models.InvoiceStatusPaid},
		{"EXPIRED", models.InvoiceStatusFailed},
		{"FAILED", models.InvoiceStatusFailed},
		{"pending", models.InvoiceStatusFailed},
	}
	for _, tt := range tests {
		t.Run(tt.gateway, func(t *testing.T) {
			assert.Equal(t, tt.want, mapGatewayStatus(tt.gateway))
		})
	}
}

func TestCallbackFailedLeavesNoSideEffects(t *testing.T) {
	db := testutil.OpenDB(t)
	seller := seedSeller(t, db, "s1@example.com")
	invoice := seedInvoice(t, db, "INV-2026-00001", map[uint]int64{seller.ID: 100000})
	r := newRouter(db)

	w := deliver(r, callbackToken, `{"external_id":"INV-2026-00001","status":"EXPIRED"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var got models.Invoice
	require.NoError(t, db.First(&got, invoice.ID).Error)
	assert.Equal(t, models.InvoiceStatusFailed, got.Status)
	assert.Nil(t, got.PaidAt)
	assert.Empty(t, got.DownloadToken)

	var credits int64
	require.NoError(t, db.Model(&models.BalanceEntry{}).Count(&credits).Error)
	assert.Zero(t, credits, "failed payments must not credit anyone")
}
