package user_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aurastore_back_end/internal/cart"
	"aurastore_back_end/internal/docstore"
	"aurastore_back_end/internal/handlers/user"
	"aurastore_back_end/internal/models"
)

// router câble les endpoints testables sans backend externe : l'identité
// est injectée directement dans le contexte Gin à la place du middleware
// JWT.
func router(t *testing.T, userID, role string) (*gin.Engine, *docstore.Memory) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mem := docstore.NewMemory()
	user.Setup(mem)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("role", role)
		c.Next()
	})

	r.GET("/api/cart", user.GetCart)
	r.PUT("/api/cart/:productId", user.UpdateCartQuantity)
	r.DELETE("/api/cart/:productId", user.RemoveFromCart)
	r.DELETE("/api/cart", user.ClearCart)
	r.POST("/api/wishlist/toggle", user.ToggleWishlist)
	r.GET("/api/wishlist/:productId", user.CheckWishlist)
	r.POST("/api/orders/checkout", user.Checkout)
	r.GET("/api/orders", user.GetMyOrders)
	r.GET("/api/orders/:id", user.GetOrderByID)
	r.PATCH("/api/admin/orders/:id/status", user.UpdateOrderStatus)
	return r, mem
}

func seedCart(t *testing.T, mem *docstore.Memory, userID string) {
	t.Helper()
	s := cart.NewStore(mem)
	require.NoError(t, s.Add(t.Context(), userID, models.CartLine{
		ProductID:   "p1",
		ProductName: "Casque Aura",
		UnitPrice:   decimal.RequireFromString("10.00"),
		Quantity:    2,
	}))
	require.NoError(t, s.Add(t.Context(), userID, models.CartLine{
		ProductID:   "p2",
		ProductName: "Lampe",
		UnitPrice:   decimal.RequireFromString("5.50"),
		Quantity:    1,
	}))
}

func do(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetCartReturnsTotalAndCount(t *testing.T) {
	r, mem := router(t, "alice", "customer")
	seedCart(t, mem, "alice")

	w := do(r, http.MethodGet, "/api/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Items []models.CartLine `json:"items"`
		Total string            `json:"total"`
		Count int               `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Items, 2)
	assert.Equal(t, "25.50", resp.Total)
	assert.Equal(t, 3, resp.Count)
}

func TestUpdateQuantityZeroRemoves(t *testing.T) {
	r, mem := router(t, "alice", "customer")
	seedCart(t, mem, "alice")

	w := do(r, http.MethodPut, "/api/cart/p1", gin.H{"quantity": 0})
	require.Equal(t, http.StatusOK, w.Code)

	lines, err := cart.NewStore(mem).Snapshot(t.Context(), "alice")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "p2", lines[0].ProductID)
}

func TestUpdateQuantityMissingLine(t *testing.T) {
	r, _ := router(t, "alice", "customer")
	w := do(r, http.MethodPut, "/api/cart/inconnu", gin.H{"quantity": 3})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRemoveAbsentLineIsOK(t *testing.T) {
	r, _ := router(t, "alice", "customer")
	w := do(r, http.MethodDelete, "/api/cart/inconnu", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestClearCart(t *testing.T) {
	r, mem := router(t, "alice", "customer")
	seedCart(t, mem, "alice")

	w := do(r, http.MethodDelete, "/api/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)

	lines, err := cart.NewStore(mem).Snapshot(t.Context(), "alice")
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestCheckoutEmptyCart(t *testing.T) {
	r, _ := router(t, "alice", "customer")

	w := do(r, http.MethodPost, "/api/orders/checkout", gin.H{})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Panier vide")
}

func TestCheckoutCreatesOrderAndClearsCart(t *testing.T) {
	r, mem := router(t, "alice", "customer")
	seedCart(t, mem, "alice")

	w := do(r, http.MethodPost, "/api/orders/checkout", gin.H{
		"address":     "12 rue des Lilas",
		"card_holder": "Jeanne Martin",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Message string       `json:"message"`
		Order   models.Order `json:"order"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Order Placed", resp.Message)
	assert.Equal(t, models.StatusPending, resp.Order.Status)
	assert.True(t, resp.Order.TotalAmount.Equal(decimal.RequireFromString("25.50")))
	assert.Equal(t, "12 rue des Lilas (Titulaire : Jeanne Martin)", resp.Order.ShippingAddress)

	lines, err := cart.NewStore(mem).Snapshot(t.Context(), "alice")
	require.NoError(t, err)
	assert.Empty(t, lines)

	// La commande est visible dans l'historique.
	w = do(r, http.MethodGet, "/api/orders", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Orders []models.Order `json:"orders"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Orders, 1)
	assert.Equal(t, resp.Order.ID, list.Orders[0].ID)
}

func TestGetOrderForbiddenForOtherUser(t *testing.T) {
	r, mem := router(t, "alice", "customer")
	seedCart(t, mem, "alice")

	w := do(r, http.MethodPost, "/api/orders/checkout", gin.H{})
	require.Equal(t, http.StatusCreated, w.Code)
	var resp struct {
		Order models.Order `json:"order"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	// Même store, autre identité : accès refusé.
	other := gin.New()
	other.Use(func(c *gin.Context) {
		c.Set("user_id", "bob")
		c.Set("role", "customer")
		c.Next()
	})
	other.GET("/api/orders/:id", user.GetOrderByID)

	w = do(other, http.MethodGet, "/api/orders/"+resp.Order.ID, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUpdateOrderStatusRejectsIllegalTransition(t *testing.T) {
	r, mem := router(t, "admin", "admin")
	seedCart(t, mem, "admin")

	w := do(r, http.MethodPost, "/api/orders/checkout", gin.H{})
	require.Equal(t, http.StatusCreated, w.Code)
	var resp struct {
		Order models.Order `json:"order"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	w = do(r, http.MethodPatch, "/api/admin/orders/"+resp.Order.ID+"/status", gin.H{"status": "Delivered"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPatch, "/api/admin/orders/"+resp.Order.ID+"/status", gin.H{"status": "Confirmed"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWishlistToggleEndpoint(t *testing.T) {
	r, _ := router(t, "alice", "customer")

	w := do(r, http.MethodPost, "/api/wishlist/toggle", gin.H{"product_id": "p1"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"in_wishlist":true`)

	w = do(r, http.MethodPost, "/api/wishlist/toggle", gin.H{"product_id": "p1"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"in_wishlist":false`)

	w = do(r, http.MethodGet, "/api/wishlist/p1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"in_wishlist":false`)
}

func TestUnauthenticatedCart(t *testing.T) {
	r, _ := router(t, "", "")
	w := do(r, http.MethodGet, "/api/cart", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
