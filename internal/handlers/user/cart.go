package user

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"aurastore_back_end/internal/apperr"
	"aurastore_back_end/internal/cache"
	"aurastore_back_end/internal/cart"
	"aurastore_back_end/internal/catalog"
	"aurastore_back_end/internal/database"
	"aurastore_back_end/internal/models"
)

// ================== PANIER ==================

// GetCart retourne un snapshot unitaire du panier avec le total exact.
func GetCart(c *gin.Context) {
	userID := c.GetString("user_id")

	lines, err := Carts.Snapshot(c.Request.Context(), userID)
	if err != nil {
		respondCartError(c, err)
		return
	}

	c.JSON(http.StatusOK, cartPayload(lines))
}

// AddToCart ajoute un produit au panier (cumul atomique si déjà présent).
// Le nom et le prix sont résolus côté serveur depuis le catalogue — le
// client n'envoie jamais un prix.
func AddToCart(c *gin.Context) {
	userID := c.GetString("user_id")

	var input struct {
		ProductID string `json:"product_id" binding:"required"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	if input.Quantity <= 0 {
		input.Quantity = 1
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	product, err := cache.GetProductFromCache(c.Request.Context(), catalog.NewRepository(session), input.ProductID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture produit"})
		return
	}

	line := models.CartLine{
		ProductID:   product.ID,
		ProductName: product.Name,
		UnitPrice:   product.Price,
		Quantity:    input.Quantity,
		ImageRef:    product.FirstImage(),
	}

	if err := Carts.Add(c.Request.Context(), userID, line); err != nil {
		respondCartError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Produit ajouté au panier"})
}

// UpdateCartQuantity écrase la quantité d'une ligne. 0 supprime la ligne.
func UpdateCartQuantity(c *gin.Context) {
	userID := c.GetString("user_id")
	productID := c.Param("productId")

	var input struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	if err := Carts.SetQuantity(c.Request.Context(), userID, productID, input.Quantity); err != nil {
		respondCartError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Quantité mise à jour"})
}

// RemoveFromCart retire une ligne ; retirer une ligne absente réussit.
func RemoveFromCart(c *gin.Context) {
	userID := c.GetString("user_id")
	productID := c.Param("productId")

	if err := Carts.Remove(c.Request.Context(), userID, productID); err != nil {
		respondCartError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Produit retiré du panier"})
}

// ClearCart vide le panier entier (no-op si déjà vide).
func ClearCart(c *gin.Context) {
	userID := c.GetString("user_id")

	if err := Carts.Clear(c.Request.Context(), userID); err != nil {
		respondCartError(c, err)
		return
	}

	log.Printf("🧹 Panier vidé pour %s", userID)
	c.JSON(http.StatusOK, gin.H{"message": "Panier vidé"})
}

func cartPayload(lines []models.CartLine) gin.H {
	count := 0
	for _, l := range lines {
		count += l.Quantity
	}
	return gin.H{
		"items": lines,
		"total": models.CartTotal(lines).StringFixed(2),
		"count": count,
	}
}

func respondCartError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperr.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non connecté"})
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Ligne de panier introuvable"})
	case errors.Is(err, cart.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantité invalide"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur panier"})
	}
}
