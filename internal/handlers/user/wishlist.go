package user

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"aurastore_back_end/internal/catalog"
	"aurastore_back_end/internal/database"
)

// ================== WISHLIST ==================

// ToggleWishlist ajoute ou retire un produit des favoris, atomiquement.
func ToggleWishlist(c *gin.Context) {
	userID := c.GetString("user_id")

	var input struct {
		ProductID string `json:"product_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	present, err := Wishlists.Toggle(c.Request.Context(), userID, input.ProductID)
	if err != nil {
		respondCartError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product_id":  input.ProductID,
		"in_wishlist": present,
	})
}

// GetWishlist retourne les produits favoris, détails catalogue inclus.
// Un id dont le produit a disparu du catalogue est ignoré silencieusement.
func GetWishlist(c *gin.Context) {
	userID := c.GetString("user_id")

	ids, err := Wishlists.List(c.Request.Context(), userID)
	if err != nil {
		respondCartError(c, err)
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	products, err := catalog.NewRepository(session).GetByIDs(ids)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture catalogue"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product_ids": ids,
		"products":    products,
	})
}

// CheckWishlist indique si un produit précis est dans les favoris.
func CheckWishlist(c *gin.Context) {
	userID := c.GetString("user_id")
	productID := c.Param("productId")

	present, err := Wishlists.Contains(c.Request.Context(), userID, productID)
	if err != nil {
		respondCartError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product_id":  productID,
		"in_wishlist": present,
	})
}
