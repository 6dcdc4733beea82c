package user

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"aurastore_back_end/internal/apperr"
	"aurastore_back_end/internal/checkout"
	"aurastore_back_end/internal/models"
	"aurastore_back_end/internal/utils"
)

// ================== COMMANDES ==================

// Checkout exécute le workflow de passage de commande : snapshot du
// panier, total exact, persistance, puis vidage best-effort. Chaque
// requête instancie son propre Placement (mono-coup).
func Checkout(c *gin.Context) {
	userID := c.GetString("user_id")
	email := c.GetString("email")

	var input struct {
		Address    string `json:"address"`
		CardHolder string `json:"card_holder"`
	}
	// Corps optionnel : sans adresse on retombe sur la sentinelle.
	_ = c.ShouldBindJSON(&input)

	placement := checkout.NewPlacement(Carts, Orders)
	order, err := placement.Place(c.Request.Context(), userID, input.Address, input.CardHolder)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrUnauthenticated):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non connecté"})
		case errors.Is(err, apperr.ErrEmptyCart):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Panier vide"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Échec création commande : %v", err)})
		}
		return
	}

	// Confirmation par email en best-effort, hors du chemin de réponse.
	if email != "" {
		go func(to string, o models.Order) {
			if err := utils.SendOrderConfirmationEmail(to, o); err != nil {
				log.Printf("⚠️ Email de confirmation non envoyé pour %s: %v", o.ID, err)
			}
		}(email, order)
	}

	log.Printf("✅ Commande %s créée pour %s (%s €)", order.ID, userID, order.TotalAmount.StringFixed(2))
	c.JSON(http.StatusCreated, gin.H{
		"message": "Order Placed",
		"order":   order,
	})
}

// GetMyOrders liste les commandes de l'utilisateur, la plus récente d'abord.
func GetMyOrders(c *gin.Context) {
	userID := c.GetString("user_id")

	list, err := Orders.ListByUser(c.Request.Context(), userID)
	if err != nil {
		respondCartError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": list})
}

// GetOrderByID retourne une commande ; un utilisateur ne voit que les
// siennes, un admin les voit toutes.
func GetOrderByID(c *gin.Context) {
	userID := c.GetString("user_id")
	role := c.GetString("role")
	orderID := c.Param("id")

	order, err := Orders.GetByID(c.Request.Context(), orderID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture commande"})
		return
	}

	if order.UserID != userID && role != "admin" {
		c.JSON(http.StatusForbidden, gin.H{"error": "Accès refusé"})
		return
	}

	c.JSON(http.StatusOK, order)
}

// DownloadInvoice rend la facture PDF de la commande via Chrome headless.
func DownloadInvoice(c *gin.Context) {
	userID := c.GetString("user_id")
	role := c.GetString("role")
	orderID := c.Param("id")

	order, err := Orders.GetByID(c.Request.Context(), orderID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture commande"})
		return
	}
	if order.UserID != userID && role != "admin" {
		c.JSON(http.StatusForbidden, gin.H{"error": "Accès refusé"})
		return
	}

	pdf, err := utils.RenderInvoicePDF(order.ID)
	if err != nil {
		log.Printf("❌ Génération facture %s: %v", order.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération facture"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="facture-%s.pdf"`, order.ID))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// UpdateOrderStatus (admin) fait avancer le statut d'une commande en
// respectant les transitions autorisées.
func UpdateOrderStatus(c *gin.Context) {
	orderID := c.Param("id")

	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	err := Orders.UpdateStatus(c.Request.Context(), orderID, models.OrderStatus(input.Status))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Statut mis à jour", "status": input.Status})
}
