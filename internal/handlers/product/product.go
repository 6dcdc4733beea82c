package product

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"aurastore_back_end/internal/apperr"
	"aurastore_back_end/internal/cache"
	"aurastore_back_end/internal/catalog"
	"aurastore_back_end/internal/database"
	"aurastore_back_end/internal/models"
	"aurastore_back_end/internal/services"
)

// ================== CATALOGUE ==================

// GetProducts liste le catalogue, filtré par ?category= si fourni.
func GetProducts(c *gin.Context) {
	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	products, err := catalog.NewRepository(session).List()
	if err != nil {
		log.Printf("❌ Lecture catalogue: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture catalogue"})
		return
	}

	products = catalog.FilterByCategory(products, c.Query("category"))
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// GetProductByID retourne un produit (cache Redis puis ScyllaDB).
func GetProductByID(c *gin.Context) {
	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	p, err := cache.GetProductFromCache(c.Request.Context(), catalog.NewRepository(session), c.Param("id"))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture produit"})
		return
	}

	c.JSON(http.StatusOK, p)
}

// SearchProducts interroge Elasticsearch (?q=).
func SearchProducts(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Paramètre q requis"})
		return
	}

	results, err := services.SearchProducts(query)
	if err != nil {
		log.Printf("❌ Recherche Elastic %q: %v", query, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur recherche"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": results})
}

// CreateProduct (admin) ajoute un produit au catalogue et l'indexe.
func CreateProduct(c *gin.Context) {
	var p models.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	if p.Name == "" || p.Price.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nom et prix requis"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	created, err := catalog.NewRepository(session).Create(p)
	if err != nil {
		log.Printf("❌ Création produit: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création produit"})
		return
	}

	// Indexation Elastic + invalidation cache en best-effort.
	services.IndexProduct(created)
	cache.InvalidateProduct(c.Request.Context(), created.ID)

	log.Printf("✅ Produit créé: %s (%s)", created.Name, created.ID)
	c.JSON(http.StatusCreated, created)
}

// UploadProductImage (admin) envoie une image vers MinIO et retourne son URL.
func UploadProductImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fichier image requis"})
		return
	}

	url, err := services.UploadProductImage(c.Request.Context(), file)
	if err != nil {
		log.Printf("❌ Upload image: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur upload image"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}
