package user

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"aurastore_back_end/internal/database"
	"aurastore_back_end/internal/models"
	"aurastore_back_end/internal/utils"
)

// ================== AUTH LOCALE ==================

func Register(c *gin.Context) {
	var input struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	// email déjà pris pour un compte local ?
	var existingID gocql.UUID
	err = session.Query("SELECT user_id FROM users WHERE email = ? ALLOW FILTERING", input.Email).Scan(&existingID)
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Un compte avec cet email existe déjà"})
		return
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création compte"})
		return
	}

	userID := uuid.New()
	now := time.Now().UTC()

	err = session.Query(`
		INSERT INTO users (user_id, email, name, password_hash, role, provider, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, gocql.UUID(userID), input.Email, input.Name, hashedPassword, "customer", "local", now).Exec()
	if err != nil {
		log.Printf("❌ Erreur création utilisateur: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création compte"})
		return
	}

	log.Printf("✅ Compte créé pour %s", input.Email)
	c.JSON(http.StatusCreated, gin.H{"message": "Compte créé avec succès"})
}

func Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var (
		userID       gocql.UUID
		name, role   string
		passwordHash string
	)
	err = session.Query(`
		SELECT user_id, name, role, password_hash FROM users
		WHERE email = ? AND provider = 'local' ALLOW FILTERING
	`, input.Email).Scan(&userID, &name, &role, &passwordHash)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
		return
	}

	ok, err := utils.VerifyPassword(input.Password, passwordHash)
	if err != nil || !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
		return
	}

	user := models.User{
		ID:       userID.String(),
		Email:    input.Email,
		Name:     name,
		Role:     role,
		Provider: "local",
	}

	token, err := utils.GenerateJWT(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

// Me retourne le profil de l'utilisateur connecté
func Me(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	uid, err := uuid.Parse(userID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID utilisateur invalide"})
		return
	}

	var (
		email, name, role, provider string
		createdAt                   time.Time
	)
	err = session.Query(`
		SELECT email, name, role, provider, created_at FROM users WHERE user_id = ?
	`, gocql.UUID(uid)).Scan(&email, &name, &role, &provider, &createdAt)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
		return
	}

	c.JSON(http.StatusOK, models.User{
		ID:        userID,
		Email:     email,
		Name:      name,
		Role:      role,
		Provider:  provider,
		CreatedAt: &createdAt,
	})
}
