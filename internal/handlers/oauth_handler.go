package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"

	"aurastore_back_end/internal/database"
	"aurastore_back_end/internal/models"
	"aurastore_back_end/internal/utils"
)

type ctxKey string

const ProviderKey ctxKey = "provider"

func BeginAuth(c *gin.Context) {
	provider := c.Param("provider")
	if provider == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "aucun provider spécifié"})
		return
	}

	c.Request = c.Request.WithContext(
		context.WithValue(c.Request.Context(), ProviderKey, provider),
	)

	gothic.BeginAuthHandler(c.Writer, c.Request)
}

func CallbackAuth(c *gin.Context) {
	provider := c.Param("provider")
	if provider == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "aucun provider spécifié"})
		return
	}

	c.Request = c.Request.WithContext(
		context.WithValue(c.Request.Context(), ProviderKey, provider),
	)

	gothUser, err := gothic.CompleteUserAuth(c.Writer, c.Request)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := upsertOAuthUser(gothUser)
	if err != nil {
		log.Printf("❌ Upsert utilisateur OAuth %s: %v", gothUser.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création compte"})
		return
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

// upsertOAuthUser retrouve le compte lié au couple (email, provider) ou
// le crée au premier login.
func upsertOAuthUser(gothUser goth.User) (models.User, error) {
	session, err := database.GetUsersSession()
	if err != nil {
		return models.User{}, err
	}

	var (
		userID     gocql.UUID
		name, role string
	)
	err = session.Query(`
		SELECT user_id, name, role FROM users
		WHERE email = ? AND provider = ? ALLOW FILTERING
	`, gothUser.Email, gothUser.Provider).Scan(&userID, &name, &role)
	if err == nil {
		return models.User{
			ID:       userID.String(),
			Email:    gothUser.Email,
			Name:     name,
			Role:     role,
			Provider: gothUser.Provider,
		}, nil
	}

	newID := uuid.New()
	name = gothUser.Name
	if name == "" {
		name = gothUser.NickName
	}

	err = session.Query(`
		INSERT INTO users (user_id, email, name, password_hash, role, provider, created_at)
		VALUES (?, ?, ?, '', 'customer', ?, ?)
	`, gocql.UUID(newID), gothUser.Email, name, gothUser.Provider, time.Now().UTC()).Exec()
	if err != nil {
		return models.User{}, err
	}

	log.Printf("✅ Compte OAuth créé pour %s via %s", gothUser.Email, gothUser.Provider)
	return models.User{
		ID:       newID.String(),
		Email:    gothUser.Email,
		Name:     name,
		Role:     "customer",
		Provider: gothUser.Provider,
	}, nil
}
