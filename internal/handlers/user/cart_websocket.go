package user

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"aurastore_back_end/internal/models"
	"aurastore_back_end/internal/resource"
)

var cartUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// L'authentification est portée par le JWT, pas par l'Origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

const (
	wsWriteWait  = 10 * time.Second
	wsPingPeriod = 30 * time.Second
)

// CartWebSocket pousse l'état du panier en temps réel : un snapshot à la
// connexion, puis un nouveau à chaque mutation (y compris depuis un autre
// appareil du même utilisateur). La fermeture du client libère
// l'abonnement au store.
func CartWebSocket(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non connecté"})
		return
	}

	conn, err := cartUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ Upgrade WebSocket panier: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// Pompe de lecture : on ignore les messages entrants mais on détecte
	// la fermeture du client pour couper l'observation.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	updates := Carts.Observe(ctx, userID)
	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	log.Printf("📤 WebSocket panier ouvert pour %s", userID)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case r, ok := <-updates:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(cartUpdateMessage(r)); err != nil {
				log.Printf("⚠️ Écriture WebSocket panier pour %s: %v", userID, err)
				return
			}
		}
	}
}

func cartUpdateMessage(r resource.Resource[[]models.CartLine]) gin.H {
	if r.IsError() {
		return gin.H{
			"type":  "error",
			"error": r.Err.Error(),
		}
	}

	count := 0
	for _, l := range r.Data {
		count += l.Quantity
	}
	return gin.H{
		"type":  "cart_update",
		"items": r.Data,
		"total": models.CartTotal(r.Data).StringFixed(2),
		"count": count,
	}
}
