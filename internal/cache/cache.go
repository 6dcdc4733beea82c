package cache

import (
	"context"
	"encoding/json"
	"time"

	"aurastore_back_end/internal/catalog"
	"aurastore_back_end/internal/database"
	"aurastore_back_end/internal/models"
)

const (
	ProductCacheTTL = 10 * time.Minute
)

// GetProductFromCache récupère un produit depuis Redis ou ScyllaDB.
// Le cache n'est jamais autoritaire : il est invalidé à l'écriture et
// expiré par TTL.
func GetProductFromCache(ctx context.Context, repo *catalog.Repository, productID string) (models.Product, error) {
	key := "product:" + productID

	// 1. Essayer le cache Redis
	data, err := database.Redis.Get(ctx, key).Result()
	if err == nil {
		var product models.Product
		if json.Unmarshal([]byte(data), &product) == nil {
			return product, nil
		}
	}

	// 2. Récupérer de ScyllaDB
	product, err := repo.GetByID(productID)
	if err != nil {
		return models.Product{}, err
	}

	// 3. Mettre en cache
	if jsonData, err := json.Marshal(product); err == nil {
		database.Redis.Set(ctx, key, jsonData, ProductCacheTTL)
	}

	return product, nil
}

// InvalidateProduct supprime l'entrée de cache après une écriture.
func InvalidateProduct(ctx context.Context, productID string) {
	database.Redis.Del(ctx, "product:"+productID)
}
