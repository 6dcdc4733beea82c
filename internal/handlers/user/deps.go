package user

import (
	"aurastore_back_end/internal/cart"
	"aurastore_back_end/internal/docstore"
	"aurastore_back_end/internal/orders"
	"aurastore_back_end/internal/wishlist"
)

// Stores partagés par les handlers, câblés au démarrage sur le document
// store Redis.
var (
	Carts     *cart.Store
	Orders    *orders.Repository
	Wishlists *wishlist.Service
)

// Setup câble les stores du domaine sur le document store.
func Setup(docs docstore.Store) {
	Carts = cart.NewStore(docs)
	Orders = orders.NewRepository(docs)
	Wishlists = wishlist.NewService(docs)
}
