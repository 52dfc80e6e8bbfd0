// Package marketplace serves the service listing, order, and review
// endpoints. Every mutation consults the access policy before the store, and
// order updates additionally run the lifecycle transition check.
package marketplace

import (
	"github.com/sudo-init-do/skillmarket/internal/cache"
	"github.com/sudo-init-do/skillmarket/internal/platform/logger"
	"github.com/sudo-init-do/skillmarket/internal/store"
	"github.com/sudo-init-do/skillmarket/internal/upload"
)

type Handler struct {
	store    store.Store
	listings *cache.ServiceListings
	uploads  *upload.Storage
	log      *logger.Logger
}

func NewHandler(st store.Store, listings *cache.ServiceListings, uploads *upload.Storage, log *logger.Logger) *Handler {
	return &Handler{store: st, listings: listings, uploads: uploads, log: log}
}
