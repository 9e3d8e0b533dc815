package products

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/adiwijaya-dev/shopdash-backend/internal/state"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/db/models"
	pkgerrors "github.com/adiwijaya-dev/shopdash-backend/pkg/errors"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/logger"
)

// Sanitize repairs hero product ids. A missing, sentinel, or duplicate id is
// replaced with a fresh uuid; clean input passes through unchanged. Safe to
// run repeatedly.
func Sanitize(items []models.Product) []models.Product {
	seen := make(map[string]bool, len(items))
	out := make([]models.Product, len(items))
	for i, item := range items {
		id := strings.TrimSpace(item.ID)
		if isSentinelID(id) || seen[id] {
			id = uuid.NewString()
		}
		seen[id] = true
		item.ID = id
		out[i] = item
	}
	return out
}

func isSentinelID(id string) bool {
	switch strings.ToLower(id) {
	case "", "undefined", "null":
		return true
	}
	return false
}

// PricingSeeder creates pricing siblings for a sku that has no pricing rows
// yet. Implemented by the pricing service.
type PricingSeeder interface {
	HasSKU(sku string) bool
	SeedSKU(ctx context.Context, sku, name, image string) int
}

// Service manages the hero product list.
type Service interface {
	List(ctx context.Context) []models.Product
	Add(ctx context.Context, input models.Product) (*models.Product, error)
	Update(ctx context.Context, input models.Product) (*models.Product, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	binding *state.Binding[models.Product]
	pricing PricingSeeder
	logg    *logger.Logger
}

func NewService(binding *state.Binding[models.Product], pricing PricingSeeder, logg *logger.Logger) Service {
	return &service{binding: binding, pricing: pricing, logg: logg}
}

func (s *service) List(_ context.Context) []models.Product {
	return s.binding.Get()
}

func (s *service) Add(ctx context.Context, input models.Product) (*models.Product, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}

	added := input
	s.binding.Update(ctx, func(items []models.Product) []models.Product {
		next := append(append([]models.Product(nil), items...), input)
		next = Sanitize(next)
		added = next[len(next)-1]
		return next
	})

	sku := strings.TrimSpace(input.SKU)
	if sku != "" && s.pricing != nil && !s.pricing.HasSKU(sku) {
		seeded := s.pricing.SeedSKU(ctx, sku, input.Name, input.Image)
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{"sku": sku, "seeded": seeded}), "seeded pricing siblings for new hero product")
	}

	return &added, nil
}

func (s *service) Update(ctx context.Context, input models.Product) (*models.Product, error) {
	if isSentinelID(input.ID) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	var found bool
	s.binding.Update(ctx, func(items []models.Product) []models.Product {
		next := append([]models.Product(nil), items...)
		for i := range next {
			if next[i].ID == input.ID {
				next[i] = input
				found = true
				break
			}
		}
		return next
	})
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return &input, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	var found bool
	s.binding.Update(ctx, func(items []models.Product) []models.Product {
		next := make([]models.Product, 0, len(items))
		for _, item := range items {
			if item.ID == id {
				found = true
				continue
			}
			next = append(next, item)
		}
		return next
	})
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return nil
}
