// Package pricing manages shop-scoped price rows and their cross-shop
// catalog invariants.
package pricing

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/adiwijaya-dev/shopdash-backend/internal/state"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/db/models"
	pkgerrors "github.com/adiwijaya-dev/shopdash-backend/pkg/errors"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/logger"
)

// Service exposes pricing operations. Rows sharing a sku are siblings of one
// catalog entry: catalog fields move together, deletes cascade across shops.
type Service interface {
	List(ctx context.Context) []models.PricingItem
	Upsert(ctx context.Context, input models.PricingItem) (*models.PricingItem, error)
	Delete(ctx context.Context, id string) (int, error)
	HasSKU(sku string) bool
	SeedSKU(ctx context.Context, sku, name, image string) int
}

type service struct {
	binding *state.Binding[models.PricingItem]
	logg    *logger.Logger
}

func NewService(binding *state.Binding[models.PricingItem], logg *logger.Logger) Service {
	return &service{binding: binding, logg: logg}
}

func (s *service) List(_ context.Context) []models.PricingItem {
	return s.binding.Get()
}

// Upsert writes one row and propagates its catalog fields to every sibling
// sharing the sku. Shop-scoped fields (stock, rating) stay per-row. Total is
// recomputed for every touched row.
func (s *service) Upsert(ctx context.Context, input models.PricingItem) (*models.PricingItem, error) {
	input.SKU = strings.TrimSpace(input.SKU)
	if input.SKU == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	}
	if strings.TrimSpace(input.ShopID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shopId is required")
	}
	if input.ID == "" {
		input.ID = uuid.NewString()
	}
	input.Total = ComputeTotal(input)

	s.binding.Update(ctx, func(items []models.PricingItem) []models.PricingItem {
		next := append([]models.PricingItem(nil), items...)
		replaced := false
		for i := range next {
			if next[i].ID == input.ID {
				next[i] = input
				replaced = true
				continue
			}
			if next[i].SKU == input.SKU {
				syncCatalogFields(&next[i], input)
				next[i].Total = ComputeTotal(next[i])
			}
		}
		if !replaced {
			next = append(next, input)
		}
		return next
	})

	return &input, nil
}

// Delete removes the row and every sibling sharing its sku, returning how
// many rows went away.
func (s *service) Delete(ctx context.Context, id string) (int, error) {
	var sku string
	for _, item := range s.binding.Get() {
		if item.ID == id {
			sku = item.SKU
			break
		}
	}
	if sku == "" {
		return 0, pkgerrors.New(pkgerrors.CodeNotFound, "pricing item not found")
	}

	removed := 0
	s.binding.Update(ctx, func(items []models.PricingItem) []models.PricingItem {
		next := make([]models.PricingItem, 0, len(items))
		for _, item := range items {
			if item.SKU == sku {
				removed++
				continue
			}
			next = append(next, item)
		}
		return next
	})

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"sku": sku, "removed": removed}), "cascade deleted pricing siblings")
	return removed, nil
}

func (s *service) HasSKU(sku string) bool {
	for _, item := range s.binding.Get() {
		if item.SKU == sku {
			return true
		}
	}
	return false
}

// SeedSKU creates one empty row per known shop for a sku that has no pricing
// rows yet. Known shops are the distinct shop ids already present; a pricing
// list with no rows seeds nothing.
func (s *service) SeedSKU(ctx context.Context, sku, name, image string) int {
	seeded := 0
	s.binding.Update(ctx, func(items []models.PricingItem) []models.PricingItem {
		shops := make([]string, 0, 4)
		seen := map[string]bool{}
		for _, item := range items {
			if item.SKU == sku {
				return items
			}
			if item.ShopID != "" && !seen[item.ShopID] {
				seen[item.ShopID] = true
				shops = append(shops, item.ShopID)
			}
		}

		next := append([]models.PricingItem(nil), items...)
		for _, shop := range shops {
			next = append(next, models.PricingItem{
				ID:          uuid.NewString(),
				SKU:         sku,
				ShopID:      shop,
				ProductName: name,
				Image:       image,
			})
			seeded++
		}
		return next
	})
	return seeded
}

// Catalog fields are shared across siblings; everything else is shop-scoped.
func syncCatalogFields(dst *models.PricingItem, src models.PricingItem) {
	dst.ProductName = src.ProductName
	dst.Image = src.Image
	dst.Brand = src.Brand
	dst.PriceNet = src.PriceNet
	dst.HargaJual = src.HargaJual
	dst.Biaya1250 = src.Biaya1250
}

// ComputeTotal derives the net payout for a row: selling price less the
// percentage fees (admin, affiliate, ongkir, applied to the selling price),
// the fixed fee, and the absolute promotions (voucher, discount, flash sale,
// promotion). Rounded to two decimal places.
func ComputeTotal(item models.PricingItem) float64 {
	harga := decimal.NewFromFloat(item.HargaJual)
	hundred := decimal.NewFromInt(100)

	pctRate := decimal.NewFromFloat(item.Admin).
		Add(decimal.NewFromFloat(item.Affiliate)).
		Add(decimal.NewFromFloat(item.Ongkir)).
		Div(hundred)
	pctFees := harga.Mul(pctRate)

	total := harga.
		Sub(pctFees).
		Sub(decimal.NewFromFloat(item.Biaya1250)).
		Sub(decimal.NewFromFloat(item.Voucher)).
		Sub(decimal.NewFromFloat(item.Discount)).
		Sub(decimal.NewFromFloat(item.FlashSale)).
		Sub(decimal.NewFromFloat(item.Promotion))

	result, _ := total.Round(2).Float64()
	return result
}
