package api

import (
	"net/http"

	"github.com/fastprodman/keystore/internal/pricing"
	"github.com/fastprodman/keystore/internal/services/keys"
)

type purchaseRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type catalogResponse struct {
	Products []pricing.Product `json:"products"`
	Tiers    []pricing.Tier    `json:"discountTiers"`
}

// ProductsHandler handles GET /products
func (h *HandlerProvider) ProductsHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, catalogResponse{
		Products: pricing.Products(),
		Tiers:    pricing.Tiers(),
	})
}

// PurchaseHandler handles POST /purchases. Prices come from the catalogue,
// never from the client.
func (h *HandlerProvider) PurchaseHandler(w http.ResponseWriter, r *http.Request) {
	var req purchaseRequest

	err := decodeJSON(w, r, &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	quote, err := pricing.QuoteFor(req.ProductID, req.Quantity)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	p, err := h.svc.Keys.BuyKeys(r.Context(), keys.PurchaseRequest{
		UserID:       userFrom(r.Context()).ID,
		ProductID:    quote.ProductID,
		Quantity:     quote.Quantity,
		UnitPrice:    quote.UnitPrice,
		DiscountRate: quote.DiscountRate,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, p)
}

// ListKeysHandler handles GET /keys
func (h *HandlerProvider) ListKeysHandler(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.Keys.ListKeys(r.Context(), userFrom(r.Context()).ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, list)
}
