package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/guerrinha/stoq-api-golang/internal/httpx"
	"github.com/guerrinha/stoq-api-golang/internal/session"
)

// ServiceAPI define o que o handler precisa da vitrine.
// Permite testar handlers com stubs, sem sessão nem rede.
type ServiceAPI interface {
	View(ctx context.Context, sid, query, typeFilter string) (View, error)
	SetQuantity(ctx context.Context, sid string, listingID int64, raw string) (CartView, error)
	Cart(ctx context.Context, sid string) (CartView, error)
	Checkout(ctx context.Context, sid string) (CheckoutResult, error)
}

// Handler HTTP da vitrine. Só traduz HTTP <-> workflow.
type Handler struct {
	service ServiceAPI
}

// NewHandler cria um handler da vitrine.
func NewHandler(service ServiceAPI) *Handler {
	return &Handler{service: service}
}

// View atende GET /catalog com busca e filtro de tipo locais.
func (handler *Handler) View(writer http.ResponseWriter, request *http.Request) {
	query := strings.TrimSpace(request.URL.Query().Get("query"))
	typeFilter := strings.TrimSpace(request.URL.Query().Get("type"))

	view, err := handler.service.View(request.Context(), session.IDFrom(request.Context()), query, typeFilter)
	if err != nil {
		httpx.Fail(writer, request, http.StatusBadGateway, "remote_error", "Erro ao buscar produtos")
		return
	}

	httpx.OK(writer, request, http.StatusOK, view)
}

type setQuantityInput struct {
	// Quantidade vem como string crua: a validação de dígitos é do workflow.
	Quantity string `json:"quantity"`
}

// SetQuantity atende PUT /cart/items/{id}.
func (handler *Handler) SetQuantity(writer http.ResponseWriter, request *http.Request) {
	listingID, err := strconv.ParseInt(chi.URLParam(request, "id"), 10, 64)
	if err != nil {
		httpx.Fail(writer, request, http.StatusBadRequest, "invalid_id", "id must be an integer")
		return
	}

	var input setQuantityInput
	if err := json.NewDecoder(request.Body).Decode(&input); err != nil {
		httpx.Fail(writer, request, http.StatusBadRequest, "invalid_json", "invalid JSON body")
		return
	}

	cart, err := handler.service.SetQuantity(request.Context(), session.IDFrom(request.Context()), listingID, input.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownListing):
			httpx.Fail(writer, request, http.StatusNotFound, "not_found", "anúncio não encontrado")
		default:
			httpx.Fail(writer, request, http.StatusBadGateway, "remote_error", "Erro ao buscar produtos")
		}
		return
	}

	httpx.OK(writer, request, http.StatusOK, cart)
}

// Cart atende GET /cart.
func (handler *Handler) Cart(writer http.ResponseWriter, request *http.Request) {
	cart, err := handler.service.Cart(request.Context(), session.IDFrom(request.Context()))
	if err != nil {
		httpx.Fail(writer, request, http.StatusInternalServerError, "internal_error", "unexpected error")
		return
	}
	httpx.OK(writer, request, http.StatusOK, cart)
}

// Checkout atende POST /cart/checkout.
func (handler *Handler) Checkout(writer http.ResponseWriter, request *http.Request) {
	result, err := handler.service.Checkout(request.Context(), session.IDFrom(request.Context()))
	if err != nil {
		var checkoutErr *CheckoutError
		if errors.As(err, &checkoutErr) {
			// Falha parcial: linhas anteriores já deduzidas, carrinho mantido.
			httpx.Fail(writer, request, http.StatusBadGateway, "checkout_failed", "Erro ao processar "+checkoutErr.ListingName)
			return
		}
		httpx.Fail(writer, request, http.StatusBadGateway, "remote_error", "Erro ao processar carrinho")
		return
	}

	httpx.OK(writer, request, http.StatusOK, result)
}
