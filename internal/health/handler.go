package health

import (
	"context"
	"net/http"
	"time"

	"github.com/guerrinha/stoq-api-golang/internal/httpx"
)

// Pinger é o que o ready check precisa do backend de dados.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler encapsula os endpoints de health.
type Handler struct {
	data Pinger
}

// New cria um handler de health. data pode ser nil (ready responde 503).
func New(data Pinger) *Handler {
	return &Handler{data: data}
}

// Health indica se o processo está vivo. Não toca no backend de dados.
func (handler *Handler) Health(writer http.ResponseWriter, request *http.Request) {
	httpx.OK(writer, request, http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready indica se o backend de dados está alcançável. O deadline curto é só
// do probe; as operações de dados em si não têm timeout.
func (handler *Handler) Ready(writer http.ResponseWriter, request *http.Request) {
	if handler.data == nil {
		httpx.Fail(writer, request, http.StatusServiceUnavailable, "not_ready", "data backend not configured")
		return
	}

	ctx, cancel := context.WithTimeout(request.Context(), 2*time.Second)
	defer cancel()

	if err := handler.data.Ping(ctx); err != nil {
		httpx.Fail(writer, request, http.StatusServiceUnavailable, "not_ready", "data backend is not reachable")
		return
	}

	httpx.OK(writer, request, http.StatusOK, map[string]any{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
