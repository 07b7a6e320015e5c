package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/guerrinha/stoq-api-golang/internal/dataclient"
	"github.com/guerrinha/stoq-api-golang/internal/httpx"
	"github.com/guerrinha/stoq-api-golang/internal/session"
)

// ServiceAPI define o que o handler precisa do painel.
type ServiceAPI interface {
	List(ctx context.Context) (ListResult, error)
	Form(ctx context.Context, sid string) (Form, error)
	OpenForm(ctx context.Context, sid string) (Form, error)
	OpenFormFor(ctx context.Context, sid string, id int64) (Form, error)
	UpdateDraft(ctx context.Context, sid string, patch DraftPatch) (Form, error)
	CancelForm(ctx context.Context, sid string) (Form, error)
	SubmitForm(ctx context.Context, sid string) (SubmitResult, error)
	Delete(ctx context.Context, id int64, confirmed bool) (DeleteResult, error)
}

// Handler HTTP do painel administrativo.
type Handler struct {
	service ServiceAPI
}

// NewHandler cria um handler do painel.
func NewHandler(service ServiceAPI) *Handler {
	return &Handler{service: service}
}

// List atende GET /admin/properties.
func (handler *Handler) List(writer http.ResponseWriter, request *http.Request) {
	result, err := handler.service.List(request.Context())
	if err != nil {
		httpx.Fail(writer, request, http.StatusBadGateway, "remote_error", "Erro ao buscar produtos")
		return
	}
	httpx.OK(writer, request, http.StatusOK, result)
}

// Form atende GET /admin/form.
func (handler *Handler) Form(writer http.ResponseWriter, request *http.Request) {
	form, err := handler.service.Form(request.Context(), session.IDFrom(request.Context()))
	if err != nil {
		httpx.Fail(writer, request, http.StatusInternalServerError, "internal_error", "unexpected error")
		return
	}
	httpx.OK(writer, request, http.StatusOK, form)
}

// Open atende POST /admin/form/open (modo criação).
func (handler *Handler) Open(writer http.ResponseWriter, request *http.Request) {
	form, err := handler.service.OpenForm(request.Context(), session.IDFrom(request.Context()))
	if err != nil {
		httpx.Fail(writer, request, http.StatusInternalServerError, "internal_error", "unexpected error")
		return
	}
	httpx.OK(writer, request, http.StatusOK, form)
}

// OpenFor atende POST /admin/form/open/{id} (modo edição).
func (handler *Handler) OpenFor(writer http.ResponseWriter, request *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(request, "id"), 10, 64)
	if err != nil {
		httpx.Fail(writer, request, http.StatusBadRequest, "invalid_id", "id must be an integer")
		return
	}

	form, err := handler.service.OpenFormFor(request.Context(), session.IDFrom(request.Context()), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Fail(writer, request, http.StatusNotFound, "not_found", "imóvel não encontrado")
			return
		}
		httpx.Fail(writer, request, http.StatusBadGateway, "remote_error", "Erro ao buscar produtos")
		return
	}
	httpx.OK(writer, request, http.StatusOK, form)
}

// UpdateDraft atende PATCH /admin/form com uma mudança parcial do draft.
func (handler *Handler) UpdateDraft(writer http.ResponseWriter, request *http.Request) {
	var patch DraftPatch
	if err := json.NewDecoder(request.Body).Decode(&patch); err != nil {
		httpx.Fail(writer, request, http.StatusBadRequest, "invalid_json", "invalid JSON body")
		return
	}

	form, err := handler.service.UpdateDraft(request.Context(), session.IDFrom(request.Context()), patch)
	if err != nil {
		if errors.Is(err, ErrFormClosed) {
			httpx.Fail(writer, request, http.StatusConflict, "form_closed", "formulário não está aberto")
			return
		}
		httpx.Fail(writer, request, http.StatusInternalServerError, "internal_error", "unexpected error")
		return
	}
	httpx.OK(writer, request, http.StatusOK, form)
}

// Cancel atende POST /admin/form/cancel.
func (handler *Handler) Cancel(writer http.ResponseWriter, request *http.Request) {
	form, err := handler.service.CancelForm(request.Context(), session.IDFrom(request.Context()))
	if err != nil {
		httpx.Fail(writer, request, http.StatusInternalServerError, "internal_error", "unexpected error")
		return
	}
	httpx.OK(writer, request, http.StatusOK, form)
}

// Submit atende POST /admin/form/submit.
func (handler *Handler) Submit(writer http.ResponseWriter, request *http.Request) {
	result, err := handler.service.SubmitForm(request.Context(), session.IDFrom(request.Context()))
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			httpx.Fail(writer, request, http.StatusBadRequest, "invalid_input", "Por favor, preencha todos os campos obrigatórios.")
		case errors.Is(err, ErrFormClosed):
			httpx.Fail(writer, request, http.StatusConflict, "form_closed", "formulário não está aberto")
		default:
			httpx.Fail(writer, request, http.StatusBadGateway, "remote_error", "Erro ao salvar imóvel: "+remoteMessage(err))
		}
		return
	}
	httpx.OK(writer, request, http.StatusOK, result)
}

// Delete atende DELETE /admin/properties/{id}?confirm=true.
func (handler *Handler) Delete(writer http.ResponseWriter, request *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(request, "id"), 10, 64)
	if err != nil {
		httpx.Fail(writer, request, http.StatusBadRequest, "invalid_id", "id must be an integer")
		return
	}
	confirmed := request.URL.Query().Get("confirm") == "true"

	result, err := handler.service.Delete(request.Context(), id, confirmed)
	if err != nil {
		if errors.Is(err, ErrConfirmationRequired) {
			httpx.Fail(writer, request, http.StatusConflict, "confirmation_required", "Tem certeza que deseja excluir este imóvel?")
			return
		}
		httpx.Fail(writer, request, http.StatusBadGateway, "remote_error", "Erro ao deletar imóvel")
		return
	}
	httpx.OK(writer, request, http.StatusOK, result)
}

// remoteMessage extrai a mensagem que o servidor remoto reportou; sem
// mensagem estruturada, cai no texto genérico.
func remoteMessage(err error) string {
	var apiErr *dataclient.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "Erro desconhecido"
}
