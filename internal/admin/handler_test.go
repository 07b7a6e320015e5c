package admin_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/guerrinha/stoq-api-golang/internal/admin"
	"github.com/guerrinha/stoq-api-golang/internal/dataclient"
	"github.com/guerrinha/stoq-api-golang/internal/httpx"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	listFn    func(ctx context.Context) (admin.ListResult, error)
	openForFn func(ctx context.Context, sid string, id int64) (admin.Form, error)
	updateFn  func(ctx context.Context, sid string, patch admin.DraftPatch) (admin.Form, error)
	submitFn  func(ctx context.Context, sid string) (admin.SubmitResult, error)
	deleteFn  func(ctx context.Context, id int64, confirmed bool) (admin.DeleteResult, error)

	updateCalled bool
	updatePatch  admin.DraftPatch

	deleteCalled    bool
	deleteID        int64
	deleteConfirmed bool
}

func (service *stubService) List(ctx context.Context) (admin.ListResult, error) {
	if service.listFn != nil {
		return service.listFn(ctx)
	}
	return admin.ListResult{}, nil
}

func (service *stubService) Form(ctx context.Context, sid string) (admin.Form, error) {
	return admin.NewForm(), nil
}

func (service *stubService) OpenForm(ctx context.Context, sid string) (admin.Form, error) {
	form := admin.NewForm()
	form.Open()
	return form, nil
}

func (service *stubService) OpenFormFor(ctx context.Context, sid string, id int64) (admin.Form, error) {
	if service.openForFn != nil {
		return service.openForFn(ctx, sid, id)
	}
	return admin.NewForm(), nil
}

func (service *stubService) UpdateDraft(ctx context.Context, sid string, patch admin.DraftPatch) (admin.Form, error) {
	service.updateCalled = true
	service.updatePatch = patch
	if service.updateFn != nil {
		return service.updateFn(ctx, sid, patch)
	}
	return admin.NewForm(), nil
}

func (service *stubService) CancelForm(ctx context.Context, sid string) (admin.Form, error) {
	return admin.NewForm(), nil
}

func (service *stubService) SubmitForm(ctx context.Context, sid string) (admin.SubmitResult, error) {
	if service.submitFn != nil {
		return service.submitFn(ctx, sid)
	}
	return admin.SubmitResult{}, nil
}

func (service *stubService) Delete(ctx context.Context, id int64, confirmed bool) (admin.DeleteResult, error) {
	service.deleteCalled = true
	service.deleteID = id
	service.deleteConfirmed = confirmed
	if service.deleteFn != nil {
		return service.deleteFn(ctx, id, confirmed)
	}
	return admin.DeleteResult{}, nil
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) httpx.Response {
	t.Helper()
	var resp httpx.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestHandler_List(t *testing.T) {
	t.Run("remote error", func(t *testing.T) {
		service := &stubService{
			listFn: func(ctx context.Context) (admin.ListResult, error) {
				return admin.ListResult{}, errors.New("down")
			},
		}
		handler := admin.NewHandler(service)

		rec := httptest.NewRecorder()
		handler.List(rec, httptest.NewRequest(http.MethodGet, "/admin/properties", nil))

		require.Equal(t, http.StatusBadGateway, rec.Code)
		resp := decodeResponse(t, rec)
		require.Equal(t, "Erro ao buscar produtos", resp.Error.Message)
	})
}

func TestHandler_OpenFor(t *testing.T) {
	t.Run("unknown id", func(t *testing.T) {
		service := &stubService{
			openForFn: func(ctx context.Context, sid string, id int64) (admin.Form, error) {
				return admin.Form{}, admin.ErrNotFound
			},
		}
		handler := admin.NewHandler(service)

		req := withURLParam(httptest.NewRequest(http.MethodPost, "/admin/form/open/99", nil), "id", "99")
		rec := httptest.NewRecorder()
		handler.OpenFor(rec, req)

		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		handler := admin.NewHandler(&stubService{})

		req := withURLParam(httptest.NewRequest(http.MethodPost, "/admin/form/open/abc", nil), "id", "abc")
		rec := httptest.NewRecorder()
		handler.OpenFor(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_UpdateDraft(t *testing.T) {
	t.Run("passes only present fields", func(t *testing.T) {
		service := &stubService{}
		handler := admin.NewHandler(service)

		req := httptest.NewRequest(http.MethodPatch, "/admin/form", strings.NewReader(`{"name":"Casa X","featured":true}`))
		rec := httptest.NewRecorder()
		handler.UpdateDraft(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.True(t, service.updateCalled)
		require.NotNil(t, service.updatePatch.Name)
		require.Equal(t, "Casa X", *service.updatePatch.Name)
		require.NotNil(t, service.updatePatch.Featured)
		require.True(t, *service.updatePatch.Featured)
		require.Nil(t, service.updatePatch.Price)
	})

	t.Run("invalid json", func(t *testing.T) {
		service := &stubService{}
		handler := admin.NewHandler(service)

		rec := httptest.NewRecorder()
		handler.UpdateDraft(rec, httptest.NewRequest(http.MethodPatch, "/admin/form", strings.NewReader("{")))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.False(t, service.updateCalled)
	})

	t.Run("form closed", func(t *testing.T) {
		service := &stubService{
			updateFn: func(ctx context.Context, sid string, patch admin.DraftPatch) (admin.Form, error) {
				return admin.Form{}, admin.ErrFormClosed
			},
		}
		handler := admin.NewHandler(service)

		rec := httptest.NewRecorder()
		handler.UpdateDraft(rec, httptest.NewRequest(http.MethodPatch, "/admin/form", strings.NewReader(`{"name":"x"}`)))

		require.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestHandler_Submit(t *testing.T) {
	t.Run("validation failure", func(t *testing.T) {
		service := &stubService{
			submitFn: func(ctx context.Context, sid string) (admin.SubmitResult, error) {
				return admin.SubmitResult{}, admin.ErrValidation
			},
		}
		handler := admin.NewHandler(service)

		rec := httptest.NewRecorder()
		handler.Submit(rec, httptest.NewRequest(http.MethodPost, "/admin/form/submit", nil))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeResponse(t, rec)
		require.Equal(t, "invalid_input", resp.Error.Code)
		require.Equal(t, "Por favor, preencha todos os campos obrigatórios.", resp.Error.Message)
	})

	t.Run("remote error surfaces server message", func(t *testing.T) {
		service := &stubService{
			submitFn: func(ctx context.Context, sid string) (admin.SubmitResult, error) {
				return admin.SubmitResult{}, &dataclient.APIError{Status: 409, Code: "23505", Message: "duplicate key value"}
			},
		}
		handler := admin.NewHandler(service)

		rec := httptest.NewRecorder()
		handler.Submit(rec, httptest.NewRequest(http.MethodPost, "/admin/form/submit", nil))

		require.Equal(t, http.StatusBadGateway, rec.Code)
		resp := decodeResponse(t, rec)
		require.Equal(t, "Erro ao salvar imóvel: duplicate key value", resp.Error.Message)
	})

	t.Run("transport error falls back to generic message", func(t *testing.T) {
		service := &stubService{
			submitFn: func(ctx context.Context, sid string) (admin.SubmitResult, error) {
				return admin.SubmitResult{}, errors.New("connection refused")
			},
		}
		handler := admin.NewHandler(service)

		rec := httptest.NewRecorder()
		handler.Submit(rec, httptest.NewRequest(http.MethodPost, "/admin/form/submit", nil))

		require.Equal(t, http.StatusBadGateway, rec.Code)
		resp := decodeResponse(t, rec)
		require.Equal(t, "Erro ao salvar imóvel: Erro desconhecido", resp.Error.Message)
	})
}

func TestHandler_Delete(t *testing.T) {
	t.Run("unconfirmed asks for confirmation", func(t *testing.T) {
		service := &stubService{
			deleteFn: func(ctx context.Context, id int64, confirmed bool) (admin.DeleteResult, error) {
				return admin.DeleteResult{}, admin.ErrConfirmationRequired
			},
		}
		handler := admin.NewHandler(service)

		req := withURLParam(httptest.NewRequest(http.MethodDelete, "/admin/properties/7", nil), "id", "7")
		rec := httptest.NewRecorder()
		handler.Delete(rec, req)

		require.Equal(t, http.StatusConflict, rec.Code)
		resp := decodeResponse(t, rec)
		require.Equal(t, "Tem certeza que deseja excluir este imóvel?", resp.Error.Message)
		require.False(t, service.deleteConfirmed)
	})

	t.Run("confirmed", func(t *testing.T) {
		service := &stubService{}
		handler := admin.NewHandler(service)

		req := withURLParam(httptest.NewRequest(http.MethodDelete, "/admin/properties/7?confirm=true", nil), "id", "7")
		rec := httptest.NewRecorder()
		handler.Delete(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.True(t, service.deleteCalled)
		require.Equal(t, int64(7), service.deleteID)
		require.True(t, service.deleteConfirmed)
	})

	t.Run("remote error", func(t *testing.T) {
		service := &stubService{
			deleteFn: func(ctx context.Context, id int64, confirmed bool) (admin.DeleteResult, error) {
				return admin.DeleteResult{}, errors.New("down")
			},
		}
		handler := admin.NewHandler(service)

		req := withURLParam(httptest.NewRequest(http.MethodDelete, "/admin/properties/7?confirm=true", nil), "id", "7")
		rec := httptest.NewRecorder()
		handler.Delete(rec, req)

		require.Equal(t, http.StatusBadGateway, rec.Code)
		resp := decodeResponse(t, rec)
		require.Equal(t, "Erro ao deletar imóvel", resp.Error.Message)
	})
}
