package httpx

import (
	"encoding/json"
	"net/http"
	"time"
)

// Response é o envelope padrão que a API devolve.
// Manter um formato consistente simplifica os clientes (frontend/tests).
type Response struct {
	Data  any        `json:"data,omitempty"`
	Error *ErrorBody `json:"error,omitempty"`
	Meta  *Meta      `json:"meta,omitempty"`
}

// Meta contém informação adicional útil para debugging e rastreabilidade.
type Meta struct {
	RequestID string `json:"request_id,omitempty"`
	TimeUTC   string `json:"time_utc,omitempty"`
}

// ErrorBody descreve um erro de forma estruturada.
// Não expor detalhe interno (SQL, stacktrace, etc.) em produção.
type ErrorBody struct {
	Code    string `json:"code,omitempty"`    // ex: "invalid_input", "not_found"
	Message string `json:"message,omitempty"` // mensagem para humanos
}

// JSON escreve uma resposta JSON com os headers corretos.
// Nota: se o encode falhar, responde 500 de forma segura.
func JSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)

	if err := enc.Encode(resp); err != nil {
		// Último recurso: não deu para serializar o JSON.
		http.Error(w, `{"error":{"code":"internal","message":"internal server error"}}`, http.StatusInternalServerError)
	}
}

// OK devolve uma resposta de sucesso com data.
func OK(w http.ResponseWriter, r *http.Request, status int, data any) {
	JSON(w, status, Response{
		Data: data,
		Meta: &Meta{
			RequestID: RequestIDFrom(r),
			TimeUTC:   time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// Fail devolve um erro estruturado.
func Fail(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	JSON(w, status, Response{
		Error: &ErrorBody{
			Code:    code,
			Message: message,
		},
		Meta: &Meta{
			RequestID: RequestIDFrom(r),
			TimeUTC:   time.Now().UTC().Format(time.RFC3339),
		},
	})
}
