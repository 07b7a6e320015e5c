package httpx

import "net/http"

// O chi guarda o request id no header "X-Request-Id" e o propaga.
// Este helper lê do request para incluir nas respostas.
func RequestIDFrom(request *http.Request) string {
	if request == nil {
		return ""
	}
	return request.Header.Get("X-Request-Id")
}
