package listings

import "math/rand/v2"

const (
	barcodeAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	barcodeLength   = 12
)

// NewBarcode gera o token base-36 de 12 caracteres que o site original criava
// no cliente. Não há garantia de unicidade; é só um identificador de etiqueta.
func NewBarcode() string {
	buffer := make([]byte, barcodeLength)
	for i := range buffer {
		buffer[i] = barcodeAlphabet[rand.IntN(len(barcodeAlphabet))]
	}
	return string(buffer)
}
