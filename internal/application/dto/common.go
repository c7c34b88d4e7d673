package dto

// ErrorResponse cuerpo de error HTTP.
// Details lleva el detalle por línea cuando se rechaza un lote de compra,
// o por campo cuando falla la validación del body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// LineErrorDTO error de una línea de compra (índice base 1).
type LineErrorDTO struct {
	Index   int    `json:"index"`
	ItemID  string `json:"item_id,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// DateRange filtro opcional de fechas para listados (RFC3339 o YYYY-MM-DD).
type DateRange struct {
	From string `query:"from"`
	To   string `query:"to"`
}
