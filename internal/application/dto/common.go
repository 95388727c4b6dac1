package dto

// ListResponse envoltura de listados con su total.
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// CountResponse respuesta de los endpoints de conteo.
type CountResponse struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
