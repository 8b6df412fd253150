package http

// ErrorBody is the JSON shape of every failed response.
type ErrorBody struct {
	Error string `json:"error" example:"symbol is required"`
	Code  string `json:"code,omitempty" example:"ERR_INVALID_INPUT"`
}

// ValidationError represents validation error detail.
type ValidationError struct {
	Code    string                 `json:"code,omitempty" example:"ERR_REQUIRED"`
	Field   string                 `json:"field,omitempty" example:"symbol"`
	Message string                 `json:"message,omitempty" example:"symbol is required"`
	Params  map[string]interface{} `json:"params,omitempty"`
}
