package models

// Requests for management HTTP endpoints. Defined in domain for consistency and reuse.

type AddSymbolRequest struct {
	Symbol string `json:"symbol" validate:"required,min=1,max=8"`
}

type CreateAlertRequest struct {
	Symbol    string  `json:"symbol" validate:"required,min=1,max=8"`
	Direction string  `json:"direction" validate:"required,oneof=above below"`
	Target    float64 `json:"target" validate:"required,gt=0"`
}

type ToggleAlertRequest struct {
	Active bool `json:"active"`
}

type VisibilityRequest struct {
	Visible *bool `json:"visible" validate:"required"`
}

type CandlesRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	Range  string `query:"range" json:"range" default:"1d" validate:"oneof=1d 5d"`
}
