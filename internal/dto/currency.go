package dto

import (
	"github.com/Crook1Boss35/valutatrade-hub/internal/core/domain"
)

// CurrencyResponse defines the structure for API responses containing currency details.
type CurrencyResponse struct {
	Code        string `json:"currencyCode"`
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	DisplayInfo string `json:"displayInfo"`
}

// ToCurrencyResponse converts a domain.Currency to CurrencyResponse DTO.
func ToCurrencyResponse(currency domain.Currency) CurrencyResponse {
	return CurrencyResponse{
		Code:        currency.Code,
		Name:        currency.Name,
		Kind:        string(currency.Kind),
		DisplayInfo: currency.DisplayInfo(),
	}
}

// ToListCurrencyResponse converts a slice of domain.Currency to response DTOs.
func ToListCurrencyResponse(currencies []domain.Currency) []CurrencyResponse {
	responses := make([]CurrencyResponse, len(currencies))
	for i, c := range currencies {
		responses[i] = ToCurrencyResponse(c)
	}
	return responses
}
