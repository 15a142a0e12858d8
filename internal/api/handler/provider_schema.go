package handler

import "github.com/puntoventa/providers-api/internal/core/domain"

// providerPayload is the wire shape accepted by POST/PUT/PATCH. Older
// clients send snake_case keys; toCanonical folds them into the camelCase
// schema, and camelCase wins when both are present.
type providerPayload struct {
	CompanyName      *string `json:"companyName"`
	CompanyNameSnake *string `json:"company_name"`
	ContactName      *string `json:"contactName"`
	ContactNameSnake *string `json:"contact_name"`
	Email            *string `json:"email"`
	PhoneNumber      *string `json:"phoneNumber"`
	PhoneNumberSnake *string `json:"phone_number"`
	Address          *string `json:"address"`
	City             *string `json:"city"`
	State            *string `json:"state"`
	PostalCode       *string `json:"postalCode"`
	PostalCodeSnake  *string `json:"postal_code"`
	Country          *string `json:"country"`
	UserID           *string `json:"userId"`
	UserIDSnake      *string `json:"user_id"`
}

// providerFields is the canonical request schema. Nil means absent.
type providerFields struct {
	CompanyName *string `json:"companyName" validate:"omitnil,required,min=3,max=255"`
	ContactName *string `json:"contactName" validate:"omitnil,required,min=3,max=255"`
	Email       *string `json:"email"       validate:"omitnil,required,email,max=255"`
	PhoneNumber *string `json:"phoneNumber" validate:"omitnil,required,number,len=10"`
	Address     *string `json:"address"     validate:"omitnil,required,min=5,max=255"`
	City        *string `json:"city"        validate:"omitnil,required,max=100"`
	State       *string `json:"state"       validate:"omitnil,required,max=100"`
	PostalCode  *string `json:"postalCode"  validate:"omitnil,required,number,max=10"`
	Country     *string `json:"country"     validate:"omitnil,required,max=100"`
	UserID      *string `json:"userId"      validate:"omitnil,max=255"`
}

// createProviderRequest requires every field except userId.
type createProviderRequest struct {
	CompanyName string `json:"companyName" validate:"required,min=3,max=255"`
	ContactName string `json:"contactName" validate:"required,min=3,max=255"`
	Email       string `json:"email"       validate:"required,email,max=255"`
	PhoneNumber string `json:"phoneNumber" validate:"required,number,len=10"`
	Address     string `json:"address"     validate:"required,min=5,max=255"`
	City        string `json:"city"        validate:"required,max=100"`
	State       string `json:"state"       validate:"required,max=100"`
	PostalCode  string `json:"postalCode"  validate:"required,number,max=10"`
	Country     string `json:"country"     validate:"required,max=100"`
	UserID      string `json:"userId"      validate:"omitempty,max=255"`
}

func (p providerPayload) toCanonical() providerFields {
	return providerFields{
		CompanyName: firstSet(p.CompanyName, p.CompanyNameSnake),
		ContactName: firstSet(p.ContactName, p.ContactNameSnake),
		Email:       p.Email,
		PhoneNumber: firstSet(p.PhoneNumber, p.PhoneNumberSnake),
		Address:     p.Address,
		City:        p.City,
		State:       p.State,
		PostalCode:  firstSet(p.PostalCode, p.PostalCodeSnake),
		Country:     p.Country,
		UserID:      firstSet(p.UserID, p.UserIDSnake),
	}
}

func firstSet(values ...*string) *string {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

type providerResponse struct {
	Message string           `json:"message"`
	Data    *domain.Provider `json:"data"`
}

type providerListResponse struct {
	Message string             `json:"message"`
	Data    []*domain.Provider `json:"data"`
}
