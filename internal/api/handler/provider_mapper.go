package handler

import (
	"github.com/puntoventa/providers-api/internal/core/domain"
	"github.com/puntoventa/providers-api/internal/core/ports"
)

func (f providerFields) toCreateRequest() createProviderRequest {
	return createProviderRequest{
		CompanyName: deref(f.CompanyName),
		ContactName: deref(f.ContactName),
		Email:       deref(f.Email),
		PhoneNumber: deref(f.PhoneNumber),
		Address:     deref(f.Address),
		City:        deref(f.City),
		State:       deref(f.State),
		PostalCode:  deref(f.PostalCode),
		Country:     deref(f.Country),
		UserID:      deref(f.UserID),
	}
}

func (r createProviderRequest) toInput() ports.ProviderInput {
	return ports.ProviderInput{
		CompanyName: r.CompanyName,
		ContactName: r.ContactName,
		Email:       r.Email,
		PhoneNumber: r.PhoneNumber,
		Address:     r.Address,
		City:        r.City,
		State:       r.State,
		PostalCode:  r.PostalCode,
		Country:     r.Country,
		UserID:      r.UserID,
	}
}

func (f providerFields) toPatch() domain.ProviderPatch {
	return domain.ProviderPatch{
		CompanyName: f.CompanyName,
		ContactName: f.ContactName,
		Email:       f.Email,
		PhoneNumber: f.PhoneNumber,
		Address:     f.Address,
		City:        f.City,
		State:       f.State,
		PostalCode:  f.PostalCode,
		Country:     f.Country,
		UserID:      f.UserID,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
