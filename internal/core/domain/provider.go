package domain

import "time"

// Provider is a supplier record, optionally attributed to a user.
type Provider struct {
	ID          string    `json:"id"          bson:"_id"`
	CompanyName string    `json:"companyName" bson:"company_name"`
	ContactName string    `json:"contactName" bson:"contact_name"`
	Email       string    `json:"email"       bson:"email"`
	PhoneNumber string    `json:"phoneNumber" bson:"phone_number"`
	Address     string    `json:"address"     bson:"address"`
	City        string    `json:"city"        bson:"city"`
	State       string    `json:"state"       bson:"state"`
	PostalCode  string    `json:"postalCode"  bson:"postal_code"`
	Country     string    `json:"country"     bson:"country"`
	UserID      string    `json:"userId,omitempty" bson:"user_id,omitempty"`
	CreatedAt   time.Time `json:"createdAt"   bson:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt"   bson:"updated_at"`
}

// ProviderPatch carries a partial update. Nil fields are left untouched.
type ProviderPatch struct {
	CompanyName *string
	ContactName *string
	Email       *string
	PhoneNumber *string
	Address     *string
	City        *string
	State       *string
	PostalCode  *string
	Country     *string
	UserID      *string
}

// IsEmpty reports whether the patch changes nothing.
func (p ProviderPatch) IsEmpty() bool {
	return p.CompanyName == nil && p.ContactName == nil && p.Email == nil &&
		p.PhoneNumber == nil && p.Address == nil && p.City == nil &&
		p.State == nil && p.PostalCode == nil && p.Country == nil && p.UserID == nil
}
