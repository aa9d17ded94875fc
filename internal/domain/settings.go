package domain

import "time"

// CompanySettings holds the invoice header data, one row per user.
type CompanySettings struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	CompanyName    string    `json:"companyName"`
	CompanyAddress *string   `json:"companyAddress,omitempty"`
	CompanyPhone   *string   `json:"companyPhone,omitempty"`
	CompanyEmail   *string   `json:"companyEmail,omitempty"`
	TaxID          *string   `json:"taxId,omitempty"`
	Currency       string    `json:"currency"`
	LogoURL        *string   `json:"logoUrl,omitempty"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
