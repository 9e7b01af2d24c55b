package domain

import "slices"

// AllCompanies grants an operator access to every company.
const AllCompanies = "*"

// Operator is an authenticated dashboard user.
type Operator struct {
	Username  string   `json:"username"`
	Companies []string `json:"companies"`
}

// CanAccessCompany reports whether the operator may read companyID.
func (o Operator) CanAccessCompany(companyID string) bool {
	return slices.Contains(o.Companies, AllCompanies) || slices.Contains(o.Companies, companyID)
}
