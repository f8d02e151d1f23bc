package models

// Company is a listed symbol tracked by the service.
//
// Sector is nil when unknown; rankings group those companies under their own
// nil-sector bucket.
//
// swagger:model Company
type Company struct {
	Symbol    string   `json:"symbol" yaml:"symbol" example:"TCS.NS"`
	Name      string   `json:"name" yaml:"name" example:"Tata Consultancy Services"`
	Sector    *string  `json:"sector" yaml:"sector" example:"IT"`
	MarketCap OptFloat `json:"market_cap" yaml:"-"`
}

// SectorName returns the sector label or "" when unknown.
func (c Company) SectorName() string {
	if c.Sector == nil {
		return ""
	}
	return *c.Sector
}

// StringPtr is a small helper for optional string fields.
func StringPtr(s string) *string { return &s }
