package models

// Party is the free-form identity block for a seller or buyer. Only the name
// is required for display; everything else is optional contact data.
type Party struct {
	Name    string `json:"name"`
	TaxID   string `json:"taxId,omitempty"`
	Address string `json:"address,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Website string `json:"website,omitempty"`
	IBAN    string `json:"iban,omitempty"`
	Logo    string `json:"logo,omitempty"`
}
