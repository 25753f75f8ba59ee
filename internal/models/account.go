package models

// Account & state document models
type Account struct {
	Email    string    `json:"email"`
	Password string    `json:"password"` // bcrypt hash
	Invoices []Invoice `json:"invoices"`
}

// CurrentUser is the persisted pointer to the last signed-in account.
type CurrentUser struct {
	Email string `json:"email"`
}

// Document is the entire persisted state. It is read and replaced wholesale
// on every mutation; there is no partial persistence.
type Document struct {
	CurrentUser *CurrentUser        `json:"currentUser,omitempty"`
	Users       map[string]*Account `json:"users"`
}

// NewDocument returns an empty state document.
func NewDocument() Document {
	return Document{Users: map[string]*Account{}}
}

// Clone deep-copies the document.
func (d Document) Clone() Document {
	out := NewDocument()
	if d.CurrentUser != nil {
		cu := *d.CurrentUser
		out.CurrentUser = &cu
	}
	for email, acct := range d.Users {
		c := Account{Email: acct.Email, Password: acct.Password}
		c.Invoices = make([]Invoice, len(acct.Invoices))
		for i, inv := range acct.Invoices {
			c.Invoices[i] = inv.Clone()
		}
		out.Users[email] = &c
	}
	return out
}
