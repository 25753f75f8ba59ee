// Package store is the record store: accounts, sessions, and each account's
// invoice collection, backed by a single wholesale-persisted state document.
package store

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/clicklabs/facturas/internal/models"
	"github.com/clicklabs/facturas/internal/seed"
	"github.com/clicklabs/facturas/internal/storage"
	"github.com/clicklabs/facturas/internal/totals"
)

// DefaultQuota is the number of invoices a free account may create.
const DefaultQuota = 3

// Session identifies one signed-in account. Sessions are explicit values
// passed to every scoped operation; several can be active at once.
type Session struct {
	Token string
	Email string
}

type Store struct {
	mu       sync.Mutex
	storage  storage.Storage
	doc      models.Document
	sessions map[string]string // token → account email
	quota    int
	taxRate  decimal.Decimal
	now      func() time.Time
}

type Option func(*Store)

// WithQuota overrides the per-account invoice limit.
func WithQuota(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.quota = n
		}
	}
}

// WithTaxRate overrides the fixed rate applied to invoices whose items carry
// no per-item rate. Negative rates are ignored.
func WithTaxRate(rate decimal.Decimal) Option {
	return func(s *Store) {
		if !rate.IsNegative() {
			s.taxRate = rate
		}
	}
}

// WithNow injects the clock used for issue dates and creation timestamps.
func WithNow(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Open loads the persisted document from st. A missing or corrupt document
// is treated as empty state.
func Open(st storage.Storage, opts ...Option) (*Store, error) {
	s := &Store{
		storage:  st,
		doc:      models.NewDocument(),
		sessions: map[string]string{},
		quota:    DefaultQuota,
		taxRate:  totals.DefaultTaxRate,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	data, err := st.Load()
	if err == nil {
		var doc models.Document
		if json.Unmarshal(data, &doc) == nil && doc.Users != nil {
			s.doc = doc
		}
	} else if err != storage.ErrNotExist {
		return nil, fmt.Errorf("load state: %w", err)
	}
	return s, nil
}

// normalizeEmail lowercases and trims; account keys are case-insensitive.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateAccount registers a new account and starts a session for it.
func (s *Store) CreateAccount(email, password string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := normalizeEmail(email)
	if _, ok := s.doc.Users[key]; ok {
		return Session{}, ErrDuplicateAccount
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}
	s.doc.Users[key] = &models.Account{Email: key, Password: string(hash), Invoices: []models.Invoice{}}
	prevUser := s.doc.CurrentUser
	sess := s.startSession(key)
	if err := s.persist(); err != nil {
		delete(s.doc.Users, key)
		delete(s.sessions, sess.Token)
		s.doc.CurrentUser = prevUser
		return Session{}, err
	}
	return sess, nil
}

// Authenticate checks credentials and starts a session.
func (s *Store) Authenticate(email, password string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := normalizeEmail(email)
	acct, ok := s.doc.Users[key]
	if !ok {
		return Session{}, ErrNotFound
	}
	if bcrypt.CompareHashAndPassword([]byte(acct.Password), []byte(password)) != nil {
		return Session{}, ErrInvalidCredential
	}
	prevUser := s.doc.CurrentUser
	sess := s.startSession(key)
	if err := s.persist(); err != nil {
		delete(s.sessions, sess.Token)
		s.doc.CurrentUser = prevUser
		return Session{}, err
	}
	return sess, nil
}

// EndSession invalidates the session. Idempotent.
func (s *Store) EndSession(sess Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	email, ok := s.sessions[sess.Token]
	delete(s.sessions, sess.Token)
	if ok && s.doc.CurrentUser != nil && s.doc.CurrentUser.Email == email {
		s.doc.CurrentUser = nil
		return s.persist()
	}
	return nil
}

// CurrentSession resumes the session recorded in the persisted document, the
// way a browser profile stays signed in across restarts.
func (s *Store) CurrentSession() (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc.CurrentUser == nil {
		return Session{}, ErrNoSession
	}
	email := s.doc.CurrentUser.Email
	if _, ok := s.doc.Users[email]; !ok {
		return Session{}, ErrNoSession
	}
	return s.mintSession(email), nil
}

// Resolve returns the live session for a token, or ErrNoSession.
func (s *Store) Resolve(token string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email, ok := s.sessions[token]
	if !ok {
		return Session{}, ErrNoSession
	}
	return Session{Token: token, Email: email}, nil
}

// ListInvoices returns the session's invoices, most recent first.
func (s *Store) ListInvoices(sess Session) ([]models.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, err := s.account(sess)
	if err != nil {
		return nil, err
	}
	return lo.Map(acct.Invoices, func(inv models.Invoice, _ int) models.Invoice {
		return inv.Clone()
	}), nil
}

// GetInvoice returns one invoice by id.
func (s *Store) GetInvoice(sess Session, id string) (models.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, err := s.account(sess)
	if err != nil {
		return models.Invoice{}, err
	}
	inv, ok := lo.Find(acct.Invoices, func(inv models.Invoice) bool { return inv.ID == id })
	if !ok {
		return models.Invoice{}, ErrNotFound
	}
	return inv.Clone(), nil
}

// CreateInvoice seeds a new invoice from the named template, assigns the
// next zero-padded number, and prepends it to the collection. Fails with
// ErrQuotaExceeded once the account holds the quota.
func (s *Store) CreateInvoice(sess Session, templateID string) (models.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, err := s.account(sess)
	if err != nil {
		return models.Invoice{}, err
	}
	if len(acct.Invoices) >= s.quota {
		return models.Invoice{}, ErrQuotaExceeded
	}
	tpl := seed.ByIDOrDefault(templateID)
	now := s.now()
	inv := models.Invoice{
		ID:         uuid.NewString(),
		Number:     fmt.Sprintf("%04d", len(acct.Invoices)+1),
		IssueDate:  now.Format("2006-01-02"),
		Seller:     tpl.Seller,
		Buyer:      tpl.Buyer,
		Items:      models.CloneItems(tpl.Items),
		Notes:      tpl.Notes,
		TemplateID: tpl.ID,
		CreatedAt:  now,
	}
	s.applyTotals(&inv)
	acct.Invoices = append([]models.Invoice{inv}, acct.Invoices...)
	if err := s.persist(); err != nil {
		acct.Invoices = acct.Invoices[1:]
		return models.Invoice{}, err
	}
	return inv.Clone(), nil
}

// UpdateInvoice replaces the stored invoice with the same id. Totals are
// recomputed before persisting so a stored invoice is always internally
// consistent. Unknown ids fail with ErrNotFound.
func (s *Store) UpdateInvoice(sess Session, inv models.Invoice) (models.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, err := s.account(sess)
	if err != nil {
		return models.Invoice{}, err
	}
	_, idx, ok := lo.FindIndexOf(acct.Invoices, func(cur models.Invoice) bool { return cur.ID == inv.ID })
	if !ok {
		return models.Invoice{}, ErrNotFound
	}
	updated := inv.Clone()
	s.applyTotals(&updated)
	prev := acct.Invoices[idx]
	acct.Invoices[idx] = updated
	if err := s.persist(); err != nil {
		acct.Invoices[idx] = prev
		return models.Invoice{}, err
	}
	return updated.Clone(), nil
}

// MarkPaid flags the invoice as paid. Unknown ids are a no-op.
func (s *Store) MarkPaid(sess Session, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, err := s.account(sess)
	if err != nil {
		return err
	}
	_, idx, ok := lo.FindIndexOf(acct.Invoices, func(inv models.Invoice) bool { return inv.ID == id })
	if !ok {
		return nil
	}
	if acct.Invoices[idx].Paid {
		return nil
	}
	acct.Invoices[idx].Paid = true
	if err := s.persist(); err != nil {
		acct.Invoices[idx].Paid = false
		return err
	}
	return nil
}

// DeleteInvoice removes the invoice. Deleting an unknown id is a no-op, so
// a delete racing a stale UI never errors.
func (s *Store) DeleteInvoice(sess Session, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, err := s.account(sess)
	if err != nil {
		return err
	}
	next := lo.Reject(acct.Invoices, func(inv models.Invoice, _ int) bool { return inv.ID == id })
	if len(next) == len(acct.Invoices) {
		return nil
	}
	prev := acct.Invoices
	acct.Invoices = next
	if err := s.persist(); err != nil {
		acct.Invoices = prev
		return err
	}
	return nil
}

// Usage reports how much of the invoice quota the session has consumed.
func (s *Store) Usage(sess Session) (used, limit int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, err := s.account(sess)
	if err != nil {
		return 0, 0, err
	}
	return len(acct.Invoices), s.quota, nil
}

// account resolves a session to its account under s.mu.
func (s *Store) account(sess Session) (*models.Account, error) {
	email, ok := s.sessions[sess.Token]
	if !ok {
		return nil, ErrNoSession
	}
	acct, ok := s.doc.Users[email]
	if !ok {
		return nil, ErrNoSession
	}
	return acct, nil
}

func (s *Store) startSession(email string) Session {
	sess := s.mintSession(email)
	s.doc.CurrentUser = &models.CurrentUser{Email: email}
	return sess
}

func (s *Store) mintSession(email string) Session {
	token := uuid.NewString()
	s.sessions[token] = email
	return Session{Token: token, Email: email}
}

// persist writes the entire document through the storage boundary.
func (s *Store) persist() error {
	data, err := json.Marshal(s.doc)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := s.storage.Save(data); err != nil {
		return fmt.Errorf("persist state: %w", err)
	}
	return nil
}

// applyTotals recomputes the derived amounts. An invoice whose items carry
// per-item rates uses the itemized policy; otherwise the store's fixed rate
// applies. The policies are never mixed on one invoice.
func (s *Store) applyTotals(inv *models.Invoice) {
	var t totals.Totals
	if itemized(inv.Items) {
		t = totals.ComputeItemized(inv.Items)
	} else {
		t = totals.ComputeWithRate(inv.Items, s.taxRate)
	}
	inv.Subtotal = t.Subtotal
	inv.TaxTotal = t.TaxTotal
	inv.Total = t.Total
}

func itemized(items []models.LineItem) bool {
	return lo.SomeBy(items, func(it models.LineItem) bool { return it.TaxRate != nil })
}
