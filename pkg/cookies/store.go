package cookies

import (
	"errors"
	"fmt"
	"net/http/cookiejar"
	"os"
	"path/filepath"
	"strings"
)

// Store persists cookie-jar text by account name
type Store interface {
	Save(account, jarText string) error
	Load(account string) (string, error)
	Delete(account string) error
	Exists(account string) bool
}

// Manager tries each store in order: the system keyring when it is usable,
// then the encrypted file.
type Manager struct {
	stores []Store
}

// ConfigDir is where the encrypted store lives
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "fmpd"), nil
}

// NewManager builds a Manager whose encrypted fallback is kept in dir
func NewManager(dir string) (*Manager, error) {
	var stores []Store

	keyringStore := NewKeyringStore()
	if keyringStore.Available() == nil {
		stores = append(stores, keyringStore)
	}

	encryptedStore, err := NewEncryptedFileStore(filepath.Join(dir, "cookies.enc"))
	if err != nil {
		return nil, fmt.Errorf("failed to create encrypted store: %w", err)
	}
	stores = append(stores, encryptedStore)

	return NewManagerWithStores(stores...), nil
}

// NewManagerWithStores builds a Manager over explicit stores
func NewManagerWithStores(stores ...Store) *Manager {
	return &Manager{stores: stores}
}

// Save stores jarText in the first store that accepts it
func (m *Manager) Save(account, jarText string) error {
	if account == "" {
		return ErrInvalidAccount
	}
	if err := validate(jarText); err != nil {
		return err
	}

	var lastErr error
	for _, s := range m.stores {
		if err := s.Save(account, jarText); err == nil {
			return nil
		} else {
			lastErr = err
		}
	}
	if lastErr != nil {
		return fmt.Errorf("failed to store cookies: %w", lastErr)
	}
	return errors.New("no available cookie stores")
}

// Load returns the jar text from the first store that has account
func (m *Manager) Load(account string) (string, error) {
	if account == "" {
		return "", ErrInvalidAccount
	}
	for _, s := range m.stores {
		if text, err := s.Load(account); err == nil {
			return text, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrAccountNotFound, account)
}

// LoadEntries parses the cookie jar stored for account
func (m *Manager) LoadEntries(account string) ([]Entry, error) {
	text, err := m.Load(account)
	if err != nil {
		return nil, err
	}
	return Parse(strings.NewReader(text))
}

// LoadJar returns a populated cookie jar for account
func (m *Manager) LoadJar(account string) (*cookiejar.Jar, error) {
	entries, err := m.LoadEntries(account)
	if err != nil {
		return nil, err
	}
	return NewJar(entries)
}

// Delete removes account from every store holding it
func (m *Manager) Delete(account string) error {
	if account == "" {
		return ErrInvalidAccount
	}
	deleted := false
	for _, s := range m.stores {
		if s.Exists(account) {
			if err := s.Delete(account); err != nil {
				return err
			}
			deleted = true
		}
	}
	if !deleted {
		return fmt.Errorf("%w: %s", ErrAccountNotFound, account)
	}
	return nil
}

// Exists reports whether any store holds account
func (m *Manager) Exists(account string) bool {
	for _, s := range m.stores {
		if s.Exists(account) {
			return true
		}
	}
	return false
}

// validate rejects text that is not a non-empty cookie-jar file
func validate(jarText string) error {
	entries, err := Parse(strings.NewReader(jarText))
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return ErrEmptyJar
	}
	return nil
}
