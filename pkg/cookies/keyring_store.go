package cookies

import (
	"errors"
	"fmt"
	"net/http/cookiejar"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "fmpd"
	keyringPrefix  = "cookies_"
)

var (
	ErrAccountNotFound = errors.New("no cookie jar stored for account")
	ErrInvalidAccount  = errors.New("account name is required")
)

// KeyringStore keeps raw cookie-jar text in the system keychain, one entry
// per account name.
type KeyringStore struct {
	service string
}

// NewKeyringStore creates a keyring-backed cookie store
func NewKeyringStore() *KeyringStore {
	return &KeyringStore{service: keyringService}
}

// Available reports whether the system keychain accepts writes
func (k *KeyringStore) Available() error {
	testKey := "test_availability"
	if err := keyring.Set(k.service, testKey, "test"); err != nil {
		return fmt.Errorf("keyring not available: %w", err)
	}
	_ = keyring.Delete(k.service, testKey)
	return nil
}

// Save validates jarText as a cookie-jar file and stores it under account
func (k *KeyringStore) Save(account, jarText string) error {
	if account == "" {
		return ErrInvalidAccount
	}

	if err := validate(jarText); err != nil {
		return err
	}

	if err := keyring.Set(k.service, keyringPrefix+account, jarText); err != nil {
		return fmt.Errorf("failed to store in keyring: %w", err)
	}
	return nil
}

// Load returns the cookie-jar text stored for account
func (k *KeyringStore) Load(account string) (string, error) {
	if account == "" {
		return "", ErrInvalidAccount
	}

	data, err := keyring.Get(k.service, keyringPrefix+account)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", fmt.Errorf("%w: %s", ErrAccountNotFound, account)
		}
		return "", fmt.Errorf("failed to retrieve from keyring: %w", err)
	}
	return data, nil
}

// LoadEntries parses the cookie jar stored for account
func (k *KeyringStore) LoadEntries(account string) ([]Entry, error) {
	data, err := k.Load(account)
	if err != nil {
		return nil, err
	}
	return Parse(strings.NewReader(data))
}

// LoadJar returns a populated cookie jar for account
func (k *KeyringStore) LoadJar(account string) (*cookiejar.Jar, error) {
	entries, err := k.LoadEntries(account)
	if err != nil {
		return nil, err
	}
	return NewJar(entries)
}

// Delete removes the cookie jar stored for account
func (k *KeyringStore) Delete(account string) error {
	if account == "" {
		return ErrInvalidAccount
	}

	if err := keyring.Delete(k.service, keyringPrefix+account); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrAccountNotFound, account)
		}
		return fmt.Errorf("failed to delete from keyring: %w", err)
	}
	return nil
}

// Exists reports whether a cookie jar is stored for account
func (k *KeyringStore) Exists(account string) bool {
	if account == "" {
		return false
	}
	_, err := keyring.Get(k.service, keyringPrefix+account)
	return err == nil
}
