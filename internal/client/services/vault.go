package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/dmitrijs2005/gophnotes/internal/client/replica"
	"github.com/dmitrijs2005/gophnotes/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophnotes/internal/cryptox"
)

const minPINLength = 4

// VaultStatus describes the local vault.
type VaultStatus struct {
	Configured bool
	Unlocked   bool
}

// VaultService keeps selected notes encrypted under a PIN.
//
// The salt and a verifier of the derived key live in local settings only.
// Encrypted notes are saved as ordinary updates whose content is sealed text,
// so the server and the mutation queue never see the plaintext. The key is
// held in memory between Unlock and Lock.
type VaultService interface {
	Setup(ctx context.Context, pin []byte) error
	Unlock(ctx context.Context, pin []byte) error
	Lock()
	Status(ctx context.Context) (VaultStatus, error)

	// Encrypt seals the content of a plain note.
	Encrypt(ctx context.Context, noteID string) error
	// Decrypt turns an encrypted note back into a plain one.
	Decrypt(ctx context.Context, noteID string) error
	// Reveal returns the plaintext content of an encrypted note.
	Reveal(ctx context.Context, noteID string) (string, error)
	// Write replaces the content of an encrypted note.
	Write(ctx context.Context, noteID, content string) error
}

type vaultService struct {
	store replica.Store
	now   func() time.Time

	mu  sync.Mutex
	key []byte
}

func NewVaultService(store replica.Store) VaultService {
	return &vaultService{store: store, now: func() time.Time { return time.Now().UTC() }}
}

func (s *vaultService) params(ctx context.Context) (salt, verifier []byte, err error) {
	if salt, err = s.store.Setting(ctx, metadata.KeyVaultSalt); err != nil {
		return nil, nil, err
	}
	if verifier, err = s.store.Setting(ctx, metadata.KeyVaultVerifier); err != nil {
		return nil, nil, err
	}
	return salt, verifier, nil
}

func (s *vaultService) Setup(ctx context.Context, pin []byte) error {
	if len(pin) < minPINLength {
		return ErrPINTooShort
	}
	salt, _, err := s.params(ctx)
	if err != nil {
		return err
	}
	if salt != nil {
		return ErrVaultExists
	}

	salt, err = cryptox.NewSalt()
	if err != nil {
		return fmt.Errorf("salt: %w", err)
	}
	key := cryptox.DeriveKey(pin, salt)
	if err := s.store.SetSetting(ctx, metadata.KeyVaultVerifier, cryptox.MakeVerifier(key)); err != nil {
		return err
	}
	if err := s.store.SetSetting(ctx, metadata.KeyVaultSalt, salt); err != nil {
		return err
	}
	s.setKey(key)
	return nil
}

func (s *vaultService) Unlock(ctx context.Context, pin []byte) error {
	salt, verifier, err := s.params(ctx)
	if err != nil {
		return err
	}
	if salt == nil || verifier == nil {
		return ErrVaultNotConfigured
	}
	key := cryptox.DeriveKey(pin, salt)
	if !cryptox.Verify(key, verifier) {
		cryptox.Wipe(key)
		return ErrWrongPIN
	}
	s.setKey(key)
	return nil
}

func (s *vaultService) setKey(key []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cryptox.Wipe(s.key)
	s.key = key
}

func (s *vaultService) Lock() {
	s.setKey(nil)
}

func (s *vaultService) Status(ctx context.Context) (VaultStatus, error) {
	salt, _, err := s.params(ctx)
	if err != nil {
		return VaultStatus{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return VaultStatus{Configured: salt != nil, Unlocked: s.key != nil}, nil
}

// withKey runs fn with the unlocked key.
func (s *vaultService) withKey(fn func(key []byte) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.key == nil {
		return ErrVaultLocked
	}
	return fn(s.key)
}

// update loads a note, lets fn change it under the key and saves it as an
// UPDATE.
func (s *vaultService) update(ctx context.Context, noteID string, fn func(n *models.Note, key []byte) error) error {
	n, err := s.store.GetNote(ctx, noteID)
	if err != nil {
		return fmt.Errorf("note %s: %w", noteID, err)
	}
	if err := s.withKey(func(key []byte) error { return fn(n, key) }); err != nil {
		return err
	}
	n.UpdatedAt = s.now()
	if err := s.store.SaveNote(ctx, n, models.MutationUpdate); err != nil {
		return fmt.Errorf("saving error: %w", err)
	}
	return nil
}

func (s *vaultService) Encrypt(ctx context.Context, noteID string) error {
	return s.update(ctx, noteID, func(n *models.Note, key []byte) error {
		if n.Encrypted {
			return fmt.Errorf("note %s: %w", noteID, ErrNoteEncrypted)
		}
		sealed, err := cryptox.Seal(n.Content, key)
		if err != nil {
			return err
		}
		n.Content, n.Encrypted = sealed, true
		return nil
	})
}

func (s *vaultService) Decrypt(ctx context.Context, noteID string) error {
	return s.update(ctx, noteID, func(n *models.Note, key []byte) error {
		plain, err := openNote(n, key)
		if err != nil {
			return err
		}
		n.Content, n.Encrypted = plain, false
		return nil
	})
}

func (s *vaultService) Write(ctx context.Context, noteID, content string) error {
	return s.update(ctx, noteID, func(n *models.Note, key []byte) error {
		if !n.Encrypted {
			return fmt.Errorf("note %s: %w", noteID, ErrNoteNotEncrypted)
		}
		sealed, err := cryptox.Seal(content, key)
		if err != nil {
			return err
		}
		n.Content = sealed
		return nil
	})
}

func (s *vaultService) Reveal(ctx context.Context, noteID string) (string, error) {
	n, err := s.store.GetNote(ctx, noteID)
	if err != nil {
		return "", fmt.Errorf("note %s: %w", noteID, err)
	}
	var plain string
	err = s.withKey(func(key []byte) error {
		plain, err = openNote(n, key)
		return err
	})
	return plain, err
}

func openNote(n *models.Note, key []byte) (string, error) {
	if !n.Encrypted {
		return "", fmt.Errorf("note %s: %w", n.ID, ErrNoteNotEncrypted)
	}
	plain, err := cryptox.Open(n.Content, key)
	if errors.Is(err, cryptox.ErrOpen) {
		return "", fmt.Errorf("note %s was sealed with another PIN: %w", n.ID, err)
	}
	return plain, err
}
