package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/dmitrijs2005/gophnotes/internal/cryptox"
)

var errPINMismatch = errors.New("PINs do not match")

const vaultUsage = "vault setup|unlock|lock|status|encrypt <id>|decrypt <id>"

func (a *App) vault(ctx context.Context, args []string) error {
	sub, rest := args[0], args[1:]
	needID := func() (string, error) {
		if len(rest) < 1 {
			return "", fmt.Errorf("usage: vault %s <note id>", sub)
		}
		return rest[0], nil
	}

	switch sub {
	case "setup":
		return a.vaultSetup(ctx)
	case "unlock":
		pin, err := GetPassword(a.out, "PIN")
		if err != nil {
			return err
		}
		defer cryptox.Wipe(pin)
		if err := a.Vault.Unlock(ctx, pin); err != nil {
			return err
		}
		a.printf("Vault unlocked\n")
		return nil
	case "lock":
		a.Vault.Lock()
		a.printf("Vault locked\n")
		return nil
	case "status":
		st, err := a.Vault.Status(ctx)
		if err != nil {
			return err
		}
		switch {
		case !st.Configured:
			a.printf("Vault: not set up\n")
		case st.Unlocked:
			a.printf("Vault: unlocked\n")
		default:
			a.printf("Vault: locked\n")
		}
		return nil
	case "encrypt":
		id, err := needID()
		if err != nil {
			return err
		}
		if err := a.Vault.Encrypt(ctx, id); err != nil {
			return err
		}
		a.printf("Note %s encrypted\n", id)
		return nil
	case "decrypt":
		id, err := needID()
		if err != nil {
			return err
		}
		if err := a.Vault.Decrypt(ctx, id); err != nil {
			return err
		}
		a.printf("Note %s decrypted\n", id)
		return nil
	}
	return fmt.Errorf("usage: %s", vaultUsage)
}

func (a *App) vaultSetup(ctx context.Context) error {
	pin, err := GetPassword(a.out, "New PIN")
	if err != nil {
		return err
	}
	defer cryptox.Wipe(pin)
	again, err := GetPassword(a.out, "Repeat PIN")
	if err != nil {
		return err
	}
	defer cryptox.Wipe(again)
	if !bytes.Equal(pin, again) {
		return errPINMismatch
	}
	if err := a.Vault.Setup(ctx, pin); err != nil {
		return err
	}
	a.printf("Vault ready and unlocked\n")
	return nil
}

// noteContent returns what showNote prints for n.
func (a *App) noteContent(ctx context.Context, n *models.Note) string {
	if !n.Encrypted {
		return n.Content
	}
	plain, err := a.Vault.Reveal(ctx, n.ID)
	if err != nil {
		return fmt.Sprintf("[encrypted: %v]", err)
	}
	return plain
}
