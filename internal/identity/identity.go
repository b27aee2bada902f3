// Package identity persists which player this client acts as, so the session
// survives restarts.
package identity

import (
	"context"
	"strings"

	"github.com/osse101/CozyCasino_Go/internal/domain"
)

// Namespaces
const (
	NamespaceLocal         = "local"
	namespaceDiscordPrefix = "discord:"
)

// Stored keys
const (
	KeyUserID      = "user_id"
	KeyDisplayName = "display_name"
)

// Error messages
const (
	ErrMsgPathRequired      = "identity database path is required"
	ErrMsgNamespaceRequired = "identity namespace is required"
	ErrMsgRequired          = "is required"
)

// Store persists the identity of a single session
type Store interface {
	// Load returns false when no identity has been saved
	Load(ctx context.Context) (domain.Identity, bool, error)
	// Save durably stores both values at once
	Save(ctx context.Context, userID, displayName string) error
	Clear(ctx context.Context) error
}

// DiscordNamespace returns the namespace holding a Discord user's identity
func DiscordNamespace(discordUserID string) string {
	return namespaceDiscordPrefix + discordUserID
}

func validate(userID, displayName string) error {
	if strings.TrimSpace(userID) == "" {
		return domain.NewValidationError(domain.FieldUserID, ErrMsgRequired)
	}
	if strings.TrimSpace(displayName) == "" {
		return domain.NewValidationError(domain.FieldDisplayName, ErrMsgRequired)
	}
	return nil
}
