package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/rankpoll/api/internal/core/domain"
)

// TokenVerifier is the identity-provider collaborator: it checks a bearer
// credential and yields the authenticated user id.
type TokenVerifier interface {
	Verify(ctx context.Context, credential string) (uuid.UUID, error)
}

type IdentityResolver interface {
	// Resolve derives the canonical voter identity for a request. A
	// credential that fails verification is treated exactly like an absent
	// one. minted reports that a fresh guest id was generated and should be
	// returned to the client.
	Resolve(ctx context.Context, credential, guestID string, allowAnonymous bool) (identity domain.VoterIdentity, minted bool, err error)
}
