package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rankpoll/api/internal/core/domain"
	"github.com/rankpoll/api/internal/core/ports"
)

type identityResolver struct {
	verifier ports.TokenVerifier
}

func NewIdentityResolver(verifier ports.TokenVerifier) ports.IdentityResolver {
	return &identityResolver{verifier: verifier}
}

func (r *identityResolver) Resolve(ctx context.Context, credential, guestID string, allowAnonymous bool) (domain.VoterIdentity, bool, error) {
	if credential != "" {
		if userID, err := r.verifier.Verify(ctx, credential); err == nil {
			return domain.AuthenticatedVoter(userID), false, nil
		}
		// An expired or garbled credential falls through to the anonymous
		// path, same as no credential at all.
	}

	if !allowAnonymous {
		return domain.VoterIdentity{}, false, domain.ErrAuthRequired
	}

	if _, err := uuid.Parse(guestID); err == nil {
		return domain.AnonymousVoter(guestID), false, nil
	}

	return domain.AnonymousVoter(uuid.NewString()), true, nil
}
