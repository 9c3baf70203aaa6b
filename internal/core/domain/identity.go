package domain

import "github.com/google/uuid"

// IdentityKind discriminates who cast a ballot.
type IdentityKind string

const (
	IdentityUser  IdentityKind = "user"
	IdentityGuest IdentityKind = "guest"
)

// VoterIdentity is the canonical answer to "who is voting": exactly one of an
// authenticated user id or an anonymous guest id. The two-nullable-column
// shape only exists at the storage boundary; everywhere else this union is
// used so an identity can never be both or neither.
type VoterIdentity struct {
	Kind    IdentityKind
	UserID  uuid.UUID // valid when Kind == IdentityUser
	GuestID string    // valid when Kind == IdentityGuest
}

func AuthenticatedVoter(userID uuid.UUID) VoterIdentity {
	return VoterIdentity{Kind: IdentityUser, UserID: userID}
}

func AnonymousVoter(guestID string) VoterIdentity {
	return VoterIdentity{Kind: IdentityGuest, GuestID: guestID}
}

func (v VoterIdentity) IsAnonymous() bool {
	return v.Kind == IdentityGuest
}
