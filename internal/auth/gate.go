package auth

import (
	"ms-booths/internal/apperr"
)

type Role int

const (
	RoleNone Role = iota
	RoleGlobal
	RoleBooth
)

func (r Role) String() string {
	switch r {
	case RoleGlobal:
		return "MASTER"
	case RoleBooth:
		return "BOOTH"
	default:
		return ""
	}
}

// Principal is the classified caller: unauthenticated, global, or scoped to
// exactly one booth. BoothID is set only for RoleBooth.
type Principal struct {
	Role    Role
	BoothID string
}

func Global() Principal { return Principal{Role: RoleGlobal} }

func BoothScoped(boothID string) Principal { return Principal{Role: RoleBooth, BoothID: boothID} }

// Authorize reports whether the principal may act on boothID.
func (p Principal) Authorize(boothID string) error {
	switch p.Role {
	case RoleGlobal:
		return nil
	case RoleBooth:
		if p.BoothID == boothID {
			return nil
		}
		return apperr.Forbiddenf("forbidden: credential is scoped to another booth")
	default:
		return apperr.Unauthenticatedf("unauthorized: admin key required")
	}
}

// RequireGlobal rejects every principal except the global operator.
func (p Principal) RequireGlobal() error {
	switch p.Role {
	case RoleGlobal:
		return nil
	case RoleBooth:
		return apperr.Forbiddenf("master key required")
	default:
		return apperr.Unauthenticatedf("unauthorized: admin key required")
	}
}

// CredentialLookup resolves a booth admin key to the booth it belongs to.
type CredentialLookup interface {
	BoothIDByCredential(key string) (string, bool)
}

// Gate classifies credentials. It is a static lookup: keys never expire.
type Gate struct {
	globalKey string
	booths    CredentialLookup
}

func NewGate(globalKey string, booths CredentialLookup) *Gate {
	return &Gate{globalKey: globalKey, booths: booths}
}

// Identify maps a presented credential to a principal. The global key is
// checked before booth keys.
func (g *Gate) Identify(credential string) (Principal, error) {
	if credential == "" {
		return Principal{}, apperr.Unauthenticatedf("unauthorized: admin key required")
	}
	if g.globalKey != "" && credential == g.globalKey {
		return Global(), nil
	}
	if g.booths != nil {
		if boothID, ok := g.booths.BoothIDByCredential(credential); ok {
			return BoothScoped(boothID), nil
		}
	}
	return Principal{}, apperr.Unauthenticatedf("unauthorized: invalid admin key")
}
