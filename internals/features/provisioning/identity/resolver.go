// Package identity resolves roster rows to account identities keyed by normalized email.
//
// A Resolver lives for a single provisioning invocation. Rosters resolved through the same
// Resolver share one key space, so an email claimed by the student roster cannot also
// become a faculty account in the same call.
package identity

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	helper "campusku_backend/internals/helpers"
)

type Class string

const (
	ClassExisting  Class = "existing"
	ClassNew       Class = "new"
	ClassDuplicate Class = "duplicate"
)

const (
	ReasonMissingEmail   = "email is required"
	ReasonMalformedEmail = "email is malformed"
	ReasonRoleConflict   = "email already belongs to another role"
)

// Existing is what storage already holds for a normalized email.
type Existing struct {
	ID   uuid.UUID
	Role string
}

// Lookup returns stored accounts for the given normalized emails in one round trip.
type Lookup func(ctx context.Context, emails []string) (map[string]Existing, error)

// Key is one roster row as seen by the resolver.
type Key struct {
	Row   int
	Email string
}

type Resolution struct {
	Row   int
	Email string
	ID    uuid.UUID
	Class Class
}

type Rejection struct {
	Row    int
	Email  string
	Reason string
}

type Result struct {
	// accepted rows, input order
	Rows []Resolution
	// identities to create, one per new key, discovery order
	Created  []Resolution
	Rejected []Rejection

	ExistingCount  int
	DuplicateCount int
}

type claim struct {
	id   uuid.UUID
	role string
	// loaded from storage rather than minted in this invocation
	stored bool
}

type Resolver struct {
	lookup  Lookup
	newID   func() uuid.UUID
	claimed map[string]claim
}

var validate = validator.New()

func NewResolver(lookup Lookup) *Resolver {
	return &Resolver{
		lookup:  lookup,
		newID:   uuid.New,
		claimed: map[string]claim{},
	}
}

// Resolve classifies keys for role. Malformed rows are rejected without stopping the batch.
func (r *Resolver) Resolve(ctx context.Context, role string, keys []Key) (*Result, error) {
	res := &Result{}
	if len(keys) == 0 {
		return res, nil
	}

	normalized := make([]string, len(keys))
	var fresh []string
	seen := map[string]bool{}
	for i, k := range keys {
		email := helper.NormalizeEmail(k.Email)
		normalized[i] = email
		if email == "" || validate.Var(email, "email") != nil {
			continue
		}
		if _, ok := r.claimed[email]; ok || seen[email] {
			continue
		}
		seen[email] = true
		fresh = append(fresh, email)
	}

	stored := map[string]Existing{}
	if len(fresh) > 0 {
		var err error
		if stored, err = r.lookup(ctx, fresh); err != nil {
			return nil, err
		}
	}

	for i, k := range keys {
		email := normalized[i]
		switch {
		case email == "":
			res.Rejected = append(res.Rejected, Rejection{Row: k.Row, Email: k.Email, Reason: ReasonMissingEmail})
			continue
		case validate.Var(email, "email") != nil:
			res.Rejected = append(res.Rejected, Rejection{Row: k.Row, Email: k.Email, Reason: ReasonMalformedEmail})
			continue
		}

		if c, ok := r.claimed[email]; ok {
			if c.role != role {
				res.Rejected = append(res.Rejected, Rejection{Row: k.Row, Email: email, Reason: ReasonRoleConflict})
				continue
			}
			if c.stored {
				res.ExistingCount++
				res.Rows = append(res.Rows, Resolution{Row: k.Row, Email: email, ID: c.id, Class: ClassExisting})
				continue
			}
			res.DuplicateCount++
			res.Rows = append(res.Rows, Resolution{Row: k.Row, Email: email, ID: c.id, Class: ClassDuplicate})
			continue
		}

		if ex, ok := stored[email]; ok {
			if ex.Role != role {
				res.Rejected = append(res.Rejected, Rejection{Row: k.Row, Email: email, Reason: ReasonRoleConflict})
				continue
			}
			r.claimed[email] = claim{id: ex.ID, role: role, stored: true}
			res.ExistingCount++
			res.Rows = append(res.Rows, Resolution{Row: k.Row, Email: email, ID: ex.ID, Class: ClassExisting})
			continue
		}

		id := r.newID()
		r.claimed[email] = claim{id: id, role: role}
		rv := Resolution{Row: k.Row, Email: email, ID: id, Class: ClassNew}
		res.Rows = append(res.Rows, rv)
		res.Created = append(res.Created, rv)
	}
	return res, nil
}
