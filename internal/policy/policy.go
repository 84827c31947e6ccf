// Package policy is the access-control decision layer: pure functions from
// (actor, operation, target) to allow/deny. It never touches the store;
// callers load the target (with its owning profiles) first.
//
// Denials are always Forbidden, never NotFound — including object-level
// fetches of consultations the actor does not own.
package policy

import (
	"github.com/clinicore/clinic-backend/internal/actor"
	"github.com/clinicore/clinic-backend/internal/apperr"
	"github.com/clinicore/clinic-backend/internal/models"
)

// Op is an operation being authorized.
type Op string

const (
	OpCreate       Op = "create"
	OpRead         Op = "read"
	OpUpdate       Op = "update"
	OpDelete       Op = "delete"
	OpChangeStatus Op = "change_status"
)

// Authorize decides whether a may perform op on target. target is one of the
// model pointers; consultations must have Doctor and Patient preloaded so
// ownership can be checked without a store round trip.
func Authorize(a actor.Actor, op Op, target any) error {
	switch t := target.(type) {
	case *models.Consultation:
		return authorizeConsultation(a, op, t)
	case *models.Clinic, *models.Doctor, *models.Patient:
		return authorizeDirectory(a, op)
	}
	return apperr.Forbidden("operation not permitted")
}

func authorizeConsultation(a actor.Actor, op Op, c *models.Consultation) error {
	switch op {
	case OpCreate:
		// Admin-only regardless of the per-role rules below.
		if a.Role == models.RoleAdmin {
			return nil
		}
		return apperr.Forbidden("only administrators may create consultations")

	case OpRead:
		switch a.Role {
		case models.RoleAdmin:
			return nil
		case models.RoleDoctor:
			if c.Doctor.UserID == a.UserID {
				return nil
			}
			return apperr.Forbidden("doctors may only view their own consultations")
		case models.RolePatient:
			if c.Patient.UserID == a.UserID {
				return nil
			}
			return apperr.Forbidden("patients may only view their own consultations")
		}
		return apperr.Forbidden("operation not permitted")

	case OpUpdate, OpDelete:
		if a.Role == models.RoleAdmin {
			return nil
		}
		return apperr.Forbidden("only administrators may modify consultations")

	case OpChangeStatus:
		if a.Role != models.RoleDoctor {
			return apperr.Forbidden("only doctors may change consultation status")
		}
		if c.Doctor.UserID != a.UserID {
			return apperr.Forbidden("doctors may only change status of their own consultations")
		}
		return nil
	}
	return apperr.Forbidden("operation not permitted")
}

func authorizeDirectory(a actor.Actor, op Op) error {
	switch op {
	case OpRead:
		switch a.Role {
		case models.RoleAdmin, models.RoleDoctor, models.RolePatient:
			return nil
		}
		return apperr.Forbidden("operation not permitted")

	case OpCreate:
		// The staff flag is required in addition to the admin role; it is a
		// separate privileged-operator bit, not implied by the role enum.
		if a.Role != models.RoleAdmin {
			return apperr.Forbidden("only administrators may create directory records")
		}
		if !a.IsStaff {
			return apperr.Forbidden("staff privileges required to create directory records")
		}
		return nil

	case OpUpdate, OpDelete:
		if a.Role == models.RoleAdmin {
			return nil
		}
		return apperr.Forbidden("only administrators may modify directory records")
	}
	return apperr.Forbidden("operation not permitted")
}
