package services

import (
	"github.com/techstacks/techstacks-engine/pkg/auth"
	"github.com/techstacks/techstacks-engine/pkg/models"
)

// Authorization predicates for technology mutations. The rules are
// deliberately asymmetric: the lock flag gates updates but not deletes,
// and ownership gates deletes but not updates.

// CanCreateTechnology reports whether the actor may create a technology.
// Any authenticated actor may.
func CanCreateTechnology(actor auth.Actor) bool {
	return actor.ID != ""
}

// CanUpdateTechnology reports whether the actor may update the existing
// technology. Locked technologies are restricted to administrators;
// ownership is not checked.
func CanUpdateTechnology(actor auth.Actor, existing *models.Technology) bool {
	if existing.IsLocked && !actor.IsAdmin() {
		return false
	}
	return true
}

// CanDeleteTechnology reports whether the actor may delete the existing
// technology. Only the owner or an administrator may; the lock flag is
// not checked.
func CanDeleteTechnology(actor auth.Actor, existing *models.Technology) bool {
	if existing.OwnerID != actor.ID && !actor.IsAdmin() {
		return false
	}
	return true
}
