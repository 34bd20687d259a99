package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/techstacks/techstacks-engine/pkg/auth"
	"github.com/techstacks/techstacks-engine/pkg/models"
)

func TestCanCreateTechnology(t *testing.T) {
	assert.True(t, CanCreateTechnology(auth.Actor{ID: "u1"}))
	assert.False(t, CanCreateTechnology(auth.Actor{}))
}

func TestCanUpdateTechnology(t *testing.T) {
	owner := auth.Actor{ID: "owner"}
	stranger := auth.Actor{ID: "stranger"}
	admin := auth.Actor{ID: "root", Roles: []string{auth.RoleAdmin}}

	tests := []struct {
		name     string
		actor    auth.Actor
		existing *models.Technology
		allowed  bool
	}{
		{"unlocked allows anyone", stranger, &models.Technology{OwnerID: "owner"}, true},
		{"unlocked allows owner", owner, &models.Technology{OwnerID: "owner"}, true},
		{"locked denies non-admin owner", owner, &models.Technology{OwnerID: "owner", IsLocked: true}, false},
		{"locked denies stranger", stranger, &models.Technology{OwnerID: "owner", IsLocked: true}, false},
		{"locked allows admin", admin, &models.Technology{OwnerID: "owner", IsLocked: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanUpdateTechnology(tt.actor, tt.existing))
		})
	}
}

func TestCanDeleteTechnology(t *testing.T) {
	owner := auth.Actor{ID: "owner"}
	stranger := auth.Actor{ID: "stranger"}
	admin := auth.Actor{ID: "root", Roles: []string{auth.RoleAdmin}}

	tests := []struct {
		name     string
		actor    auth.Actor
		existing *models.Technology
		allowed  bool
	}{
		{"owner may delete", owner, &models.Technology{OwnerID: "owner"}, true},
		{"stranger may not", stranger, &models.Technology{OwnerID: "owner"}, false},
		{"admin may delete anything", admin, &models.Technology{OwnerID: "owner"}, true},
		// The lock gates updates, not deletes.
		{"owner may delete locked", owner, &models.Technology{OwnerID: "owner", IsLocked: true}, true},
		{"stranger may not delete unlocked", stranger, &models.Technology{OwnerID: "owner", IsLocked: false}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanDeleteTechnology(tt.actor, tt.existing))
		})
	}
}
