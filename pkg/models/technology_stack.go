package models

import "time"

// TechnologyStack is a named collection of technologies. This service only
// reads stacks to answer reverse lookups; it never mutates them.
type TechnologyStack struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	SlugTitle      string    `json:"slug_title"`
	Description    string    `json:"description"`
	OwnerID        string    `json:"owner_id"`
	CreatedAt      time.Time `json:"created_at"`
	LastModifiedAt time.Time `json:"last_modified_at"`
}

// TechnologyChoice joins a technology to a stack.
type TechnologyChoice struct {
	ID                int64 `json:"id"`
	TechnologyID      int64 `json:"technology_id"`
	TechnologyStackID int64 `json:"technology_stack_id"`
}
