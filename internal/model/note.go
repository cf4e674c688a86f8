package model

import "time"

type Note struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"user_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (n *Note) SetOwner(ownerID int64) { n.OwnerID = ownerID }

type NoteRequest struct {
	Body string `json:"body" binding:"required,max=65535"`
}

type Category struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"user_id"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Category) SetOwner(ownerID int64) { c.OwnerID = ownerID }

type CategoryRequest struct {
	Label string `json:"label" binding:"required,max=255"`
}
