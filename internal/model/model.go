package model

import "time"

type Herb struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	NameLatin     string    `json:"name_latin"`
	Character     string    `json:"character"`
	Usage         string    `json:"usage"`
	NaturalSource string    `json:"natural_source"`
	Content       string    `json:"content"`
	Photo         string    `json:"photo,omitempty"`
	PhotoURL      string    `json:"photo_url,omitempty"`
	IsDeleted     bool      `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
}
