package domain

import "time"

// Event is a past-events gallery entry.
type Event struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Description string    `bson:"description" json:"description"`
	Photo       string    `bson:"photo" json:"photo"`
	Year        time.Time `bson:"year" json:"year"`
	Playlist    string    `bson:"playlist,omitempty" json:"playlist,omitempty"`
}

// Emcee is a roster entry for the featured-emcees page.
type Emcee struct {
	ID         string `bson:"_id,omitempty" json:"id"`
	Name       string `bson:"name" json:"name"`
	Hometown   string `bson:"hometown" json:"hometown"`
	Reppin     string `bson:"reppin" json:"reppin"`
	Background string `bson:"background" json:"background"`
	Image      string `bson:"image" json:"image"`
}
