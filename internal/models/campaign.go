package models

import (
	"errors"
	"time"
)

// Campaign groups the events of one target. Events reference a campaign by
// its ID through Event.Target.
type Campaign struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"userID" bson:"userID"`
	Name      string    `json:"name" bson:"name"`
	Target    string    `json:"target,omitempty" bson:"target,omitempty"` // creative/asset the campaign points at
	CreatedOn time.Time `json:"createdOn" bson:"createdOn"`
	UpdatedOn time.Time `json:"updatedOn" bson:"updatedOn"`
}

// Validate performs basic sanity checks on the campaign.
func (c *Campaign) Validate() error {
	if c == nil {
		return errors.New("campaign is nil")
	}
	if c.UserID == "" {
		return errors.New("userID is required")
	}
	if c.Name == "" {
		return errors.New("name is required")
	}
	return nil
}
