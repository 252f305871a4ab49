package models

import (
	"errors"
	"strings"
	"time"
)

// User is an account that owns campaigns. Password holds the bcrypt hash and
// is never serialized to API responses.
type User struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Email     string    `json:"email" bson:"email"`
	Website   string    `json:"website,omitempty" bson:"website,omitempty"`
	Password  string    `json:"-" bson:"password"`
	CreatedOn time.Time `json:"createdOn" bson:"createdOn"`
	UpdatedOn time.Time `json:"updatedOn" bson:"updatedOn"`
}

// Validate checks that required fields are present.  Only the email is
// mandatory; name and website are optional.
func (u *User) Validate() error {
	if u == nil {
		return errors.New("user is nil")
	}
	if strings.TrimSpace(u.Email) == "" {
		return errors.New("email is required")
	}
	if !strings.Contains(u.Email, "@") {
		return errors.New("email is invalid")
	}
	return nil
}
