package model

// User is a registered shopper. Name is unique across users.
type User struct {
	ID           string `json:"id"`
	Name         string `json:"name" validate:"required"`
	PasswordHash string `json:"-" validate:"required"` // Never expose in JSON
}

// NewUser builds a validated user from a name and an already hashed password.
func NewUser(name, passwordHash string) (*User, error) {
	user := &User{Name: name, PasswordHash: passwordHash}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	return user, nil
}

// Validate checks the required fields.
func (u *User) Validate() error {
	return check("user", u)
}
