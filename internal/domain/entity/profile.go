// Package entity contains the core business objects of the pricing console.
package entity

import "encoding/json"

// UserType is the role a backend account plays in the pricing product.
type UserType string

const (
	UserTypeAdmin    UserType = "admin"
	UserTypeBuyer    UserType = "buyer"
	UserTypeSupplier UserType = "supplier"
	UserTypeAnalyst  UserType = "analyst"
)

// String returns the string representation of the UserType.
func (u UserType) String() string {
	return string(u)
}

// IsValid checks if the UserType is a valid value.
func (u UserType) IsValid() bool {
	switch u {
	case UserTypeAdmin, UserTypeBuyer, UserTypeSupplier, UserTypeAnalyst:
		return true
	default:
		return false
	}
}

// Profile is the snapshot of the signed-in account returned at login.
// It is replaced wholesale on every login and never patched.
type Profile struct {
	ID        int64    `json:"id"`
	Username  string   `json:"username"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Email     string   `json:"email,omitempty"`
	UserType  UserType `json:"user_type"`
	Company   string   `json:"company,omitempty"`
	Phone     string   `json:"phone,omitempty"`
}

// FullName joins first and last name.
func (p *Profile) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	default:
		return p.FirstName + " " + p.LastName
	}
}

// UnmarshalJSON accepts both the flat stored form and the API form, where
// user_type, company and phone are nested under "profile".
func (p *Profile) UnmarshalJSON(data []byte) error {
	type flat Profile
	var raw struct {
		flat
		Nested *struct {
			UserType UserType `json:"user_type"`
			Company  string   `json:"company"`
			Phone    string   `json:"phone"`
		} `json:"profile"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*p = Profile(raw.flat)
	if raw.Nested != nil {
		if p.UserType == "" {
			p.UserType = raw.Nested.UserType
		}
		if p.Company == "" {
			p.Company = raw.Nested.Company
		}
		if p.Phone == "" {
			p.Phone = raw.Nested.Phone
		}
	}

	return nil
}

// UserSummary is the minimal user representation embedded in other resources.
type UserSummary struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Registration is the sign-up payload accepted by the auth API.
type Registration struct {
	Username        string   `json:"username" validate:"required"`
	Password        string   `json:"password" validate:"required,min=8"`
	ConfirmPassword string   `json:"confirm_password" validate:"required,eqfield=Password"`
	Email           string   `json:"email" validate:"required,email"`
	FirstName       string   `json:"first_name" validate:"required"`
	LastName        string   `json:"last_name" validate:"required"`
	Profile         struct {
		UserType UserType `json:"user_type" validate:"required,oneof=admin buyer supplier analyst"`
		Company  string   `json:"company,omitempty"`
		Phone    string   `json:"phone,omitempty"`
	} `json:"profile"`
}
