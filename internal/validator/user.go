package validator

import (
	"github.com/gramseva/api/internal/model"
)

// UserInput is the registration shape. The password arrives in clear and is
// hashed before it ever reaches the store.
type UserInput struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	FullName     string `json:"fullName"`
	Role         string `json:"role"`
	MobileNumber string `json:"mobileNumber"`
	Email        string `json:"email"`
	VillageName  string `json:"villageName"`
}

func (in *UserInput) Validate() error {
	var verr ValidationError

	if in.Username == "" {
		verr.add("username", "username is required")
	}
	if len(in.Password) < 8 {
		verr.add("password", "password must be at least 8 characters")
	}
	if in.FullName == "" {
		verr.add("fullName", "fullName is required")
	}
	if in.MobileNumber == "" {
		verr.add("mobileNumber", "mobileNumber is required")
	}
	if in.Role != "" && in.Role != model.RoleCitizen && in.Role != model.RoleOfficial {
		verr.add("role", "role must be citizen or official")
	}

	return verr.orNil()
}
