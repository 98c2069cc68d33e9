package api

// Request bodies accept the snake_case names and the camelCase names used by
// older clients.

type registerInput struct {
	Email          string `json:"email"`
	Handle         string `json:"handle"`
	Username       string `json:"username"`
	Password       string `json:"password"`
	FirstName      string `json:"first_name"`
	FirstNameOld   string `json:"firstName"`
	LastName       string `json:"last_name"`
	LastNameOld    string `json:"lastName"`
	SecretAnswer   string `json:"secret_answer"`
	RecoveryAnswer string `json:"recoveryAnswer"`
}

type loginInput struct {
	Identifier string `json:"identifier"`
	Email      string `json:"email"`
	Password   string `json:"password"`
}

type recoveryInput struct {
	Email          string `json:"email"`
	SecretAnswer   string `json:"secret_answer"`
	RecoveryAnswer string `json:"recoveryAnswer"`
	NewPassword    string `json:"new_password"`
	Password       string `json:"password"`
}
