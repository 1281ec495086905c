package models

// User is an account record. Created on signup and read on every login and
// refresh; never mutated or deleted by this service.
type User struct {
	Email         Email
	PasswordHash  string
	RequiresTwoFA bool
}
