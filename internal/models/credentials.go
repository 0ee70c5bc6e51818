package models

import "strings"

// Credentials holds the portal username and password.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Complete reports whether both fields are set. Whitespace-only values count as missing.
func (c *Credentials) Complete() bool {
	return c != nil && strings.TrimSpace(c.Username) != "" && strings.TrimSpace(c.Password) != ""
}
