package models

// PortalMode is the request mode understood by the portal.
type PortalMode int

// Portal request modes.
const (
	ModeLogin  PortalMode = 191
	ModeLogout PortalMode = 193
)

// Portal status literals.
const (
	StatusLive  = "LIVE"
	StatusError = "ERROR"
)

// PortalResponse holds the two leaf elements the portal answers with.
type PortalResponse struct {
	Status  string
	Message string
}

// LoginResult holds the result of a login or logout request.
type LoginResult struct {
	Succeeded bool
	Status    string
	Message   string
}
