package model

// GenerateRequest represents a stateless password generation request.
// A nil Length selects the default length; nil Classes selects every class,
// while an explicit empty list is passed through and rejected by validation.
type GenerateRequest struct {
	Length  *int     `json:"length"`
	Classes []string `json:"classes"`
}

// GenerateResponse represents a password generation response.
type GenerateResponse struct {
	Password string   `json:"password"`
	Length   int      `json:"length"`
	Classes  []string `json:"classes"`
}
