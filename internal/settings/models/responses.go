package models

// TypesResponse is the API response for an update that changed the resource
// folder: the resource type names available in the rebound domain.
type TypesResponse struct {
	Types []string `json:"types"`
}

// UnavailableResponse is the API response when the resource domain could not
// be established and the previous configuration was retained.
type UnavailableResponse struct {
	Error   string `json:"error"` // "domain_unavailable"
	Message string `json:"message"`
}
