package entity

// ApiClient is the caller identified by a bearer token on the HTTP API.
type ApiClient struct {
	Name string `json:"name"`
}
