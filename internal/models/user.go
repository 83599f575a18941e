package models

// User represents a user record held by the aggregator
type User struct {
	ID          string         `json:"id"`
	Email       string         `json:"email"`
	Mobile      string         `json:"mobile,omitempty"`
	Connections ConnectionList `json:"connections,omitempty"`
}

// UserRequest is the body for creating or updating a remote user
type UserRequest struct {
	Email  string `json:"email"`
	Mobile string `json:"mobile,omitempty"`
}
