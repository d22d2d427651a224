package model

// Role mirrors the 'roles' table. The id is serialized as a string for
// compatibility with existing clients.
type Role struct {
	ID          int64  `json:"id,string"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
