package model

// Identity is the resolved caller of a request.
type Identity struct {
	UserId    string `json:"userId"`
	IsAdmin   bool   `json:"isAdmin"`
	Anonymous bool   `json:"anonymous"`
}
