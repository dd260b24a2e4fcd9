package domain

// User is the identity decoded from a session token. It is never fetched on
// its own; technicians listed for assignment reuse the same shape.
type User struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}
