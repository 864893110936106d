package domain

// User is the verified identity attached to a request by the auth boundary.
// Authentication itself lives outside this service; handlers only ever see
// an already-verified id and email.
type User struct {
	ID    string
	Email string
}
