package roles

import "strings"

type Role string

const (
	Admin  Role = "ADMIN"
	Worker Role = "WORKER"
	Client Role = "CLIENT"
)

func (r Role) Valid() bool {
	switch r {
	case Admin, Worker, Client:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// Parse accepts any casing ("worker", "Worker") and surrounding spaces.
func Parse(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	return r, r.Valid()
}
