package domain

// Platform roles carried by the authenticated principal.
const (
	RoleEmployee = "EMPLOYEE"
	RoleManager  = "MANAGER"
	RoleHR       = "HR"
	RoleAdmin    = "ADMIN"
)

type EnforceRequest struct {
	Role     string `json:"role" binding:"required"`
	Resource string `json:"resource" binding:"required"`
	Action   string `json:"action" binding:"required"`
}

type EnforceResponse struct {
	Allowed bool `json:"allowed"`
}

// Permission is one role→resource→action grant in the static policy.
type Permission struct {
	Role     string
	Resource string
	Action   string
}
