package rbac

import "go-workforce/internal/domain"

// DefaultPolicy is the immutable role→capability table resolved once at
// process start and handed to NewService. Nothing mutates it afterwards.
func DefaultPolicy() []domain.Permission {
	grants := []domain.Permission{
		// Review cycles are an HR/administrative workflow.
		{Role: domain.RoleHR, Resource: "review_cycle", Action: "read"},
		{Role: domain.RoleHR, Resource: "review_cycle", Action: "create"},
		{Role: domain.RoleHR, Resource: "review_cycle", Action: "update"},
		{Role: domain.RoleHR, Resource: "review_cycle", Action: "activate"},
		{Role: domain.RoleHR, Resource: "review_cycle", Action: "delete"},

		// Everyone can read their own reviews; writes are actor-gated in
		// the service layer on top of these coarse grants.
		{Role: domain.RoleEmployee, Resource: "performance_review", Action: "read"},
		{Role: domain.RoleEmployee, Resource: "performance_review", Action: "self_assess"},
		{Role: domain.RoleEmployee, Resource: "performance_review", Action: "acknowledge"},
		{Role: domain.RoleManager, Resource: "performance_review", Action: "review"},
		{Role: domain.RoleManager, Resource: "performance_review", Action: "read_team"},
		{Role: domain.RoleHR, Resource: "performance_review", Action: "read_all"},

		{Role: domain.RoleEmployee, Resource: "attendance", Action: "read"},
		{Role: domain.RoleEmployee, Resource: "attendance", Action: "record"},
		{Role: domain.RoleEmployee, Resource: "attendance", Action: "escalate"},
		{Role: domain.RoleManager, Resource: "attendance", Action: "approve"},
		{Role: domain.RoleHR, Resource: "attendance", Action: "override"},

		{Role: domain.RoleEmployee, Resource: "employee", Action: "read"},
		{Role: domain.RoleHR, Resource: "employee", Action: "create"},
		{Role: domain.RoleHR, Resource: "employee", Action: "update"},
		{Role: domain.RoleHR, Resource: "employee", Action: "delete"},
	}

	// Role inheritance is flattened here rather than modelled as casbin
	// grouping policy: MANAGER inherits EMPLOYEE, HR inherits MANAGER,
	// ADMIN inherits HR.
	inherits := map[string]string{
		domain.RoleManager: domain.RoleEmployee,
		domain.RoleHR:      domain.RoleManager,
		domain.RoleAdmin:   domain.RoleHR,
	}

	byRole := make(map[string][]domain.Permission)
	for _, g := range grants {
		byRole[g.Role] = append(byRole[g.Role], g)
	}

	var out []domain.Permission
	for _, role := range []string{domain.RoleEmployee, domain.RoleManager, domain.RoleHR, domain.RoleAdmin} {
		seen := make(map[string]bool)
		for r := role; r != ""; r = inherits[r] {
			for _, g := range byRole[r] {
				key := g.Resource + ":" + g.Action
				if seen[key] {
					continue
				}
				seen[key] = true
				out = append(out, domain.Permission{Role: role, Resource: g.Resource, Action: g.Action})
			}
		}
	}
	return out
}
