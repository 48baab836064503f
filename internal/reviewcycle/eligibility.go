package reviewcycle

import (
	"go-workforce/internal/employee"

	"github.com/google/uuid"
)

// RosterEntry is the slice of the employee directory the resolver needs.
type RosterEntry struct {
	EmployeeID       uuid.UUID
	EmploymentStatus string
	ManagerID        *uuid.UUID
}

// Candidate is one employee selected for a cycle, with the manager
// reference snapshotted at resolution time.
type Candidate struct {
	EmployeeID uuid.UUID
	ManagerID  *uuid.UUID
}

// ResolveEligibility selects actively engaged employees from the roster.
// It is a pure function: the caller decides the snapshot (it runs inside
// the activation transaction) and what to do with managerless candidates.
func ResolveEligibility(roster []RosterEntry) []Candidate {
	candidates := make([]Candidate, 0, len(roster))
	for _, entry := range roster {
		if entry.EmploymentStatus != employee.EmploymentActive {
			continue
		}
		candidates = append(candidates, Candidate{
			EmployeeID: entry.EmployeeID,
			ManagerID:  entry.ManagerID,
		})
	}
	return candidates
}
