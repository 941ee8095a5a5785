package workflow

import "time"

// CanSetStatus reports whether the role may assign a project status.
// Status changes bypass the submission/deadline gate entirely.
func CanSetStatus(role Role) bool {
	return role.Is(RoleSupervisor, RoleAdmin)
}

// CanDeleteProject reports whether the role may delete a project outright.
func CanDeleteProject(role Role) bool {
	return role == RoleAdmin
}

// CanSendProgram reports whether the role may attach a training program
// artifact to a project.
func CanSendProgram(role Role) bool {
	return role.Is(RoleSupervisor, RoleAdmin)
}

// OwnerCanEdit reports whether the project owner may still modify the record.
// Submission freezes the project for its owner; a passed deadline freezes it
// regardless of the submitted flag.
func OwnerCanEdit(submitted bool, deadline, now time.Time) bool {
	return !submitted && now.Before(deadline)
}

// OwnerCanSubmit reports whether the owner may still submit the project.
func OwnerCanSubmit(deadline, now time.Time) bool {
	return now.Before(deadline)
}
