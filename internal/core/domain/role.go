package domain

// Role is the fixed set of roles a token can carry.
type Role string

const (
	RoleTechnician      Role = "Technician"
	RoleCallCentreAgent Role = "Call Centre Agent"
	RoleDepartmentAdmin Role = "Department Admin"
	RoleSystemAdmin     Role = "System Admin"
	RoleDirector        Role = "Director"
	RoleCouncillor      Role = "Councillor"
)

// AllRoles lists every known role in display order.
var AllRoles = []Role{
	RoleTechnician,
	RoleCallCentreAgent,
	RoleDepartmentAdmin,
	RoleSystemAdmin,
	RoleDirector,
	RoleCouncillor,
}

// AdminRoles may assign technicians and move any job between statuses.
var AdminRoles = []Role{RoleDepartmentAdmin, RoleSystemAdmin}

// JobCreatorRoles may open the job creation wizard.
var JobCreatorRoles = []Role{RoleSystemAdmin, RoleDepartmentAdmin, RoleCallCentreAgent}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	for _, known := range AllRoles {
		if r == known {
			return true
		}
	}
	return false
}

// IsAdmin reports whether r belongs to the admin class.
func (r Role) IsAdmin() bool {
	return r.In(AdminRoles...)
}

// CanCreateJobs reports whether r may capture new jobs.
func (r Role) CanCreateJobs() bool {
	return r.In(JobCreatorRoles...)
}

// In reports whether r is one of roles.
func (r Role) In(roles ...Role) bool {
	for _, candidate := range roles {
		if r == candidate {
			return true
		}
	}
	return false
}
