package auth

type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleSupervisor Role = "SUPERVISOR"
	RoleEmployee   Role = "EMPLOYEE"
)

const (
	PermBalancesReadOwn = "balances.read.own"
	PermBalancesReadAll = "balances.read.all"
	PermBalancesWrite   = "balances.write"
	PermPeriodsClose    = "periods.close"
	PermConfigRead      = "config.read"
	PermConfigWrite     = "config.write"
	PermEmployeesRead   = "employees.read"
	PermEmployeesWrite  = "employees.write"
	PermEntriesWriteOwn = "entries.write.own"
	PermEntriesWriteAll = "entries.write.all"
	PermReportsRead     = "reports.read"
	PermAuditRead       = "audit.read"
)

var DefaultPermissions = []string{
	PermBalancesReadOwn,
	PermBalancesReadAll,
	PermBalancesWrite,
	PermPeriodsClose,
	PermConfigRead,
	PermConfigWrite,
	PermEmployeesRead,
	PermEmployeesWrite,
	PermEntriesWriteOwn,
	PermEntriesWriteAll,
	PermReportsRead,
	PermAuditRead,
}

var RolePermissions = map[Role][]string{
	RoleEmployee: {
		PermBalancesReadOwn,
		PermConfigRead,
		PermEntriesWriteOwn,
	},
	RoleSupervisor: {
		PermBalancesReadOwn,
		PermBalancesReadAll,
		PermBalancesWrite,
		PermConfigRead,
		PermEmployeesRead,
		PermEntriesWriteOwn,
		PermEntriesWriteAll,
		PermReportsRead,
	},
	RoleAdmin: DefaultPermissions,
}

func ValidRole(role Role) bool {
	_, ok := RolePermissions[role]
	return ok
}

func HasPermission(role Role, permission string) bool {
	for _, perm := range RolePermissions[role] {
		if perm == permission {
			return true
		}
	}
	return false
}
