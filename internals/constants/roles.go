package constants

import "fmt"

const (
	RoleAdmin   = "admin"
	RoleFaculty = "faculty"
	RoleStudent = "student"
)

const (
	FormTypeTheory    = "theory"
	FormTypePractical = "practical"
)

const (
	YearFirst  = "FY"
	YearSecond = "SY"
	YearThird  = "TY"
	YearFinal  = "BY"
)

const (
	FeedbackScopeClass      = "class"
	FeedbackScopeDepartment = "department"
)

const ErrOnlyAdminsCanAccess = "❌ Only admins may access %s."

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

var (
	AllRoles = []string{
		RoleAdmin,
		RoleFaculty,
		RoleStudent,
	}

	AdminOnly = []string{
		RoleAdmin,
	}
)
