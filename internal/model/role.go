package model

// Role is the closed set of account roles. Roles travel in JWT claims and
// in user_roles rows; there is no free-text role anywhere.
type Role string

const (
	RoleAdmin         Role = "admin"
	RoleDoctor        Role = "doctor"
	RoleSecretary     Role = "secretary"
	RolePatient       Role = "patient"
	RoleStaff         Role = "staff"
	RoleHospitalAdmin Role = "hospital_admin"
)

// Designation is the closed set of hospital employment labels. It replaces
// the free-text designation column the booking flows used to compare by
// string equality.
type Designation string

const (
	DesignationHospitalAdmin Designation = "hospital_admin"
	DesignationDoctor        Designation = "doctor"
	DesignationNurse         Designation = "nurse"
	DesignationReceptionist  Designation = "receptionist"
)

// Capabilities is the structured permission set resolved from a user's
// roles. Navigation and route guards consume this instead of scanning role
// string arrays ad hoc.
type Capabilities struct {
	ManageHospitals     bool `json:"manage_hospitals"`
	ManageAvailability  bool `json:"manage_availability"`
	AdjustCounters      bool `json:"adjust_counters"`
	BookTokens          bool `json:"book_tokens"`
	ViewAdminDashboard  bool `json:"view_admin_dashboard"`
	ActForDoctors       bool `json:"act_for_doctors"`
	ManageBusinessUsers bool `json:"manage_business_users"`
}

// ResolveCapabilities folds a role set into one permission set.
func ResolveCapabilities(roles []Role) Capabilities {
	var caps Capabilities
	for _, r := range roles {
		switch r {
		case RoleAdmin:
			caps.ManageHospitals = true
			caps.ManageAvailability = true
			caps.AdjustCounters = true
			caps.ViewAdminDashboard = true
			caps.ManageBusinessUsers = true
		case RoleHospitalAdmin:
			caps.ManageAvailability = true
			caps.AdjustCounters = true
			caps.ViewAdminDashboard = true
		case RoleDoctor:
			caps.ManageAvailability = true
			caps.AdjustCounters = true
		case RoleSecretary:
			caps.ManageAvailability = true
			caps.AdjustCounters = true
			caps.ActForDoctors = true
		case RolePatient:
			caps.BookTokens = true
		}
	}
	return caps
}

// HasRole reports whether the set contains r.
func HasRole(roles []Role, r Role) bool {
	for _, role := range roles {
		if role == r {
			return true
		}
	}
	return false
}
