package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveCapabilities(t *testing.T) {
	tests := []struct {
		name  string
		roles []Role
		want  Capabilities
	}{
		{
			name:  "patient only books",
			roles: []Role{RolePatient},
			want:  Capabilities{BookTokens: true},
		},
		{
			name:  "doctor manages own availability",
			roles: []Role{RoleDoctor},
			want:  Capabilities{ManageAvailability: true, AdjustCounters: true},
		},
		{
			name:  "secretary acts for doctors",
			roles: []Role{RoleSecretary},
			want:  Capabilities{ManageAvailability: true, AdjustCounters: true, ActForDoctors: true},
		},
		{
			name:  "hospital admin sees dashboard but not business users",
			roles: []Role{RoleHospitalAdmin},
			want:  Capabilities{ManageAvailability: true, AdjustCounters: true, ViewAdminDashboard: true},
		},
		{
			name:  "admin gets everything except acting for doctors and booking",
			roles: []Role{RoleAdmin},
			want: Capabilities{
				ManageHospitals:     true,
				ManageAvailability:  true,
				AdjustCounters:      true,
				ViewAdminDashboard:  true,
				ManageBusinessUsers: true,
			},
		},
		{
			name:  "roles union",
			roles: []Role{RolePatient, RoleSecretary},
			want: Capabilities{
				BookTokens:         true,
				ManageAvailability: true,
				AdjustCounters:     true,
				ActForDoctors:      true,
			},
		},
		{
			name:  "staff has no capabilities",
			roles: []Role{RoleStaff},
			want:  Capabilities{},
		},
		{
			name:  "empty role set",
			roles: nil,
			want:  Capabilities{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveCapabilities(tt.roles))
		})
	}
}

func TestHasRole(t *testing.T) {
	roles := []Role{RoleDoctor, RoleHospitalAdmin}

	assert.True(t, HasRole(roles, RoleDoctor))
	assert.True(t, HasRole(roles, RoleHospitalAdmin))
	assert.False(t, HasRole(roles, RoleAdmin))
	assert.False(t, HasRole(nil, RoleDoctor))
}
