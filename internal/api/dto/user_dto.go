package dto

import "github.com/spec-kit/admin-service/internal/domain"

// ProfileUpdateRequest payload for profile changes; absent fields are
// left untouched.
type ProfileUpdateRequest struct {
	Username     *string `json:"username,omitempty"`
	Email        *string `json:"email,omitempty"`
	DepartmentID *int64  `json:"department_id,omitempty"`
	AvatarURL    *string `json:"avatar_url,omitempty"`
}

// ChangePasswordRequest payload for password changes.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// ReplaceRolesRequest payload for role assignment.
type ReplaceRolesRequest struct {
	RoleIDs []int64 `json:"role_ids"`
}

// DepartmentResponse is a department list entry.
type DepartmentResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// NewDepartmentResponses maps domain departments.
func NewDepartmentResponses(departments []domain.Department) []DepartmentResponse {
	out := make([]DepartmentResponse, 0, len(departments))
	for _, d := range departments {
		out = append(out, DepartmentResponse{ID: d.ID, Name: d.Name})
	}
	return out
}
