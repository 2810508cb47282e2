package model

// Organization-wide user roles.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// User maps to users.
type User struct {
	UserID         string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	OrganizationID string `gorm:"type:uuid;not null"                             json:"organization_id"`
	Name           string `gorm:"type:varchar(100);not null"                     json:"name"`
	Email          string `gorm:"type:varchar(255);not null"                     json:"email"`
	PasswordHash   string `gorm:"type:varchar(255);not null"                     json:"-"`
	AvatarURL      string `gorm:"type:text"                                      json:"avatar_url,omitempty"`
	Role           string `gorm:"type:varchar(20);not null;default:'member'"     json:"role"` // admin | member
	VersionedModel

	Organization *Organization `gorm:"foreignKey:OrganizationID;references:OrganizationID" json:"organization,omitempty"`
}

func (User) TableName() string { return "users" }
