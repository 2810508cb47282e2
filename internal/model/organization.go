package model

// Organization maps to organizations.
type Organization struct {
	OrganizationID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"organization_id"`
	Name           string `gorm:"type:varchar(100);not null"                     json:"name"`
	Description    string `gorm:"type:text"                                      json:"description,omitempty"`
	VersionedModel
}

func (Organization) TableName() string { return "organizations" }
