package model

type Supplier struct {
	BaseModel
	Name               string `gorm:"type:varchar(100);not null" json:"name"`
	Email              string `gorm:"type:varchar(120);uniqueIndex;not null" json:"email"`
	Phone              string `gorm:"type:varchar(20)" json:"phone"`
	Address            string `gorm:"type:text" json:"address"`
	RelationshipStatus string `gorm:"type:varchar(50)" json:"relationship_status"`
	AccountManager     string `gorm:"type:varchar(100)" json:"account_manager"`
	Notes              string `gorm:"type:text" json:"notes"`

	Products []Product `json:"products,omitempty"`
}
