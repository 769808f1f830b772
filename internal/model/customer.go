package model

type Customer struct {
	BaseModel
	Name    string `gorm:"type:varchar(100);not null" json:"name"`
	Email   string `gorm:"type:varchar(120);uniqueIndex;not null" json:"email"`
	Phone   string `gorm:"type:varchar(20)" json:"phone"`
	Address string `gorm:"type:text" json:"address"`

	Invoices []Invoice `json:"invoices,omitempty"`
}
