package domain

import "time"

// Store represents one storefront tenant. The subdomain is empty until
// provisioning succeeds.
type Store struct {
	ID        string    `gorm:"type:text;primaryKey" json:"id"`
	Name      string    `gorm:"type:text;not null" json:"name"`
	Subdomain string    `gorm:"type:text;uniqueIndex:idx_stores_subdomain" json:"subdomain,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for Store.
func (Store) TableName() string {
	return "stores"
}
