package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// MediaTypeImage is the only media type the enhancement pipeline produces.
const MediaTypeImage = "image"

// MediaFile is one entry in a product's media list. Enhanced entries carry a
// back-reference to the media file they were derived from; entries are
// appended and never mutated in place.
type MediaFile struct {
	ID                 string     `json:"id"`
	URL                string     `json:"url"`
	CloudinaryPublicID string     `json:"cloudinary_public_id,omitempty"`
	Type               string     `json:"type"`
	IsEnhanced         bool       `json:"is_enhanced,omitempty"`
	EnhancedFrom       string     `json:"enhanced_from,omitempty"`
	EnhancedAt         *time.Time `json:"enhanced_at,omitempty"`
}

// NewEnhancedMediaFile builds the media reference appended to a product after
// a successful enhancement. The ID is derived from the source media id plus a
// time-based nonce so repeated enhancements of the same source never collide.
func NewEnhancedMediaFile(sourceMediaID, url, publicID string) MediaFile {
	now := time.Now().UTC()
	return MediaFile{
		ID:                 fmt.Sprintf("%s_enh_%d", sourceMediaID, now.UnixMilli()),
		URL:                url,
		CloudinaryPublicID: publicID,
		Type:               MediaTypeImage,
		IsEnhanced:         true,
		EnhancedFrom:       sourceMediaID,
		EnhancedAt:         &now,
	}
}

// MediaFileList stores a product's media entries as a JSON array column.
type MediaFileList []MediaFile

// Value implements the driver.Valuer interface for database serialization.
func (l MediaFileList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface for database deserialization.
func (l *MediaFileList) Scan(value interface{}) error {
	if value == nil {
		*l = MediaFileList{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("failed to scan MediaFileList")
		}
		bytes = []byte(str)
	}
	return json.Unmarshal(bytes, l)
}

// FindByID returns the media entry with the given id, if present.
func (l MediaFileList) FindByID(id string) (MediaFile, bool) {
	for _, f := range l {
		if f.ID == id {
			return f, true
		}
	}
	return MediaFile{}, false
}

// Product represents one storefront product. The media list is exclusively
// owned by the product row; concurrent appends are serialized through the
// version column.
type Product struct {
	ID         string        `gorm:"type:text;primaryKey" json:"id"`
	StoreID    string        `gorm:"type:text;not null;index:idx_products_store" json:"store_id"`
	Name       string        `gorm:"type:text;not null" json:"name"`
	Category   string        `gorm:"type:text;index:idx_products_category" json:"category"`
	MediaFiles MediaFileList `gorm:"type:text" json:"media_files"`
	Version    int64         `gorm:"not null;default:0" json:"-"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// TableName returns the database table name for Product.
func (Product) TableName() string {
	return "products"
}
