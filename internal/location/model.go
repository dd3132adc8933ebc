// File: internal/location/model.go
package location

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Location is a named region with its centroid coordinates. Names are the
// natural key; the seeder upserts by name.
type Location struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Name      string    `json:"name" gorm:"type:varchar(150);not null;uniqueIndex"`
	Latitude  float64   `json:"latitude" gorm:"type:decimal(10,8);not null"`
	Longitude float64   `json:"longitude" gorm:"type:decimal(11,8);not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Location) TableName() string {
	return "locations"
}

// BeforeCreate assigns an ID when the database did not, which keeps the
// seeder working on databases without uuid_generate_v4.
func (l *Location) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
