package domain

import "time"

// DownloadToken is a single-use download credential. UserID is nil for
// tokens issued against free products. Downloaded flips false -> true
// exactly once; a consumed token is permanently inert and is never deleted
// by this service.
type DownloadToken struct {
	ID            int64        `json:"id"`
	Token         string       `json:"token" gorm:"size:16;uniqueIndex"`
	UserID        *int64       `json:"user_id,omitempty"`
	DigitalFileID int64        `json:"digital_file_id"`
	File          *DigitalFile `json:"file,omitempty" gorm:"foreignKey:DigitalFileID"`
	Downloaded    bool         `json:"downloaded"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}
