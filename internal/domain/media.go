package domain

import "time"

// Media is one row of the media-library store. ModelID is the attachment id
// digital files point at; FileName is the original name the asset was
// uploaded under and the name downloads are served as.
type Media struct {
	ID        int64     `json:"id"`
	ModelID   int64     `json:"model_id"`
	FileName  string    `json:"file_name"`
	MimeType  string    `json:"mime_type"`
	Size      int64     `json:"size"`
	DiskName  string    `json:"disk_name"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Media) TableName() string { return "media" }
