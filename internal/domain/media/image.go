package media

import "time"

// Image is an uploaded event head image. The file lives on disk under the
// configured upload directory; the row only carries the paths.
type Image struct {
	ID           string  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OriginalPath string  `gorm:"not null" json:"original_path"`
	ThumbPath    *string `json:"thumb_path,omitempty"`

	UploadedBy uint `gorm:"not null" json:"uploaded_by"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
