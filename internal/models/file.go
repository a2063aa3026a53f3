package models

import "time"

// FileType is the closed enumeration stored for uploaded documents.
type FileType string

const (
	FilePDF  FileType = "PDF"
	FilePPT  FileType = "PPT"
	FileDOCX FileType = "DOCX"
)

// File is one metadata row per uploaded document; the bytes live in the
// external content delivery store behind FileURL.
type File struct {
	ID        string    `db:"id" json:"id"`
	FileName  string    `db:"file_name" json:"fileName"`
	FileType  FileType  `db:"file_type" json:"fileType"`
	FileURL   string    `db:"file_url" json:"fileUrl"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// FileFilter captures the listing criteria for file metadata.
type FileFilter struct {
	FileType *FileType
	Search   string
}
