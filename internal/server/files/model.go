// Package files implements the vault's file domain: metadata records, the
// extension-based type classifier and the ingestion service that streams
// uploads to disk and persists their metadata.
package files

import "time"

// TypeCategory is the coarse classification of a stored file.
type TypeCategory string

const (
	TypeImage    TypeCategory = "image"
	TypeVideo    TypeCategory = "video"
	TypeDocument TypeCategory = "document"
	TypeGif      TypeCategory = "gif"
	TypeAudio    TypeCategory = "audio"
	TypeOthers   TypeCategory = "others"
)

// Extension enumerates the recognized file extensions. Anything outside this
// set is stored without an extension value.
type Extension string

const (
	ExtJPG  Extension = "jpg"
	ExtJPEG Extension = "jpeg"
	ExtMKV  Extension = "mkv"
	ExtMP4  Extension = "mp4"
	ExtMP3  Extension = "mp3"
	ExtPDF  Extension = "pdf"
	ExtDOC  Extension = "doc"
	ExtPPT  Extension = "ppt"
)

// AccessType is the visibility scope of a stored file.
type AccessType string

const (
	AccessPublic  AccessType = "public"
	AccessPrivate AccessType = "private"
)

// File is one stored file's metadata record.
//
// Name is the display name exactly as uploaded; StoredName is the generated
// on-disk filename, unique within the owner's namespace directory. FilePath
// always points at an existing file when the record is created. IsDeleted
// and DeletedAt exist in the schema but no deletion path sets them yet.
type File struct {
	ID         int64
	Name       string
	StoredName string
	MimeType   *string
	Type       TypeCategory
	Extension  *Extension
	FilePath   string
	OwnerID    int64
	Size       int64
	AccessType AccessType
	Metadata   map[string]any
	SharedWith []int64
	IsDeleted  bool
	DeletedAt  *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
