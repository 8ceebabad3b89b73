package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

// Storage backends selectable via storage.type in the config.
const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

// Question audio uploads. Clips are normalized to mp3 before storage,
// so any format ffprobe recognizes as audio is accepted on upload.
const (
	MimeAudio = "audio/"
	// Browsers often send mp3 uploads as application/octet-stream;
	// ffprobe makes the final call.
	MimeOctetStream = "application/octet-stream"
)

var AllowedAudioMimeTypes = []string{MimeAudio, MimeOctetStream}
