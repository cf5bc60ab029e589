package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

// Submission upload limits.
const (
	MaxUploadBytes = 16 << 20 // 16 MB
)

var (
	AllowedSubmissionExtensions = []string{".pdf", ".doc", ".docx", ".zip", ".txt", ".py", ".ipynb"}
)
