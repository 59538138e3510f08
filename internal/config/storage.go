package config

// StorageConfig selects the object store used for sprint and event cover
// images.  Type is "local" (files under LocalPath, served by the API under
// /uploads) or "s3".  PublicBaseURL is prepended to object keys when building
// the public URL returned to clients; for S3 it may be left empty to use the
// bucket's virtual-host URL.
type StorageConfig struct {
	Type          string
	LocalPath     string
	PublicBaseURL string
	S3Bucket      string
	S3Region      string
	MaxUploadMB   int
}

func LoadStorageConfig() StorageConfig {
	return StorageConfig{
		Type:          envStr("STORAGE_TYPE", "local"),
		LocalPath:     envStr("STORAGE_LOCAL_PATH", "./uploads"),
		PublicBaseURL: envStr("STORAGE_PUBLIC_BASE_URL", "/uploads"),
		S3Bucket:      envStr("S3_BUCKET", ""),
		S3Region:      envStr("S3_REGION", "ap-south-1"),
		MaxUploadMB:   envInt("STORAGE_MAX_UPLOAD_MB", 5),
	}
}
