package domain

// PhotoRecord is one catalog entry per stored photo. Attribute names match
// the DynamoDB table schema; the blob itself lives in S3 under StorageKey.
type PhotoRecord struct {
	PhotoID          string `dynamodbav:"photo_id" json:"photo_id"`
	StorageKey       string `dynamodbav:"s3_key" json:"storage_key"`
	URL              string `dynamodbav:"s3_url" json:"url"`
	Description      string `dynamodbav:"description" json:"description"`
	OriginalFilename string `dynamodbav:"original_filename" json:"original_filename"`
	Uploader         string `dynamodbav:"uploader" json:"uploader"`
	UploadTimestamp  int64  `dynamodbav:"upload_timestamp" json:"upload_timestamp"`
	SizeBytes        int64  `dynamodbav:"size_bytes" json:"size_bytes"`
}

// UploadItem is one user-submitted file ready for the upload pipeline.
type UploadItem struct {
	Data             []byte
	ContentType      string
	OriginalFilename string
	Description      string
	Uploader         string
}

type UploadStatus string

const (
	// StatusUploaded means both the blob and its metadata were persisted.
	StatusUploaded UploadStatus = "uploaded"
	// StatusUploadFailed means the blob write failed; nothing was stored.
	StatusUploadFailed UploadStatus = "upload_failed"
	// StatusMetadataFailed means the blob was stored but the catalog write
	// failed or was unavailable, leaving an orphaned blob.
	StatusMetadataFailed UploadStatus = "metadata_failed"
)

// UploadOutcome reports the result for a single item of an upload batch.
type UploadOutcome struct {
	OriginalFilename string       `json:"original_filename"`
	Status           UploadStatus `json:"status"`
	Record           *PhotoRecord `json:"record,omitempty"`
	URL              string       `json:"url,omitempty"`
	Err              error        `json:"-"`
}
