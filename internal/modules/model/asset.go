package model

// Asset describes a stored binary object. It is embedded as JSON in the rows
// that reference the object.
type Asset struct {
	Bucket string `json:"bucket"`
	S3Key  string `json:"s3_key"`
	ETag   string `json:"etag,omitempty"`
	MIME   string `json:"mime,omitempty"`
	SizeB  int64  `json:"size_b,omitempty"`
}
