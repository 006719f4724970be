package relay

import "time"

// UploadStatus is the relay-side state of a submitted file.
type UploadStatus string

const (
	UploadStatusPending UploadStatus = "pending"
	UploadStatusSuccess UploadStatus = "success"
)

// RemoteFile is one file record from the relay's recent-files listing.
// Records are immutable from our side; only the status and Arweave fields
// change, and only server-side.
type RemoteFile struct {
	ID           string       `json:"id"`
	Name         string       `json:"file_name"`
	Size         int64        `json:"file_size"`
	MimeType     string       `json:"mime_type"`
	UploadedBy   string       `json:"uploaded_by"`
	CreatedAt    time.Time    `json:"created_at"`
	ArweaveID    string       `json:"arweave_id,omitempty"`
	ArweaveURL   string       `json:"arweave_url,omitempty"`
	UploadStatus UploadStatus `json:"upload_status"`
}

// Listing is the result of one recent-files call. Timestamp is the
// server-supplied snapshot time, used as the polling watermark.
type Listing struct {
	Files     []RemoteFile
	Count     int
	Timestamp time.Time
}

// CostEstimate quotes the price of pushing one file to Arweave and whether
// the uploader's balance covers it. Fetched, checked, discarded; never cached.
type CostEstimate struct {
	Winc       string  `json:"winc"`
	AR         float64 `json:"ar"`
	Sufficient bool    `json:"sufficient"`
}

// UploadResult is the terminal value for one file's upload.
type UploadResult struct {
	Message             string   `json:"message"`
	FileID              string   `json:"file_id"`
	ArweaveID           string   `json:"arweave_id"`
	ArweaveURL          string   `json:"arweave_url"`
	ArweaveOwner        string   `json:"arweave_owner"`
	DataCaches          []string `json:"data_caches"`
	FastFinalityIndexes []string `json:"fast_finality_indexes"`
}
