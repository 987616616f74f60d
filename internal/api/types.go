package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000000Z07:00"

// Image describes a stored image.
type Image struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Filename         string `json:"filename"`
	Size             int64  `json:"size"`
	ContentType      string `json:"content_type"`
	URL              string `json:"url"`
	OriginalFilename string `json:"original_filename"`
	UploadedAt       string `json:"uploaded_at"`
}

// UploadResponse is returned with 201 after a successful upload.
type UploadResponse struct {
	ID               string `json:"id"`
	Filename         string `json:"filename"`
	URL              string `json:"url"`
	OriginalFilename string `json:"original_filename"`
}

// MessageResponse carries a human readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse carries an error message.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RelayResponse is returned by the webhook relay after delivery.
type RelayResponse struct {
	OK bool `json:"ok"`
}

// RelayFailure is returned by the webhook relay when delivery failed.
type RelayFailure struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// HealthResponse is returned by every /health endpoint.
type HealthResponse struct {
	Status string `json:"status"`
}

// Fixed messages of the image API.
const (
	MsgNoFile        = "No file provided"
	MsgImageNotFound = "Image not found"
	MsgInvalidID     = "Invalid id or image not found"
	MsgImageDeleted  = "Image deleted successfully"
)
