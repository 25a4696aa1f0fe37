package dto

// UploadResponse trả về URL ảnh đã upload
type UploadResponse struct {
	URL string `json:"url"`
}

type MultiUploadResponse struct {
	URLs []string `json:"urls"`
}
