package dto

// UploadForm carries the multipart fields that accompany the image file.
type UploadForm struct {
	Title       string `form:"title"`
	Description string `form:"description"`
}
