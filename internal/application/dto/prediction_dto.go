package dto

// FileUpload archivo subido ya leído en memoria (los uploads se bufferizan
// completos antes de reenviarse; no hay streaming).
type FileUpload struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Empty indica si no hay archivo o llegó vacío.
func (f *FileUpload) Empty() bool {
	return f == nil || len(f.Content) == 0
}
