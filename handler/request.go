package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"videotube-api/common"
	"videotube-api/storage"
)

const (
	maxImageUpload = 10 << 20
	maxVideoUpload = 1 << 30
	formMemory     = 32 << 20
)

func pathID(r *http.Request, name string) (int, *common.AppError) {
	id, err := strconv.Atoi(r.PathValue(name))
	if err != nil || id <= 0 {
		return 0, common.BadRequest("Invalid "+name, err)
	}
	return id, nil
}

func queryInt(r *http.Request, name string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return 0
	}
	return n
}

// uploadForm is a parsed multipart request whose files must be released with Close.
type uploadForm struct {
	r     *http.Request
	files []multipart.File
}

func parseUploadForm(w http.ResponseWriter, r *http.Request, limit int64) (*uploadForm, *common.AppError) {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(formMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, common.NewAppError(http.StatusRequestEntityTooLarge, "Upload is too large", err)
		}
		return nil, common.BadRequest("Invalid multipart form", err)
	}
	return &uploadForm{r: r}, nil
}

func (f *uploadForm) value(key string) string {
	return strings.TrimSpace(f.r.FormValue(key))
}

// file opens an uploaded part; it returns nil when the field is absent.
func (f *uploadForm) file(field string) (*storage.File, *common.AppError) {
	file, header, err := f.r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, common.BadRequest("Invalid "+field+" file", err)
	}
	f.files = append(f.files, file)
	return &storage.File{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}, nil
}

func (f *uploadForm) Close() {
	for _, file := range f.files {
		file.Close()
	}
	if f.r.MultipartForm != nil {
		f.r.MultipartForm.RemoveAll()
	}
}
