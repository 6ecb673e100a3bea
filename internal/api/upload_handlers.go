package api

import (
	"fmt"
	"io"
	"net/http"

	"github.com/NasuPanda/mnemos-web/internal/errors"
	"github.com/NasuPanda/mnemos-web/internal/imagehost"
	"github.com/NasuPanda/mnemos-web/internal/logger"
)

// multipart overhead allowed on top of the file itself
const uploadSlack = 1 << 20

func (s *Server) handleUploadImage(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	max := s.maxUploadBytes()

	r.Body = http.MaxBytesReader(w, r.Body, max+uploadSlack)
	file, header, err := r.FormFile("file")
	if err != nil {
		handleError(w, r, errors.NewBadRequestError(fmt.Sprintf("file upload required: %v", err)))
		return
	}
	defer file.Close()

	if err := imagehost.Validate(header.Header.Get("Content-Type"), header.Filename, header.Size, max); err != nil {
		handleError(w, r, err)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, max+1))
	if err != nil {
		handleError(w, r, errors.NewBadRequestError(fmt.Sprintf("failed to read upload: %v", err)))
		return
	}
	if int64(len(data)) > max {
		handleError(w, r, errors.NewBadRequestError(fmt.Sprintf("file size must be less than %dMB", max>>20)))
		return
	}

	url, err := s.Uploader.Upload(r.Context(), data, header.Filename)
	if err != nil {
		handleError(w, r, errors.NewInternalError(err))
		return
	}

	log.Info("image uploaded: %s", url)
	writeJSON(w, r, http.StatusOK, map[string]string{"image_path": url})
}
