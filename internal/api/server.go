package api

import (
	"net/http"

	"github.com/NasuPanda/mnemos-web/internal/datastore"
	"github.com/NasuPanda/mnemos-web/internal/imagehost"
	"github.com/NasuPanda/mnemos-web/internal/readiness"
	"github.com/NasuPanda/mnemos-web/internal/services"
)

// Readiness reports startup progress to the request gate.
type Readiness interface {
	IsReady() bool
	HasData() bool
	State() readiness.State
}

type Server struct {
	Store           *datastore.Store
	Readiness       Readiness
	ItemService     services.ItemService
	CategoryService services.CategoryService
	SettingsService services.SettingsService
	Uploader        imagehost.Uploader

	// ImagesDir is served under /images/ when set.
	ImagesDir      string
	MaxUploadBytes int64
	AllowedOrigins []string
}

func (s *Server) maxUploadBytes() int64 {
	if s.MaxUploadBytes > 0 {
		return s.MaxUploadBytes
	}
	return 10 << 20
}

// staticImages serves uploaded images from ImagesDir.
func (s *Server) staticImages() http.Handler {
	return http.StripPrefix(imagehost.URLPrefix, http.FileServer(http.Dir(s.ImagesDir)))
}
