package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/kozaktomas/face-sorter/internal/classifier"
	"github.com/kozaktomas/face-sorter/internal/gallery"
)

// maxUploadSize limits multipart image uploads to 32 MiB.
const maxUploadSize = 32 << 20

type errorResponse struct {
	Error string `json:"error"`
}

type galleryLabel struct {
	Label    string `json:"label"`
	Examples int    `json:"examples"`
}

type galleryResponse struct {
	Labels []galleryLabel `json:"labels"`
	Size   int            `json:"size"`
}

type recogniseResponse struct {
	Labels []string `json:"labels"`
}

type addNoneResponse struct {
	Created []string `json:"created"`
}

type validateResponse struct {
	Checked       int      `json:"checked"`
	Valid         int      `json:"valid"`
	Violations    []string `json:"violations"`
	LabelWarnings []string `json:"label_warnings,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client gone, nothing to do
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// readUpload extracts the uploaded image from the "file" multipart field.
func readUpload(r *http.Request) ([]byte, error) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return nil, err
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGallery(w http.ResponseWriter, r *http.Request) {
	g := s.currentGallery()

	resp := galleryResponse{Size: g.Size(), Labels: []galleryLabel{}}
	for _, label := range g.Labels() {
		resp.Labels = append(resp.Labels, galleryLabel{
			Label:    label,
			Examples: len(g.Examples(label)),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.Rebuild(r.Context()); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, gallery.ErrEmptyGallery) {
			status = http.StatusConflict
		}
		writeError(w, status, err)
		return
	}
	s.handleGallery(w, r)
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	policy := s.policy
	if p := r.URL.Query().Get("policy"); p != "" {
		parsed, err := gallery.ParsePolicy(p)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		policy = parsed
	}
	// Raise would turn the first violation into a failed request; the API
	// always reports the full picture instead.
	if policy == gallery.PolicyRaise {
		policy = gallery.PolicyWarn
	}

	report, err := gallery.Validate(r.Context(), s.labeledDir, s.pipe, policy)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	resp := validateResponse{
		Checked:       report.Checked,
		Valid:         len(report.Valid),
		Violations:    []string{},
		LabelWarnings: report.LabelWarnings,
	}
	for _, v := range report.Violations {
		resp.Violations = append(resp.Violations, v.Err.Error())
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRecognise(w http.ResponseWriter, r *http.Request) {
	data, err := readUpload(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	cls := classifier.New(s.pipe, s.currentGallery(), s.threshold)
	labels, err := cls.Classify(r.Context(), data)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	if labels == nil {
		labels = []string{}
	}
	writeJSON(w, http.StatusOK, recogniseResponse{Labels: labels})
}

func (s *Server) handleAddNone(w http.ResponseWriter, r *http.Request) {
	data, err := readUpload(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	// The augmenter works on files; stage the upload in a temp location.
	tmp, err := os.CreateTemp("", "face-sorter-upload-*.img")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) //nolint:errcheck // best-effort cleanup

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if err := tmp.Close(); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	created, err := classifier.AddNone(r.Context(), tmpPath, s.labeledDir, s.pipe.Provider())
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	if created == nil {
		created = []string{}
	}
	for i, name := range created {
		created[i] = filepath.Base(name)
	}
	writeJSON(w, http.StatusOK, addNoneResponse{Created: created})
}
