package web

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"

	"randomweapon/internal/catalog"
	"randomweapon/internal/checklist"
	"randomweapon/internal/game"
)

// maxUploadSize caps an uploaded save file.
const maxUploadSize = 1 << 20

const (
	contentTypePDF  = "application/pdf"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	c, release, err := s.controllerFor(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	defer release()
	data, err := c.Snapshot()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	download(w, "application/json", game.SaveFileName, data)
}

// handleLoad accepts the save file either as the "file" field of a
// multipart form or as the raw request body.
func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	data, err := readUpload(r)
	if err != nil {
		http.Error(w, "bad upload", http.StatusBadRequest)
		return
	}
	c, release, err := s.controllerFor(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	defer release()
	v, err := c.Load(r.Context(), data)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, v)
}

func readUpload(r *http.Request) ([]byte, error) {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt != "multipart/form-data" {
		return io.ReadAll(r.Body)
	}
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return nil, err
	}
	f, _, err := r.FormFile("file")
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func (s *Server) handleChecklistPDF(w http.ResponseWriter, r *http.Request) {
	c, release, err := s.controllerFor(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	defer release()
	data, err := checklist.PDF(checklist.Build(s.Engine.Catalog, c.State()))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	download(w, contentTypePDF, "checklist.pdf", data)
}

func (s *Server) handleChecklistXLSX(w http.ResponseWriter, r *http.Request) {
	c, release, err := s.controllerFor(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	defer release()
	data, err := checklist.XLSX(checklist.Build(s.Engine.Catalog, c.State()))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	download(w, contentTypeXLSX, "checklist.xlsx", data)
}

func download(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	_, _ = w.Write(data)
}

type weaponJSON struct {
	Name     string             `json:"name"`
	Img      string             `json:"img,omitempty"`
	Mod      catalog.Provenance `json:"mod"`
	Excluded bool               `json:"excluded"`
	Selected bool               `json:"selected"`
}

type stateJSON struct {
	Stage          string          `json:"stage"`
	StageNumber    int             `json:"stageNumber"`
	VisibleStages  int             `json:"visibleStages"`
	Available      int             `json:"available"`
	Selected       *catalog.Weapon `json:"selected"`
	Pending        *catalog.Weapon `json:"pending,omitempty"`
	Prompted       bool            `json:"prompted"`
	StageClear     bool            `json:"stageClear"`
	WeaponListOpen bool            `json:"weaponListOpen"`
	Sort           game.SortMode   `json:"sort"`
	Mode           catalog.Mode    `json:"mode"`
	Weapons        []weaponJSON    `json:"weapons,omitempty"`
	GameVersion    string          `json:"gameVersion"`
	ToolVersion    string          `json:"toolVersion"`
	Author         string          `json:"author"`
}

func newStateJSON(v game.View) stateJSON {
	out := stateJSON{
		Stage:          v.StageName,
		StageNumber:    v.StageNumber,
		VisibleStages:  v.VisibleStages,
		Available:      v.Available,
		Selected:       v.Selected,
		Pending:        v.Pending,
		Prompted:       v.Prompted,
		StageClear:     v.StageClear,
		WeaponListOpen: v.WeaponListOpen,
		Sort:           v.Sort,
		Mode:           v.Mode,
		GameVersion:    v.GameVersion,
		ToolVersion:    v.ToolVersion,
		Author:         v.Author,
	}
	for _, e := range v.Weapons {
		out.Weapons = append(out.Weapons, weaponJSON{
			Name:     e.Weapon.Name,
			Img:      e.Weapon.Img,
			Mod:      e.Weapon.Mod,
			Excluded: e.Excluded,
			Selected: e.Selected,
		})
	}
	return out
}

func (s *Server) handleAPIState(w http.ResponseWriter, r *http.Request) {
	c, release, err := s.controllerFor(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	defer release()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(newStateJSON(c.View())); err != nil {
		s.fail(w, r, fmt.Errorf("encode state: %w", err))
	}
}
