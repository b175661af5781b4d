package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"randomweapon/internal/catalog"
	"randomweapon/internal/game"
)

//go:embed templates/*.html
var templateFS embed.FS

// ParseTemplates parses the embedded page templates.
func ParseTemplates() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"weaponHTML":  weaponHTML,
		"weaponClass": weaponClass,
		"sortModes":   func() []game.SortMode { return game.SortModes },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tmpl, nil
}

// render buffers the template so a failure can still become a 500.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	var buf bytes.Buffer
	if err := s.Tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		s.Log.ErrorContext(r.Context(), "render failed", slog.String("template", name), slog.Any("err", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// WeaponHTML renders a weapon as its icon followed by its name, or "None".
// The icon's src is empty when the weapon has no image.
func WeaponHTML(w *catalog.Weapon) template.HTML {
	if w == nil {
		return template.HTML(game.NoneLabel)
	}
	return template.HTML(fmt.Sprintf(`<img class="weaponImage" src="%s"> %s`,
		template.HTMLEscapeString(w.Img), template.HTMLEscapeString(w.Name)))
}

func weaponHTML(v any) template.HTML {
	switch w := v.(type) {
	case *catalog.Weapon:
		return WeaponHTML(w)
	case catalog.Weapon:
		return WeaponHTML(&w)
	}
	return template.HTML(game.NoneLabel)
}

// weaponClass colours a list entry: selected wins over excluded.
func weaponClass(e game.ListEntry) string {
	switch {
	case e.Selected:
		return "selected"
	case e.Excluded:
		return "excluded"
	}
	return "available"
}
