// Package web renders the game pages. It is handed a game id and a
// role and knows nothing about game state; the pages talk to /ws
// themselves.
package web

import (
	"embed"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templateFS embed.FS

type Role string

const (
	RolePlayer    Role = "player"
	RoleSpymaster Role = "spymaster"
)

type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{tmpl: tmpl}, nil
}

func (r *Renderer) RenderGame(w io.Writer, role Role, gameID string) error {
	return r.tmpl.ExecuteTemplate(w, "game.html", map[string]any{
		"GameID": gameID,
		"Role":   role,
	})
}

func (r *Renderer) RenderIndex(w io.Writer) error {
	return r.tmpl.ExecuteTemplate(w, "index.html", nil)
}
