// Package record holds the small value types shared by every resource the
// backend returns.
package record

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Ref points at another resource. The backend sends references either as a
// bare id or as the populated object; both decode into a Ref.
type Ref struct {
	ID   string
	Name string
}

func NewRef(id string) Ref {
	return Ref{ID: id}
}

func (r Ref) IsZero() bool {
	return r.ID == ""
}

// Display is the name when the backend populated one, the id otherwise.
func (r Ref) Display() string {
	if r.Name != "" {
		return r.Name
	}

	return r.ID
}

type populatedRef struct {
	ID            string `json:"id,omitempty"`
	MongoID       string `json:"_id,omitempty"`
	Nombre        string `json:"nombre,omitempty"`
	NombreEmpresa string `json:"nombreEmpresa,omitempty"`
	NombreCaja    string `json:"nombreCaja,omitempty"`
	Username      string `json:"username,omitempty"`
}

func (r *Ref) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)

	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*r = Ref{}
		return nil
	case b[0] == '"':
		var id string
		if err := json.Unmarshal(b, &id); err != nil {
			return err
		}

		*r = Ref{ID: id}

		return nil
	case b[0] == '{':
		var p populatedRef
		if err := json.Unmarshal(b, &p); err != nil {
			return err
		}

		*r = Ref{ID: firstNonEmpty(p.ID, p.MongoID), Name: firstNonEmpty(p.Nombre, p.NombreEmpresa, p.NombreCaja, p.Username)}

		return nil
	case b[0] == '-' || (b[0] >= '0' && b[0] <= '9'):
		*r = Ref{ID: string(b)}
		return nil
	}

	return fmt.Errorf("reference must be an id or an object, got %s", b)
}

// MarshalJSON writes the bare id, or an {id, nombre} object when a name is
// known so that stored values keep it.
func (r Ref) MarshalJSON() ([]byte, error) {
	if r.ID == "" {
		return []byte("null"), nil
	}

	if r.Name == "" {
		return json.Marshal(r.ID)
	}

	return json.Marshal(populatedRef{ID: r.ID, Nombre: r.Name})
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}

// Pagination describes one page of a list response.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// HasNext reports whether a page follows this one.
func (p Pagination) HasNext() bool {
	return p.Page < p.TotalPages
}

func (p Pagination) HasPrev() bool {
	return p.Page > 1
}
