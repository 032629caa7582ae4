package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/MrJamesThe3rd/cajero/internal/session"
)

type loginResponse struct {
	User  *session.User `json:"user"`
	Token string        `json:"token"`
}

// Login exchanges credentials for the user record. The token is taken from
// the envelope when the backend sends one alongside the user.
func (c *Client) Login(ctx context.Context, creds session.Credentials) (*session.User, error) {
	var raw json.RawMessage

	if err := c.do(ctx, call{method: http.MethodPost, path: "auth/login", body: creds}, &raw); err != nil {
		return nil, err
	}

	var resp loginResponse
	if err := decodeEnvelope(raw, &resp); err != nil || resp.User == nil {
		var bare session.User
		if err := decodeEnvelope(raw, &bare, "data"); err != nil {
			return nil, &Error{Kind: KindServer, Status: http.StatusOK, Message: "El servidor envió una respuesta inválida.", Err: err}
		}

		resp.User = &bare
	}

	if resp.Token != "" {
		resp.User.Token = resp.Token
	}

	return resp.User, nil
}

func (c *Client) GetCompany(ctx context.Context, id string) (*session.Company, error) {
	var company session.Company

	if err := c.do(ctx, call{method: http.MethodGet, path: "companies/get/" + pathID(id)}, &company, "company", "empresa", "data"); err != nil {
		return nil, err
	}

	return &company, nil
}
