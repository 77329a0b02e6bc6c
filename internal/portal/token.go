package portal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/rs/zerolog/log"
)

const loginEndpoint = "/api/auth/login"

// TokenAuth implements the CBMS bearer-token scheme. The token is fetched on
// first use and cached for the rest of the process.
type TokenAuth struct {
	client   *Client
	pan      string
	loginID  string
	password string

	mu    sync.Mutex
	token string
}

// NewTokenAuth creates a TokenAuth that logs in through the given client.
func NewTokenAuth(client *Client, pan, loginID, password string) *TokenAuth {
	return &TokenAuth{client: client, pan: pan, loginID: loginID, password: password}
}

// Apply attaches the cached token to the request, fetching one first when
// needed.
func (a *TokenAuth) Apply(ctx context.Context, req *http.Request) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.token == "" {
		log.Info().Msg("Fetching new CBMS token")
		if err := a.fetchToken(ctx); err != nil {
			return err
		}
	}
	req.Header.Set("Authorization", a.token)
	return nil
}

// Reset drops the cached token so the next request logs in again.
func (a *TokenAuth) Reset() {
	a.mu.Lock()
	a.token = ""
	a.mu.Unlock()
}

func (a *TokenAuth) fetchToken(ctx context.Context) error {
	body := map[string]any{
		"PAN":          a.pan,
		"LoginId":      a.loginID,
		"password":     a.password,
		"isSuperAdmin": false,
	}
	data, err := a.client.PostJSON(ctx, loginEndpoint, body, nil)
	if err != nil {
		return fmt.Errorf("cbms login: %w", err)
	}

	var resp struct {
		IsSucess bool   `json:"isSucess"` // spelling as served by CBMS
		Message  string `json:"message"`
		Token    string `json:"token"`
		ResponseData struct {
			UserName string `json:"userName"`
		} `json:"responseData"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return fmt.Errorf("cbms login response: %w", err)
	}
	if !resp.IsSucess {
		return fmt.Errorf("cbms login failed: %s", resp.Message)
	}

	log.Info().Str("user", resp.ResponseData.UserName).Msg("Logged in to CBMS portal")
	a.token = "Bearer " + resp.Token
	return nil
}
