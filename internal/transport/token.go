package transport

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	jwtBearerGrant     = "urn:ietf:params:oauth:grant-type:jwt-bearer"
	assertionLifetime  = time.Hour
	tokenRenewalBuffer = time.Minute
)

type serviceAccount struct {
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
	TokenURI    string `json:"token_uri"`
}

// TokenSource exchanges a service-account credential for OAuth bearer tokens
// and caches the token until shortly before it expires. One source is built
// at startup and handed to every cloud transport through the Env, so the
// cache is shared without any package-level state.
type TokenSource struct {
	mu      sync.Mutex
	account serviceAccount
	key     *rsa.PrivateKey
	scope   string
	client  *http.Client
	now     func() time.Time

	token  string
	expiry time.Time
}

// NewTokenSource loads a service-account JSON credential file.
func NewTokenSource(credentialsFile, scope string) (*TokenSource, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}
	return NewTokenSourceFromJSON(data, scope)
}

func NewTokenSourceFromJSON(data []byte, scope string) (*TokenSource, error) {
	var account serviceAccount
	if err := json.Unmarshal(data, &account); err != nil {
		return nil, fmt.Errorf("failed to parse credentials: %w", err)
	}
	if account.ClientEmail == "" || account.PrivateKey == "" || account.TokenURI == "" {
		return nil, fmt.Errorf("credentials missing client_email, private_key or token_uri")
	}

	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(account.PrivateKey))
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	return &TokenSource{
		account: account,
		key:     key,
		scope:   scope,
		client:  &http.Client{Timeout: 30 * time.Second},
		now:     time.Now,
	}, nil
}

// Token returns a valid bearer token, fetching a fresh one only when the
// cached token has expired.
func (s *TokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && s.now().Before(s.expiry.Add(-tokenRenewalBuffer)) {
		return s.token, nil
	}

	assertion, err := s.signAssertion()
	if err != nil {
		return "", fmt.Errorf("failed to sign assertion: %w", err)
	}

	form := url.Values{
		"grant_type": {jwtBearerGrant},
		"assertion":  {assertion},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.account.TokenURI, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("token request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("token response contained no access token")
	}

	s.token = tokenResp.AccessToken
	s.expiry = s.now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)

	return s.token, nil
}

func (s *TokenSource) signAssertion() (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"iss":   s.account.ClientEmail,
		"scope": s.scope,
		"aud":   s.account.TokenURI,
		"iat":   now.Unix(),
		"exp":   now.Add(assertionLifetime).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(s.key)
}
