package boxapi

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/ssh"
)

const assertionTTL = 45 * time.Second

// Credentials is the service-account credential document issued by the
// provider's developer console.
type Credentials struct {
	BoxAppSettings struct {
		ClientID     string `json:"clientID"`
		ClientSecret string `json:"clientSecret"`
		AppAuth      struct {
			PublicKeyID string `json:"publicKeyID"`
			PrivateKey  string `json:"privateKey"`
			Passphrase  string `json:"passphrase"`
		} `json:"appAuth"`
	} `json:"boxAppSettings"`
	EnterpriseID string `json:"enterpriseID"`
}

// ParseCredentials decodes and validates a raw credential document.
func ParseCredentials(data []byte) (*Credentials, error) {
	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("decode box credentials: %w", err)
	}
	app := creds.BoxAppSettings
	if app.ClientID == "" || app.ClientSecret == "" {
		return nil, fmt.Errorf("box credentials missing clientID/clientSecret")
	}
	if app.AppAuth.PublicKeyID == "" || app.AppAuth.PrivateKey == "" {
		return nil, fmt.Errorf("box credentials missing appAuth key material")
	}
	if creds.EnterpriseID == "" {
		return nil, fmt.Errorf("box credentials missing enterpriseID")
	}
	return &creds, nil
}

type tokenSource interface {
	Token(ctx context.Context) (string, error)
}

// jwtTokenSource exchanges a signed client assertion for a bearer token and
// caches it until shortly before expiry. The tool is single threaded, so no
// locking is needed around the cache.
type jwtTokenSource struct {
	hc       *http.Client
	tokenURL string
	creds    *Credentials
	key      *rsa.PrivateKey

	cached  string
	expires time.Time
}

func newJWTTokenSource(hc *http.Client, tokenURL string, creds *Credentials) (*jwtTokenSource, error) {
	key, err := parsePrivateKey(creds.BoxAppSettings.AppAuth.PrivateKey, creds.BoxAppSettings.AppAuth.Passphrase)
	if err != nil {
		return nil, err
	}
	return &jwtTokenSource{hc: hc, tokenURL: tokenURL, creds: creds, key: key}, nil
}

func (s *jwtTokenSource) Token(ctx context.Context) (string, error) {
	if s.cached != "" && time.Until(s.expires) > time.Minute {
		return s.cached, nil
	}

	assertion, err := s.buildAssertion()
	if err != nil {
		return "", err
	}

	form := url.Values{
		"grant_type":    {"urn:ietf:params:oauth:grant-type:jwt-bearer"},
		"assertion":     {assertion},
		"client_id":     {s.creds.BoxAppSettings.ClientID},
		"client_secret": {s.creds.BoxAppSettings.ClientSecret},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("request access token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error            string `json:"error"`
			ErrorDescription string `json:"error_description"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return "", &Error{
			Kind:       classify(resp.StatusCode, apiErr.Error),
			StatusCode: resp.StatusCode,
			Code:       apiErr.Error,
			Message:    fmt.Sprintf("token exchange failed: %s", apiErr.ErrorDescription),
		}
	}

	var tok struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("token response missing access_token")
	}

	s.cached = tok.AccessToken
	s.expires = time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	return s.cached, nil
}

func (s *jwtTokenSource) buildAssertion() (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss":          s.creds.BoxAppSettings.ClientID,
		"sub":          s.creds.EnterpriseID,
		"box_sub_type": "enterprise",
		"aud":          s.tokenURL,
		"jti":          uuid.NewString(),
		"exp":          jwt.NewNumericDate(now.Add(assertionTTL)),
		"iat":          jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = s.creds.BoxAppSettings.AppAuth.PublicKeyID

	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("sign client assertion: %w", err)
	}
	return signed, nil
}

func parsePrivateKey(pemData, passphrase string) (*rsa.PrivateKey, error) {
	var (
		key any
		err error
	)
	if passphrase != "" {
		key, err = ssh.ParseRawPrivateKeyWithPassphrase([]byte(pemData), []byte(passphrase))
	} else {
		key, err = ssh.ParseRawPrivateKey([]byte(pemData))
	}
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}

	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("private key is %T, want RSA", key)
	}
	return rsaKey, nil
}

// staticTokenSource returns a fixed token, used by tests.
type staticTokenSource string

func (s staticTokenSource) Token(_ context.Context) (string, error) { return string(s), nil }
