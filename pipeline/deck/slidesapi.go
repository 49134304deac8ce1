package deck

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/slides/v1"

	contractx "deckpilot/pipeline/contract"
)

// API is the slice of the presentation service the assembler depends on.
type API interface {
	CreatePresentation(ctx context.Context, title string) (*slides.Presentation, error)
	BatchUpdate(ctx context.Context, presentationID string, reqs []*slides.Request) error
	GetPage(ctx context.Context, presentationID, pageObjectID string) (*slides.Page, error)
}

type Config struct {
	CredentialsFile string `envconfig:"CREDENTIALS_FILE" split_words:"true" default:"credentials.json"`
	TokenFile       string `envconfig:"TOKEN_FILE" split_words:"true" default:"token.json"`
}

type googleAPI struct {
	svc *slides.Service
}

var _ API = (*googleAPI)(nil)

// NewGoogleAPI builds the real Slides client from an installed-app OAuth
// client secret and a previously cached token. It never starts the
// interactive flow itself; run Authorize once to mint the token file.
func NewGoogleAPI(ctx context.Context, cfg Config) (API, error) {
	oauthCfg, err := oauthConfig(cfg.CredentialsFile)
	if err != nil {
		return nil, err
	}

	token, err := tokenFromFile(cfg.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("%w: google token %s unavailable (run with -authorize first): %v",
			contractx.ErrUpstreamUnavailable, cfg.TokenFile, err)
	}

	svc, err := slides.NewService(ctx, option.WithHTTPClient(oauthCfg.Client(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("%w: create slides service: %v", contractx.ErrUpstreamUnavailable, err)
	}
	return &googleAPI{svc: svc}, nil
}

func (g *googleAPI) CreatePresentation(ctx context.Context, title string) (*slides.Presentation, error) {
	p, err := g.svc.Presentations.Create(&slides.Presentation{Title: title}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: create presentation: %v", contractx.ErrUpstreamUnavailable, err)
	}
	return p, nil
}

func (g *googleAPI) BatchUpdate(ctx context.Context, presentationID string, reqs []*slides.Request) error {
	req := &slides.BatchUpdatePresentationRequest{Requests: reqs}
	if _, err := g.svc.Presentations.BatchUpdate(presentationID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("%w: batch update presentation %s: %v", contractx.ErrUpstreamUnavailable, presentationID, err)
	}
	return nil
}

func (g *googleAPI) GetPage(ctx context.Context, presentationID, pageObjectID string) (*slides.Page, error) {
	page, err := g.svc.Presentations.Pages.Get(presentationID, pageObjectID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: get page %s: %v", contractx.ErrUpstreamUnavailable, pageObjectID, err)
	}
	return page, nil
}

// Authorize runs the one-time installed-app exchange: it prints the consent
// URL, reads the verification code from stdin, and caches the token file.
func Authorize(ctx context.Context, cfg Config) error {
	oauthCfg, err := oauthConfig(cfg.CredentialsFile)
	if err != nil {
		return err
	}

	authURL := oauthCfg.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Fprintf(os.Stderr, "Open the following link in your browser, then paste the authorization code:\n%v\n", authURL)

	var code string
	if _, err := fmt.Scan(&code); err != nil {
		return fmt.Errorf("read authorization code: %w", err)
	}

	token, err := oauthCfg.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("exchange authorization code: %w", err)
	}
	return saveToken(cfg.TokenFile, token)
}

func oauthConfig(credentialsFile string) (*oauth2.Config, error) {
	raw, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read google credentials %s: %w", credentialsFile, err)
	}
	cfg, err := google.ConfigFromJSON(raw, slides.PresentationsScope)
	if err != nil {
		return nil, fmt.Errorf("parse google credentials: %w", err)
	}
	return cfg, nil
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	token := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(token); err != nil {
		return nil, err
	}
	return token, nil
}

func saveToken(path string, token *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("cache oauth token: %w", err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}
