package main

import (
	"context"
	"errors"
	"log"
	"net/http"

	adapthttp "todolist/internal/adapter/http"
	"todolist/internal/adapter/memory"
	"todolist/internal/adapter/postgres"
	"todolist/internal/adapter/sqlite"
	"todolist/internal/app"
	"todolist/internal/config"
	"todolist/internal/domain"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

type store interface {
	domain.UserRepository
	domain.TaskRepository
	Close() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := openStore(cfg)
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	defer func() { _ = db.Close() }()

	tokens, err := app.NewTokenService(cfg.Token)
	if err != nil {
		log.Fatalf("token service: %v", err)
	}
	creds := app.NewCredentialService(db)
	gate := app.NewSessionGate(tokens, db)
	tasks := app.NewTaskService(db)

	ctx := context.Background()
	if err := seedUsers(ctx, cfg, creds); err != nil {
		log.Fatalf("seed users: %v", err)
	}

	srv := adapthttp.New(creds, tokens, gate, tasks, cfg.WebDir).WithSecureCookies(cfg.CookieSecure)
	if cfg.OIDC.Enabled() {
		oidcCfg, err := newOIDC(ctx, cfg.OIDC)
		if err != nil {
			log.Fatalf("oidc: %v", err)
		}
		srv = srv.WithOIDC(oidcCfg)
		log.Printf("sso enabled via %s", cfg.OIDC.Issuer)
	}

	log.Printf("listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, srv.Handler()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

func openStore(cfg config.Config) (store, error) {
	switch {
	case cfg.DatabaseURL != "":
		log.Printf("using postgres store")
		return postgres.Open(cfg.DatabaseURL)
	case cfg.SQLitePath != "":
		log.Printf("using sqlite store at %s", cfg.SQLitePath)
		return sqlite.Open(cfg.SQLitePath)
	default:
		log.Printf("using in-memory store; data is lost on restart")
		return memory.New(), nil
	}
}

// seedUsers registers the demo accounts from SEED_USERS. Existing logins are
// left untouched.
func seedUsers(ctx context.Context, cfg config.Config, creds *app.CredentialService) error {
	seeds, err := cfg.Seeds()
	if err != nil {
		return err
	}
	for _, seed := range seeds {
		_, err := creds.RegisterUser(ctx, seed.Login, seed.Password)
		switch {
		case errors.Is(err, domain.ErrDuplicateUser):
			log.Printf("user exists: %s", seed.Login)
		case err != nil:
			return err
		default:
			log.Printf("user created: %s", seed.Login)
		}
	}
	return nil
}

func newOIDC(ctx context.Context, cfg config.OIDC) (adapthttp.OIDCConfig, error) {
	provider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return adapthttp.OIDCConfig{}, err
	}
	return adapthttp.OIDCConfig{
		Provider: provider,
		OAuth2Config: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
		},
	}, nil
}
