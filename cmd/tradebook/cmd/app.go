package cmd

import (
	"context"
	"fmt"

	"github.com/rustyeddy/tradebook/auth"
	"github.com/rustyeddy/tradebook/session"
	"github.com/rustyeddy/tradebook/store"
)

// app holds what every command needs: the open store and the auth service.
type app struct {
	store store.Store
	auth  *auth.Service
}

func openApp() (*app, error) {
	st, err := store.Open(cfg.Storage.Type, cfg.Storage.Path())
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Storage.Type, err)
	}
	return &app{
		store: st,
		auth:  auth.NewService(st, cfg.Auth.BcryptCost),
	}, nil
}

// login opens the store and returns a session logged in with the command
// line credentials.
func login(ctx context.Context) (*session.Session, *app, error) {
	user, pass, err := credentials()
	if err != nil {
		return nil, nil, err
	}
	a, err := openApp()
	if err != nil {
		return nil, nil, err
	}
	s := session.New(a.store, a.store, a.auth,
		session.WithLogger(log),
		session.WithLabels(cfg.Labels.Ledger()),
	)
	if err := s.Login(ctx, user, pass); err != nil {
		a.Close()
		return nil, nil, err
	}
	return s, a, nil
}

func (a *app) Close() error {
	return a.store.Close()
}
