package cart

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/JuanAndresGH-hub/marketplace/internal/apiclient"
	"github.com/JuanAndresGH-hub/marketplace/internal/logging"
	"github.com/JuanAndresGH-hub/marketplace/internal/session"
)

type AuthAPI interface {
	Register(ctx context.Context, username, password, role string) (string, error)
	Login(ctx context.Context, username, password string) (string, error)
}

type Auth struct {
	API      AuthAPI
	Sessions session.SessionStore
	Logger   *slog.Logger
}

func (a *Auth) log(ctx context.Context, op string) *slog.Logger {
	fallback := a.Logger
	if fallback == nil {
		fallback = logging.Discard()
	}
	return logging.FromContextOr(ctx, fallback).With("svc", op)
}

func validateCredentials(username, password string) error {
	if strings.TrimSpace(username) == "" {
		return fmt.Errorf("username required: %w", ErrValidation)
	}
	if password == "" {
		return fmt.Errorf("password required: %w", ErrValidation)
	}
	return nil
}

// Register creates a regular user account and logs it in.
func (a *Auth) Register(ctx context.Context, username, password string) error {
	l := a.log(ctx, "auth.register").With("username", username)
	if err := validateCredentials(username, password); err != nil {
		return err
	}
	if _, err := a.API.Register(ctx, username, password, apiclient.RoleUser); err != nil {
		l.Warn("register failed", "status", apiclient.StatusCode(err), "error", err)
		return err
	}
	l.Info("registered")
	return a.Login(ctx, username, password)
}

func (a *Auth) Login(ctx context.Context, username, password string) error {
	l := a.log(ctx, "auth.login").With("username", username)
	if err := validateCredentials(username, password); err != nil {
		return err
	}
	token, err := a.API.Login(ctx, username, password)
	if err != nil {
		l.Warn("login failed", "status", apiclient.StatusCode(err), "error", err)
		return err
	}
	if err := a.Sessions.Set(ctx, session.Session{Token: token, Username: username}); err != nil {
		l.Error("login_error", "reason", "cannot store session", "error", err)
		return fmt.Errorf("store session: %w", err)
	}
	l.Info("logged in")
	return nil
}

// Logout drops the token and username. Favorites are kept.
func (a *Auth) Logout(ctx context.Context) error {
	if err := a.Sessions.Clear(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	a.log(ctx, "auth.logout").Info("logged out")
	return nil
}

func (a *Auth) Current(ctx context.Context) (session.Session, error) {
	return a.Sessions.Get(ctx)
}

func (a *Auth) LoggedIn(ctx context.Context) bool {
	return session.Token(ctx, a.Sessions) != ""
}
