package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"

	"github.com/arctechlabs/iris/agents"
	"github.com/arctechlabs/iris/framework"
	gapi "github.com/arctechlabs/iris/internal/google"
	sfapi "github.com/arctechlabs/iris/internal/salesforce"
	"github.com/arctechlabs/iris/persistence"
)

// oauthConfig builds the authorization-code config for a provider.
func (a *API) oauthConfig(provider string) *oauth2.Config {
	redirect := fmt.Sprintf("%s/api/%s/callback", a.Config.Server.BaseURL, provider)
	switch provider {
	case persistence.ProviderSalesforce:
		return &oauth2.Config{
			ClientID:     a.Config.Salesforce.ClientID,
			ClientSecret: a.Config.Salesforce.ClientSecret,
			RedirectURL:  redirect,
			Scopes:       []string{"api", "refresh_token"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  a.Config.Salesforce.LoginURL + "/services/oauth2/authorize",
				TokenURL: a.Config.Salesforce.LoginURL + "/services/oauth2/token",
			},
		}
	case persistence.ProviderGoogle:
		return &oauth2.Config{
			ClientID:     a.Config.Google.ClientID,
			ClientSecret: a.Config.Google.ClientSecret,
			RedirectURL:  redirect,
			Scopes:       gapi.Scopes,
			Endpoint:     googleoauth.Endpoint,
		}
	}
	return nil
}

func (a *API) handleAuthorize(provider string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Query().Get("user")
		if userID == "" {
			userID = DefaultUserID
		}
		cfg := a.oauthConfig(provider)
		if cfg == nil || cfg.ClientID == "" {
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: provider + " is not configured"})
			return
		}
		opts := []oauth2.AuthCodeOption{oauth2.AccessTypeOffline}
		if provider == persistence.ProviderGoogle {
			// force a refresh token even on re-consent
			opts = append(opts, oauth2.SetAuthURLParam("prompt", "consent"))
		}
		http.Redirect(w, r, cfg.AuthCodeURL(userID, opts...), http.StatusFound)
	}
}

func (a *API) handleCallback(provider string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing authorization code"})
			return
		}
		userID := r.URL.Query().Get("state")
		if userID == "" {
			userID = DefaultUserID
		}
		cfg := a.oauthConfig(provider)
		if cfg == nil {
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: provider + " is not configured"})
			return
		}
		token, err := cfg.Exchange(r.Context(), code)
		if err != nil {
			a.logf("%s token exchange failed: %v", provider, err)
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: "token exchange failed"})
			return
		}
		if err := a.Store.SaveToken(r.Context(), userID, provider, token); err != nil {
			a.logf("%s token save failed: %v", provider, err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to store credentials"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"provider":  provider,
			"connected": true,
		})
	}
}

// buildWorkflow assembles the per-user workflow, attaching the Salesforce
// and Google specialists only when the user has connected those accounts.
func (a *API) buildWorkflow(ctx context.Context, userID string) (*framework.Workflow, error) {
	deps := agents.Deps{
		Model:     a.Model,
		Search:    a.Config.Search,
		Telemetry: a.Telemetry,
	}

	if token, err := a.Store.Token(ctx, userID, persistence.ProviderSalesforce); err == nil {
		instanceURL, _ := token.Extra("instance_url").(string)
		if instanceURL != "" {
			source := &persistence.PersistingTokenSource{
				Store:    a.Store,
				UserID:   userID,
				Provider: persistence.ProviderSalesforce,
				Source:   a.oauthConfig(persistence.ProviderSalesforce).TokenSource(ctx, token),
			}
			deps.Salesforce = sfapi.New(instanceURL, source)
		}
	} else if !errors.Is(err, persistence.ErrNoCredentials) {
		return nil, err
	}

	if token, err := a.Store.Token(ctx, userID, persistence.ProviderGoogle); err == nil {
		source := &persistence.PersistingTokenSource{
			Store:    a.Store,
			UserID:   userID,
			Provider: persistence.ProviderGoogle,
			Source:   a.oauthConfig(persistence.ProviderGoogle).TokenSource(ctx, token),
		}
		services, err := gapi.NewServices(ctx, source)
		if err != nil {
			return nil, err
		}
		deps.Google = services
	} else if !errors.Is(err, persistence.ErrNoCredentials) {
		return nil, err
	}

	return agents.BuildIRIS(a.Config, deps)
}
