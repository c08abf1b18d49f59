package utils

import (
	"context"
	"errors"

	"google.golang.org/api/idtoken"
)

type GoogleUser struct {
	Subject string
	Email   string
	Name    string
}

// VerifyGoogleIDToken validates a Google-issued ID token against our OAuth
// client and pulls out the identity claims the dashboard needs.
func VerifyGoogleIDToken(ctx context.Context, rawToken, clientID string) (*GoogleUser, error) {
	if clientID == "" {
		return nil, errors.New("GOOGLE_CLIENT_ID is not set")
	}

	payload, err := idtoken.Validate(ctx, rawToken, clientID)
	if err != nil {
		return nil, err
	}

	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return nil, errors.New("google token has no email claim")
	}
	name, _ := payload.Claims["name"].(string)

	return &GoogleUser{
		Subject: payload.Subject,
		Email:   email,
		Name:    name,
	}, nil
}
