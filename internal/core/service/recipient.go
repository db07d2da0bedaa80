package service

import (
	"context"
	"fmt"

	"github.com/freelanceos/backend/internal/core/domain"
	"github.com/freelanceos/backend/internal/core/ports"
)

// resolveRecipient picks the address an outbound client email goes to: the
// ad-hoc address when given, else the client's address on file. When save is
// set the ad-hoc address replaces the one on the client record.
func resolveRecipient(ctx context.Context, clients ports.ClientRepository, clock Clock, ownerID, clientID, adhoc string, save bool) (*domain.Client, string, error) {
	var client *domain.Client
	if clientID != "" {
		c, err := clients.FindByID(ctx, ownerID, clientID)
		if err != nil && adhoc == "" {
			return nil, "", err
		}
		client = c
	}

	to := normalizeEmail(adhoc)
	if to == "" {
		if client == nil || client.Email == "" {
			return client, "", domain.ErrClientEmailMissing
		}
		return client, client.Email, nil
	}
	if err := valueValidator.Var(to, "email"); err != nil {
		return client, "", domain.Invalidf("invalid email %q", adhoc)
	}

	if save && client != nil && client.Email != to {
		client.Email = to
		client.UpdatedAt = clock.Now()
		if err := clients.Update(ctx, client); err != nil {
			return client, "", fmt.Errorf("save client email: %w", err)
		}
	}
	return client, to, nil
}
