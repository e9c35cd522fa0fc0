package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/martijn/clientcrud/internal/core/domain"
	"github.com/martijn/clientcrud/internal/core/repository"
	"github.com/sirupsen/logrus"
)

type ClientService struct {
	clientRepo repository.ClientRepository
	log        logrus.FieldLogger
}

func NewClientService(clientRepo repository.ClientRepository, log logrus.FieldLogger) *ClientService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &ClientService{
		clientRepo: clientRepo,
		log:        log.WithField("component", "client_service"),
	}
}

// GetClients lists every client
func (s *ClientService) GetClients(ctx context.Context) (*Result, error) {
	clients, err := s.clientRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}

	if len(clients) == 0 {
		s.log.Debug("no clients stored")
		return notFound(MsgNoClients), nil
	}

	return ok(clients), nil
}

// GetClient looks up a single client. The OK body is the Optional returned by
// the repository.
func (s *ClientService) GetClient(ctx context.Context, id int64) (*Result, error) {
	client, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find client: %w", err)
	}

	if !client.IsPresent() {
		s.log.WithField("client_id", id).Debug("client not found")
		return notFound(MsgClientNotFound + strconv.FormatInt(id, 10)), nil
	}

	return ok(client), nil
}

// SaveOrUpdate stores the client unless another record (or the client
// itself) already uses its email.
//
// The email lookup does not exclude the client's own ID, so updating a client
// without changing its email is rejected as a duplicate.
func (s *ClientService) SaveOrUpdate(ctx context.Context, client *domain.Client) (*Result, error) {
	existing, err := s.clientRepo.FindByEmail(ctx, client.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}

	if existing.IsPresent() {
		s.log.WithField("email", client.Email).Debug("email already registered")
		return notFound(MsgEmailExists + client.Email), nil
	}

	saved, err := s.clientRepo.Save(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("failed to save client: %w", err)
	}
	if saved != nil {
		s.log.WithField("client_id", saved.ID).Info("client saved")
	}

	return ok(MsgEmailSaved), nil
}

// Delete removes a client after checking that it exists.
func (s *ClientService) Delete(ctx context.Context, id int64) (*Result, error) {
	found, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find client: %w", err)
	}

	client, present := found.Get()
	if !present {
		s.log.WithField("client_id", id).Debug("delete of missing client")
		return notFound(MsgDeleteMissing), nil
	}

	if err := s.clientRepo.DeleteByID(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to delete client: %w", err)
	}
	s.log.WithField("client_id", id).Info("client deleted")

	return ok(MsgClientDeleted + client.Name), nil
}
