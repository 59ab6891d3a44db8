package booking

import (
	"context"
	"net/url"

	"github.com/ambiyansyah-risyal/antrean"
)

// ServiceDefinitionService exposes service-definition CRUD operations.
type ServiceDefinitionService struct {
	client *antrean.Client
}

// NewServiceDefinitionService binds the service to a client.
func NewServiceDefinitionService(client *antrean.Client) *ServiceDefinitionService {
	return &ServiceDefinitionService{client: client}
}

// List fetches all service definitions.
func (s *ServiceDefinitionService) List(ctx context.Context) ([]ServiceDefinition, error) {
	return antrean.Get[[]ServiceDefinition](ctx, s.client, "/services-definition")
}

// Create defines a new service.
func (s *ServiceDefinitionService) Create(ctx context.Context, req CreateServiceRequest) (ServiceDefinition, error) {
	return antrean.Post[ServiceDefinition](ctx, s.client, "/services-definition", req)
}

// Update replaces a service definition's mutable fields.
func (s *ServiceDefinitionService) Update(ctx context.Context, id string, req UpdateServiceRequest) (ServiceDefinition, error) {
	return antrean.Put[ServiceDefinition](ctx, s.client, "/services-definition/"+url.PathEscape(id), req)
}

// Delete removes a service definition.
func (s *ServiceDefinitionService) Delete(ctx context.Context, id string) error {
	_, err := antrean.Delete[struct{}](ctx, s.client, "/services-definition/"+url.PathEscape(id))
	return err
}
