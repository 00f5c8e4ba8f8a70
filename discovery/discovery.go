package discovery

import (
	"fmt"
	"os"

	consulapi "github.com/hashicorp/consul/api"
	"github.com/rs/zerolog/log"
)

const serviceName = "socialload"

type Service struct {
	agent     *consulapi.Agent
	serviceID string
}

// RegisterInConsul registers the control server with its health check. An
// empty consul address disables registration and returns a nil service.
func RegisterInConsul(consulAddress string, port int) (*Service, error) {
	if consulAddress == "" {
		log.Info().Msg("Consul address is not set, skipping service registration")
		return nil, nil
	}

	config := consulapi.DefaultConfig()
	config.Address = consulAddress
	consul, err := consulapi.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("can't create consul client: %w", err)
	}

	address := os.Getenv("HOSTNAME")
	serviceID := fmt.Sprintf("%s-%s-%d", serviceName, address, port)

	registration := &consulapi.AgentServiceRegistration{
		ID:   serviceID,
		Name: serviceName,
		Port: port,
		Check: &consulapi.AgentServiceCheck{
			HTTP:     fmt.Sprintf("http://%s:%d/health", address, port),
			Interval: "15s",
			Timeout:  "20s",
		},
		Tags: []string{"prometheus_monitoring_endpoint=/metrics"},
	}

	if address != "" {
		registration.Address = address
	}

	if err = consul.Agent().ServiceRegister(registration); err != nil {
		return nil, fmt.Errorf("failed to register service %s:%v: %w", address, port, err)
	}
	log.Info().Msgf("Successfully register service: %s:%v", address, port)
	return &Service{agent: consul.Agent(), serviceID: serviceID}, nil
}

func (service *Service) DeregisterInConsul() {
	if service == nil {
		return
	}
	if err := service.agent.ServiceDeregister(service.serviceID); err != nil {
		log.Error().Err(err).Str("serviceId", service.serviceID).Msg("Failed to deregister service")
		return
	}
	log.Info().Str("serviceId", service.serviceID).Msg("Service deregistered")
}
