package catalog

import (
	"context"
	"log"

	"github.com/AdonesMapula/rapollo-web/internal/domain"
	"github.com/AdonesMapula/rapollo-web/internal/repository"
)

// Service reads the externally managed catalog collections and applies
// the page facets. A load failure degrades to an empty result with a
// log line; the pages show "no items found" instead of a hard error.
type Service struct {
	repo repository.CatalogRepository
}

func NewService(repo repository.CatalogRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Products(ctx context.Context, f ProductFilter) []domain.Product {
	products, err := s.repo.Products(ctx)
	if err != nil {
		log.Printf("catalog load error (products): %v", err)
		return []domain.Product{}
	}
	return FilterProducts(products, f)
}

func (s *Service) Events(ctx context.Context, year, search string) []domain.Event {
	events, err := s.repo.Events(ctx)
	if err != nil {
		log.Printf("catalog load error (events): %v", err)
		return []domain.Event{}
	}
	return FilterEvents(events, year, search)
}

// Years lists the distinct event years for the archive filter.
func (s *Service) Years(ctx context.Context) []int {
	events, err := s.repo.Events(ctx)
	if err != nil {
		log.Printf("catalog load error (events): %v", err)
		return []int{}
	}
	return EventYears(events)
}

func (s *Service) Emcees(ctx context.Context, search string, order SortOrder) []domain.Emcee {
	emcees, err := s.repo.Emcees(ctx)
	if err != nil {
		log.Printf("catalog load error (emcees): %v", err)
		return []domain.Emcee{}
	}
	return FilterEmcees(emcees, search, order)
}

func (s *Service) TicketEvents(ctx context.Context) []domain.TicketEvent {
	tickets, err := s.repo.TicketEvents(ctx)
	if err != nil {
		log.Printf("catalog load error (tickets): %v", err)
		return []domain.TicketEvent{}
	}
	return tickets
}

// Product looks up a single product by id for add-to-cart snapshots.
func (s *Service) Product(ctx context.Context, id string) (*domain.Product, bool) {
	products, err := s.repo.Products(ctx)
	if err != nil {
		log.Printf("catalog load error (products): %v", err)
		return nil, false
	}
	for i := range products {
		if products[i].ID == id {
			return &products[i], true
		}
	}
	return nil, false
}
