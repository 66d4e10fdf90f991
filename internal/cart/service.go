package cart

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/AdonesMapula/rapollo-web/internal/cache"
	"github.com/AdonesMapula/rapollo-web/internal/domain"
	"github.com/AdonesMapula/rapollo-web/internal/repository"
	"golang.org/x/sync/singleflight"
)

// DefaultSize is used when a product is added without an explicit size
// selection.
const DefaultSize = "M"

var ErrLineOutOfRange = errors.New("cart line index out of range")

type Service struct {
	repo  repository.CartRepository
	cache cache.CartCache
	sfg   singleflight.Group // Prevents cache stampede
}

func NewService(repo repository.CartRepository, cache cache.CartCache) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
	}
}

func (s *Service) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	// Use singleflight to prevent multiple concurrent cache misses for same key
	v, err, _ := s.sfg.Do(userID, func() (interface{}, error) {

		cart, err := s.cache.Get(ctx, userID)
		if err == nil {
			return cart, nil // cart is in cache
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v \n", err) // log cache error but continue
		}

		cart, errGet := s.repo.GetCart(ctx, userID)
		if errGet != nil && errors.Is(errGet, repository.ErrCartNotFound) { // not found cart return empty cart
			return &domain.Cart{
				UserID:    userID,
				Lines:     nil,
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			}, nil
		}
		if errGet != nil {
			return nil, errGet // err from repo is not cache miss, return it
		}

		// set cache
		go func() {
			errSet := s.cache.Set(context.Background(), userID, cart)
			if errSet != nil {
				log.Printf("cache set error: %v \n", errSet)
			}
		}()

		return cart, nil // cart was not in cache, return it from repo
	})

	if err != nil {
		return nil, err
	}

	// Concurrent callers coalesced by singleflight all receive the same
	// result value. Each gets its own copy so a write path mutating
	// cart.Lines never races another caller.
	return cloneCart(v.(*domain.Cart)), nil
}

func cloneCart(cart *domain.Cart) *domain.Cart {
	copied := *cart
	copied.Lines = append([]domain.CartLine(nil), cart.Lines...)
	return &copied
}

// AddItem merges on the (product, size) key: an existing line gains one
// unit, otherwise a new line with quantity 1 and a price/name/image
// snapshot is appended. An empty size falls back to DefaultSize.
func (s *Service) AddItem(ctx context.Context, userID string, product domain.Product, size string) (*domain.Cart, error) {
	if size == "" {
		size = DefaultSize
	}

	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	merged := false
	for i := range cart.Lines {
		if cart.Lines[i].ProductID == product.ID && cart.Lines[i].Size == size {
			cart.Lines[i].Quantity++
			merged = true
			break
		}
	}
	if !merged {
		cart.Lines = append(cart.Lines, domain.CartLine{
			ProductID: product.ID,
			Size:      size,
			Quantity:  1,
			Name:      product.Name,
			Brand:     product.Brand,
			Price:     product.Price,
			Image:     product.Image,
			AddedAt:   time.Now(),
		})
	}

	return s.save(ctx, cart)
}

// Increment adds one unit to the line at index.
func (s *Service) Increment(ctx context.Context, userID string, index int) (*domain.Cart, error) {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(cart.Lines) {
		return nil, ErrLineOutOfRange
	}

	cart.Lines[index].Quantity++
	return s.save(ctx, cart)
}

// Decrement removes one unit from the line at index; a line at quantity
// 1 is removed outright so the cart never holds a zero-quantity line.
func (s *Service) Decrement(ctx context.Context, userID string, index int) (*domain.Cart, error) {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(cart.Lines) {
		return nil, ErrLineOutOfRange
	}

	if cart.Lines[index].Quantity > 1 {
		cart.Lines[index].Quantity--
	} else {
		cart.Lines = append(cart.Lines[:index], cart.Lines[index+1:]...)
	}
	return s.save(ctx, cart)
}

// RemoveLine drops the line at index regardless of quantity.
func (s *Service) RemoveLine(ctx context.Context, userID string, index int) (*domain.Cart, error) {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(cart.Lines) {
		return nil, ErrLineOutOfRange
	}

	cart.Lines = append(cart.Lines[:index], cart.Lines[index+1:]...)
	return s.save(ctx, cart)
}

func (s *Service) Clear(ctx context.Context, userID string) error {
	errDelete := s.repo.DeleteCart(ctx, userID)
	if errDelete != nil && !errors.Is(errDelete, repository.ErrCartNotFound) {
		log.Printf("repo delete cart error: %v \n", errDelete)
		return errDelete
	}

	s.invalidateCache(userID)
	return nil
}

func (s *Service) save(ctx context.Context, cart *domain.Cart) (*domain.Cart, error) {
	if err := s.repo.ReplaceCart(ctx, cart); err != nil {
		log.Printf("repo replace cart error: %v \n", err)
		return nil, err
	}

	s.invalidateCache(cart.UserID)
	return cart, nil
}

func (s *Service) invalidateCache(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	errInvalidate := s.cache.Delete(ctx, userID)
	if errInvalidate != nil {
		log.Printf("cache invalidate error: %v \n", errInvalidate)
	}
}
