package store

import (
	"context"

	"github.com/Veraticus/wallet/internal/gateway"
	"github.com/Veraticus/wallet/internal/model"
)

// CategoryGateway is what the categories store needs from its gateway.
type CategoryGateway interface {
	gateway.Resource[model.Category]
	CreateDefaults(ctx context.Context) ([]model.Category, error)
}

// Categories is the category store.
type Categories struct {
	*Collection[model.Category]
	gw CategoryGateway
}

// NewCategories creates the category store.
func NewCategories(gw CategoryGateway) *Categories {
	return &Categories{
		Collection: NewCollection[model.Category](gw, model.CategoryID, model.DefaultCategories),
		gw:         gw,
	}
}

// CreateDefaults seeds the starter categories and loads them.
func (s *Categories) CreateDefaults(ctx context.Context) error {
	s.Apply(Pending[model.Category])
	categories, err := s.gw.CreateDefaults(ctx)
	if err != nil {
		s.reject(err)
		return err
	}
	s.Apply(func(st State[model.Category]) State[model.Category] { return Loaded(st, categories) })
	return nil
}

// ForType returns the in-memory categories selectable for txType.
func (s *Categories) ForType(txType model.TransactionType) []model.Category {
	return model.CategoriesForType(s.Items(), txType)
}

// Find returns the in-memory category with id.
func (s *Categories) Find(id model.ID) (model.Category, bool) {
	items := s.Items()
	if i := model.FindIndex(items, id, model.CategoryID); i >= 0 {
		return items[i], true
	}
	return model.Category{}, false
}
