package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Veraticus/wallet/internal/common"
	"github.com/Veraticus/wallet/internal/model"
)

// Annotated wraps every error from next in a UserError carrying the
// notification text for that failure.
type Annotated[T any] struct {
	next Resource[T]
}

// NewAnnotated wraps next.
func NewAnnotated[T any](next Resource[T]) *Annotated[T] {
	return &Annotated[T]{next: next}
}

// GetAll implements Resource.
func (a *Annotated[T]) GetAll(ctx context.Context) ([]T, error) {
	items, err := a.next.GetAll(ctx)
	return items, annotate(err)
}

// GetByID implements Resource.
func (a *Annotated[T]) GetByID(ctx context.Context, id model.ID) (T, error) {
	item, err := a.next.GetByID(ctx, id)
	return item, annotate(err)
}

// Add implements Resource.
func (a *Annotated[T]) Add(ctx context.Context, item T) (T, error) {
	created, err := a.next.Add(ctx, item)
	return created, annotate(err)
}

// Update implements Resource.
func (a *Annotated[T]) Update(ctx context.Context, item T) (T, error) {
	updated, err := a.next.Update(ctx, item)
	return updated, annotate(err)
}

// Delete implements Resource.
func (a *Annotated[T]) Delete(ctx context.Context, id model.ID) error {
	return annotate(a.next.Delete(ctx, id))
}

func annotate(err error) error {
	if err == nil {
		return nil
	}
	var userErr *common.UserError
	if errors.As(err, &userErr) {
		return err
	}
	return common.NewUserError(UserMessage(err), err)
}

// UserMessage maps a failure to the text shown in a notification.
func UserMessage(err error) string {
	var serverErr *common.ServerError
	var validationErr *common.ValidationError
	switch {
	case errors.As(err, &serverErr):
		switch serverErr.Status {
		case http.StatusUnauthorized:
			return "authorization required"
		case http.StatusForbidden:
			return "access denied"
		case http.StatusNotFound:
			return "resource not found"
		default:
			return fmt.Sprintf("server error: %d", serverErr.Status)
		}
	case errors.Is(err, common.ErrNetwork):
		return "cannot reach server"
	case errors.Is(err, common.ErrNotFound):
		return "resource not found"
	case errors.As(err, &validationErr):
		return validationErr.Error()
	default:
		return err.Error()
	}
}
