package store

import (
	"slices"
	"time"

	"github.com/Veraticus/wallet/internal/model"
)

// NotificationKind is the severity of a notification.
type NotificationKind string

// Notification kinds.
const (
	NotifyInfo    NotificationKind = "info"
	NotifySuccess NotificationKind = "success"
	NotifyError   NotificationKind = "error"
)

// Notification is a dismissable message.
type Notification struct {
	Kind    NotificationKind
	Message string
	ID      int
}

// UIState is the view state: selected period, date range, the transaction
// form draft and pending notifications.
type UIState struct {
	Period        string
	DateFrom      string
	DateTo        string
	Notifications []Notification
	Draft         model.Transaction
	nextID        int
}

// NewUIState returns the view state for today: the current month so far
// and an expense draft dated today.
func NewUIState(now time.Time) UIState {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return UIState{
		Period:   model.DefaultPeriod,
		DateFrom: start.Format(model.DateLayout),
		DateTo:   now.Format(model.DateLayout),
		Draft:    NewDraft(now),
	}
}

// NewDraft returns an empty expense dated now.
func NewDraft(now time.Time) model.Transaction {
	return model.Transaction{
		Type: model.TransactionTypeExpense,
		Date: now.Format(model.DateLayout),
		Tags: []string{},
	}
}

// WithDraftType switches the draft's type. The category is dropped when it
// is not selectable for the new type; transfers never keep one.
func WithDraftType(s UIState, txType model.TransactionType, categories []model.Category) UIState {
	s.Draft.Type = txType
	allowed := model.CategoriesForType(categories, txType)
	if model.FindIndex(allowed, s.Draft.Category, model.CategoryID) < 0 {
		s.Draft.Category = model.NullID()
	}
	if txType != model.TransactionTypeTransfer {
		s.Draft.DestinationAccount = model.NullID()
	}
	return s
}

// Notified appends a notification.
func Notified(s UIState, kind NotificationKind, msg string) UIState {
	s.nextID++
	s.Notifications = append(slices.Clone(s.Notifications), Notification{ID: s.nextID, Kind: kind, Message: msg})
	return s
}

// Dismissed removes the notification with id.
func Dismissed(s UIState, id int) UIState {
	s.Notifications = slices.DeleteFunc(slices.Clone(s.Notifications), func(n Notification) bool {
		return n.ID == id
	})
	return s
}

// UI is the view state store.
type UI struct {
	*Container[UIState]
	now func() time.Time
}

// NewUI creates the view state store.
func NewUI(now func() time.Time) *UI {
	if now == nil {
		now = time.Now
	}
	return &UI{Container: NewContainer(NewUIState(now())), now: now}
}

// Period returns the selected client period.
func (u *UI) Period() string { return u.Snapshot().Period }

// SetPeriod selects a client period.
func (u *UI) SetPeriod(period string) {
	u.Apply(func(s UIState) UIState {
		s.Period = period
		return s
	})
}

// SetDateRange selects the dashboard date range.
func (u *UI) SetDateRange(from, to string) {
	u.Apply(func(s UIState) UIState {
		s.DateFrom, s.DateTo = from, to
		return s
	})
}

// SetDraftType switches the draft transaction type.
func (u *UI) SetDraftType(txType model.TransactionType, categories []model.Category) {
	u.Apply(func(s UIState) UIState { return WithDraftType(s, txType, categories) })
}

// EditDraft loads an existing transaction into the form.
func (u *UI) EditDraft(t model.Transaction) {
	u.Apply(func(s UIState) UIState {
		s.Draft = t
		return s
	})
}

// ResetDraft clears the transaction form.
func (u *UI) ResetDraft() {
	u.Apply(func(s UIState) UIState {
		s.Draft = NewDraft(u.now())
		return s
	})
}

// Notify queues a notification and returns its id.
func (u *UI) Notify(kind NotificationKind, msg string) int {
	return u.Apply(func(s UIState) UIState { return Notified(s, kind, msg) }).nextID
}

// Dismiss removes a notification.
func (u *UI) Dismiss(id int) {
	u.Apply(func(s UIState) UIState { return Dismissed(s, id) })
}
