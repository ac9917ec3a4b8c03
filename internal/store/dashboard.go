package store

import (
	"context"

	"github.com/Veraticus/wallet/internal/common"
	"github.com/Veraticus/wallet/internal/model"
)

// DashboardGateway is what the dashboard store needs from its gateway.
type DashboardGateway interface {
	Data(ctx context.Context, period, startDate, endDate string) (model.DashboardData, error)
	PeriodSummary(ctx context.Context, clientPeriod string) (*model.PeriodSummary, error)
}

// DashboardState holds the dashboard totals and the latest period summary.
type DashboardState struct {
	Summary *model.PeriodSummary
	Data    model.DashboardData
	Period  string
	Error   string
	Status  Status
	Loading bool
}

// Dashboard is the dashboard store. A failed fetch keeps the previous
// totals.
type Dashboard struct {
	*Container[DashboardState]
	gw DashboardGateway
}

// NewDashboard creates the dashboard store.
func NewDashboard(gw DashboardGateway) *Dashboard {
	return &Dashboard{
		Container: NewContainer(DashboardState{Status: StatusIdle, Period: model.DefaultPeriod}),
		gw:        gw,
	}
}

// DashboardPending starts a dashboard operation.
func DashboardPending(s DashboardState) DashboardState {
	s.Loading = true
	s.Error = ""
	s.Status = StatusPending
	return s
}

// DashboardRejected records a failed dashboard operation.
func DashboardRejected(s DashboardState, err error) DashboardState {
	s.Loading = false
	s.Error = common.Message(err)
	s.Status = StatusRejected
	return s
}

// FetchData loads the totals for period between startDate and endDate.
func (d *Dashboard) FetchData(ctx context.Context, period, startDate, endDate string) error {
	d.Apply(DashboardPending)
	data, err := d.gw.Data(ctx, period, startDate, endDate)
	if err != nil {
		d.Apply(func(s DashboardState) DashboardState { return DashboardRejected(s, err) })
		return err
	}
	d.Apply(func(s DashboardState) DashboardState {
		s.Loading = false
		s.Status = StatusFulfilled
		s.Data = data
		s.Period = period
		return s
	})
	return nil
}

// FetchPeriodSummary loads the latest summary for a client period.
func (d *Dashboard) FetchPeriodSummary(ctx context.Context, period string) error {
	d.Apply(DashboardPending)
	summary, err := d.gw.PeriodSummary(ctx, period)
	if err != nil {
		d.Apply(func(s DashboardState) DashboardState { return DashboardRejected(s, err) })
		return err
	}
	d.Apply(func(s DashboardState) DashboardState {
		s.Loading = false
		s.Status = StatusFulfilled
		s.Summary = summary
		s.Period = period
		return s
	})
	return nil
}
