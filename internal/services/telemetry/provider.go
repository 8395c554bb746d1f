package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/internal/models"
	"github.com/sirupsen/logrus"
)

// Provider supplies the current snapshot of the monitored system.
// Implementations must not mutate a snapshot once returned.
type Provider interface {
	GetSystemContext(ctx context.Context) (*models.SystemContext, error)
	GetEnergyData(ctx context.Context, period string) (*models.EnergyData, error)
}

// HTTPProvider pulls system context from the monitoring backend over
// HTTP. Falls back to reference data when the backend is unreachable
// so chat remains usable during backend outages.
type HTTPProvider struct {
	baseURL string
	client  *http.Client
	static  *StaticProvider
	logger  *logrus.Logger
}

func NewHTTPProvider(baseURL string, timeout time.Duration, logger *logrus.Logger) *HTTPProvider {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPProvider{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		static:  NewStaticProvider(),
		logger:  logger,
	}
}

func (p *HTTPProvider) GetSystemContext(ctx context.Context) (*models.SystemContext, error) {
	var snapshot models.SystemContext
	if err := p.fetch(ctx, "/api/system/context", &snapshot); err != nil {
		p.logger.WithError(err).Warn("Backend context fetch failed, using reference snapshot")
		return p.static.GetSystemContext(ctx)
	}
	if snapshot.Timestamp.IsZero() {
		snapshot.Timestamp = time.Now().UTC()
	}
	return &snapshot, nil
}

func (p *HTTPProvider) GetEnergyData(ctx context.Context, period string) (*models.EnergyData, error) {
	var data models.EnergyData
	if err := p.fetch(ctx, "/api/energy/usage?period="+period, &data); err != nil {
		p.logger.WithError(err).Warn("Backend energy fetch failed, using reference data")
		return p.static.GetEnergyData(ctx, period)
	}
	data.Period = period
	return &data, nil
}

func (p *HTTPProvider) fetch(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("backend returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode backend response: %w", err)
	}
	return nil
}

// StaticProvider serves fixed reference data for the demo bench of
// three loads. Used standalone in development and as the degraded
// path of HTTPProvider.
type StaticProvider struct{}

func NewStaticProvider() *StaticProvider {
	return &StaticProvider{}
}

func (p *StaticProvider) GetSystemContext(_ context.Context) (*models.SystemContext, error) {
	now := time.Now().UTC()
	return &models.SystemContext{
		Loads: []models.Load{
			{LoadID: 1, Name: "DC Fan", Type: "dc", IsOn: true, CurrentPower: 45, Voltage: 12, Current: 3.75},
			{LoadID: 2, Name: "AC Bulb", Type: "ac", IsOn: true, CurrentPower: 60, Voltage: 220, Current: 0.27, AutoMode: true},
			{LoadID: 3, Name: "AC Heater", Type: "ac", IsOn: false, CurrentPower: 0, Voltage: 220, Current: 0},
		},
		RecentAlerts: []models.Alert{
			{ID: 1, LoadID: 1, Severity: models.SeverityWarning, Message: "Power draw above configured threshold", Timestamp: now.Add(-30 * time.Minute)},
		},
		HourlyTrends: []models.TrendPoint{
			{LoadID: 1, AvgPower: 42, MaxPower: 50},
			{LoadID: 2, AvgPower: 58, MaxPower: 65},
		},
		Timestamp: now,
	}, nil
}

func (p *StaticProvider) GetEnergyData(_ context.Context, period string) (*models.EnergyData, error) {
	if period == "" {
		period = "today"
	}
	return &models.EnergyData{
		Period: period,
		Loads: []models.LoadEnergy{
			{Name: "DC Fan", ConsumptionKWh: 0.54, Cost: 0.065, PeakPowerW: 50, AvgPowerW: 42, RuntimeHours: 12},
			{Name: "AC Bulb", ConsumptionKWh: 0.72, Cost: 0.086, PeakPowerW: 65, AvgPowerW: 58, RuntimeHours: 12},
			{Name: "AC Heater", ConsumptionKWh: 4.5, Cost: 0.54, PeakPowerW: 1500, AvgPowerW: 1500, RuntimeHours: 3},
		},
		TotalConsumptionKWh: 5.76,
		TotalCost:           0.69,
		PeakHour:            "14:00-15:00",
		Timestamp:           time.Now().UTC(),
	}, nil
}
