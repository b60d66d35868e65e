package config

import "time"

// ApplyDefaults fills every tunable section that the config file left out.
// The congestion tables are hand-tuned for Dakar-area rush patterns.
func (c *Config) ApplyDefaults() {
	if c.Traffic == nil {
		c.Traffic = &TrafficConfig{}
	}
	c.Traffic.applyDefaults()

	if c.Estimator == nil {
		c.Estimator = &EstimatorConfig{}
	}
	c.Estimator.applyDefaults()

	if c.Reorder == nil {
		c.Reorder = &ReorderConfig{}
	}
	if c.Reorder.TriggerThresholdMinutes <= 0 {
		c.Reorder.TriggerThresholdMinutes = 15
	}
	if c.Reorder.PositionToleranceMinutes <= 0 {
		c.Reorder.PositionToleranceMinutes = 10
	}

	if c.Scheduler == nil {
		c.Scheduler = &SchedulerConfig{}
	}
	c.Scheduler.applyDefaults()

	if c.Providers == nil {
		c.Providers = &ProvidersConfig{}
	}
	c.Providers.applyDefaults()
}

func (t *TrafficConfig) applyDefaults() {
	if len(t.HourlyFactors) == 0 {
		t.HourlyFactors = map[int]float64{
			0: 0.7, 1: 0.6, 2: 0.6, 3: 0.6, 4: 0.7, 5: 0.8,
			6: 1.1, 7: 1.8, 8: 2.2, 9: 1.7,
			10: 1.0, 11: 1.0, 12: 1.3, 13: 1.4,
			14: 1.2, 15: 1.1, 16: 1.1, 17: 2.0,
			18: 2.5, 19: 1.9, 20: 1.4, 21: 1.0,
			22: 0.9, 23: 0.8,
		}
	}
	if len(t.DailyFactors) == 0 {
		// time.Weekday numbering: Sunday=0. Friday carries the heaviest load.
		t.DailyFactors = map[int]float64{
			0: 0.7, 1: 1.0, 2: 1.1, 3: 1.1, 4: 1.2, 5: 1.3, 6: 0.8,
		}
	}
	if t.MorningRushStart == 0 && t.MorningRushEnd == 0 {
		t.MorningRushStart, t.MorningRushEnd = 7, 9
	}
	if t.EveningRushStart == 0 && t.EveningRushEnd == 0 {
		t.EveningRushStart, t.EveningRushEnd = 17, 19
	}
	if t.RouteConditionMaxAge <= 0 {
		t.RouteConditionMaxAge = 30 * time.Minute
	}
	if t.DefaultRouteFactor <= 0 {
		t.DefaultRouteFactor = 1.2
	}
}

func (e *EstimatorConfig) applyDefaults() {
	if len(e.BaseSpeedsKmh) == 0 {
		// Urban speed assumptions; taxi is slower than a private car because
		// of pickup stops, buses stop the most.
		e.BaseSpeedsKmh = map[string]float64{
			"walk": 5, "bike": 15, "moto": 35, "car": 40, "taxi": 35, "bus": 25,
		}
	}
	if len(e.MarginMultipliers) == 0 {
		// Reliability of each mode: bus schedules slip the most, a moto
		// threads through congestion.
		e.MarginMultipliers = map[string]float64{
			"walk": 1.2, "bike": 1.3, "moto": 1.1, "car": 1.5, "taxi": 1.7, "bus": 2.0,
		}
	}
	if e.MinMarginMinutes <= 0 {
		e.MinMarginMinutes = 5
	}
	if e.MaxMarginMinutes <= 0 {
		e.MaxMarginMinutes = 30
	}
	if e.ProviderConfidence <= 0 {
		e.ProviderConfidence = 85
	}
	if e.FallbackConfidence <= 0 {
		e.FallbackConfidence = 60
	}
	if e.EstimateMaxAge <= 0 {
		e.EstimateMaxAge = 15 * time.Minute
	}
	if e.WeatherMaxAge <= 0 {
		e.WeatherMaxAge = 2 * time.Hour
	}
}

func (s *SchedulerConfig) applyDefaults() {
	if s.RefreshPositionsInterval <= 0 {
		s.RefreshPositionsInterval = 5 * time.Minute
	}
	if s.ComputeEstimatesInterval <= 0 {
		s.ComputeEstimatesInterval = 10 * time.Minute
	}
	if s.EvaluateReordersInterval <= 0 {
		s.EvaluateReordersInterval = 5 * time.Minute
	}
	if s.DepartureNoticesInterval <= 0 {
		s.DepartureNoticesInterval = time.Minute
	}
	if s.RefreshConditionsInterval <= 0 {
		s.RefreshConditionsInterval = 15 * time.Minute
	}
	if s.CleanupInterval <= 0 {
		s.CleanupInterval = 24 * time.Hour
	}
	if s.MaxAttempts <= 0 {
		s.MaxAttempts = 4
	}
	if s.BackoffBase <= 0 {
		s.BackoffBase = 5 * time.Second
	}
}

func (p *ProvidersConfig) applyDefaults() {
	// Host only, the provider appends the Directions path itself.
	if p.Maps.BaseURL == "" {
		p.Maps.BaseURL = "https://maps.googleapis.com"
	}
	if p.OSRM.BaseURL == "" {
		p.OSRM.BaseURL = "https://router.project-osrm.org"
	}
	if p.RequestTimeout <= 0 {
		p.RequestTimeout = 10 * time.Second
	}
	if p.TrafficAwareTTL <= 0 {
		p.TrafficAwareTTL = 10 * time.Minute
	}
	if p.StaticTTL <= 0 {
		p.StaticTTL = 30 * time.Minute
	}
}
