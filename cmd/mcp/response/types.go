package response

// AccountInfo represents the resolved AWS identity
type AccountInfo struct {
	Provider    string `json:"provider"`
	AccountID   string `json:"account_id"`
	AccountName string `json:"account_name"`
}

// LineItem represents one grouped cost line
type LineItem struct {
	Key    string  `json:"key"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// CostSummary represents cost data for a time period
type CostSummary struct {
	StartDate string     `json:"start_date"`
	EndDate   string     `json:"end_date"`
	LineItems []LineItem `json:"line_items"`
	Total     float64    `json:"total"`
	Currency  string     `json:"currency"`
}

// CategoryBreakdown represents an instance's categorized costs
type CategoryBreakdown struct {
	InstanceID     string             `json:"instance_id"`
	Total          float64            `json:"total"`
	Categories     map[string]float64 `json:"categories"`
	RunningHours   float64            `json:"running_hours"`
	CostPerHour    float64            `json:"cost_per_hour"`
	CostPerGBMonth float64            `json:"cost_per_gb_month"`
}

// InstanceCosts pairs instance metadata with its cost breakdown
type InstanceCosts struct {
	InstanceID        string            `json:"instance_id"`
	Name              string            `json:"name"`
	InstanceType      string            `json:"instance_type"`
	State             string            `json:"state"`
	StorageGB         int32             `json:"storage_gb"`
	Breakdown         CategoryBreakdown `json:"breakdown"`
	DailyCost         float64           `json:"daily_cost"`
	MonthlyProjection float64           `json:"monthly_projection"`
}

// RegionalSummary represents all instances of a region with costs
type RegionalSummary struct {
	Region           string          `json:"region"`
	StartDate        string          `json:"start_date"`
	EndDate          string          `json:"end_date"`
	InstanceCount    int             `json:"instance_count"`
	RunningInstances int             `json:"running_instances"`
	StoppedInstances int             `json:"stopped_instances"`
	TotalCost        float64         `json:"total_cost"`
	Instances        []InstanceCosts `json:"instances"`
}

// WasteItem represents one instance with optimization opportunities
type WasteItem struct {
	InstanceID      string   `json:"instance_id"`
	Name            string   `json:"name"`
	InstanceType    string   `json:"instance_type"`
	State           string   `json:"state"`
	TotalCost       float64  `json:"total_cost"`
	Flags           []string `json:"flags"`
	Recommendations []string `json:"recommendations"`
}

// WasteReport aggregates all waste detection results
type WasteReport struct {
	AccountID     string      `json:"account_id,omitempty"`
	Opportunities []WasteItem `json:"opportunities"`
	PotentialCost float64     `json:"total_flagged_cost"`
}

// Forecast represents predicted spend with its prediction interval
type Forecast struct {
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	Mean      float64 `json:"mean"`
	Lower     float64 `json:"prediction_interval_lower"`
	Upper     float64 `json:"prediction_interval_upper"`
	Currency  string  `json:"currency"`
}

// PeriodComparison represents an instance's costs across two windows
type PeriodComparison struct {
	InstanceID    string  `json:"instance_id"`
	Name          string  `json:"name"`
	CurrentTotal  float64 `json:"current_total"`
	PreviousTotal float64 `json:"previous_total"`
	Difference    float64 `json:"difference"`
	PercentChange float64 `json:"percent_change"`
}
