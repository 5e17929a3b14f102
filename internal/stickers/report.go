package stickers

import "time"

// CityResult records what a run produced for one city.
type CityResult struct {
	City         string  `json:"city"`
	IconCode     string  `json:"iconCode"`
	TemperatureC float64 `json:"temperatureC"`
	Output       string  `json:"output"`
	FileID       string  `json:"fileId"`
}

// Failure is a single sticker operation that failed during reconciliation.
type Failure struct {
	Op     string `json:"op"`
	Index  int    `json:"index"`
	FileID string `json:"fileId"`
	Error  string `json:"error"`
}

// ReconcileResult summarizes the changes applied to the remote set.
type ReconcileResult struct {
	Created  bool      `json:"created"`
	Replaced int       `json:"replaced"`
	Added    int       `json:"added"`
	Deleted  int       `json:"deleted"`
	Failures []Failure `json:"failures,omitempty"`
}

// RunReport describes one sync run, successful or not.
type RunReport struct {
	ID         string          `json:"id"`
	StartedAt  time.Time       `json:"startedAt"`
	FinishedAt time.Time       `json:"finishedAt"`
	Cities     []CityResult    `json:"cities"`
	Outcome    ReconcileResult `json:"outcome"`
	Error      string          `json:"error,omitempty"`
}

// ReportStore keeps run reports for the status API.
type ReportStore interface {
	Save(report RunReport)
	Latest() (RunReport, error)
	List() []RunReport
}
