package harness

// Result is the outcome of a scenario execution.
type Result struct {
	// Scenario is the scenario name.
	Scenario string `json:"scenario"`

	// Pass indicates overall success: every check matched its expectation.
	Pass bool `json:"pass"`

	// Checks holds one entry per check, in scenario order.
	Checks []CheckResult `json:"checks"`

	// Errors contains one message per failed check.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// CacheLen is the pair cache size after the last check.
	CacheLen int `json:"cache_len"`

	// Comparisons counts pair comparisons evaluated over the whole run.
	Comparisons int `json:"comparisons"`
}

// CheckResult is the outcome of one check.
type CheckResult struct {
	Name     string `json:"name"`
	Op       string `json:"op"`
	Left     string `json:"left"`
	Right    string `json:"right"`
	Profile  string `json:"profile"`
	Strategy string `json:"strategy"`
	Expect   bool   `json:"expect"`
	Got      bool   `json:"got"`
	Error    string `json:"error,omitempty"`
	Pass     bool   `json:"pass"`
}

// NewResult creates a new passing result.
func NewResult(scenario string) *Result {
	return &Result{
		Scenario: scenario,
		Pass:     true,
		Checks:   []CheckResult{},
		Errors:   []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
