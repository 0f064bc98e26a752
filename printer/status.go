package printer

// StatusData is the result of a real-time status query. It is computed
// fresh on every query and never cached.
type StatusData struct {
	Ready    bool   `json:"ready"`
	Online   bool   `json:"online"`
	PaperOut bool   `json:"paper_out"`
	Error    string `json:"error,omitempty"`
	Details  string `json:"details,omitempty"`
	Warning  bool   `json:"warning,omitempty"`
}

// Degraded reports whether the query itself failed. A degraded status
// is a report, not an error: status queries never raise.
func (s StatusData) Degraded() bool {
	return s.Error != ""
}
