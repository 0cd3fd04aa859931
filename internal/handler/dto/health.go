package dto

// StatusResponse is the root status payload.
type StatusResponse struct {
	Message   string `json:"message"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// HealthResponse reports database reachability.
type HealthResponse struct {
	Status        string   `json:"status"`
	Database      string   `json:"database"`
	Timestamp     string   `json:"timestamp"`
	MissingTables []string `json:"missing_tables,omitempty"`
	Error         string   `json:"error,omitempty"`
	Details       string   `json:"details,omitempty"`
}
