package models

import "time"

// Status is the server status returned by the API root.
type Status struct {
	Status       string       `json:"status"`
	Version      string       `json:"version"`
	ResetDate    Date         `json:"resetDate"`
	Description  string       `json:"description"`
	Stats        ServerStats  `json:"stats"`
	ServerResets ServerResets `json:"serverResets"`
}

// ServerStats are global game counters.
type ServerStats struct {
	Agents    int `json:"agents"`
	Ships     int `json:"ships"`
	Systems   int `json:"systems"`
	Waypoints int `json:"waypoints"`
}

// ServerResets describes the reset schedule.
type ServerResets struct {
	Next      time.Time `json:"next"`
	Frequency string    `json:"frequency"`
}
