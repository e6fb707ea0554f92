package models

// SystemSettings holds the global toggles exposed in the admin panel.
type SystemSettings struct {
	MaintenanceMode    bool `json:"maintenanceMode"`
	AutoBackup         bool `json:"autoBackup"`
	EmailNotifications bool `json:"emailNotifications"`
	ExtendedHistory    bool `json:"extendedHistory"`
}
