package types

// SettingsID is the id of the single application settings row.
const SettingsID = "app"

// Settings holds application-wide flags. A single row keyed by SettingsID
// exists once the admin account has been initialized.
type Settings struct {
	SettingsID  string `json:"settingsId"`
	Initialized bool   `json:"initialized"`
}
