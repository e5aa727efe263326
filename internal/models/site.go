package models

// SiteInfo is the shop profile served on the public endpoint, loaded from
// config/config.toml.
type SiteInfo struct {
	Name         string   `json:"name"`
	Tagline      string   `json:"tagline"`
	Address      string   `json:"address"`
	Phone        string   `json:"phone"`
	Email        string   `json:"email"`
	Whatsapp     string   `json:"whatsapp"`
	OpeningHours string   `json:"opening_hours"`
	WorkingDays  []string `json:"working_days"`
	MapLink      string   `json:"map_link"`
	Instagram    string   `json:"instagram"`
	Facebook     string   `json:"facebook"`
}
