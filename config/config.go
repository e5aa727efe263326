package config

import (
	"log"

	"barba-negra-app/internal/models"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Defaults DefaultsConfig
	Loyalty  LoyaltyConfig
	Site     models.SiteInfo
}

type ServerConfig struct {
	Port               string
	Env                string
	JWTSecret          string `mapstructure:"jwt_secret"`
	JWTExpirationHours int    `mapstructure:"jwt_expiration_hours"`
}

type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	URL      string
}

type DefaultsConfig struct {
	AdminPassword   string `mapstructure:"admin_password"`
	AdminEmployeeID string `mapstructure:"admin_employee_id"`
	BarberPrefix    string `mapstructure:"barber_prefix"`
	BillerPrefix    string `mapstructure:"biller_prefix"`
	ManagerPrefix   string `mapstructure:"manager_prefix"`
	InvoicePrefix   string `mapstructure:"invoice_prefix"`
}

type LoyaltyConfig struct {
	CardPrefix  string `mapstructure:"card_prefix"`
	StampTarget int    `mapstructure:"stamp_target"`
}

var AppConfig *Config

func LoadConfig() {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, checking environment variables: %v", err)
	}

	viper.AutomaticEnv()

	viper.BindEnv("SERVER_PORT", "PORT") // fallback to PORT if SERVER_PORT is missing
	viper.BindEnv("DATABASE_URL")

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("JWT_EXPIRATION_HOURS", 12)
	viper.SetDefault("INVOICE_PREFIX", "F")
	viper.SetDefault("CARD_PREFIX", "TF")
	viper.SetDefault("STAMP_TARGET", 10)

	AppConfig = &Config{
		Server: ServerConfig{
			Port:               viper.GetString("SERVER_PORT"),
			Env:                viper.GetString("SERVER_ENV"),
			JWTSecret:          viper.GetString("JWT_SECRET"),
			JWTExpirationHours: viper.GetInt("JWT_EXPIRATION_HOURS"),
		},
		Database: DatabaseConfig{
			Driver:   viper.GetString("DB_DRIVER"),
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
			URL:      viper.GetString("DATABASE_URL"),
		},
		Defaults: DefaultsConfig{
			AdminPassword:   viper.GetString("ADMIN_PASSWORD"),
			AdminEmployeeID: viper.GetString("ADMIN_EMPLOYEE_ID"),
			BarberPrefix:    viper.GetString("BARBER_PREFIX"),
			BillerPrefix:    viper.GetString("BILLER_PREFIX"),
			ManagerPrefix:   viper.GetString("MANAGER_PREFIX"),
			InvoicePrefix:   viper.GetString("INVOICE_PREFIX"),
		},
		Loyalty: LoyaltyConfig{
			CardPrefix:  viper.GetString("CARD_PREFIX"),
			StampTarget: viper.GetInt("STAMP_TARGET"),
		},
	}

	// Shop info served on the public endpoint lives in a separate TOML file.
	siteViper := viper.New()
	siteViper.SetConfigFile("config/config.toml")
	siteViper.SetConfigType("toml")
	if err := siteViper.ReadInConfig(); err != nil {
		log.Printf("Warning: config/config.toml not found, using empty site info: %v", err)
	} else {
		if err := siteViper.UnmarshalKey("site", &AppConfig.Site); err != nil {
			log.Printf("Error: Failed to unmarshal site info from TOML: %v", err)
		}
	}

	log.Printf("Configuration loaded: port=%s env=%s db=%s loyalty_target=%d",
		AppConfig.Server.Port, AppConfig.Server.Env, AppConfig.Database.Name, AppConfig.Loyalty.StampTarget)
}
