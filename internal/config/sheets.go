package config

import (
	"github.com/Veraticus/spice-ledger/internal/sheets"
	"github.com/spf13/viper"
)

// LoadSheetsConfig builds the Google Sheets configuration. Values from the
// config file or LEDGER_SHEETS_* variables take precedence over the
// GOOGLE_SHEETS_* environment variables.
func LoadSheetsConfig(v *viper.Viper) (*sheets.Config, error) {
	config := sheets.DefaultConfig()

	config.ServiceAccountPath = ExpandPath(v.GetString("sheets.service_account_path"))
	config.ClientID = v.GetString("sheets.client_id")
	config.ClientSecret = v.GetString("sheets.client_secret")
	config.RefreshToken = v.GetString("sheets.refresh_token")
	config.TokenFile = ExpandPath(v.GetString("sheets.token_file"))
	config.SpreadsheetID = v.GetString("sheets.spreadsheet_id")
	if name := v.GetString("sheets.spreadsheet_name"); name != "" {
		config.SpreadsheetName = name
	}
	if tz := v.GetString("sheets.timezone"); tz != "" {
		config.TimeZone = tz
	}

	config.LoadFromEnv()
	config.ServiceAccountPath = ExpandPath(config.ServiceAccountPath)
	config.TokenFile = ExpandPath(config.TokenFile)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}
