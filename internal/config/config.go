package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"strings" // strings splits list-valued variables

	"github.com/nivaan/health-booking-admin/internal/mailer"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The mail settings that the old system resolved
// through global settings lookups live here as an explicit struct and are
// passed into the mailer and the notification consumer at startup.
type Config struct {
	Env            string // application environment (e.g. "dev", "prod")
	Port           string // HTTP port to listen on
	DBUser         string // database username
	DBPass         string // database password (optional)
	DBHost         string // database host address
	DBPort         string // database port number
	DBName         string // database name
	JWTSecret      string // secret used to sign JWTs
	AccessTTLMin   int    // access token time-to-live in minutes
	RefreshTTLDays int    // refresh token time-to-live in days
	BcryptCost     int    // bcrypt cost for password hashing

	MediaDir string // filesystem root for stored media
	MediaURL string // public URL prefix under which MediaDir is served

	SMTP mailer.SMTPConfig // outbound mail transport
	Mail mailer.Settings   // notification settings (app name, support mailbox, CC/BCC)
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"), // empty allowed
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
		BcryptCost:     mustInt("BCRYPT_COST"),

		MediaDir: getenv("MEDIA_DIR", "storage/media"),
		MediaURL: getenv("MEDIA_URL", "/media"),

		SMTP: mailer.SMTPConfig{
			Host:     must("SMTP_HOST"),
			Port:     mustInt("SMTP_PORT"),
			Username: os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASS"),
			From:     must("MAIL_FROM"),
		},
		Mail: mailer.Settings{
			AppName:          getenv("APP_NAME", "Health Booking Admin"),
			CompanyShortName: os.Getenv("PLATFORM_SHORT_NAME"),
			SupportEmail:     must("SUPPORT_EMAIL"),
			Signature:        getenv("MAIL_SIGNATURE", "The Bookings Team"),
			CC:               splitList(os.Getenv("MAIL_CC")),
			BCC:              splitList(os.Getenv("MAIL_BCC")),
		},
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

// splitList parses a comma-separated address list, dropping empties.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
