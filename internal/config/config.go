package config // package config loads application configuration from environment variables

import (
    "log"      // log is used to report configuration errors and halt execution
    "os"       // os provides access to environment variables
    "strconv"  // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations and costs.
// Access and refresh tokens are signed with two distinct secrets so that a
// leaked key for one token class cannot be used to forge the other.
type Config struct {
    Env            string // application environment (e.g. "dev", "prod")
    Port           string // HTTP port to listen on
    DBUser         string // database username
    DBPass         string // database password (optional)
    DBHost         string // database host address
    DBPort         string // database port number
    DBName         string // database name
    AccessSecret   string // secret used to sign access JWTs
    RefreshSecret  string // secret used to sign refresh JWTs (must differ from AccessSecret)
    AccessTTLMin   int    // access token time‑to‑live in minutes
    RefreshTTLDays int    // refresh token time‑to‑live in days
    BcryptCost     int    // bcrypt cost for password hashing
    ResumeDir      string // directory where uploaded resumes are stored
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  TTLs fall back to
// the documented defaults (30 minutes for access, 20 days for refresh)
// when the corresponding variables are unset.
func Load() Config {
    cfg := Config{
        Env:            must("APP_ENV"),                         // environment (dev/test/prod)
        Port:           must("APP_PORT"),                        // port to bind the HTTP server
        DBUser:         must("DB_USER"),                         // database user
        DBPass:         os.Getenv("DB_PASS"),                    // database password (empty allowed)
        DBHost:         must("DB_HOST"),                         // database host
        DBPort:         must("DB_PORT"),                         // database port
        DBName:         must("DB_NAME"),                         // database name
        AccessSecret:   must("ACCESS_TOKEN_SECRET"),             // access token signing secret
        RefreshSecret:  must("REFRESH_TOKEN_SECRET"),            // refresh token signing secret
        AccessTTLMin:   intOr("ACCESS_TOKEN_TTL_MIN", 30),       // TTL for access tokens in minutes
        RefreshTTLDays: intOr("REFRESH_TOKEN_TTL_DAYS", 20),     // TTL for refresh tokens in days
        BcryptCost:     intOr("BCRYPT_COST", 10),                // bcrypt cost factor
        ResumeDir:      getenv("RESUME_DIR", "uploads/resumes"), // resume upload directory
    }
    if cfg.AccessSecret == cfg.RefreshSecret {
        log.Fatal("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must differ")
    }
    return cfg
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

// intOr reads an integer environment variable, returning def when the
// variable is unset.  A value that is present but not a valid integer is a
// configuration error and terminates the process.
func intOr(key string, def int) int {
    s := os.Getenv(key)
    if s == "" {
        return def
    }
    n, err := strconv.Atoi(s)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, s)
    }
    return n
}
