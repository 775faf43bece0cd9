package config // package config loads application configuration from environment variables

import (
    "log"     // log reports configuration errors and halts execution
    "os"      // os provides access to environment variables
    "strconv" // strconv converts strings to other types
    "time"    // time parses the gateway timeout durations

    "github.com/joho/godotenv" // godotenv loads a local .env file when present
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable.  Types reflect how the values are used:
// strings for identifiers and secrets, ints for costs and TTLs, durations
// for timeouts.
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

    GatewayURL         string        // base URL of the device gateway
    GatewayTimeout     time.Duration // timeout for control/status/stop calls
    GatewayExecTimeout time.Duration // timeout for code execution calls
    ControlStrict      bool          // strict in-window control authorization

    BookingOpen    string // first bookable time of day, HH:MM
    BookingClose   string // bookable window upper bound, HH:MM
    MaxDurationMin int    // longest single booking in minutes
}

// Load reads configuration from the environment, first merging a .env file
// if one exists.  Required variables are enforced by must() and missing
// values cause the program to exit with a fatal log message.
func Load() Config {
    _ = godotenv.Load() // absence of .env is not an error

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

        GatewayURL:         must("DEVICE_GATEWAY_URL"),
        GatewayTimeout:     envDuration("GATEWAY_TIMEOUT", 5*time.Second),
        GatewayExecTimeout: envDuration("GATEWAY_EXEC_TIMEOUT", 10*time.Second),
        ControlStrict:      envBoolDefault("CONTROL_STRICT_WINDOW", false),

        BookingOpen:    envDefault("BOOKING_OPEN", "08:00"),
        BookingClose:   envDefault("BOOKING_CLOSE", "20:00"),
        MaxDurationMin: envIntDefault("BOOKING_MAX_DURATION_MIN", 240),
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

// mustInt is like must() but converts the retrieved string to an integer.
func mustInt(key string) int {
    s := must(key)
    n, err := strconv.Atoi(s)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, s)
    }
    return n
}

func envDefault(key, def string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return def
}

func envIntDefault(key string, def int) int {
    v := os.Getenv(key)
    if v == "" {
        return def
    }
    n, err := strconv.Atoi(v)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, v)
    }
    return n
}

func envBoolDefault(key string, def bool) bool {
    switch os.Getenv(key) {
    case "1", "true", "TRUE", "True", "yes", "on":
        return true
    case "0", "false", "FALSE", "False", "no", "off":
        return false
    }
    return def
}

func envDuration(key string, def time.Duration) time.Duration {
    v := os.Getenv(key)
    if v == "" {
        return def
    }
    d, err := time.ParseDuration(v)
    if err != nil {
        log.Fatalf("invalid duration for %s: %q", key, v)
    }
    return d
}
