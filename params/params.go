package params

import "time"

const (
	ServerBodyLimit    = 1048576 // 1 MiB
	ServerIdleTimeout  = 30 * time.Second
	ServerReadTimeout  = 10 * time.Second
	ServerWriteTimeout = 10 * time.Second

	TokenValidity        = 7 * 24 * time.Hour // lifetime of issued tokens and their backing sessions
	PasswordHashCost     = 10                 // bcrypt work factor
	SessionSweepInterval = 1 * time.Hour      // how often expired sessions are purged

	LoginAttemptKeyPrefix = "la:"            // redis key prefix for failed login counters
	LoginMaxAttempts      = 10               // failed attempts per email+IP before throttling
	LoginAttemptWindow    = 15 * time.Minute // counter expiry window

	HealthCheckServerAddr = ":3001" // health check server address
)
