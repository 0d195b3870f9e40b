// Package config handles configuration loading for taskhive.
//
// Configuration is loaded from a YAML file with ${VAR} environment variable
// expansion and validated before the server starts. Duration values use Go's
// time.ParseDuration syntax.
//
// Example:
//
//	server:
//	  http_addr: "0.0.0.0:8080"
//	  allowed_origins:
//	    - "http://localhost:5173"
//
//	database:
//	  driver: "sqlite"       # or "postgres"
//	  path: "taskhive.db"    # sqlite only
//	  # dsn: "${TASKHIVE_POSTGRES_DSN}"
//
//	auth:
//	  jwt_secret: "${TASKHIVE_JWT_SECRET}"
//	  algorithm: "HS256"
//	  token_ttl: "30m"
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
package config
