// Package course assembles the lessons demo application.
//
// NewApp builds the stores and connects to Postgres and Redis when
// PG_CONN_URL and REDIS_URL are set. Run binds logging "views" to the streams
// and simulates a backend that delivers lessons over the event bus until the
// context is cancelled.
package course
