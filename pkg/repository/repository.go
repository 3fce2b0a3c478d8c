// Package repository groups the SessionRepository implementations: firestore
// for deployed use and memory for local runs.
package repository
