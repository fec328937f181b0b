// Package domain contains the entities shared by the service layers: users and
// the persisted feature extractions they request. The types carry no storage or
// transport concerns.
package domain
