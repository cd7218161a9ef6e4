package db

import (
	"time"
)

type PrinterProfile struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Kind       string    `json:"kind"`
	ConfigJSON string    `json:"config_json"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type Setting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PrintAttempt struct {
	ID          int64     `json:"id"`
	AttemptID   string    `json:"attempt_id"`
	ProfileID   int64     `json:"profile_id"`
	Successful  bool      `json:"successful"`
	DetailsJSON string    `json:"details_json"`
	CreatedAt   time.Time `json:"created_at"`
}

type AttemptFilter struct {
	ProfileID  int64
	Successful *bool
	Limit      int
	Offset     int
}
