package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

type ProfileOperations struct{}

func (o *ProfileOperations) CreateProfile(ctx context.Context, p *PrinterProfile) error {
	result, err := GetDB().ExecContext(ctx, InsertProfile, p.Name, p.Kind, p.ConfigJSON)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get profile id: %w", err)
	}
	p.ID = id
	return nil
}

func (o *ProfileOperations) GetProfileByID(ctx context.Context, id int64) (*PrinterProfile, error) {
	p := &PrinterProfile{}
	err := GetDB().QueryRowContext(ctx, GetProfileByID, id).Scan(
		&p.ID, &p.Name, &p.Kind, &p.ConfigJSON, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

func (o *ProfileOperations) GetProfileByName(ctx context.Context, name string) (*PrinterProfile, error) {
	p := &PrinterProfile{}
	err := GetDB().QueryRowContext(ctx, GetProfileByName, name).Scan(
		&p.ID, &p.Name, &p.Kind, &p.ConfigJSON, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("failed to get profile by name: %w", err)
	}
	return p, nil
}

func (o *ProfileOperations) ListProfiles(ctx context.Context) ([]*PrinterProfile, error) {
	rows, err := GetDB().QueryContext(ctx, ListProfiles)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	return scanProfiles(rows)
}

func (o *ProfileOperations) ListProfilesByKind(ctx context.Context, kind string) ([]*PrinterProfile, error) {
	rows, err := GetDB().QueryContext(ctx, ListProfilesByKind, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles by kind: %w", err)
	}
	defer rows.Close()

	return scanProfiles(rows)
}

func (o *ProfileOperations) UpdateProfile(ctx context.Context, p *PrinterProfile) error {
	_, err := GetDB().ExecContext(ctx, UpdateProfile, p.Name, p.Kind, p.ConfigJSON, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

func (o *ProfileOperations) DeleteProfile(ctx context.Context, id int64) error {
	_, err := GetDB().ExecContext(ctx, DeleteProfile, id)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return nil
}

func scanProfiles(rows *sql.Rows) ([]*PrinterProfile, error) {
	var profiles []*PrinterProfile
	for rows.Next() {
		p := &PrinterProfile{}
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Kind, &p.ConfigJSON, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

type SettingsOperations struct{}

func (o *SettingsOperations) GetSetting(ctx context.Context, key string) (*Setting, error) {
	s := &Setting{Key: key}
	err := GetDB().QueryRowContext(ctx, GetSetting, key).Scan(&s.Value)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("failed to get setting: %w", err)
	}
	return s, nil
}

func (o *SettingsOperations) SetSetting(ctx context.Context, key, value string) error {
	_, err := GetDB().ExecContext(ctx, SetSetting, key, value, value)
	if err != nil {
		return fmt.Errorf("failed to set setting: %w", err)
	}
	return nil
}

func (o *SettingsOperations) DeleteSetting(ctx context.Context, key string) error {
	_, err := GetDB().ExecContext(ctx, DeleteSetting, key)
	if err != nil {
		return fmt.Errorf("failed to delete setting: %w", err)
	}
	return nil
}

type AttemptOperations struct{}

func (o *AttemptOperations) CreateAttempt(ctx context.Context, a *PrintAttempt) error {
	result, err := GetDB().ExecContext(ctx, InsertAttempt,
		a.AttemptID, a.ProfileID, a.Successful, a.DetailsJSON)
	if err != nil {
		return fmt.Errorf("failed to create print attempt: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get print attempt id: %w", err)
	}
	a.ID = id
	return nil
}

func (o *AttemptOperations) GetAttemptByAttemptID(ctx context.Context, attemptID string) (*PrintAttempt, error) {
	a := &PrintAttempt{}
	err := GetDB().QueryRowContext(ctx, GetAttemptByAttemptID, attemptID).Scan(
		&a.ID, &a.AttemptID, &a.ProfileID, &a.Successful, &a.DetailsJSON, &a.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("failed to get print attempt: %w", err)
	}
	return a, nil
}

func (o *AttemptOperations) ListAttempts(ctx context.Context, filter AttemptFilter) ([]*PrintAttempt, error) {
	var conditions []string
	var args []interface{}

	if filter.ProfileID > 0 {
		conditions = append(conditions, "profile_id = ?")
		args = append(args, filter.ProfileID)
	}
	if filter.Successful != nil {
		conditions = append(conditions, "successful = ?")
		args = append(args, *filter.Successful)
	}

	query := "SELECT id, attempt_id, profile_id, successful, details_json, created_at FROM print_attempts"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	limit := 100
	if filter.Limit > 0 {
		limit = filter.Limit
	}
	query += " LIMIT ? OFFSET ?"
	args = append(args, limit, filter.Offset)

	rows, err := GetDB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list print attempts: %w", err)
	}
	defer rows.Close()

	var attempts []*PrintAttempt
	for rows.Next() {
		a := &PrintAttempt{}
		if err := rows.Scan(
			&a.ID, &a.AttemptID, &a.ProfileID, &a.Successful, &a.DetailsJSON, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan print attempt: %w", err)
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

func (o *AttemptOperations) CountAttemptsByProfile(ctx context.Context, profileID int64) (int64, error) {
	var count int64
	err := GetDB().QueryRowContext(ctx, CountAttemptsByProfile, profileID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count print attempts: %w", err)
	}
	return count, nil
}

func (o *AttemptOperations) DeleteAttemptsByProfile(ctx context.Context, profileID int64) error {
	_, err := GetDB().ExecContext(ctx, DeleteAttemptsByProfile, profileID)
	if err != nil {
		return fmt.Errorf("failed to delete print attempts: %w", err)
	}
	return nil
}

var (
	Profiles = &ProfileOperations{}
	Settings = &SettingsOperations{}
	Attempts = &AttemptOperations{}
)
