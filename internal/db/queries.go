package db

const (
	InsertProfile = `
		INSERT INTO printer_profiles (name, kind, config_json)
		VALUES (?, ?, ?)
	`

	GetProfileByID = `
		SELECT id, name, kind, config_json, created_at, updated_at
		FROM printer_profiles WHERE id = ?
	`

	GetProfileByName = `
		SELECT id, name, kind, config_json, created_at, updated_at
		FROM printer_profiles WHERE name = ?
	`

	ListProfiles = `
		SELECT id, name, kind, config_json, created_at, updated_at
		FROM printer_profiles ORDER BY name ASC
	`

	ListProfilesByKind = `
		SELECT id, name, kind, config_json, created_at, updated_at
		FROM printer_profiles WHERE kind = ? ORDER BY name ASC
	`

	UpdateProfile = `
		UPDATE printer_profiles SET
			name = ?, kind = ?, config_json = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	DeleteProfile = `DELETE FROM printer_profiles WHERE id = ?`
)

const (
	GetSetting = `SELECT value FROM settings WHERE key = ?`

	SetSetting = `
		INSERT INTO settings (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = ?, updated_at = CURRENT_TIMESTAMP
	`

	DeleteSetting = `DELETE FROM settings WHERE key = ?`
)

const (
	InsertAttempt = `
		INSERT INTO print_attempts (attempt_id, profile_id, successful, details_json)
		VALUES (?, ?, ?, ?)
	`

	GetAttemptByAttemptID = `
		SELECT id, attempt_id, profile_id, successful, details_json, created_at
		FROM print_attempts WHERE attempt_id = ?
	`

	CountAttemptsByProfile = `
		SELECT COUNT(*) FROM print_attempts WHERE profile_id = ?
	`

	DeleteAttemptsByProfile = `DELETE FROM print_attempts WHERE profile_id = ?`
)
