package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"goatmeter-be/internal/domain"
	"goatmeter-be/pkg/database"

	"github.com/jackc/pgx/v5"
)

// PostgresStore implements Store on top of pgx. The zero-value q is the
// pool; RunInTx hands out copies bound to a transaction.
type PostgresStore struct {
	db *database.PostgresDB
	q  database.Querier
}

// NewPostgresStore creates a pool-bound store.
func NewPostgresStore(db *database.PostgresDB) *PostgresStore {
	return &PostgresStore{db: db, q: db.Pool}
}

// RunInTx runs fn against a transaction-bound copy of the store inside
// one serializable transaction (retried on contention by the database
// layer).
func (s *PostgresStore) RunInTx(ctx context.Context, fn func(tx Store) error) error {
	return s.db.RunInTx(ctx, func(tx pgx.Tx) error {
		return fn(&PostgresStore{db: s.db, q: tx})
	})
}

// stanceColumn maps a stance to its counter column. The stance enum is
// closed, so this is the only place a stance value may enter SQL text.
func stanceColumn(stance domain.Stance) (string, error) {
	if !stance.IsValid() {
		return "", fmt.Errorf("unknown stance %q", stance)
	}
	return string(stance), nil
}

// ---- Profiles ----

const profileColumns = `user_id, age_group, gender, warzone_id, country, city,
	       has_profile, has_voted, current_stance, current_reasons, current_vote_id,
	       created_at, updated_at`

func (s *PostgresStore) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	var p domain.Profile
	var stance string
	query := `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE user_id = $1
	`

	err := s.q.QueryRow(ctx, query, userID).Scan(
		&p.UserID,
		&p.AgeGroup,
		&p.Gender,
		&p.WarzoneID,
		&p.Country,
		&p.City,
		&p.HasProfile,
		&p.HasVoted,
		&stance,
		&p.CurrentReasons,
		&p.CurrentVoteID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	p.CurrentStance = domain.Stance(stance)
	return &p, nil
}

func (s *PostgresStore) UpsertProfile(ctx context.Context, profile *domain.Profile) error {
	query := `
		INSERT INTO profiles (user_id, age_group, gender, warzone_id, country, city, has_profile)
		VALUES ($1, $2, $3, $4, $5, $6, true)
		ON CONFLICT (user_id) DO UPDATE SET
			age_group = EXCLUDED.age_group,
			gender = EXCLUDED.gender,
			warzone_id = EXCLUDED.warzone_id,
			country = EXCLUDED.country,
			city = EXCLUDED.city,
			has_profile = true,
			updated_at = now()
		RETURNING created_at, updated_at, has_voted, current_vote_id
	`

	err := s.q.QueryRow(ctx, query,
		profile.UserID,
		profile.AgeGroup,
		profile.Gender,
		profile.WarzoneID,
		profile.Country,
		profile.City,
	).Scan(&profile.CreatedAt, &profile.UpdatedAt, &profile.HasVoted, &profile.CurrentVoteID)

	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	profile.HasProfile = true
	return nil
}

func (s *PostgresStore) MarkProfileVoted(ctx context.Context, userID string, stance domain.Stance, reasons []string, voteID string) error {
	if reasons == nil {
		reasons = []string{}
	}
	query := `
		UPDATE profiles
		SET has_voted = true,
		    current_stance = $2,
		    current_reasons = $3,
		    current_vote_id = $4,
		    updated_at = now()
		WHERE user_id = $1
	`

	tag, err := s.q.Exec(ctx, query, userID, string(stance), reasons, voteID)
	if err != nil {
		return fmt.Errorf("failed to mark profile voted: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

func (s *PostgresStore) ClearProfileVote(ctx context.Context, userID string, resetProfile bool) error {
	query := `
		UPDATE profiles
		SET has_voted = false,
		    current_stance = '',
		    current_reasons = '{}',
		    current_vote_id = '',
		    updated_at = now()
		WHERE user_id = $1
	`
	if resetProfile {
		query = `
		UPDATE profiles
		SET has_voted = false,
		    current_stance = '',
		    current_reasons = '{}',
		    current_vote_id = '',
		    age_group = '',
		    gender = '',
		    warzone_id = '',
		    country = '',
		    city = '',
		    has_profile = false,
		    updated_at = now()
		WHERE user_id = $1
	`
	}

	tag, err := s.q.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to clear profile vote: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteProfile(ctx context.Context, userID string) (bool, error) {
	tag, err := s.q.Exec(ctx, `DELETE FROM profiles WHERE user_id = $1`, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete profile: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ---- Votes ----

const voteColumns = `id, user_id, device_id, status, reasons, warzone_id,
	       age_group, gender, country, city, had_warzone_stats, created_at`

func (s *PostgresStore) GetVote(ctx context.Context, voteID string) (*domain.Vote, error) {
	var v domain.Vote
	var status string
	query := `
		SELECT ` + voteColumns + `
		FROM votes
		WHERE id = $1
	`

	err := s.q.QueryRow(ctx, query, voteID).Scan(
		&v.ID,
		&v.UserID,
		&v.DeviceID,
		&status,
		&v.Reasons,
		&v.WarzoneID,
		&v.AgeGroup,
		&v.Gender,
		&v.Country,
		&v.City,
		&v.HadWarzoneStats,
		&v.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vote: %w", err)
	}

	v.Status = domain.Stance(status)
	return &v, nil
}

func (s *PostgresStore) CreateVote(ctx context.Context, vote *domain.Vote) error {
	if vote.Reasons == nil {
		vote.Reasons = []string{}
	}
	query := `
		INSERT INTO votes (id, user_id, device_id, status, reasons, warzone_id,
		                   age_group, gender, country, city, had_warzone_stats)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at
	`

	err := s.q.QueryRow(ctx, query,
		vote.ID,
		vote.UserID,
		vote.DeviceID,
		string(vote.Status),
		vote.Reasons,
		vote.WarzoneID,
		vote.AgeGroup,
		vote.Gender,
		vote.Country,
		vote.City,
		vote.HadWarzoneStats,
	).Scan(&vote.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create vote: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteVote(ctx context.Context, voteID string) error {
	if _, err := s.q.Exec(ctx, `DELETE FROM votes WHERE id = $1`, voteID); err != nil {
		return fmt.Errorf("failed to delete vote: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListVoteIDsByUser(ctx context.Context, userID string, limit int) ([]string, error) {
	rows, err := s.q.Query(ctx, `SELECT id FROM votes WHERE user_id = $1 LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan vote id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ---- Device locks ----

func (s *PostgresStore) GetDeviceLock(ctx context.Context, deviceID string) (*domain.DeviceLock, error) {
	var lock domain.DeviceLock
	query := `
		SELECT device_id, last_vote_id, active, updated_at
		FROM device_locks
		WHERE device_id = $1
	`

	err := s.q.QueryRow(ctx, query, deviceID).Scan(
		&lock.DeviceID,
		&lock.LastVoteID,
		&lock.Active,
		&lock.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get device lock: %w", err)
	}
	return &lock, nil
}

func (s *PostgresStore) PutDeviceLock(ctx context.Context, lock *domain.DeviceLock) error {
	query := `
		INSERT INTO device_locks (device_id, last_vote_id, active)
		VALUES ($1, $2, $3)
		ON CONFLICT (device_id) DO UPDATE SET
			last_vote_id = EXCLUDED.last_vote_id,
			active = EXCLUDED.active,
			updated_at = now()
	`

	if _, err := s.q.Exec(ctx, query, lock.DeviceID, lock.LastVoteID, lock.Active); err != nil {
		return fmt.Errorf("failed to put device lock: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteDeviceLock(ctx context.Context, deviceID string) error {
	if _, err := s.q.Exec(ctx, `DELETE FROM device_locks WHERE device_id = $1`, deviceID); err != nil {
		return fmt.Errorf("failed to delete device lock: %w", err)
	}
	return nil
}

// ---- Warzone rollups ----

func (s *PostgresStore) GetWarzoneStats(ctx context.Context, warzoneID string) (*domain.WarzoneStats, error) {
	stats := &domain.WarzoneStats{
		WarzoneID:    warzoneID,
		StanceCounts: make(map[domain.Stance]int, len(domain.Stances)),
	}
	counts := make([]int, len(domain.Stances))
	cols := make([]string, 0, len(domain.Stances))
	dest := []any{&stats.TotalVotes}
	for i, st := range domain.Stances {
		cols = append(cols, string(st))
		dest = append(dest, &counts[i])
	}
	dest = append(dest, &stats.UpdatedAt)

	query := fmt.Sprintf(
		`SELECT total_votes, %s, updated_at FROM warzone_stats WHERE warzone_id = $1`,
		strings.Join(cols, ", "),
	)

	err := s.q.QueryRow(ctx, query, warzoneID).Scan(dest...)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get warzone stats: %w", err)
	}

	for i, st := range domain.Stances {
		stats.StanceCounts[st] = counts[i]
	}
	return stats, nil
}

func (s *PostgresStore) IncrementWarzoneStats(ctx context.Context, warzoneID string, stance domain.Stance) error {
	col, err := stanceColumn(stance)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO warzone_stats (warzone_id, total_votes, %[1]s)
		VALUES ($1, 1, 1)
		ON CONFLICT (warzone_id) DO UPDATE SET
			total_votes = warzone_stats.total_votes + 1,
			%[1]s = warzone_stats.%[1]s + 1,
			updated_at = now()
	`, col)

	if _, err := s.q.Exec(ctx, query, warzoneID); err != nil {
		return fmt.Errorf("failed to increment warzone stats: %w", err)
	}
	return nil
}

func (s *PostgresStore) ApplyWarzoneDeltas(ctx context.Context, deltas map[string]domain.WarzoneDelta) error {
	for warzoneID, delta := range deltas {
		sets := []string{"total_votes = GREATEST(0, warzone_stats.total_votes + $2)"}
		args := []any{warzoneID, delta.TotalVotes}
		for stance, n := range delta.StanceCounts {
			if n == 0 {
				continue
			}
			col, err := stanceColumn(stance)
			if err != nil {
				return err
			}
			args = append(args, n)
			sets = append(sets, fmt.Sprintf("%[1]s = GREATEST(0, warzone_stats.%[1]s + $%[2]d)", col, len(args)))
		}

		// Merge-upsert so a missing rollup row stays at the zero floor
		// instead of erroring.
		query := `
			INSERT INTO warzone_stats (warzone_id)
			VALUES ($1)
			ON CONFLICT (warzone_id) DO NOTHING
		`
		if _, err := s.q.Exec(ctx, query, warzoneID); err != nil {
			return fmt.Errorf("failed to ensure warzone stats row: %w", err)
		}

		query = fmt.Sprintf(
			`UPDATE warzone_stats SET %s, updated_at = now() WHERE warzone_id = $1`,
			strings.Join(sets, ", "),
		)
		if _, err := s.q.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to apply warzone delta: %w", err)
		}
	}
	return nil
}

// ---- Global summary ----

func (s *PostgresStore) GetGlobalSummary(ctx context.Context) (*domain.GlobalSummary, error) {
	summary := domain.NewGlobalSummary()
	counts := make([]int, len(domain.Stances))
	cols := make([]string, 0, len(domain.Stances))
	dest := []any{&summary.TotalVotes}
	for i, st := range domain.Stances {
		cols = append(cols, string(st))
		dest = append(dest, &counts[i])
	}
	var recentVotes, reasonsLike, reasonsDislike, countryCounts []byte
	dest = append(dest, &recentVotes, &reasonsLike, &reasonsDislike, &countryCounts, &summary.UpdatedAt)

	query := fmt.Sprintf(`
		SELECT total_votes, %s, recent_votes, reason_counts_like,
		       reason_counts_dislike, country_counts, updated_at
		FROM global_summary
		WHERE id = $1
	`, strings.Join(cols, ", "))

	err := s.q.QueryRow(ctx, query, domain.GlobalSummaryID).Scan(dest...)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get global summary: %w", err)
	}

	for i, st := range domain.Stances {
		summary.StanceCounts[st] = counts[i]
	}
	if err := json.Unmarshal(recentVotes, &summary.RecentVotes); err != nil {
		return nil, fmt.Errorf("failed to decode recent votes: %w", err)
	}
	if err := json.Unmarshal(reasonsLike, &summary.ReasonCountsLike); err != nil {
		return nil, fmt.Errorf("failed to decode like reason counts: %w", err)
	}
	if err := json.Unmarshal(reasonsDislike, &summary.ReasonCountsDislike); err != nil {
		return nil, fmt.Errorf("failed to decode dislike reason counts: %w", err)
	}
	if err := json.Unmarshal(countryCounts, &summary.CountryCounts); err != nil {
		return nil, fmt.Errorf("failed to decode country counts: %w", err)
	}
	return summary, nil
}

func (s *PostgresStore) PutGlobalSummary(ctx context.Context, summary *domain.GlobalSummary) error {
	recentVotes, err := json.Marshal(summary.RecentVotes)
	if err != nil {
		return fmt.Errorf("failed to encode recent votes: %w", err)
	}
	reasonsLike, err := json.Marshal(summary.ReasonCountsLike)
	if err != nil {
		return fmt.Errorf("failed to encode like reason counts: %w", err)
	}
	reasonsDislike, err := json.Marshal(summary.ReasonCountsDislike)
	if err != nil {
		return fmt.Errorf("failed to encode dislike reason counts: %w", err)
	}
	countryCounts, err := json.Marshal(summary.CountryCounts)
	if err != nil {
		return fmt.Errorf("failed to encode country counts: %w", err)
	}

	cols := make([]string, 0, len(domain.Stances))
	sets := make([]string, 0, len(domain.Stances))
	placeholders := make([]string, 0, len(domain.Stances))
	args := []any{domain.GlobalSummaryID, summary.TotalVotes}
	for _, st := range domain.Stances {
		args = append(args, summary.StanceCounts[st])
		cols = append(cols, string(st))
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
		sets = append(sets, fmt.Sprintf("%[1]s = EXCLUDED.%[1]s", string(st)))
	}
	args = append(args, recentVotes, reasonsLike, reasonsDislike, countryCounts)
	n := len(args)

	query := fmt.Sprintf(`
		INSERT INTO global_summary (id, total_votes, %s, recent_votes,
		                            reason_counts_like, reason_counts_dislike, country_counts)
		VALUES ($1, $2, %s, $%d, $%d, $%d, $%d)
		ON CONFLICT (id) DO UPDATE SET
			total_votes = EXCLUDED.total_votes,
			%s,
			recent_votes = EXCLUDED.recent_votes,
			reason_counts_like = EXCLUDED.reason_counts_like,
			reason_counts_dislike = EXCLUDED.reason_counts_dislike,
			country_counts = EXCLUDED.country_counts,
			updated_at = now()
	`, strings.Join(cols, ", "), strings.Join(placeholders, ", "), n-3, n-2, n-1, n, strings.Join(sets, ",\n\t\t\t"))

	if _, err := s.q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to put global summary: %w", err)
	}
	return nil
}
