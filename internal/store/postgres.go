package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	poolCfg.MaxConns = 10
	poolCfg.MinConns = 1
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.HealthCheckPeriod = 30 * time.Second
	poolCfg.ConnConfig.ConnectTimeout = 5 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) ConditionsByCategory(ctx context.Context, category Category) ([]Condition, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT c.id, cc.slug, c.name, COALESCE(c.answer_type, ''), c.impact_weight, COALESCE(c.answer_group_id, 0)
		FROM conditions c
		JOIN condition_categories cc ON cc.id = c.category_id
		WHERE cc.slug = $1
		ORDER BY c.id`, string(category))
	if err != nil {
		return nil, fmt.Errorf("query conditions: %w", err)
	}
	defer rows.Close()

	var out []Condition
	for rows.Next() {
		var c Condition
		var slug string
		if err := rows.Scan(&c.ID, &slug, &c.Name, &c.AnswerType, &c.ImpactWeight, &c.AnswerGroupID); err != nil {
			return nil, err
		}
		c.Category = Category(slug)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *PostgresStore) AnswerOptionsByIDs(ctx context.Context, ids []int64) ([]AnswerOption, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, group_id, label, default_ratio, order_index
		FROM answer_options
		WHERE id = ANY($1)
		ORDER BY id`, ids)
	if err != nil {
		return nil, fmt.Errorf("query answer options: %w", err)
	}
	defer rows.Close()

	var out []AnswerOption
	for rows.Next() {
		var o AnswerOption
		if err := rows.Scan(&o.ID, &o.GroupID, &o.Label, &o.DefaultRatio, &o.OrderIndex); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *PostgresStore) AnswerOptionsByGroups(ctx context.Context, groupIDs []int64) ([]AnswerOption, error) {
	if len(groupIDs) == 0 {
		return nil, nil
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, group_id, label, default_ratio, order_index
		FROM answer_options
		WHERE group_id = ANY($1)
		ORDER BY group_id, order_index, id`, groupIDs)
	if err != nil {
		return nil, fmt.Errorf("query answer options by group: %w", err)
	}
	defer rows.Close()

	var out []AnswerOption
	for rows.Next() {
		var o AnswerOption
		if err := rows.Scan(&o.ID, &o.GroupID, &o.Label, &o.DefaultRatio, &o.OrderIndex); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *PostgresStore) GetModel(ctx context.Context, id int64) (*DeviceModel, error) {
	m := &DeviceModel{}
	err := s.pool.QueryRow(ctx, `
		SELECT m.id, b.name, m.name, m.release_year
		FROM models m
		JOIN brands b ON b.id = m.brand_id
		WHERE m.id = $1`, id,
	).Scan(&m.ID, &m.BrandName, &m.Name, &m.ReleaseYear)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (s *PostgresStore) ListModels(ctx context.Context) ([]DeviceModel, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT m.id, b.name, m.name, m.release_year
		FROM models m
		JOIN brands b ON b.id = m.brand_id
		ORDER BY m.id`)
	if err != nil {
		return nil, fmt.Errorf("query models: %w", err)
	}
	defer rows.Close()

	var out []DeviceModel
	for rows.Next() {
		var m DeviceModel
		if err := rows.Scan(&m.ID, &m.BrandName, &m.Name, &m.ReleaseYear); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *PostgresStore) ListDecisionPaths(ctx context.Context) ([]DecisionPath, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, COALESCE(description_template, ''), weight_physical, weight_functional, weight_age
		FROM decision_paths
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query decision paths: %w", err)
	}
	defer rows.Close()

	var out []DecisionPath
	for rows.Next() {
		var p DecisionPath
		if err := rows.Scan(&p.ID, &p.Name, &p.DescriptionTemplate, &p.WeightPhysical, &p.WeightFunctional, &p.WeightAge); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PostgresStore) CreateDecisionPath(ctx context.Context, p *DecisionPath) error {
	return s.pool.QueryRow(ctx, `
		INSERT INTO decision_paths (name, description_template, weight_physical, weight_functional, weight_age)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		p.Name, p.DescriptionTemplate, p.WeightPhysical, p.WeightFunctional, p.WeightAge,
	).Scan(&p.ID)
}

// CreateAssessment writes the assessment with its condition rows and path
// scores in a single transaction.
func (s *PostgresStore) CreateAssessment(ctx context.Context, a *Assessment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = AssessmentCompleted
	}

	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO assessments (id, model_id, storage_gb, status, age_score, physical_score, functional_score)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING created_at`,
			a.ID, a.ModelID, a.StorageGB, string(a.Status), a.AgeScore, a.PhysicalScore, a.FunctionalScore,
		).Scan(&a.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert assessment: %w", err)
		}

		batch := &pgx.Batch{}
		for _, c := range a.Conditions {
			batch.Queue(`
				INSERT INTO assessment_conditions (assessment_id, condition_id, answer_option_id, value_scale, score_ratio, final_score)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				a.ID, c.ConditionID, c.AnswerOptionID, c.MaxPoints, c.Severity, c.Deduction)
		}
		for _, ps := range a.PathScores {
			batch.Queue(`
				INSERT INTO assessment_path_scores (assessment_id, decision_path_id, total_score,
					score_physical, score_functional, score_age, rank, is_recommended)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				a.ID, ps.DecisionPathID, ps.TotalScore,
				ps.ScorePhysical, ps.ScoreFunctional, ps.ScoreAge, ps.Rank, ps.IsRecommended)
		}
		if batch.Len() == 0 {
			return nil
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert assessment rows: %w", err)
		}
		return nil
	})
}

func (s *PostgresStore) GetAssessment(ctx context.Context, id uuid.UUID) (*Assessment, error) {
	a := &Assessment{}
	var status string
	err := s.pool.QueryRow(ctx, `
		SELECT id, model_id, storage_gb, status, age_score, physical_score, functional_score, created_at
		FROM assessments WHERE id = $1`, id,
	).Scan(&a.ID, &a.ModelID, &a.StorageGB, &status, &a.AgeScore, &a.PhysicalScore, &a.FunctionalScore, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	a.Status = AssessmentStatus(status)

	condRows, err := s.pool.Query(ctx, `
		SELECT condition_id, answer_option_id, value_scale, score_ratio, final_score
		FROM assessment_conditions WHERE assessment_id = $1
		ORDER BY condition_id`, id)
	if err != nil {
		return nil, fmt.Errorf("query assessment conditions: %w", err)
	}
	a.Conditions, err = pgx.CollectRows(condRows, func(row pgx.CollectableRow) (AssessmentCondition, error) {
		var c AssessmentCondition
		err := row.Scan(&c.ConditionID, &c.AnswerOptionID, &c.MaxPoints, &c.Severity, &c.Deduction)
		return c, err
	})
	if err != nil {
		return nil, err
	}

	scoreRows, err := s.pool.Query(ctx, `
		SELECT ps.decision_path_id, dp.name, ps.total_score, ps.score_physical, ps.score_functional,
			ps.score_age, ps.rank, ps.is_recommended
		FROM assessment_path_scores ps
		JOIN decision_paths dp ON dp.id = ps.decision_path_id
		WHERE ps.assessment_id = $1
		ORDER BY ps.rank`, id)
	if err != nil {
		return nil, fmt.Errorf("query assessment path scores: %w", err)
	}
	a.PathScores, err = pgx.CollectRows(scoreRows, func(row pgx.CollectableRow) (PathScore, error) {
		var ps PathScore
		err := row.Scan(&ps.DecisionPathID, &ps.PathName, &ps.TotalScore, &ps.ScorePhysical,
			&ps.ScoreFunctional, &ps.ScoreAge, &ps.Rank, &ps.IsRecommended)
		return ps, err
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// foreignKeyViolation is the Postgres SQLSTATE for a failed REFERENCES check.
const foreignKeyViolation = "23503"

func (s *PostgresStore) CreateFeedback(ctx context.Context, f *Feedback) error {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO assessment_feedback (assessment_id, rate, comment)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		f.AssessmentID, f.Rate, f.Comment,
	).Scan(&f.ID, &f.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
		return fmt.Errorf("feedback for assessment %s: %w", f.AssessmentID, ErrAssessmentNotFound)
	}
	if err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}
	return nil
}
