package repository

import (
	"context"
	"log/slog"

	"github.com/olaniyigeorge/iHR/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store owns all durable CRUD against Postgres. Methods return (nil, nil)
// when the entity is absent; callers decide whether absence is an error.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// AutoMigrate runs database migrations
func (s *Store) AutoMigrate() error {
	return s.db.AutoMigrate(
		&models.User{},
		&models.Industry{},
		&models.Job{},
		&models.Interview{},
		&models.Statement{},
	)
}

// DB exposes the underlying gorm handle for health checks and pool teardown
func (s *Store) DB() *gorm.DB {
	return s.db
}

// User operations

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		slog.Error("Failed to create user", "error", err)
		return err
	}
	slog.Info("User created", "user_id", user.ID, "email", user.Email)
	return nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get user by ID", "error", err, "user_id", id)
		return nil, err
	}
	return &user, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get user by email", "error", err, "email", email)
		return nil, err
	}
	return &user, nil
}

func (s *Store) ListUsers(ctx context.Context, skip, limit int) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Offset(skip).Limit(limit).Find(&users).Error; err != nil {
		slog.Error("Failed to list users", "error", err)
		return nil, err
	}
	return users, nil
}

// Industry operations

func (s *Store) CreateIndustry(ctx context.Context, industry *models.Industry) error {
	if err := s.db.WithContext(ctx).Create(industry).Error; err != nil {
		slog.Error("Failed to create industry", "error", err)
		return err
	}
	slog.Info("Industry created", "industry_id", industry.ID, "name", industry.Name)
	return nil
}

func (s *Store) GetIndustry(ctx context.Context, id string) (*models.Industry, error) {
	var industry models.Industry
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&industry).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get industry", "error", err, "industry_id", id)
		return nil, err
	}
	return &industry, nil
}

func (s *Store) GetIndustryByName(ctx context.Context, name string) (*models.Industry, error) {
	var industry models.Industry
	if err := s.db.WithContext(ctx).Where("name = ?", name).First(&industry).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get industry by name", "error", err, "name", name)
		return nil, err
	}
	return &industry, nil
}

func (s *Store) ListIndustries(ctx context.Context, skip, limit int) ([]models.Industry, error) {
	var industries []models.Industry
	if err := s.db.WithContext(ctx).Offset(skip).Limit(limit).Find(&industries).Error; err != nil {
		slog.Error("Failed to list industries", "error", err)
		return nil, err
	}
	return industries, nil
}

func (s *Store) UpdateIndustry(ctx context.Context, industry *models.Industry) error {
	if err := s.db.WithContext(ctx).Save(industry).Error; err != nil {
		slog.Error("Failed to update industry", "error", err, "industry_id", industry.ID)
		return err
	}
	return nil
}

func (s *Store) DeleteIndustry(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Industry{}).Error; err != nil {
		slog.Error("Failed to delete industry", "error", err, "industry_id", id)
		return err
	}
	slog.Info("Industry deleted", "industry_id", id)
	return nil
}

// Job operations

func (s *Store) CreateJob(ctx context.Context, job *models.Job) error {
	if err := s.db.WithContext(ctx).Create(job).Error; err != nil {
		slog.Error("Failed to create job", "error", err)
		return err
	}
	slog.Info("Job created", "job_id", job.ID, "title", job.Title)
	return nil
}

func (s *Store) GetJob(ctx context.Context, id string) (*models.Job, error) {
	var job models.Job
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&job).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get job", "error", err, "job_id", id)
		return nil, err
	}
	return &job, nil
}

// ListJobs returns a page of jobs, optionally filtered by a case-insensitive
// title search
func (s *Store) ListJobs(ctx context.Context, skip, limit int, search string) ([]models.Job, error) {
	var jobs []models.Job
	query := s.db.WithContext(ctx)
	if search != "" {
		query = query.Where("title ILIKE ?", "%"+search+"%")
	}
	if err := query.Offset(skip).Limit(limit).Find(&jobs).Error; err != nil {
		slog.Error("Failed to list jobs", "error", err, "search", search)
		return nil, err
	}
	return jobs, nil
}

func (s *Store) UpdateJob(ctx context.Context, job *models.Job) error {
	if err := s.db.WithContext(ctx).Save(job).Error; err != nil {
		slog.Error("Failed to update job", "error", err, "job_id", job.ID)
		return err
	}
	return nil
}

func (s *Store) DeleteJob(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Job{}).Error; err != nil {
		slog.Error("Failed to delete job", "error", err, "job_id", id)
		return err
	}
	slog.Info("Job deleted", "job_id", id)
	return nil
}

// Interview operations

func (s *Store) CreateInterview(ctx context.Context, interview *models.Interview) error {
	if err := s.db.WithContext(ctx).Create(interview).Error; err != nil {
		slog.Error("Failed to create interview", "error", err)
		return err
	}
	slog.Info("Interview created", "interview_id", interview.ID, "user_id", interview.UserID)
	return nil
}

func (s *Store) GetInterview(ctx context.Context, id string) (*models.Interview, error) {
	var interview models.Interview
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&interview).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get interview", "error", err, "interview_id", id)
		return nil, err
	}
	return &interview, nil
}

func (s *Store) ListInterviews(ctx context.Context, skip, limit int) ([]models.Interview, error) {
	var interviews []models.Interview
	if err := s.db.WithContext(ctx).Offset(skip).Limit(limit).Find(&interviews).Error; err != nil {
		slog.Error("Failed to list interviews", "error", err)
		return nil, err
	}
	return interviews, nil
}

func (s *Store) UpdateInterview(ctx context.Context, interview *models.Interview) error {
	if err := s.db.WithContext(ctx).Save(interview).Error; err != nil {
		slog.Error("Failed to update interview", "error", err, "interview_id", interview.ID)
		return err
	}
	return nil
}

// UpdateInterviewTurn applies fn to the interview under a row lock so that
// concurrent turns cannot lose score or insight updates. fn returns true when
// the row should be saved; returning false makes the call a read-only no-op.
// The interview as seen by fn is returned either way.
func (s *Store) UpdateInterviewTurn(ctx context.Context, id string, fn func(*models.Interview) (bool, error)) (*models.Interview, error) {
	var interview models.Interview
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).First(&interview).Error; err != nil {
			return err
		}
		changed, err := fn(&interview)
		if err != nil {
			return err
		}
		if !changed {
			return nil
		}
		return tx.Save(&interview).Error
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to update interview turn", "error", err, "interview_id", id)
		return nil, err
	}
	return &interview, nil
}

func (s *Store) DeleteInterview(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Interview{}).Error; err != nil {
		slog.Error("Failed to delete interview", "error", err, "interview_id", id)
		return err
	}
	slog.Info("Interview deleted", "interview_id", id)
	return nil
}

// Statement operations

func (s *Store) CreateStatement(ctx context.Context, statement *models.Statement) error {
	if err := s.db.WithContext(ctx).Create(statement).Error; err != nil {
		slog.Error("Failed to create statement", "error", err)
		return err
	}
	slog.Info("Statement created", "statement_id", statement.ID, "interview_id", statement.InterviewID, "speaker", statement.Speaker)
	return nil
}

func (s *Store) GetStatement(ctx context.Context, id string) (*models.Statement, error) {
	var statement models.Statement
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&statement).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get statement", "error", err, "statement_id", id)
		return nil, err
	}
	return &statement, nil
}

// GetStatementsByInterview returns the full transcript in chronological
// order; created_at breaks ties between statements sharing a timestamp
func (s *Store) GetStatementsByInterview(ctx context.Context, interviewID string) ([]models.Statement, error) {
	var statements []models.Statement
	err := s.db.WithContext(ctx).
		Where("interview_id = ?", interviewID).
		Order("timestamp ASC, created_at ASC").
		Find(&statements).Error
	if err != nil {
		slog.Error("Failed to get statements by interview", "error", err, "interview_id", interviewID)
		return nil, err
	}
	return statements, nil
}

func (s *Store) ListStatements(ctx context.Context, skip, limit int) ([]models.Statement, error) {
	var statements []models.Statement
	if err := s.db.WithContext(ctx).Offset(skip).Limit(limit).Find(&statements).Error; err != nil {
		slog.Error("Failed to list statements", "error", err)
		return nil, err
	}
	return statements, nil
}

func (s *Store) UpdateStatement(ctx context.Context, statement *models.Statement) error {
	if err := s.db.WithContext(ctx).Save(statement).Error; err != nil {
		slog.Error("Failed to update statement", "error", err, "statement_id", statement.ID)
		return err
	}
	return nil
}

func (s *Store) DeleteStatement(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Statement{}).Error; err != nil {
		slog.Error("Failed to delete statement", "error", err, "statement_id", id)
		return err
	}
	slog.Info("Statement deleted", "statement_id", id)
	return nil
}
