package services

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/olaniyigeorge/iHR/models"
	"github.com/olaniyigeorge/iHR/repository"
)

// DatabaseSeeder populates a fresh database with demo industries, jobs and
// users so the API is usable out of the box
type DatabaseSeeder struct {
	store *repository.Store
}

func NewDatabaseSeeder(store *repository.Store) *DatabaseSeeder {
	return &DatabaseSeeder{store: store}
}

// SeedDatabase seeds the database with initial data (idempotent)
func (s *DatabaseSeeder) SeedDatabase(ctx context.Context) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	users := []models.User{
		{
			Username: "demo",
			Email:    "demo@example.com",
			Password: string(hashedPassword),
			Role:     models.RoleUser,
		},
		{
			Username: "admin",
			Email:    "admin@example.com",
			Password: string(hashedPassword),
			Role:     models.RoleAdmin,
		},
	}
	for _, user := range users {
		if err := s.seedUser(ctx, user); err != nil {
			slog.Error("Failed to seed user", "email", user.Email, "error", err)
		}
	}

	industries := []struct {
		industry models.Industry
		jobs     []models.Job
	}{
		{
			industry: models.Industry{
				Name:        "Technology",
				Description: "Software, hardware and internet companies",
			},
			jobs: []models.Job{
				{
					Title:        "Backend Engineer",
					Description:  "Design and operate server-side systems",
					Requirements: "Go or Python, SQL, distributed systems fundamentals",
					Level:        5,
				},
				{
					Title:        "Frontend Developer",
					Description:  "Build responsive web interfaces",
					Requirements: "JavaScript, React, accessibility basics",
					Level:        3,
				},
				{
					Title:        "Data Scientist",
					Description:  "Turn raw data into product decisions",
					Requirements: "Python, statistics, machine learning",
					Level:        6,
				},
			},
		},
		{
			industry: models.Industry{
				Name:        "Finance",
				Description: "Banking, insurance and fintech",
			},
			jobs: []models.Job{
				{
					Title:        "Financial Analyst",
					Description:  "Model and report on business performance",
					Requirements: "Excel, financial modelling, communication skills",
					Level:        4,
				},
			},
		},
	}
	for _, entry := range industries {
		if err := s.seedIndustry(ctx, entry.industry, entry.jobs); err != nil {
			slog.Error("Failed to seed industry", "name", entry.industry.Name, "error", err)
		}
	}

	slog.Info("Database seeding completed")
	return nil
}

// seedUser seeds a single user (idempotent)
func (s *DatabaseSeeder) seedUser(ctx context.Context, user models.User) error {
	existing, err := s.store.GetUserByEmail(ctx, user.Email)
	if err != nil {
		return fmt.Errorf("error checking user %s: %w", user.Email, err)
	}
	if existing != nil {
		slog.Info("User already exists, skipping", "email", user.Email)
		return nil
	}

	if err := s.store.CreateUser(ctx, &user); err != nil {
		return fmt.Errorf("failed to create user %s: %w", user.Email, err)
	}
	return nil
}

// seedIndustry seeds an industry and its jobs (idempotent by industry name)
func (s *DatabaseSeeder) seedIndustry(ctx context.Context, industry models.Industry, jobs []models.Job) error {
	existing, err := s.store.GetIndustryByName(ctx, industry.Name)
	if err != nil {
		return fmt.Errorf("error checking industry %s: %w", industry.Name, err)
	}
	if existing != nil {
		slog.Info("Industry already exists, skipping", "name", industry.Name)
		return nil
	}

	if err := s.store.CreateIndustry(ctx, &industry); err != nil {
		return fmt.Errorf("failed to create industry %s: %w", industry.Name, err)
	}

	for _, job := range jobs {
		job.IndustryID = industry.ID
		if err := s.store.CreateJob(ctx, &job); err != nil {
			slog.Error("Failed to seed job", "title", job.Title, "error", err)
		}
	}
	return nil
}
