package models

// This file serves as the central export point for all database models
// Import this package to access all model types

// Database schema overview:
// 1. users - Registered accounts, authenticated with bcrypt + JWT
// 2. industries - Named job categories
// 3. jobs - Role specifications, each belonging to one industry
// 4. interviews - One simulated HR conversation per row, linking a user and a job
// 5. statements - The ordered utterances making up an interview's transcript
//
// InterviewContext (context.go) is a derived snapshot, never persisted as its
// own table; it is the unit cached in Redis and passed through the
// conversation pipeline.
