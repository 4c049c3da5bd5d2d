package main

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm/clause"

	"authgate/internal/config"
	"authgate/internal/database"
	"authgate/internal/domain"
	"authgate/internal/log"
)

type seedUser struct {
	fullname string
	email    string
	password string
	status   domain.UserStatus
}

// The system account takes id 1 so created_by/modified_by of self-service
// registrations point at a real row. It is inactive and cannot sign in.
var users = []seedUser{
	{fullname: "System", email: "system@authgate.local", password: "", status: domain.StatusInactive},
	{fullname: "Demo User", email: "demo@authgate.local", password: "demo1234", status: domain.StatusActive},
	{fullname: "Disabled User", email: "disabled@authgate.local", password: "demo1234", status: domain.StatusInactive},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := log.New(cfg.App.Env)

	db, err := database.Connect(cfg.Database.URL, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("db connection failed")
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("migrate failed")
	}

	for i, su := range users {
		hash := "!"
		if su.password != "" {
			b, err := bcrypt.GenerateFromPassword([]byte(su.password), bcrypt.DefaultCost)
			if err != nil {
				logger.Fatal().Err(err).Msg("hash password")
			}
			hash = string(b)
		}

		u := &domain.User{
			ID:           int64(i + 1),
			Fullname:     su.fullname,
			Email:        su.email,
			PasswordHash: hash,
			Status:       su.status,
			CreatedBy:    domain.SystemActorID,
			ModifiedBy:   domain.SystemActorID,
		}

		res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(u)
		if res.Error != nil {
			logger.Fatal().Err(res.Error).Str("email", su.email).Msg("seed user failed")
		}
		if res.RowsAffected == 0 {
			logger.Info().Str("email", su.email).Msg("user already present")
			continue
		}
		logger.Info().Str("email", su.email).Str("status", string(su.status)).Msg("seeded user")
	}

	// explicit ids leave the postgres sequence behind
	if database.IsPostgres(cfg.Database.URL) {
		if err := db.Exec(`SELECT setval(pg_get_serial_sequence('users', 'id'), (SELECT MAX(id) FROM users))`).Error; err != nil {
			logger.Fatal().Err(err).Msg("reset users id sequence")
		}
	}
}
