package cmd

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/acfortier/garage-backoffice/internal/auth"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample accounts for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		if !cfg.Remote.Configured() {
			log.Fatal("seed: remote store is not configured")
		}

		db, err := initDB(cfg.Remote)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		if clearData {
			for _, table := range []string{"applications", "recruitment_sessions", "appointments", "client_reviews", "team_members", "partners", "users"} {
				if _, err := db.Exec("DELETE FROM " + table); err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		accounts := []struct {
			IDPersonnel string
			Telephone   string
			Prenom      string
			Nom         string
			Grade       string
		}{
			{"1001", "555-0101", "Alex", "Fortier", auth.GradeDev},
			{"1002", "555-0102", "Marie", "Dubois", auth.GradeDirection},
			{"1003", "555-0103", "Lucas", "Girard", auth.GradeRH},
			{"1004", "555-0104", "Emma", "Roy", auth.GradeClient},
		}

		for _, a := range accounts {
			var exists int
			err := db.QueryRow("SELECT 1 FROM users WHERE id_personnel = $1", a.IDPersonnel).Scan(&exists)
			if err == nil {
				fmt.Println("user already exists:", a.IDPersonnel)
				continue
			}

			digest, err := auth.HashPassword("password")
			if err != nil {
				log.Fatalf("failed to hash password: %v", err)
			}

			_, err = db.Exec(
				`INSERT INTO users (id, id_personnel, password, telephone, prenom, nom, grade, photo_url, created_at)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, '', now())`,
				uuid.NewString(), a.IDPersonnel, digest, a.Telephone, a.Prenom, a.Nom, a.Grade,
			)
			if err != nil {
				log.Fatalf("failed to insert user %s: %v", a.IDPersonnel, err)
			}
			fmt.Println("Seeded user:", a.IDPersonnel, "grade:", a.Grade)
		}

		fmt.Println("Seeding complete, default password is \"password\"")
	},
}
