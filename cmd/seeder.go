package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		_, db, err := initDB(cfg.Database, cfg.Database.Source)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		if clearData {
			for _, table := range []string{"lessons_learned", "observations", "incidents", "role_permissions", "user_access", "users"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

		users := []struct {
			Email string
			Name  string
		}{
			{"jane@acme.com", "Jane Operator"},
			{"marcus@acme.com", "Marcus Plant Manager"},
			{"elena@acme.com", "Elena Safety Director"},
		}
		for _, u := range users {
			if rowExists(db, "SELECT 1 FROM users WHERE email = ?", u.Email) {
				fmt.Println("user already exists:", u.Email)
				continue
			}
			if err := db.Exec(
				"INSERT INTO users (email, name, password_hash, is_active, created_at, updated_at) VALUES (?, ?, ?, true, now(), now())",
				u.Email, u.Name, string(hash)).Error; err != nil {
				log.Fatalf("failed to insert user %s: %v", u.Email, err)
			}
			fmt.Println("Seeded user:", u.Email)
		}

		access := []struct {
			Email     string
			Name      string
			RoleTitle string
			Hierarchy string
			Level     int
		}{
			{"jane@acme.com", "Jane Operator", "Plant Operator", "NA>US>OH>Plant1", 5},
			{"marcus@acme.com", "Marcus Plant Manager", "Plant Manager", "NA>US>OH>Plant1", 4},
			{"elena@acme.com", "Elena Safety Director", "Safety Director", "NA", 1},
		}
		for _, a := range access {
			if rowExists(db, "SELECT 1 FROM user_access WHERE email = ?", a.Email) {
				continue
			}
			if err := db.Exec(
				"INSERT INTO user_access (email, name, role_title, hierarchy_string, level, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, ?, true, now(), now())",
				a.Email, a.Name, a.RoleTitle, a.Hierarchy, a.Level).Error; err != nil {
				log.Fatalf("failed to insert user access for %s: %v", a.Email, err)
			}
			fmt.Println("Seeded user access:", a.Email)
		}

		seedRolePermissions(db)

		fmt.Println("Seeding complete")
	},
}

func seedRolePermissions(db *gorm.DB) {
	roles := []struct {
		Title string
		Flags []string
	}{
		{
			Title: "Plant Operator",
			Flags: []string{
				"can_report_injury",
				"can_report_observation",
				"can_view_safety_alerts",
				"can_view_dashboard",
				"can_submit_dsa_ticket",
				"can_safety_recognition",
				"can_view_lessons_learned",
			},
		},
		{
			Title: "Plant Manager",
			Flags: []string{
				"can_report_injury",
				"can_report_observation",
				"can_take_first_report_actions",
				"can_take_quick_fix_actions",
				"can_take_incident_rca_actions",
				"can_view_open_closed_reports",
				"can_view_safety_alerts",
				"can_view_dashboard",
				"can_view_lessons_learned",
				"can_view_pii",
			},
		},
		{
			Title: "Safety Director",
			Flags: []string{
				"can_report_injury",
				"can_report_observation",
				"can_take_first_report_actions",
				"can_take_quick_fix_actions",
				"can_take_incident_rca_actions",
				"can_perform_approval_incident_closure",
				"can_view_manage_osha_logs",
				"can_view_open_closed_reports",
				"can_view_safety_alerts",
				"can_view_lessons_learned",
				"can_approve_lessons_learned",
				"can_view_dashboard",
				"can_submit_dsa_ticket",
				"can_safety_recognition",
				"can_view_pii",
			},
		},
	}

	for _, r := range roles {
		if rowExists(db, "SELECT 1 FROM role_permissions WHERE role_title = ?", r.Title) {
			continue
		}

		columns := "role_title, created_at, updated_at"
		placeholders := "?, now(), now()"
		for _, col := range r.Flags {
			columns += ", " + col
			placeholders += ", true"
		}

		query := fmt.Sprintf("INSERT INTO role_permissions (%s) VALUES (%s)", columns, placeholders)
		if err := db.Exec(query, r.Title).Error; err != nil {
			log.Fatalf("failed to insert role permissions for %s: %v", r.Title, err)
		}
		fmt.Println("Seeded role permissions:", r.Title)
	}
}

func rowExists(db *gorm.DB, query string, args ...interface{}) bool {
	var one int
	return db.Raw(query, args...).Row().Scan(&one) == nil
}
