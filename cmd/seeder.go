package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"
	"github.com/symplora/leave-management/internal/auth"
	"github.com/symplora/leave-management/internal/employee"
	"github.com/symplora/leave-management/internal/policy"
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

		sqlxDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlxDB.Close()

		db, err := openGorm(sqlxDB)
		if err != nil {
			log.Fatalf("failed to open gorm: %v", err)
		}

		if clearData {
			fmt.Println("Clearing existing data...")
			for _, table := range []string{"leave_requests", "employees", "leave_policies", "users"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
		}

		seedEmployees(db)
		seedPolicies(db)
		seedUsers(db, cfg.Security.BCryptCost)

		fmt.Println("Seeding complete")
	},
}

func seedEmployees(db *gorm.DB) {
	samples := []employee.Employee{
		{Name: "Rajesh Kumar", Email: "rajesh.kumar@symplora.com", Department: "Engineering", JoiningDate: date(2023, 1, 16), AnnualLeaveBalance: 24, SickLeaveBalance: 12},
		{Name: "Priya Sharma", Email: "priya.sharma@symplora.com", Department: "HR", JoiningDate: date(2023, 3, 1), AnnualLeaveBalance: 24, SickLeaveBalance: 12},
		{Name: "Amit Patel", Email: "amit.patel@symplora.com", Department: "Finance", JoiningDate: date(2024, 2, 12), AnnualLeaveBalance: 22, SickLeaveBalance: 12},
		{Name: "Sneha Reddy", Email: "sneha.reddy@symplora.com", Department: "Marketing", JoiningDate: date(2024, 7, 1), AnnualLeaveBalance: 12, SickLeaveBalance: 12},
		{Name: "Vikram Singh", Email: "vikram.singh@symplora.com", Department: "Engineering", JoiningDate: date(2025, 1, 6), AnnualLeaveBalance: 24, SickLeaveBalance: 12},
	}

	for _, emp := range samples {
		emp.IsActive = true
		var exists int64
		db.Model(&employee.Employee{}).Where("email = ?", emp.Email).Count(&exists)
		if exists > 0 {
			continue
		}
		if err := db.Create(&emp).Error; err != nil {
			log.Fatalf("failed to seed employee %s: %v", emp.Email, err)
		}
		fmt.Println("Seeded employee:", emp.Email)
	}
}

func seedPolicies(db *gorm.DB) {
	samples := []policy.LeavePolicy{
		{LeaveType: "annual", DisplayName: "Annual Leave", DefaultDays: 24, MinNoticeDays: 3, MaxWorkingDays: 30, RequiresBalance: true, Description: "Pro-rated in the joining year; requires 3 days advance notice."},
		{LeaveType: "sick", DisplayName: "Sick Leave", DefaultDays: 12, MinNoticeDays: 0, MaxWorkingDays: 30, RequiresBalance: true, Description: "Flat yearly entitlement; no advance notice required."},
		{LeaveType: "emergency", DisplayName: "Emergency Leave", DefaultDays: 0, MinNoticeDays: 0, MaxWorkingDays: 30, RequiresBalance: false, Description: "No balance pool; reviewed case by case."},
	}

	for _, p := range samples {
		p.IsActive = true
		var exists int64
		db.Model(&policy.LeavePolicy{}).Where("leave_type = ?", p.LeaveType).Count(&exists)
		if exists > 0 {
			continue
		}
		if err := db.Create(&p).Error; err != nil {
			log.Fatalf("failed to seed policy %s: %v", p.LeaveType, err)
		}
		fmt.Println("Seeded policy:", p.LeaveType)
	}
}

func seedUsers(db *gorm.DB, bcryptCost int) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcryptCost)
	if err != nil {
		log.Fatalf("failed to hash seed password: %v", err)
	}

	adminEmail := "hr.admin@symplora.com"
	var exists int64
	db.Model(&auth.User{}).Where("email = ?", adminEmail).Count(&exists)
	if exists > 0 {
		fmt.Println("HR admin user already exists")
		return
	}

	user := auth.User{
		Email:        adminEmail,
		PasswordHash: string(hash),
		Role:         auth.RoleHR,
		IsActive:     true,
	}
	if err := db.Create(&user).Error; err != nil {
		log.Fatalf("failed to seed HR admin user: %v", err)
	}
	fmt.Println("Seeded HR admin user:", adminEmail)
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
