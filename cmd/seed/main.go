package main

import (
	"flag"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/thomaslittle/usrp-backend/internal/config"
	"github.com/thomaslittle/usrp-backend/internal/domain"
	"github.com/thomaslittle/usrp-backend/internal/migration"
)

// Seeds departments and a starter set of users so a fresh install has
// something to log in with. Existing rows are left untouched.
func main() {
	configPath := flag.String("config", "configs/config.local.yaml", "config file path")
	password := flag.String("password", "changeme", "password for all seeded users")
	verbose := flag.Bool("verbose", false, "verbose SQL logging")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logLevel := gormlogger.Warn
	if *verbose {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(mysql.Open(cfg.Database.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := migration.Run(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	departments := []domain.Department{
		{ID: "ems", Name: "Emergency Medical Services"},
		{ID: "pd", Name: "Police Department"},
		{ID: "fd", Name: "Fire Department"},
		{ID: "doj", Name: "Department of Justice"},
	}
	for _, dept := range departments {
		if err := db.Where(domain.Department{ID: dept.ID}).FirstOrCreate(&dept).Error; err != nil {
			log.Fatalf("Failed to seed department %s: %v", dept.ID, err)
		}
	}

	users := []domain.User{
		{Username: "admin", Email: "admin@usrp.local", Role: domain.RoleSuperAdmin, Department: "ems", Rank: "Chief", Callsign: "A-1"},
		{Username: "ems-chief", Email: "ems-chief@usrp.local", Role: domain.RoleAdmin, Department: "ems", Rank: "Chief", Callsign: "M-1"},
		{Username: "ems-captain", Email: "ems-captain@usrp.local", Role: domain.RoleEditor, Department: "ems", Rank: "Captain", Callsign: "M-2"},
		{Username: "ems-medic", Email: "ems-medic@usrp.local", Role: domain.RoleViewer, Department: "ems", Rank: "Paramedic", Callsign: "M-14"},
		{Username: "pd-chief", Email: "pd-chief@usrp.local", Role: domain.RoleAdmin, Department: "pd", Rank: "Chief", Callsign: "P-1"},
	}
	now := time.Now()
	for _, u := range users {
		var existing domain.User
		err := db.Where("username = ?", u.Username).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			log.Fatalf("Failed to check user %s: %v", u.Username, err)
		}
		u.ID = uuid.New().String()
		u.Password = string(hash)
		u.Status = "active"
		u.CreatedAt = now
		u.UpdatedAt = now
		if err := db.Create(&u).Error; err != nil {
			log.Fatalf("Failed to seed user %s: %v", u.Username, err)
		}
		log.Printf("Seeded user %s (%s, %s)", u.Username, u.Role, u.Department)
	}

	log.Println("Seed complete")
}
