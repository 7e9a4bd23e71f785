// Atlas - Small business ERP backend
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/aethra/atlas/internal/api"
	"github.com/aethra/atlas/internal/auth"
	"github.com/aethra/atlas/internal/config"
	"github.com/aethra/atlas/internal/database"
	"github.com/aethra/atlas/internal/models"
	"github.com/aethra/atlas/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var Version = "1.0.0"

func main() {
	// Missing .env is fine; real deployments set the environment directly
	_ = godotenv.Load()

	if len(os.Args) > 1 {
		runCLI()
		return
	}
	startServer()
}

func startServer() {
	fmt.Printf("Atlas %s - Starting...\n", Version)

	cfg := config.Load()
	if cfg.Auth.SecretKey == "" {
		cfg.Auth.SecretKey = config.GenerateSecretKey()
		log.Println("SECRET_KEY not set, generated an ephemeral one; sessions will not survive restarts")
	}
	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	db := connectDB(cfg)
	log.Println("Database connected")

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Migrations complete")

	router := buildRouter(cfg, db)

	log.Printf("Server starting on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func buildRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	auxTokens := auth.NewAuxTokenService(cfg.Auth.SecretKey)
	sessions := auth.NewSessionService(db, cfg.Auth.SessionTTLHours, auxTokens)

	invoiceService := services.NewInvoiceService(db)
	taskService := services.NewTaskService(db)
	metricsService := services.NewMetricsService(db)

	handlers := &api.Handlers{
		Auth:       api.NewAuthHandler(db, sessions),
		Projects:   api.NewProjectHandler(db),
		Tasks:      api.NewTaskHandler(db, taskService),
		Timesheets: api.NewTimesheetHandler(db),
		Catalog:    api.NewCatalogHandler(db),
		Orders:     api.NewOrderHandler(db),
		Invoices:   api.NewInvoiceHandler(db, invoiceService),
		Expenses:   api.NewExpenseHandler(db),
		Analytics:  api.NewAnalyticsHandler(db, metricsService),
	}
	return api.SetupRouter(cfg, api.NewMiddleware(sessions), handlers)
}

func connectDB(cfg *config.Config) *gorm.DB {
	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case "postgres", "":
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.User,
			cfg.Database.Password, cfg.Database.Name, cfg.Database.SSLMode)
		dialector = postgres.Open(dsn)
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.Database.User, cfg.Database.Password, cfg.Database.Host,
			cfg.Database.Port, cfg.Database.Name)
		dialector = mysql.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(cfg.Database.Name)
	default:
		log.Fatalf("Unknown DB_DRIVER: %s", cfg.Database.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	return db
}

// CLI
func runCLI() {
	cmd := os.Args[1]
	switch cmd {
	case "serve":
		startServer()
	case "setup":
		runSetup()
	case "migrate":
		db := connectDB(config.Load())
		if err := database.RunMigrations(db); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		fmt.Println("Migrations complete")
	case "user":
		runUserCmd()
	case "rollup":
		runRollupCmd()
	default:
		printUsage()
	}
}

func printUsage() {
	fmt.Println(`Usage: atlas <command>
Commands:
  setup                             Interactive setup wizard
  serve                             Start server
  migrate                           Run migrations
  user list                         List users
  user create --email= --password=  Create user
  rollup [--granularity=day] [--hours=24]  Aggregate analytics events`)
}

func runUserCmd() {
	if len(os.Args) < 3 {
		printUsage()
		return
	}
	db := connectDB(config.Load())
	switch os.Args[2] {
	case "list":
		var users []models.User
		db.Order("email").Find(&users)
		for _, u := range users {
			fmt.Printf("%s <%s>\n", u.FullName(), u.Email)
		}
	case "create":
		email := getFlag("--email")
		password := getFlag("--password")
		if email == "" || password == "" {
			printUsage()
			return
		}
		hash, err := auth.HashPassword(password)
		if err != nil {
			log.Fatalf("Failed: %v", err)
		}
		if err := db.Create(&models.User{
			Email:        email,
			PasswordHash: hash,
			FirstName:    getFlag("--first"),
			LastName:     getFlag("--last"),
			IsActive:     true,
		}).Error; err != nil {
			log.Fatalf("Failed: %v", err)
		}
		fmt.Printf("User created: %s\n", email)
	default:
		printUsage()
	}
}

func runRollupCmd() {
	granularity := models.Granularity(getFlag("--granularity"))
	if granularity == "" {
		granularity = models.GranularityDay
	}
	if granularity != models.GranularityHour && granularity != models.GranularityDay {
		log.Fatalf("Unknown granularity: %s", granularity)
	}

	hours := 24
	if raw := getFlag("--hours"); raw != "" {
		if _, err := fmt.Sscanf(raw, "%d", &hours); err != nil || hours <= 0 {
			log.Fatalf("Invalid --hours: %s", raw)
		}
	}

	db := connectDB(config.Load())
	until := time.Now().UTC()
	since := until.Add(-time.Duration(hours) * time.Hour)

	updated, err := services.NewMetricsService(db).Rollup(granularity, since, until)
	if err != nil {
		log.Fatalf("Rollup failed: %v", err)
	}
	fmt.Printf("Rollup complete: %d metric rows written (%s, last %dh)\n", updated, granularity, hours)
}

func getFlag(name string) string {
	prefix := name + "="
	for _, arg := range os.Args {
		if strings.HasPrefix(arg, prefix) {
			return arg[len(prefix):]
		}
	}
	return ""
}

// Interactive Setup
func runSetup() {
	reader := bufio.NewReader(os.Stdin)
	fmt.Println("\n=== Atlas Setup Wizard ===")
	fmt.Println()

	fmt.Println("Database Configuration:")
	dbDriver := prompt(reader, "  DB Driver (postgres/mysql/sqlite)", "postgres")
	dbHost := prompt(reader, "  DB Host", "localhost")
	dbPort := prompt(reader, "  DB Port", "5432")
	dbUser := prompt(reader, "  DB User", "atlas")
	dbPassword := promptPassword(reader, "  DB Password")
	dbName := prompt(reader, "  DB Name", "atlas")

	os.Setenv("DB_DRIVER", dbDriver)
	os.Setenv("DB_HOST", dbHost)
	os.Setenv("DB_PORT", dbPort)
	os.Setenv("DB_USER", dbUser)
	os.Setenv("DB_PASSWORD", dbPassword)
	os.Setenv("DB_NAME", dbName)

	fmt.Println("\nConnecting to database...")
	db := connectDB(config.Load())
	fmt.Println("Connected!")

	fmt.Println("Running migrations...")
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	fmt.Println("Migrations complete!")

	fmt.Println("\nAdmin User:")
	adminEmail := prompt(reader, "  Email", "admin@example.com")
	adminPassword := promptPassword(reader, "  Password")
	adminFirst := prompt(reader, "  First Name", "Admin")
	adminLast := prompt(reader, "  Last Name", "User")

	hash, err := auth.HashPassword(adminPassword)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}
	user := models.User{
		Email:        adminEmail,
		PasswordHash: hash,
		FirstName:    adminFirst,
		LastName:     adminLast,
		IsActive:     true,
		Roles:        []models.Role{{Name: "admin"}},
	}
	if err := db.Create(&user).Error; err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}
	fmt.Printf("Admin user '%s' created!\n", adminEmail)

	secretKey := config.GenerateSecretKey()

	fmt.Println("\nServer Configuration:")
	port := prompt(reader, "  Port", "8090")
	modules := prompt(reader, "  Modules (comma list, empty = all)", "")

	fmt.Println("\n=== Setup Complete ===")
	fmt.Println("\nAdd these to your systemd service or docker-compose:")
	fmt.Println("----------------------------------------")
	fmt.Printf("DB_DRIVER=%s\n", dbDriver)
	fmt.Printf("DB_HOST=%s\n", dbHost)
	fmt.Printf("DB_PORT=%s\n", dbPort)
	fmt.Printf("DB_USER=%s\n", dbUser)
	fmt.Printf("DB_PASSWORD=%s\n", dbPassword)
	fmt.Printf("DB_NAME=%s\n", dbName)
	fmt.Printf("SECRET_KEY=%s\n", secretKey)
	fmt.Printf("PORT=%s\n", port)
	if modules != "" {
		fmt.Printf("MODULES=%s\n", modules)
	}
	fmt.Println("----------------------------------------")
	fmt.Printf("\nStart server: atlas serve\n")
	fmt.Printf("Login: %s / [your password]\n", adminEmail)
}

func prompt(reader *bufio.Reader, label, defaultVal string) string {
	if defaultVal != "" {
		fmt.Printf("%s [%s]: ", label, defaultVal)
	} else {
		fmt.Printf("%s: ", label)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return defaultVal
	}
	return input
}

func promptPassword(reader *bufio.Reader, label string) string {
	fmt.Printf("%s: ", label)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}
