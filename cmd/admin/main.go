package main

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"folioforge/internal/auth"
	"folioforge/internal/config"
	"folioforge/internal/database"
	"folioforge/internal/portfolio"
)

func main() {
	var (
		username = flag.String("username", "", "初始账号用户名（必填）")
		seedDemo = flag.Bool("seed-demo", false, "同时为该账号创建一份示例作品集")
		dbHost   = flag.String("db-host", "", "数据库 Host（可选，默认读 DATABASE_HOST）")
		dbPort   = flag.Int("db-port", 0, "数据库 Port（可选，默认读 DATABASE_PORT）")
		dbName   = flag.String("db-name", "", "数据库名（可选，默认读 POSTGRES_DB）")
		dbUser   = flag.String("db-user", "", "数据库用户（可选，默认读 POSTGRES_USER）")
		dbPass   = flag.String("db-password", "", "数据库密码（可选，默认读 POSTGRES_PASSWORD）")
		sslMode  = flag.String("db-sslmode", "", "数据库 SSLMODE（可选，默认读 DATABASE_SSLMODE）")
	)
	flag.Parse()

	u := strings.TrimSpace(*username)
	if u == "" {
		log.Fatal("missing required flag: --username")
	}

	dbCfg, err := loadDatabaseConfig(*dbHost, *dbPort, *dbName, *dbUser, *dbPass, *sslMode)
	if err != nil {
		log.Fatalf("load database config: %v", err)
	}

	db, err := database.InitDatabase(dbCfg)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("auto migrate: %v", err)
	}

	var existing database.User
	switch err := db.Where("username = ?", u).First(&existing).Error; {
	case err == nil:
		log.Fatalf("user %q already exists", u)
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		log.Fatalf("query user: %v", err)
	}

	password, err := generateRandomPassword(24)
	if err != nil {
		log.Fatalf("generate password: %v", err)
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	user := database.User{
		Username:     u,
		PasswordHash: hashed,
	}
	if err := db.Create(&user).Error; err != nil {
		log.Fatalf("create user: %v", err)
	}

	if *seedDemo {
		if err := seedDemoPortfolio(db, user.ID); err != nil {
			log.Fatalf("seed demo portfolio: %v", err)
		}
		fmt.Printf("已为账号创建示例作品集。\n")
	}

	fmt.Printf("已创建初始账号：\n")
	fmt.Printf("用户名: %s\n", u)
	fmt.Printf("初始密码: %s\n", password)
	fmt.Printf("提示：该密码仅显示一次，请妥善保存。\n")
}

// seedDemoPortfolio 创建一份内容完整的示例文档，方便新环境直接预览。
func seedDemoPortfolio(db *gorm.DB, userID uint) error {
	doc := portfolio.New("Alex Morgan Portfolio", portfolio.TemplateCustom)
	doc.Profile = portfolio.Profile{
		FullName: "Alex Morgan",
		Title:    "Senior Product Designer",
		Email:    "alex.morgan@example.com",
		Location: "Berlin, Germany",
		Summary:  "Product designer with eight years of experience shipping consumer and B2B products from concept to launch.",
		Skills:   []string{"Product Design", "Design Systems", "Prototyping", "User Research"},
		GitHub:   "https://github.com/alexmorgan",
		LinkedIn: "https://linkedin.com/in/alexmorgan",
	}
	doc.Experience[0] = portfolio.Experience{
		ID:          doc.Experience[0].ID,
		Company:     "Lumen Labs",
		Role:        "Senior Product Designer",
		StartDate:   "2021-03",
		Current:     true,
		Description: "Lead designer for the core analytics product, owning the design system used by four teams.",
	}
	doc.Projects[0] = portfolio.Project{
		ID:           doc.Projects[0].ID,
		Title:        "Atlas Design System",
		Description:  "Company-wide component library and token pipeline.",
		Technologies: []string{"Figma", "Storybook", "TypeScript"},
		Link:         "https://example.com/atlas",
	}
	if err := doc.Normalize(); err != nil {
		return fmt.Errorf("normalize demo document: %w", err)
	}

	content, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode demo document: %w", err)
	}

	record := database.Portfolio{
		Name:       doc.Name,
		TemplateID: string(doc.TemplateID),
		Content:    datatypes.JSON(content),
		UserID:     userID,
		Status:     database.StatusDraft,
	}
	return db.Create(&record).Error
}

func loadDatabaseConfig(host string, port int, name, user, password, sslmode string) (config.DatabaseConfig, error) {
	if strings.TrimSpace(host) == "" {
		host = os.Getenv("DATABASE_HOST")
	}
	if port <= 0 {
		if env := strings.TrimSpace(os.Getenv("DATABASE_PORT")); env != "" {
			p, err := strconv.Atoi(env)
			if err != nil {
				return config.DatabaseConfig{}, fmt.Errorf("parse DATABASE_PORT: %w", err)
			}
			port = p
		}
	}
	if strings.TrimSpace(name) == "" {
		name = os.Getenv("POSTGRES_DB")
	}
	if strings.TrimSpace(name) == "" {
		name = os.Getenv("DB_NAME")
	}
	if strings.TrimSpace(user) == "" {
		user = os.Getenv("POSTGRES_USER")
	}
	if strings.TrimSpace(user) == "" {
		user = os.Getenv("DB_USER")
	}
	if strings.TrimSpace(password) == "" {
		password = os.Getenv("POSTGRES_PASSWORD")
	}
	if strings.TrimSpace(password) == "" {
		password = os.Getenv("DB_PASSWORD")
	}
	if strings.TrimSpace(sslmode) == "" {
		sslmode = os.Getenv("DATABASE_SSLMODE")
	}

	if strings.TrimSpace(host) == "" {
		host = "localhost"
	}
	if port <= 0 {
		port = 5432
	}
	if strings.TrimSpace(sslmode) == "" {
		sslmode = "disable"
	}
	if strings.TrimSpace(name) == "" {
		return config.DatabaseConfig{}, errors.New("database name is required (POSTGRES_DB)")
	}
	if strings.TrimSpace(user) == "" {
		return config.DatabaseConfig{}, errors.New("database user is required (POSTGRES_USER)")
	}
	if strings.TrimSpace(password) == "" {
		return config.DatabaseConfig{}, errors.New("database password is required (POSTGRES_PASSWORD)")
	}

	return config.DatabaseConfig{
		Host:     host,
		Port:     port,
		Name:     name,
		User:     user,
		Password: password,
		SSLMode:  sslmode,
	}, nil
}

func generateRandomPassword(bytesLen int) (string, error) {
	if bytesLen <= 0 {
		bytesLen = 24
	}
	buf := make([]byte, bytesLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
