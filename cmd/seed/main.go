// Command seed provisions the permission catalog, the currency catalog, the
// global default categories and the initial admin account. It is idempotent:
// rerunning it updates catalogs in place and never duplicates rows.
//
// Usage:
//
//	ADMIN_EMAIL=me@example.com ADMIN_PASSWORD=... go run ./cmd/seed
//
// When ADMIN_PASSWORD is unset a random one is generated and printed once.
package main

import (
	"fmt"
	"log"
	"net/mail"
	"os"

	"github.com/TeguiHD/Portafolio-sub005/internal/config"
	"github.com/TeguiHD/Portafolio-sub005/internal/database"
	"github.com/TeguiHD/Portafolio-sub005/internal/models"
	"github.com/TeguiHD/Portafolio-sub005/internal/util"

	"github.com/Rhymond/go-money"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var permissions = []models.Permission{
	{Code: models.PermManageUsers, Description: "Manage user accounts"},
	{Code: models.PermManagePerms, Description: "Grant and revoke permissions"},
	{Code: models.PermViewAuditLog, Description: "Read the audit log"},
	{Code: models.PermViewSecurityLog, Description: "Read security events"},
	{Code: models.PermManageQuotes, Description: "Manage quotation requests"},
	{Code: models.PermManageCV, Description: "Edit CV sections"},
}

// snapshot rates against USD; conversions always store the rate used so later
// catalog updates never rewrite history
var currencies = []models.Currency{
	{Code: "USD", Name: "US Dollar", Symbol: "$", RateToBase: decimal.NewFromInt(1), IsBase: true},
	{Code: "EUR", Name: "Euro", Symbol: "€", RateToBase: decimal.RequireFromString("1.08")},
	{Code: "GBP", Name: "Pound Sterling", Symbol: "£", RateToBase: decimal.RequireFromString("1.27")},
	{Code: "CLP", Name: "Chilean Peso", Symbol: "$", RateToBase: decimal.RequireFromString("0.0011")},
	{Code: "JPY", Name: "Japanese Yen", Symbol: "¥", RateToBase: decimal.RequireFromString("0.0067")},
	{Code: "CNY", Name: "Chinese Yuan", Symbol: "¥", RateToBase: decimal.RequireFromString("0.14")},
}

var categories = []models.Category{
	{Name: "Salary", Type: models.TxIncome, Keywords: "salary,payroll,wage", Icon: "briefcase", Color: "#4caf50"},
	{Name: "Freelance", Type: models.TxIncome, Keywords: "freelance,invoice,contract", Icon: "laptop", Color: "#8bc34a"},
	{Name: "Groceries", Type: models.TxExpense, Keywords: "grocery,supermarket,market,food", Icon: "cart", Color: "#ff9800"},
	{Name: "Dining", Type: models.TxExpense, Keywords: "restaurant,cafe,coffee,bar,lunch,dinner", Icon: "utensils", Color: "#f44336"},
	{Name: "Transport", Type: models.TxExpense, Keywords: "uber,taxi,metro,bus,fuel,gas,parking", Icon: "car", Color: "#2196f3"},
	{Name: "Housing", Type: models.TxExpense, Keywords: "rent,mortgage,electricity,water,internet", Icon: "home", Color: "#9c27b0"},
	{Name: "Health", Type: models.TxExpense, Keywords: "pharmacy,doctor,hospital,dental", Icon: "heart", Color: "#e91e63"},
	{Name: "Entertainment", Type: models.TxExpense, Keywords: "cinema,netflix,spotify,game,concert", Icon: "film", Color: "#00bcd4"},
	{Name: "Shopping", Type: models.TxExpense, Keywords: "amazon,store,clothing,electronics", Icon: "bag", Color: "#795548"},
	{Name: "Other", Type: models.TxExpense, Keywords: "", Icon: "dots", Color: "#607d8b"},
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("PF_CONFIG"))
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	db, err := database.Init(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	if err := seedPermissions(db); err != nil {
		log.Fatalf("seed permissions: %v", err)
	}
	if err := seedCurrencies(db, cfg.App.BaseCurrency); err != nil {
		log.Fatalf("seed currencies: %v", err)
	}
	if err := seedCategories(db); err != nil {
		log.Fatalf("seed categories: %v", err)
	}
	if err := seedAdmin(db, cfg); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	fmt.Println("seed complete")
}

func seedPermissions(db *gorm.DB) error {
	for _, p := range permissions {
		row := models.Permission{Code: p.Code}
		if err := db.Where(&row).
			Assign(models.Permission{Description: p.Description}).
			FirstOrCreate(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedCurrencies(db *gorm.DB, base string) error {
	for _, cur := range currencies {
		gm := money.GetCurrency(cur.Code)
		if gm == nil {
			return fmt.Errorf("unknown currency code %q", cur.Code)
		}
		cur.DecimalPlaces = gm.Fraction
		cur.IsBase = cur.Code == base

		var existing models.Currency
		err := db.Where("code = ?", cur.Code).First(&existing).Error
		switch {
		case err == gorm.ErrRecordNotFound:
			if err := db.Create(&cur).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			// refresh the snapshot rate; stored transactions keep theirs
			existing.Name = cur.Name
			existing.Symbol = cur.Symbol
			existing.DecimalPlaces = cur.DecimalPlaces
			existing.RateToBase = cur.RateToBase
			existing.IsBase = cur.IsBase
			if err := db.Save(&existing).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func seedCategories(db *gorm.DB) error {
	for _, cat := range categories {
		row := models.Category{UserID: nil, Name: cat.Name, Type: cat.Type}
		if err := db.Where("user_id IS NULL AND name = ? AND type = ?", cat.Name, cat.Type).
			Assign(models.Category{Keywords: cat.Keywords, Icon: cat.Icon, Color: cat.Color}).
			FirstOrCreate(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedAdmin(db *gorm.DB, cfg *config.Config) error {
	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		return fmt.Errorf("ADMIN_EMAIL is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("invalid ADMIN_EMAIL: %w", err)
	}

	hash := util.HashEmail(cfg.Security.EmailHashSalt, email)

	var existing models.User
	err := db.Where("email_hash = ?", hash).First(&existing).Error
	if err == nil {
		fmt.Println("admin already exists, ensuring permission grants")
		return grantAll(db, existing.ID)
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	password := os.Getenv("ADMIN_PASSWORD")
	generated := false
	if password == "" {
		password, err = util.RandomString(20)
		if err != nil {
			return err
		}
		generated = true
	}

	pwHash, err := bcrypt.GenerateFromPassword([]byte(password), cfg.Security.BcryptCost)
	if err != nil {
		return err
	}
	enc, err := util.EncryptField(cfg.Security.EncryptionKey, email)
	if err != nil {
		return err
	}

	admin := models.User{
		Name:         "Admin",
		EmailHash:    hash,
		EmailEnc:     enc,
		PasswordHash: string(pwHash),
		Role:         models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	if err := grantAll(db, admin.ID); err != nil {
		return err
	}

	if generated {
		fmt.Printf("admin created, one-time password: %s\n", password)
	} else {
		fmt.Println("admin created")
	}
	return nil
}

func grantAll(db *gorm.DB, userID uint) error {
	var perms []models.Permission
	if err := db.Find(&perms).Error; err != nil {
		return err
	}
	for _, p := range perms {
		grant := models.UserPermission{UserID: userID, PermissionID: p.ID}
		if err := db.Where(&grant).FirstOrCreate(&grant).Error; err != nil {
			return err
		}
	}
	return nil
}
