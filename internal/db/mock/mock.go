package mock

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	applog "menucart/internal/log"
	"menucart/models"
)

// StaffEmail and StaffPassword are the credentials of the seeded staff account.
const (
	StaffEmail    = "cocina@terramar.pe"
	StaffPassword = "ceviche"
)

var sequence atomic.Int64

// New returns an in-memory sqlite database seeded with a two brand restaurant catalog.
func New(ctx context.Context) (*gorm.DB, error) {
	applog.Debug(ctx, "initialising mock database")

	dsn := fmt.Sprintf("file:menucart-mock-%d?mode=memory&cache=shared", sequence.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		PrepareStmt:                              true,
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(models.All()...); err != nil {
		return nil, err
	}

	if err := seed(ctx, db); err != nil {
		return nil, err
	}

	applog.Debug(ctx, "mock database ready")
	return db, nil
}

func seed(ctx context.Context, db *gorm.DB) error {
	applog.Debug(ctx, "seeding mock database")
	tx := db.WithContext(ctx)

	password, err := bcrypt.GenerateFromPassword([]byte(StaffPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	staff := &models.User{
		Name:         "Cocina Miraflores",
		Email:        StaffEmail,
		PasswordHash: string(password),
		Staff:        true,
	}
	if err := tx.Create(staff).Error; err != nil {
		return err
	}

	location := models.Location{Name: "Miraflores", Address: "Av. Larco 345", Phone: "01-4455667"}
	if err := tx.Create(&location).Error; err != nil {
		return err
	}

	fish := models.CriticalIngredient{LocationID: location.ID, Name: "Fish", Available: true}
	lemon := models.CriticalIngredient{LocationID: location.ID, Name: "Lemon", Available: true}
	beef := models.CriticalIngredient{LocationID: location.ID, Name: "Beef", Available: true}
	for _, ingredient := range []*models.CriticalIngredient{&fish, &lemon, &beef} {
		if err := tx.Create(ingredient).Error; err != nil {
			return err
		}
	}

	terramar := models.Brand{Name: "Terramar", Slug: "terramar", Color: "#003366", Active: true}
	fuego := models.Brand{Name: "A Fuego", Slug: "a-fuego", Color: "#B22222", Active: true}
	for _, brand := range []*models.Brand{&terramar, &fuego} {
		if err := tx.Create(brand).Error; err != nil {
			return err
		}
	}

	ceviches := models.Category{BrandID: terramar.ID, Name: "Ceviches", SingularName: "Ceviche", SortOrder: 1, Active: true}
	drinks := models.Category{BrandID: terramar.ID, Name: "Drinks", SortOrder: 2, Active: true}
	grill := models.Category{BrandID: fuego.ID, Name: "Grill", SortOrder: 1, Active: true}
	for _, category := range []*models.Category{&ceviches, &drinks, &grill} {
		if err := tx.Create(category).Error; err != nil {
			return err
		}
	}

	size := models.OptionGroup{Name: "Size", Required: true, Min: 1, Max: 1, Active: true}
	extras := models.OptionGroup{Name: "Extras", Multiple: true, Max: 2, Active: true}
	for _, group := range []*models.OptionGroup{&size, &extras} {
		if err := tx.Create(group).Error; err != nil {
			return err
		}
	}

	options := []*models.Option{
		{GroupID: size.ID, Name: "Regular", ExtraPrice: decimal.Zero, Active: true},
		{GroupID: size.ID, Name: "Large", ExtraPrice: decimal.RequireFromString("5.00"), Active: true},
		{GroupID: extras.ID, Name: "Cancha", ExtraPrice: decimal.RequireFromString("2.00"), Active: true},
		{GroupID: extras.ID, Name: "Sweet Potato", ExtraPrice: decimal.RequireFromString("3.50"), Active: true},
	}
	for _, option := range options {
		if err := tx.Create(option).Error; err != nil {
			return err
		}
	}

	dishes := []struct {
		dish     models.Dish
		variants []models.Variant
		groups   []models.OptionGroup
	}{
		{
			dish: models.Dish{
				BrandID: terramar.ID, CategoryID: ceviches.ID, Name: "Classic", ManualActive: true, SortOrder: 1,
				Description:         "Catch of the day cured in lemon with red onion and chili.",
				CriticalIngredients: []models.CriticalIngredient{fish, lemon},
			},
			variants: []models.Variant{
				{Name: "Personal", Price: decimal.RequireFromString("25.00"), Active: true},
				{Name: "Family", Price: decimal.RequireFromString("45.00"), Active: true},
			},
			groups: []models.OptionGroup{size, extras},
		},
		{
			dish: models.Dish{
				BrandID: terramar.ID, CategoryID: drinks.ID, Name: "Chicha Morada", ManualActive: true, SortOrder: 1,
				Description: "Purple corn cooler.",
			},
			variants: []models.Variant{
				{Name: "Glass", Price: decimal.RequireFromString("6.00"), Active: true},
				{Name: "Jug", Price: decimal.RequireFromString("18.00"), Active: true},
			},
		},
		{
			dish: models.Dish{
				BrandID: fuego.ID, CategoryID: grill.ID, Name: "Lomo Saltado", ManualActive: true, SortOrder: 1,
				Description:         "Wok seared beef with tomato, onion and fries.",
				CriticalIngredients: []models.CriticalIngredient{beef},
			},
			variants: []models.Variant{
				{Name: models.DefaultVariantName, Price: decimal.RequireFromString("32.00"), Active: true},
			},
			groups: []models.OptionGroup{extras},
		},
	}

	for _, entry := range dishes {
		dish := entry.dish
		if err := tx.Omit("CriticalIngredients.*").Create(&dish).Error; err != nil {
			return err
		}
		for _, variant := range entry.variants {
			variant.DishID = dish.ID
			variant.OptionGroups = entry.groups
			if err := tx.Omit("OptionGroups.*").Create(&variant).Error; err != nil {
				return err
			}
		}
	}

	applog.Debug(ctx, "mock database seeded")
	return nil
}
