package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/gramseva/api/internal/config"
	"github.com/gramseva/api/internal/database"
	"github.com/gramseva/api/internal/model"
	"github.com/gramseva/api/internal/service"
	"github.com/gramseva/api/internal/store"
	"github.com/gramseva/api/internal/validator"
	"github.com/joho/godotenv"
)

func main() {
	officerPassword := flag.String("officer-password", "", "Password for the demo panchayat officer (required)")
	verifierPassword := flag.String("verifier-password", "", "Password for the demo community verifier (required)")
	sampleGrievances := flag.Int("grievances", 0, "Number of sample grievances to create")
	flag.Parse()

	if *officerPassword == "" || *verifierPassword == "" {
		log.Fatal("both -officer-password and -verifier-password are required")
	}

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: no .env file loaded")
	}

	cfg := config.Load()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	lifecycle := service.NewLifecycle(store.NewGormStore(db), nil, cfg.PermissiveTransitions)
	ctx := context.Background()

	seedUser(ctx, lifecycle, model.DemoOfficerUsername, *officerPassword, "Panchayat Officer", model.RoleOfficial)
	seedUser(ctx, lifecycle, model.DemoVerifierUsername, *verifierPassword, "Community Verifier", model.RoleCitizen)

	for i := 0; i < *sampleGrievances; i++ {
		category := model.Categories[i%len(model.Categories)]
		input := &validator.GrievanceInput{
			Title:       fmt.Sprintf("Sample grievance %d about %s", i+1, category),
			Category:    category,
			Description: fmt.Sprintf("Seeded sample grievance number %d, created to exercise the %s category in a development environment.", i+1, category),
			VillageName: "Rampur",
		}

		g, err := lifecycle.Create(ctx, input, "Seed Citizen", fmt.Sprintf("+9190000000%02d", i%100), "")
		if err != nil {
			log.Fatalf("Failed to seed grievance %d: %v", i+1, err)
		}
		log.Printf("Seeded grievance %s (%s)", g.GrievanceNumber, g.Category)
	}

	log.Println("Seeding complete")
}

func seedUser(ctx context.Context, lifecycle *service.Lifecycle, username, password, fullName, role string) {
	input := &validator.UserInput{
		Username:     username,
		Password:     password,
		FullName:     fullName,
		Role:         role,
		MobileNumber: "+910000000000",
	}

	user, err := lifecycle.RegisterUser(ctx, input)
	if err != nil {
		// Already present from an earlier run
		log.Printf("Skipping user %s: %v", username, err)
		return
	}
	log.Printf("Seeded user %s (%s)", user.Username, user.Role)
}
