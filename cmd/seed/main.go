package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-user-registration/config"
	"github.com/oksasatya/go-user-registration/internal/application"
	"github.com/oksasatya/go-user-registration/internal/container"
	"github.com/oksasatya/go-user-registration/pkg/apperror"
	"github.com/oksasatya/go-user-registration/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)

	ctx := context.Background()
	c, err := container.New(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to build application: %v", err)
	}
	defer c.Close()

	in := application.RegisterUserInput{
		PersonalInfo: &application.PersonalInfoPayload{
			FirstName:   "Selma",
			LastName:    "Nangolo",
			Email:       "selma.nangolo@example.com",
			Phone:       "+264811234567",
			DateOfBirth: "1990-05-15",
			Nationality: "Namibian",
		},
		ResidentialAddress: &application.AddressPayload{
			Street:     "123 Independence Avenue",
			City:       "Windhoek",
			State:      "Khomas",
			PostalCode: "10001",
			Country:    "Namibia",
		},
		PostalAddress: &application.AddressPayload{
			Street:     "PO Box 12345",
			City:       "Windhoek",
			State:      "Khomas",
			PostalCode: "10002",
			Country:    "Namibia",
		},
	}

	u, err := c.UserService.Register(ctx, in)
	switch {
	case apperror.IsConflict(err):
		fmt.Printf("demo user already present (%v)\n", err)
		return
	case err != nil:
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%d email=%s storage=%s\n", u.ID, u.PersonalInfo.Email, cfg.StorageDriver)
}
