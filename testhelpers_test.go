//go:build integration

package main_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/patiklub/service-pets/internal/application"
	"github.com/patiklub/service-pets/internal/repository"
)

// testInfra holds shared test infrastructure.
type testInfra struct {
	DB      *gorm.DB
	Cleanup func()
}

// petStack holds wired-up pet service components backed by real repositories.
type petStack struct {
	Pets     *application.PetService
	Profiles *application.ProfileService
	PetRepo  *repository.GormPetRepository
}

// setupPostgres starts a PostgreSQL testcontainer and returns a connected GORM DB.
func setupPostgres(t *testing.T) *testInfra {
	t.Helper()
	ctx := context.Background()

	pgReq := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test_pets",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: pgReq,
		Started:          true,
	})
	require.NoError(t, err, "failed to start PostgreSQL container")

	pgHost, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	pgPort, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("host=%s port=%s user=test password=test dbname=test_pets sslmode=disable", pgHost, pgPort.Port())

	// Poll until GORM can actually connect and ping.
	var db *gorm.DB
	require.Eventually(t, func() bool {
		var err error
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			return false
		}
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.Ping() == nil
	}, 30*time.Second, 1*time.Second, "PostgreSQL not ready for connections")

	// Enable uuid-ossp and auto-migrate.
	require.NoError(t, db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error)
	require.NoError(t, db.AutoMigrate(&repository.OwnerProfileModel{}, &repository.PetModel{}))

	cleanup := func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate PostgreSQL container: %v", err)
		}
	}

	return &testInfra{DB: db, Cleanup: cleanup}
}

// setupPetStack wires up the pet services against real GORM repositories.
func setupPetStack(t *testing.T, db *gorm.DB) *petStack {
	t.Helper()
	logger, _ := zap.NewDevelopment()

	petRepo := repository.NewGormPetRepository(db)
	ownerRepo := repository.NewGormOwnerRepository(db)
	petSvc := application.NewPetService(petRepo, ownerRepo, logger)
	profileSvc := application.NewProfileService(ownerRepo, petRepo, logger)

	return &petStack{Pets: petSvc, Profiles: profileSvc, PetRepo: petRepo}
}

// createTestPet creates a pet through the service layer and returns its ID.
func createTestPet(t *testing.T, stack *petStack, ownerID uuid.UUID, name string) uuid.UUID {
	t.Helper()
	detail, err := stack.Pets.CreatePet(context.Background(), ownerID, application.CreatePetRequest{
		Name:    name,
		Species: "cat",
	})
	require.NoError(t, err, "failed to create pet")
	return detail.ID
}

// fetchPetRow reads a pet row directly, ignoring the soft-delete filter.
func fetchPetRow(t *testing.T, db *gorm.DB, petID uuid.UUID) repository.PetModel {
	t.Helper()
	var model repository.PetModel
	require.NoError(t, db.Where("id = ?", petID).First(&model).Error)
	return model
}
